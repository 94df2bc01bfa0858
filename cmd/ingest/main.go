package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/grantgraph/grantgraph/internal/archive"
	"github.com/grantgraph/grantgraph/internal/fetch"
	"github.com/grantgraph/grantgraph/internal/storage"
	"github.com/grantgraph/grantgraph/internal/util"
	"github.com/grantgraph/grantgraph/pkg/graph"
	"github.com/grantgraph/grantgraph/pkg/logger"
	"github.com/grantgraph/grantgraph/pkg/logger/console"
	"github.com/grantgraph/grantgraph/pkg/normalize"
	pgxstore "github.com/grantgraph/grantgraph/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// The ingest command drives the pipeline end to end without a worker:
// download year archives, optionally mirror them to object storage, and
// load them into the award graph.
func main() {
	util.LoadEnv()

	years := flag.String("years", "", "comma-separated years to ingest, e.g. 2007,2009")
	dir := flag.String("dir", ".", "directory holding (or receiving) year archives")
	download := flag.Bool("download", false, "download archives before ingesting")
	upload := flag.Bool("upload", false, "mirror downloaded archives to object storage")
	parallel := flag.Int("parallel", 4, "concurrent downloads")
	flag.Parse()

	debug := util.EnvBool("DEBUG", false)
	consoleLogger := console.New(console.Options{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	yearList, err := parseYears(*years)
	if err != nil {
		logger.Fatal("Invalid -years", "err", err)
	}
	if len(yearList) == 0 {
		logger.Fatal("No years given, pass -years")
	}

	if *download {
		downloader := fetch.NewDownloader(util.EnvOr("AWARDS_URL", ""))
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(*parallel)
		for _, year := range yearList {
			year := year
			group.Go(func() error {
				_, err := downloader.DownloadYear(groupCtx, year, *dir)
				return err
			})
		}
		if err := group.Wait(); err != nil {
			logger.Fatal("Download failed", "err", err)
		}
	}

	if *upload {
		s3Client := storage.NewS3Client(ctx)
		for _, year := range yearList {
			data, err := os.ReadFile(archivePath(*dir, year))
			if err != nil {
				logger.Fatal("Failed to read archive", "year", year, "err", err)
			}
			key, err := storage.PutArchive(ctx, s3Client, year, bytes.NewReader(data))
			if err != nil {
				logger.Fatal("Upload failed", "year", year, "err", err)
			}
			logger.Info("Archive uploaded", "year", year, "key", key)
		}
	}

	databaseURL := util.Env("DATABASE_URL")
	if err := pgxstore.Migrate(databaseURL); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}
	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer conn.Close()

	st := pgxstore.New(conn)
	if err := st.EnsureCountries(ctx, normalize.CountrySeed()); err != nil {
		logger.Fatal("Failed to seed countries", "err", err)
	}

	// One worker per year, each with its own client. The pool and the
	// unique constraints behind it arbitrate cross-year collisions.
	explorer := archive.NewExplorer(*dir)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(*parallel)
	for _, year := range yearList {
		year := year
		group.Go(func() error {
			reader, err := explorer.Open(year)
			if err != nil {
				return fmt.Errorf("failed to open archive for %d: %w", year, err)
			}
			defer reader.Close()

			stats, err := graph.NewClient(st).ProcessSource(groupCtx, reader)
			if err != nil {
				return fmt.Errorf("ingestion aborted for %d: %w", year, err)
			}
			logger.Info("Year ingested", "year", year,
				"processed", stats.Processed, "failed", stats.Failed)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Fatal("Ingestion failed", "err", err)
	}
}

func parseYears(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}

func archivePath(dir string, year int) string {
	return dir + "/" + strconv.Itoa(year) + ".zip"
}
