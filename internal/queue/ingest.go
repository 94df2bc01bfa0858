package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grantgraph/grantgraph/internal/archive"
	"github.com/grantgraph/grantgraph/internal/storage"
	"github.com/grantgraph/grantgraph/internal/util"
	"github.com/grantgraph/grantgraph/pkg/graph"
	"github.com/grantgraph/grantgraph/pkg/lease"
	"github.com/grantgraph/grantgraph/pkg/logger"
	pgxstore "github.com/grantgraph/grantgraph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueueIngestMsg asks a worker to ingest one archive year. Dir selects a
// local directory of archives; when empty the archive comes from object
// storage.
type QueueIngestMsg struct {
	Year int    `json:"year"`
	Dir  string `json:"dir,omitempty"`
}

const fetchTries = 3

// ProcessIngestMessage ingests one year's archive into the award graph.
// Failed records inside the archive are logged and skipped; the message
// only fails when the archive itself cannot be read.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(QueueIngestMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}
	if data.Year == 0 {
		return fmt.Errorf("ingest message names no year")
	}

	// One ingest per year across all workers.
	locks := lease.New(conn)
	return locks.WithLease(ctx, fmt.Sprintf("ingest:%d", data.Year), lease.Options{
		TTL: 30 * time.Minute,
	}, func(ctx context.Context) error {
		return ingestYear(ctx, s3Client, conn, data)
	})
}

func ingestYear(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	data *QueueIngestMsg,
) error {
	var (
		reader *archive.Reader
		err    error
	)
	if data.Dir != "" {
		reader, err = archive.NewExplorer(data.Dir).Open(data.Year)
	} else {
		var blob []byte
		err = util.RetryErrWithContext(ctx, fetchTries, func(ctx context.Context) error {
			blob, err = storage.GetArchive(ctx, s3Client, data.Year)
			return err
		})
		if err == nil {
			reader, err = archive.NewReader(bytes.NewReader(blob), int64(len(blob)))
		}
	}
	if err != nil {
		return err
	}
	defer reader.Close()

	client := graph.NewClient(pgxstore.New(conn))
	stats, err := client.ProcessSource(ctx, reader)
	if err != nil {
		return err
	}

	logger.Info("[Queue] Year ingested",
		"year", data.Year, "processed", stats.Processed, "failed", stats.Failed)
	return nil
}
