// Package fetch downloads yearly award archives from the funding agency's
// public download endpoint. Each year arrives as one zip of XML documents
// and is written to disk as <year>.zip.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/grantgraph/grantgraph/internal/util"
	"github.com/grantgraph/grantgraph/pkg/logger"
)

const defaultBaseURL = "https://www.nsf.gov/awardsearch/download"

// Downloader fetches year archives over HTTP.
type Downloader struct {
	client  *http.Client
	baseURL string
	retries int
}

// NewDownloader creates a Downloader against the public endpoint. Pass a
// non-empty baseURL to target a different host, e.g. a mirror.
func NewDownloader(baseURL string) *Downloader {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Downloader{
		client:  &http.Client{Timeout: 5 * time.Minute},
		baseURL: baseURL,
		retries: 3,
	}
}

// DownloadYear fetches one year's archive and writes it to dir/<year>.zip.
// The write goes through a temp file so a partial download never shadows a
// complete archive.
func (d *Downloader) DownloadYear(ctx context.Context, year int, dir string) (string, error) {
	outPath := filepath.Join(dir, fmt.Sprintf("%d.zip", year))

	size, err := util.RetryWithContext(ctx, d.retries, func(ctx context.Context) (int64, error) {
		return d.fetchToFile(ctx, year, outPath)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download archive for %d: %w", year, err)
	}

	logger.Info("[Fetch] Archive written", "year", year, "path", outPath, "bytes", size)
	return outPath, nil
}

// DownloadRange fetches every year in [start, end], inclusive. A failed
// year aborts the range.
func (d *Downloader) DownloadRange(ctx context.Context, start, end int, dir string) ([]string, error) {
	var paths []string
	for year := start; year <= end; year++ {
		path, err := d.DownloadYear(ctx, year, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (d *Downloader) fetchToFile(ctx context.Context, year int, outPath string) (int64, error) {
	form := url.Values{
		"DownloadFileName": {strconv.Itoa(year)},
		"All":              {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".download-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return written, os.Rename(tmp.Name(), outPath)
}
