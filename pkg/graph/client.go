// Package graph builds the award graph one record at a time: scalar fields
// are extracted and validated, every entity and edge goes through the
// identity-resolution protocol, and each record's subgraph commits or is
// discarded atomically.
package graph

import (
	"context"
	"errors"
	"io"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/logger"
	"github.com/grantgraph/grantgraph/pkg/store"

	"github.com/go-playground/validator"
)

// RecordSource yields award records until io.EOF, e.g. an archive reader.
type RecordSource interface {
	Next() (*common.Record, error)
}

// Client drives graph construction against a storage backend.
type Client struct {
	store    store.Storage
	validate *validator.Validate

	// A record that loses a natural-key race at commit is rebuilt against
	// the winner's rows this many additional times.
	conflictRetries int
}

// NewClient creates a graph client for the given storage backend.
func NewClient(st store.Storage) *Client {
	return &Client{
		store:           st,
		validate:        validator.New(),
		conflictRetries: 1,
	}
}

// Stats summarizes one batch of processed records.
type Stats struct {
	Processed int
	Failed    int
}

// ProcessSource drains a record source, building each record's subgraph.
// Records are processed strictly sequentially; a failed record is logged,
// counted and skipped without affecting previously committed records.
func (c *Client) ProcessSource(ctx context.Context, source RecordSource) (Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		if err := c.ProcessRecord(ctx, *record); err != nil {
			stats.Failed++
			logger.Error("[Graph] Record discarded", "award", record.Code, "err", err)
			continue
		}
		stats.Processed++
	}
}

// ProcessRecord builds and commits one record's subgraph. A commit-time
// natural-key conflict means another scope persisted the same new entity
// first; the record is rebuilt in a fresh scope so it adopts the winner's
// rows instead of staging its own.
func (c *Client) ProcessRecord(ctx context.Context, record common.Record) error {
	var err error
	for attempt := 0; attempt <= c.conflictRetries; attempt++ {
		err = c.buildRecord(ctx, record)
		if err == nil || !errors.Is(err, store.ErrConflict) {
			return err
		}
		logger.Warn("[Graph] Commit lost a natural-key race, rebuilding record",
			"award", record.Code, "attempt", attempt+1)
	}
	return err
}
