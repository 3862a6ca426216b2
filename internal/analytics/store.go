// Package analytics records generated complaint documents and serves the
// aggregate reads behind the analytics dashboard.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
)

// ErrStatsNotFound is returned when the stats singleton has not been created
var ErrStatsNotFound = errors.New("global stats not found")

// GroupField is a column download records can be grouped by
type GroupField string

const (
	ByForum GroupField = "forum_type"
	ByState GroupField = "state"
)

func (f GroupField) valid() bool {
	return f == ByForum || f == ByState
}

// Store is the document store behind the recorder
type Store interface {
	// AddDownload inserts rec and increments the stats singleton as one
	// unit of work. A missing singleton is created from a recount.
	AddDownload(ctx context.Context, rec *database.DownloadRecord, now time.Time) error
	CountDownloads(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountBy(ctx context.Context, field GroupField) (map[string]int64, error)
	ListDownloads(ctx context.Context, limit int) ([]database.DownloadRecord, error)
	TotalValues(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*database.GlobalStats, error)
	Ping(ctx context.Context) error
}

// PersistenceError is an analytics write or read failure. It is logged and
// reported, never shown to the complainant.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("analytics %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
