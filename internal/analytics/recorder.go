package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// Summary is the headline counter shown on the dashboard
type Summary struct {
	TotalDownloads int64     `json:"totalDownloads"`
	LastUpdated    time.Time `json:"lastUpdated"`
	Recounted      bool      `json:"recounted"`
}

// DetailedStats breaks the download records down for the dashboard charts
type DetailedStats struct {
	TotalDownloads int64            `json:"totalDownloads"`
	ByForum        map[string]int64 `json:"byForum"`
	ByState        map[string]int64 `json:"byState"`
	ByValueRange   map[string]int64 `json:"byValueRange"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}

// Recorder writes one record per generated document and answers the
// analytics reads
type Recorder struct {
	store       Store
	logger      *logger.Logger
	loc         *time.Location
	recentLimit int
	now         func() time.Time
}

// NewRecorder creates a recorder. loc decides where "today" starts.
func NewRecorder(store Store, loc *time.Location, recentLimit int, logger *logger.Logger) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	if recentLimit <= 0 {
		recentLimit = 50
	}
	return &Recorder{
		store:       store,
		logger:      logger,
		loc:         loc,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

// Record stores a summary of rec and bumps the global counter
func (r *Recorder) Record(ctx context.Context, rec *complaint.Record, tier complaint.ForumTier) (*database.DownloadRecord, error) {
	now := r.now().UTC()
	row := &database.DownloadRecord{
		ComplainantName:   orDefault(rec.ComplainantName, "Unknown"),
		OppositePartyName: orDefault(rec.OppositePartyName, "Unknown"),
		ForumType:         tier.Label(),
		TotalValue:        orDefault(rec.TotalValue, "0"),
		District:          orDefault(rec.District, "Unknown"),
		State:             orDefault(rec.State, "Unknown"),
		CreatedAt:         now,
	}

	if err := r.store.AddDownload(ctx, row, now); err != nil {
		r.logger.Error("Failed to record download",
			"forum", row.ForumType,
			"state", row.State,
			"error", err,
		)
		return nil, &PersistenceError{Op: "record", Err: err}
	}

	r.logger.Info("Download recorded",
		"id", row.ID,
		"forum", row.ForumType,
		"state", row.State,
	)
	return row, nil
}

// Total counts every download record
func (r *Recorder) Total(ctx context.Context) (int64, error) {
	count, err := r.store.CountDownloads(ctx)
	if err != nil {
		return 0, &PersistenceError{Op: "total", Err: err}
	}
	return count, nil
}

// Today counts records created at or after local midnight
func (r *Recorder) Today(ctx context.Context) (int64, error) {
	count, err := r.store.CountSince(ctx, r.midnight())
	if err != nil {
		return 0, &PersistenceError{Op: "today", Err: err}
	}
	return count, nil
}

func (r *Recorder) midnight() time.Time {
	now := r.now().In(r.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc).UTC()
}

// Summary returns the stats singleton, falling back to a recount when it
// has not been created yet
func (r *Recorder) Summary(ctx context.Context) (*Summary, error) {
	stats, err := r.store.Stats(ctx)
	if err == nil {
		return &Summary{TotalDownloads: stats.TotalDownloads, LastUpdated: stats.LastUpdated}, nil
	}
	if !errors.Is(err, ErrStatsNotFound) {
		return nil, &PersistenceError{Op: "summary", Err: err}
	}

	count, err := r.store.CountDownloads(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "summary", Err: err}
	}
	r.logger.Debug("Stats singleton missing, recounted", "total", count)
	return &Summary{TotalDownloads: count, LastUpdated: r.now().UTC(), Recounted: true}, nil
}

// Detailed groups records by forum, state and value bracket. The four
// reads run concurrently.
func (r *Recorder) Detailed(ctx context.Context) (*DetailedStats, error) {
	var (
		total            int64
		byForum, byState map[string]int64
		values           []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = r.store.CountDownloads(gctx)
		return err
	})
	g.Go(func() (err error) {
		byForum, err = r.store.CountBy(gctx, ByForum)
		return err
	})
	g.Go(func() (err error) {
		byState, err = r.store.CountBy(gctx, ByState)
		return err
	})
	g.Go(func() (err error) {
		values, err = r.store.TotalValues(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &PersistenceError{Op: "detailed", Err: err}
	}

	byValue := make(map[string]int64, len(complaint.ForumTiers))
	for _, v := range values {
		byValue[complaint.ClassifyText(v).Bracket()]++
	}

	return &DetailedStats{
		TotalDownloads: total,
		ByForum:        byForum,
		ByState:        byState,
		ByValueRange:   byValue,
		GeneratedAt:    r.now().UTC(),
	}, nil
}

// Recent lists the newest records, capped at the configured limit
func (r *Recorder) Recent(ctx context.Context, n int) ([]database.DownloadRecord, error) {
	if n <= 0 || n > r.recentLimit {
		n = r.recentLimit
	}
	records, err := r.store.ListDownloads(ctx, n)
	if err != nil {
		return nil, &PersistenceError{Op: "recent", Err: err}
	}
	if records == nil {
		records = []database.DownloadRecord{}
	}
	return records, nil
}

// Ping checks the store is reachable
func (r *Recorder) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
