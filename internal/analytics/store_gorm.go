package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
)

// GormStore keeps download records in the gorm database (sqlite by default)
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AddDownload(ctx context.Context, rec *database.DownloadRecord, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("insert download record: %w", err)
		}

		res := tx.Model(&database.GlobalStats{}).
			Where("id = ?", database.GlobalStatsID).
			Updates(map[string]interface{}{
				"total_downloads": gorm.Expr("total_downloads + ?", 1),
				"last_updated":    now,
			})
		if res.Error != nil {
			return fmt.Errorf("increment global stats: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// First use: the recount already includes the row inserted above
		var count int64
		if err := tx.Model(&database.DownloadRecord{}).Count(&count).Error; err != nil {
			return fmt.Errorf("recount download records: %w", err)
		}
		stats := &database.GlobalStats{
			ID:             database.GlobalStatsID,
			TotalDownloads: count,
			LastUpdated:    now,
		}
		if err := tx.Create(stats).Error; err != nil {
			return fmt.Errorf("create global stats: %w", err)
		}
		return nil
	})
}

func (s *GormStore) CountDownloads(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&database.DownloadRecord{}).Count(&count).Error
	return count, err
}

func (s *GormStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&database.DownloadRecord{}).
		Where("created_at >= ?", since.UTC()).
		Count(&count).Error
	return count, err
}

func (s *GormStore) CountBy(ctx context.Context, field GroupField) (map[string]int64, error) {
	if !field.valid() {
		return nil, fmt.Errorf("unsupported group field %q", field)
	}

	var rows []struct {
		Label string
		Total int64
	}
	err := s.db.WithContext(ctx).Model(&database.DownloadRecord{}).
		Select(string(field) + " AS label, COUNT(*) AS total").
		Group(string(field)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Total
	}
	return counts, nil
}

func (s *GormStore) ListDownloads(ctx context.Context, limit int) ([]database.DownloadRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []database.DownloadRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) TotalValues(ctx context.Context) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).Model(&database.DownloadRecord{}).Pluck("total_value", &values).Error
	return values, err
}

func (s *GormStore) Stats(ctx context.Context) (*database.GlobalStats, error) {
	var stats database.GlobalStats
	err := s.db.WithContext(ctx).First(&stats, database.GlobalStatsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ Store = (*GormStore)(nil)
