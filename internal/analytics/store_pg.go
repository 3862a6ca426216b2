package analytics

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenPostgres opens a pgx-backed connection pool and verifies it
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// MigratePostgres applies the embedded goose migrations
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// PGStore keeps download records in PostgreSQL through database/sql
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) AddDownload(ctx context.Context, rec *database.DownloadRecord, now time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO form_downloads
			(complainant_name, opposite_party_name, forum_type, total_value, district, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.ComplainantName, rec.OppositePartyName, rec.ForumType,
		rec.TotalValue, rec.District, rec.State, rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert download record: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE global_stats SET total_downloads = total_downloads + 1, last_updated = $1 WHERE id = $2`,
		now, database.GlobalStatsID,
	)
	if err != nil {
		return fmt.Errorf("increment global stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment global stats: %w", err)
	}

	if affected == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO global_stats (id, total_downloads, last_updated)
			SELECT $1, COUNT(*), $2 FROM form_downloads
			ON CONFLICT (id) DO UPDATE
				SET total_downloads = global_stats.total_downloads + 1,
				    last_updated = EXCLUDED.last_updated`,
			database.GlobalStatsID, now,
		)
		if err != nil {
			return fmt.Errorf("create global stats: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	rec.ID = uint(id)
	return nil
}

func (s *PGStore) CountDownloads(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM form_downloads`).Scan(&count)
	return count, err
}

func (s *PGStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM form_downloads WHERE created_at >= $1`, since,
	).Scan(&count)
	return count, err
}

func (s *PGStore) CountBy(ctx context.Context, field GroupField) (map[string]int64, error) {
	if !field.valid() {
		return nil, fmt.Errorf("unsupported group field %q", field)
	}

	// field is one of a fixed set of column names
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %[1]s, COUNT(*) FROM form_downloads GROUP BY %[1]s`, field,
	))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var total int64
		if err := rows.Scan(&label, &total); err != nil {
			return nil, err
		}
		counts[label] = total
	}
	return counts, rows.Err()
}

func (s *PGStore) ListDownloads(ctx context.Context, limit int) ([]database.DownloadRecord, error) {
	query := `SELECT id, complainant_name, opposite_party_name, forum_type, total_value, district, state, created_at
		FROM form_downloads ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []database.DownloadRecord
	for rows.Next() {
		var r database.DownloadRecord
		var id int64
		if err := rows.Scan(&id, &r.ComplainantName, &r.OppositePartyName, &r.ForumType,
			&r.TotalValue, &r.District, &r.State, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.ID = uint(id)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PGStore) TotalValues(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT total_value FROM form_downloads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *PGStore) Stats(ctx context.Context) (*database.GlobalStats, error) {
	var stats database.GlobalStats
	err := s.db.QueryRowContext(ctx,
		`SELECT total_downloads, last_updated FROM global_stats WHERE id = $1`, database.GlobalStatsID,
	).Scan(&stats.TotalDownloads, &stats.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	stats.ID = database.GlobalStatsID
	return &stats, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ Store = (*PGStore)(nil)
