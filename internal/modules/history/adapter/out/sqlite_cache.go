package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rehab/internal/modules/history/domain"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache := &SQLiteCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

func (s *SQLiteCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS assessment_records (
  id INTEGER PRIMARY KEY,
  position INTEGER NOT NULL,
  user_id INTEGER,
  type TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  error TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create assessment_records table: %w", err)
	}
	return nil
}

// Replace swaps the whole cached list, keeping the given order.
func (s *SQLiteCache) Replace(ctx context.Context, records []domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_records`); err != nil {
		return fmt.Errorf("clear assessment_records: %w", err)
	}
	for i, r := range records {
		if err := upsert(ctx, tx, r, i); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Upsert stores one record; a new one goes to the end of the list.
func (s *SQLiteCache) Upsert(ctx context.Context, r domain.Record) error {
	var position int
	err := s.db.QueryRowContext(ctx, `SELECT position FROM assessment_records WHERE id = ?`, r.ID).Scan(&position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM assessment_records`).Scan(&position); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup record %d: %w", r.ID, err)
	}
	return upsert(ctx, s.db, r, position)
}

func (s *SQLiteCache) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM assessment_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteCache) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, type, data, created_at, updated_at, error
FROM assessment_records
ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query assessment_records: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			r                         domain.Record
			data, created, updated, e sql.NullString
			userID                    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &userID, &r.Type, &data, &created, &updated, &e); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.UserID = userID.Int64
		r.Error = e.String
		if data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &r.Data); err != nil {
				return nil, fmt.Errorf("decode record %d data: %w", r.ID, err)
			}
		}
		r.CreatedAt = parseTime(created.String)
		r.UpdatedAt = parseTime(updated.String)
		out = append(out, r)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, r domain.Record, position int) error {
	const stmt = `
INSERT INTO assessment_records (id, position, user_id, type, data, created_at, updated_at, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  position=excluded.position,
  user_id=excluded.user_id,
  type=excluded.type,
  data=excluded.data,
  created_at=excluded.created_at,
  updated_at=excluded.updated_at,
  error=excluded.error;
`
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encode record %d data: %w", r.ID, err)
	}
	_, err = db.ExecContext(ctx, stmt,
		r.ID,
		position,
		r.UserID,
		r.Type,
		string(data),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
		r.Error,
	)
	if err != nil {
		return fmt.Errorf("upsert record %d: %w", r.ID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
