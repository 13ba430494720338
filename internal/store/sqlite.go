package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore is a SQLite implementation of shortener.Repository and visits.Repository.
// Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db *sqlx.DB
}

type shortURLRow struct {
	Code        string `db:"code"`
	OriginalURL string `db:"original_url"`
	CreatedAt   int64  `db:"created_at"`
}

type visitRow struct {
	ID         string         `db:"id"`
	ShortCode  string         `db:"short_code"`
	UserAgent  sql.NullString `db:"user_agent"`
	Referer    sql.NullString `db:"referer"`
	RemoteAddr sql.NullString `db:"remote_addr"`
	VisitedAt  int64          `db:"visited_at"`
}

// OpenSQLite opens the database at path (":memory:" for a private in-memory
// database) and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// single writer; also keeps an in-memory database alive on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	ddl, err := schema("sqlite")
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO short_urls (code, original_url, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (code) DO NOTHING`,
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.CreatedAt.UnixNano(),
	)

	return err
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	var row shortURLRow

	err := s.db.GetContext(ctx, &row,
		`SELECT code, original_url, created_at FROM short_urls WHERE code = ?`,
		string(code),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &shortener.ShortURL{
		Code:        shortener.Code(row.Code),
		OriginalURL: row.OriginalURL,
		CreatedAt:   time.Unix(0, row.CreatedAt).UTC(),
	}, nil
}

func (s *SQLiteStore) SaveVisit(ctx context.Context, visit *visits.Visit) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO visits (id, short_code, user_agent, referer, remote_addr, visited_at)
		 VALUES (:id, :short_code, :user_agent, :referer, :remote_addr, :visited_at)`,
		visitRow{
			ID:         visit.ID,
			ShortCode:  string(visit.ShortCode),
			UserAgent:  nullString(visit.UserAgent),
			Referer:    nullString(visit.Referer),
			RemoteAddr: nullString(visit.RemoteAddr),
			VisitedAt:  visit.VisitedAt.UnixNano(),
		},
	)

	return err
}

func (s *SQLiteStore) ListVisits(ctx context.Context, code shortener.Code) ([]visits.Visit, error) {
	var rows []visitRow

	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, short_code, user_agent, referer, remote_addr, visited_at
		 FROM visits
		 WHERE short_code = ?
		 ORDER BY visited_at DESC, rowid DESC`,
		string(code),
	)
	if err != nil {
		return nil, err
	}

	result := make([]visits.Visit, 0, len(rows))

	for _, row := range rows {
		result = append(result, visits.Visit{
			ID:         row.ID,
			ShortCode:  shortener.Code(row.ShortCode),
			UserAgent:  stringPtr(row.UserAgent),
			Referer:    stringPtr(row.Referer),
			RemoteAddr: stringPtr(row.RemoteAddr),
			VisitedAt:  time.Unix(0, row.VisitedAt).UTC(),
		})
	}

	return result, nil
}

// Ping reports whether the database answers.
func (s *SQLiteStore) Ping(ctx context.Context) (bool, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}
