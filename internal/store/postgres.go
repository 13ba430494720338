package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository and visits.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables used by the store when they do not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	ddl, err := schema("postgres")
	if err != nil {
		return err
	}

	if _, err = p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, original_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.CreatedAt,
	)

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, created_at
		FROM short_urls
		WHERE code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.Code,
		&url.OriginalURL,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

// SaveVisit inserts a visit. The statement runs outside an explicit
// transaction, so it is committed as soon as Exec returns.
func (p *PostgresStore) SaveVisit(ctx context.Context, visit *visits.Visit) error {
	query := `
		INSERT INTO visits (id, short_code, user_agent, referer, remote_addr, visited_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		visit.ID,
		string(visit.ShortCode),
		visit.UserAgent,
		visit.Referer,
		visit.RemoteAddr,
		visit.VisitedAt,
	)

	return err
}

func (p *PostgresStore) ListVisits(ctx context.Context, code shortener.Code) ([]visits.Visit, error) {
	query := `
		SELECT id, short_code, user_agent, referer, remote_addr, visited_at
		FROM visits
		WHERE short_code = $1
		ORDER BY visited_at DESC, seq DESC
	`

	rows, err := p.pool.Query(ctx, query, string(code))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []visits.Visit{}

	for rows.Next() {
		var v visits.Visit

		if err := rows.Scan(&v.ID, &v.ShortCode, &v.UserAgent, &v.Referer, &v.RemoteAddr, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}

		result = append(result, v)
	}

	return result, rows.Err()
}

// Ping reports whether the database answers.
func (p *PostgresStore) Ping(ctx context.Context) (bool, error) {
	if err := p.pool.Ping(ctx); err != nil {
		return false, err
	}

	return true, nil
}
