package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tinylink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const linkColumns = `code, target_url, total_clicks, last_clicked_at, created_at`

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE code = $1)`,
		string(code),
	).Scan(&exists)

	return exists, err
}

// Insert relies on the primary key: a taken code inserts nothing.
func (p *PostgresStore) Insert(ctx context.Context, link *shortener.Link) error {
	query := `
		INSERT INTO links (code, target_url, total_clicks, created_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(link.Code),
		link.TargetURL,
		link.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrAlreadyExists
	}

	return nil
}

func (p *PostgresStore) FindTarget(ctx context.Context, code shortener.Code) (string, error) {
	var target string

	err := p.pool.QueryRow(ctx,
		`SELECT target_url FROM links WHERE code = $1`,
		string(code),
	).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return target, nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE code = $1`

	link, err := scanPostgresLink(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

// RecordClick is one UPDATE statement; PostgreSQL serializes concurrent increments on the row.
func (p *PostgresStore) RecordClick(ctx context.Context, code shortener.Code, at time.Time) error {
	query := `
		UPDATE links
		SET total_clicks = total_clicks + 1,
		    last_clicked_at = GREATEST(last_clicked_at, $2)
		WHERE code = $1
	`

	tag, err := p.pool.Exec(ctx, query, string(code), at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) List(ctx context.Context) ([]*shortener.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*shortener.Link, 0)

	for rows.Next() {
		link, err := scanPostgresLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func (p *PostgresStore) Delete(ctx context.Context, code shortener.Code) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM links WHERE code = $1`, string(code))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func scanPostgresLink(row pgx.Row) (*shortener.Link, error) {
	var (
		link        shortener.Link
		code        string
		lastClicked *time.Time
	)

	if err := row.Scan(&code, &link.TargetURL, &link.TotalClicks, &lastClicked, &link.CreatedAt); err != nil {
		return nil, err
	}

	link.Code = shortener.Code(code)
	link.LastClickedAt = lastClicked

	return &link, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
