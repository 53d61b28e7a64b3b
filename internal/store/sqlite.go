package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/serroba/tinylink/internal/shortener"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteStore is a SQLite implementation of shortener.Repository.
// Timestamps are stored as unix microseconds.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteDSN returns the connection string for the database file at path.
// Writers wait up to 5s for a lock held by another process (the click
// consumer) instead of failing with SQLITE_BUSY, and WAL lets readers proceed
// during a write.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := MigrateSQLite(db, logger); err != nil {
		_ = db.Close()

		return nil, err
	}

	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE code = ?)`,
		string(code),
	).Scan(&exists)

	return exists, err
}

func (s *SQLiteStore) Insert(ctx context.Context, link *shortener.Link) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO links (code, target_url, total_clicks, created_at)
		 VALUES (?, ?, 0, ?)
		 ON CONFLICT (code) DO NOTHING`,
		string(link.Code),
		link.TargetURL,
		link.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return err
	}

	return requireRow(res, shortener.ErrAlreadyExists)
}

func (s *SQLiteStore) FindTarget(ctx context.Context, code shortener.Code) (string, error) {
	var target string

	err := s.db.QueryRowContext(ctx,
		`SELECT target_url FROM links WHERE code = ?`,
		string(code),
	).Scan(&target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return target, nil
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links WHERE code = ?`,
		string(code),
	)

	link, err := scanSQLiteLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (s *SQLiteStore) RecordClick(ctx context.Context, code shortener.Code, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE links
		 SET total_clicks = total_clicks + 1,
		     last_clicked_at = MAX(COALESCE(last_clicked_at, 0), ?)
		 WHERE code = ?`,
		at.UnixMicro(),
		string(code),
	)
	if err != nil {
		return err
	}

	return requireRow(res, shortener.ErrNotFound)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*shortener.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*shortener.Link, 0)

	for rows.Next() {
		link, err := scanSQLiteLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, code shortener.Code) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE code = ?`, string(code))
	if err != nil {
		return err
	}

	return requireRow(res, shortener.ErrNotFound)
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLink(row rowScanner) (*shortener.Link, error) {
	var (
		link        shortener.Link
		code        string
		lastClicked sql.NullInt64
		createdAt   int64
	)

	if err := row.Scan(&code, &link.TargetURL, &link.TotalClicks, &lastClicked, &createdAt); err != nil {
		return nil, err
	}

	link.Code = shortener.Code(code)
	link.CreatedAt = time.UnixMicro(createdAt).UTC()

	if lastClicked.Valid {
		ts := time.UnixMicro(lastClicked.Int64).UTC()
		link.LastClickedAt = &ts
	}

	return &link, nil
}

// requireRow returns errNone when res touched no row.
func requireRow(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return errNone
	}

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*SQLiteStore)(nil)
