package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/mitchellh/go-homedir"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	defaultSQLitePath  = "~/.labdash.sqlite"
	defaultPostgresDSN = "postgres://localhost/labdash?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// dialect captures what differs between the SQL engines.
type dialect struct {
	driver string
	// payloadType is the column type holding record JSON.
	payloadType string
	// numbered placeholders ($1) instead of ?.
	numbered bool
}

var (
	sqliteDialect   = dialect{driver: "sqlite", payloadType: "BLOB"}
	postgresDialect = dialect{driver: "pgx", payloadType: "JSONB", numbered: true}
)

// bind rewrites ? placeholders for the dialect.
func (d dialect) bind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) ddl() string {
	return `CREATE TABLE IF NOT EXISTS records (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		payload ` + d.payloadType + ` NOT NULL,
		PRIMARY KEY (bucket, key)
	)`
}

type sqlBackend struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLite opens (creating if needed) an embedded SQLite database at path.
func NewSQLite(path string) (Backend, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("store: expand %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("store: create dirs: %w", err)
	}
	return openSQL(sqliteDialect, expanded)
}

// NewPostgres connects to a PostgreSQL server.
func NewPostgres(dsn string) (Backend, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	return openSQL(postgresDialect, dsn)
}

func openSQL(d dialect, dsn string) (Backend, error) {
	openMu.Lock()
	db, err := sqlOpen(d.driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", d.driver, err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", d.driver, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create records table: %w", err)
	}
	return &sqlBackend{db: db, dialect: d}, nil
}

func (s *sqlBackend) All(ctx context.Context, bucket string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.bind(`SELECT key, payload FROM records WHERE bucket = ?`), bucket)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", bucket, err)
	}
	defer func() { _ = rows.Close() }()

	all := make(map[string][]byte)
	for rows.Next() {
		var (
			key     string
			payload []byte
		)
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		all[key] = payload
	}
	return all, rows.Err()
}

func (s *sqlBackend) Read(ctx context.Context, bucket, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.dialect.bind(`SELECT payload FROM records WHERE bucket = ? AND key = ?`), bucket, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return payload, err
}

func (s *sqlBackend) Write(ctx context.Context, bucket, key string, data []byte) error {
	payload := any(data)
	if s.dialect.numbered {
		// JSONB takes text input.
		payload = string(data)
	}
	_, err := s.db.ExecContext(ctx, s.dialect.bind(`INSERT INTO records(bucket, key, payload) VALUES(?, ?, ?)
		ON CONFLICT(bucket, key) DO UPDATE SET payload = excluded.payload`), bucket, key, payload)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *sqlBackend) Erase(ctx context.Context, bucket, key string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.bind(`DELETE FROM records WHERE bucket = ? AND key = ?`), bucket, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlBackend) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *sqlBackend) DB() *sql.DB { return s.db }
