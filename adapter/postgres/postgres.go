package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/tributarygo/adapter/internal/codec"
	"github.com/smallnest/tributarygo/streaming"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "tributary_values"
}

// Store keeps named streams of JSON values in a single table.
type Store struct {
	pool      DBPool
	tableName string
}

// NewStore creates a new Postgres value store
func NewStore(ctx context.Context, opts PostgresOptions) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewStoreWithPool(pool, opts.TableName), nil
}

// NewStoreWithPool creates a new Postgres value store with an existing pool
// Useful for testing with mocks
func NewStoreWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "tributary_values"
	}
	return &Store{
		pool:      pool,
		tableName: tableName,
	}
}

// Pool returns the underlying pool
func (s *Store) Pool() DBPool { return s.pool }

// InitSchema creates the necessary table if it doesn't exist
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			stream TEXT NOT NULL,
			value JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_stream ON %s (stream, id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Sink returns a writer appending values to stream.
func (s *Store) Sink(stream string) streaming.Writer {
	query := fmt.Sprintf("INSERT INTO %s (stream, value) VALUES ($1, $2)", s.tableName)
	return streaming.WriterFunc(func(ctx context.Context, v any) error {
		data, err := codec.Encode(v)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, query, stream, data); err != nil {
			return fmt.Errorf("failed to append to stream %s: %w", stream, err)
		}
		return nil
	})
}

// Source returns a source replaying stream in insertion order.
func (s *Store) Source(stream string) *QuerySource {
	query := fmt.Sprintf("SELECT value FROM %s WHERE stream = $1 ORDER BY id", s.tableName)
	src := NewQuerySource(s.pool, query, stream)
	src.scan = func(row pgx.CollectableRow) (any, error) {
		var raw []byte
		if err := row.Scan(&raw); err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return codec.Decode(raw), nil
	}
	return src
}

// QuerySource emits the rows of a query, one map per row keyed by column
// name. The query runs on the first call to Next.
type QuerySource struct {
	pool   DBPool
	query  string
	args   []any
	scan   pgx.RowToFunc[any]
	rows   []any
	pos    int
	loaded bool
}

var _ streaming.Source = (*QuerySource)(nil)

// NewQuerySource creates a source for query.
func NewQuerySource(pool DBPool, query string, args ...any) *QuerySource {
	return &QuerySource{
		pool:  pool,
		query: query,
		args:  args,
		scan: func(row pgx.CollectableRow) (any, error) {
			return pgx.RowToMap(row)
		},
	}
}

func (s *QuerySource) HasNext() bool {
	return !s.loaded || s.pos < len(s.rows)
}

func (s *QuerySource) Next(ctx context.Context) (any, error) {
	if !s.loaded {
		rows, err := s.pool.Query(ctx, s.query, s.args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query: %w", err)
		}
		s.rows, err = pgx.CollectRows(rows, s.scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rows: %w", err)
		}
		s.loaded = true
	}
	if s.pos >= len(s.rows) {
		return nil, streaming.ErrExhausted
	}
	v := s.rows[s.pos]
	s.pos++
	return v, nil
}

// InsertSink inserts every value as a row of table.
//
// A map[string]any value is matched to columns by name, a []any value by
// position, and any other value fills a single column.
type InsertSink struct {
	pool    DBPool
	columns []string
	query   string
}

var _ streaming.Writer = (*InsertSink)(nil)

// NewInsertSink creates a sink for table.
func NewInsertSink(pool DBPool, table string, columns ...string) *InsertSink {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return &InsertSink{
		pool:    pool,
		columns: columns,
		query: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(params, ", ")),
	}
}

// Query returns the insert statement
func (s *InsertSink) Query() string { return s.query }

func (s *InsertSink) Write(ctx context.Context, v any) error {
	args, err := rowArgs(s.columns, v)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, s.query, args...); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

func rowArgs(columns []string, v any) ([]any, error) {
	switch t := v.(type) {
	case map[string]any:
		args := make([]any, len(columns))
		for i, c := range columns {
			args[i] = t[c]
		}
		return args, nil
	case []any:
		if len(t) != len(columns) {
			return nil, fmt.Errorf("row has %d values, want %d", len(t), len(columns))
		}
		return t, nil
	default:
		if len(columns) != 1 {
			return nil, fmt.Errorf("cannot insert %T into %d columns", v, len(columns))
		}
		return []any{v}, nil
	}
}
