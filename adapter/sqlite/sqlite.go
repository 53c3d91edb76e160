package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/tributarygo/adapter/internal/codec"
	"github.com/smallnest/tributarygo/streaming"
)

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "tributary_values"
}

// Store keeps named streams of JSON values in a single table.
type Store struct {
	db        *sql.DB
	tableName string
}

// NewStore opens the database at opts.Path and initialises the schema.
func NewStore(opts SqliteOptions) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "tributary_values"
	}

	store := &Store{
		db:        db,
		tableName: tableName,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// DB returns the underlying database handle
func (s *Store) DB() *sql.DB { return s.db }

// InitSchema creates the necessary table if it doesn't exist
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stream TEXT NOT NULL,
			value TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_%s_stream ON %s (stream, id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Sink returns a writer appending values to stream.
func (s *Store) Sink(stream string) streaming.Writer {
	query := fmt.Sprintf("INSERT INTO %s (stream, value) VALUES (?, ?)", s.tableName)
	return streaming.WriterFunc(func(ctx context.Context, v any) error {
		data, err := codec.Encode(v)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, stream, string(data)); err != nil {
			return fmt.Errorf("failed to append to stream %s: %w", stream, err)
		}
		return nil
	})
}

// Source returns a source replaying stream in insertion order.
func (s *Store) Source(stream string) *QuerySource {
	query := fmt.Sprintf("SELECT value FROM %s WHERE stream = ? ORDER BY id", s.tableName)
	src := NewQuerySource(s.db, query, stream)
	src.scan = func(rows *sql.Rows, _ []string) (any, error) {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if !raw.Valid {
			return nil, nil
		}
		return codec.Decode([]byte(raw.String)), nil
	}
	return src
}

// QuerySource emits the rows of a query, one map per row keyed by column
// name. The query runs on the first call to Next.
type QuerySource struct {
	db     *sql.DB
	query  string
	args   []any
	scan   func(rows *sql.Rows, columns []string) (any, error)
	rows   []any
	pos    int
	loaded bool
}

var _ streaming.Source = (*QuerySource)(nil)

// NewQuerySource creates a source for query.
func NewQuerySource(db *sql.DB, query string, args ...any) *QuerySource {
	return &QuerySource{db: db, query: query, args: args, scan: scanMap}
}

func (s *QuerySource) HasNext() bool {
	return !s.loaded || s.pos < len(s.rows)
}

func (s *QuerySource) Next(ctx context.Context) (any, error) {
	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return nil, err
		}
	}
	if s.pos >= len(s.rows) {
		return nil, streaming.ErrExhausted
	}
	v := s.rows[s.pos]
	s.pos++
	return v, nil
}

func (s *QuerySource) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}
	for rows.Next() {
		v, err := s.scan(rows, columns)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		s.rows = append(s.rows, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate rows: %w", err)
	}
	s.loaded = true
	return nil
}

func scanMap(rows *sql.Rows, columns []string) (any, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(map[string]any, len(columns))
	for i, c := range columns {
		switch t := values[i].(type) {
		case int64:
			row[c] = int(t)
		case []byte:
			row[c] = string(t)
		default:
			row[c] = t
		}
	}
	return row, nil
}

// InsertSink inserts every value as a row of table.
//
// A map[string]any value is matched to columns by name, a []any value by
// position, and any other value fills a single column.
type InsertSink struct {
	db      *sql.DB
	columns []string
	query   string
}

var _ streaming.Writer = (*InsertSink)(nil)

// NewInsertSink creates a sink for table.
func NewInsertSink(db *sql.DB, table string, columns ...string) *InsertSink {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	params := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return &InsertSink{
		db:      db,
		columns: columns,
		query:   fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(quoted, ", "), params),
	}
}

// Query returns the insert statement
func (s *InsertSink) Query() string { return s.query }

func (s *InsertSink) Write(ctx context.Context, v any) error {
	args, err := rowArgs(s.columns, v)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.query, args...); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
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
