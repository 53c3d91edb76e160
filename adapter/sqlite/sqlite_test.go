package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tributarygo/streaming"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(SqliteOptions{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	engine := streaming.NewEngine(streaming.DefaultRunConfig())

	record := streaming.Input("prices", streaming.FromSlice(1, 2.5, "x", map[string]any{"a": 1})).
		Output(store.Sink("prices"))
	_, err := engine.Run(ctx, record)
	require.NoError(t, err)

	replay := streaming.Input("replay", store.Source("prices")).Collect()
	res, err := engine.Run(ctx, replay.Node)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, []any{1, 2.5, "x", map[string]any{"a": 1}}, replay.Values())

	empty := streaming.Input("empty", store.Source("missing")).Collect()
	res, err = engine.Run(ctx, empty.Node)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Steps)
}

func TestInsertSinkAndQuerySource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	db := store.DB()

	_, err := db.ExecContext(ctx, `CREATE TABLE quotes (symbol TEXT, price REAL, volume INTEGER)`)
	require.NoError(t, err)

	sink := NewInsertSink(db, "quotes", "symbol", "price", "volume")
	assert.Equal(t, `INSERT INTO "quotes" ("symbol", "price", "volume") VALUES (?, ?, ?)`, sink.Query())
	require.NoError(t, sink.Write(ctx, []any{"ABC", 10.5, 100}))
	require.NoError(t, sink.Write(ctx, map[string]any{"symbol": "XYZ", "price": 3.25}))
	assert.Error(t, sink.Write(ctx, []any{"short"}))
	assert.Error(t, sink.Write(ctx, 7))

	src := NewQuerySource(db, "SELECT symbol, price, volume FROM quotes ORDER BY symbol")
	var got []any
	for src.HasNext() {
		v, err := src.Next(ctx)
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []any{
		map[string]any{"symbol": "ABC", "price": 10.5, "volume": 100},
		map[string]any{"symbol": "XYZ", "price": 3.25, "volume": nil},
	}, got)
}

func TestQuerySource_BadQuery(t *testing.T) {
	store := newTestStore(t)
	src := NewQuerySource(store.DB(), "SELECT * FROM nowhere")
	_, err := src.Next(context.Background())
	assert.ErrorContains(t, err, "failed to query")
}
