// Package sqlite connects streaming graphs to SQLite databases.
//
// It mirrors the postgres adapter on top of database/sql and go-sqlite3:
// Store records and replays named streams of JSON values, QuerySource emits
// the rows of any query and InsertSink writes values into any table.
//
//	store, err := sqlite.NewStore(sqlite.SqliteOptions{Path: "./tributary.db"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	prices := streaming.Input("prices", store.Source("prices"))
//	root := prices.RollingMax(10).Output(store.Sink("highs"))
package sqlite
