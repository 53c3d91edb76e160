// Package adapter groups the connectors between streaming graphs and
// external systems.
//
// Every adapter exposes a streaming.Source that turns an external feed into
// input values and a streaming.Writer that sinks node output back into the
// system:
//
//   - redis: Redis lists (go-redis)
//   - postgres: PostgreSQL queries and inserts (pgx)
//   - sqlite: SQLite queries and inserts (database/sql with go-sqlite3)
//   - socketio: Socket.IO events (socket.io-client-go)
//
// Adapters own their retry policy. Wrap a source with streaming.Retry to
// retry transient failures; the engine itself never retries.
package adapter
