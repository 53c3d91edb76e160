// Package socketio connects streaming graphs to Socket.IO servers.
//
// Dial opens a WebSocket connection. NewSource turns one event into a
// streaming source and NewSink emits node output as another event:
//
//	conn, err := socketio.Dial(ctx, socketio.Options{URL: "http://localhost:3000"})
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	ticks := streaming.Input("ticks", socketio.NewSource(conn, "tick", 256))
//	root := ticks.RollingAverage(20).Output(socketio.NewSink(conn, "average"))
package socketio
