package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/smallnest/tributarygo/log"
	"github.com/smallnest/tributarygo/streaming"
)

// Conn is the subset of a Socket.IO client the adapter needs.
type Conn interface {
	On(event string, fn func(args ...any))
	Emit(event string, args ...any) error
	Close() error
}

// Options configures Dial.
type Options struct {
	URL                string
	Namespace          string // Default "/"
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration // Default 15s
}

type socketConn struct {
	io *socket.Socket
}

func (c *socketConn) On(event string, fn func(args ...any)) {
	c.io.On(types.EventName(event), func(args ...any) { fn(args...) })
}

func (c *socketConn) Emit(event string, args ...any) error {
	c.io.Emit(event, args...)
	return nil
}

func (c *socketConn) Close() error {
	c.io.Disconnect()
	return nil
}

// Dial connects to a Socket.IO server over WebSocket and waits for the
// connection to be acknowledged.
func Dial(ctx context.Context, opts Options) (Conn, error) {
	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		log.Warn("socket.io %s: skipping TLS certificate verification", opts.URL)
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		log.Info("socket.io connected to %s%s (sid %s)", baseURL, opts.Namespace, io.Id())
		return &socketConn{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// Source emits the payload of every event received on a connection. An
// event with several arguments is emitted as a []any. The source ends when
// the connection reports "disconnect" or Close is called.
type Source struct {
	values chan any
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

var _ streaming.Source = (*Source)(nil)

// NewSource subscribes to event on conn. bufferSize bounds the number of
// events held before the handler starts dropping them.
func NewSource(conn Conn, event string, bufferSize int) *Source {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	s := &Source{values: make(chan any, bufferSize), done: make(chan struct{})}
	conn.On(event, func(args ...any) {
		var v any
		switch len(args) {
		case 0:
		case 1:
			v = args[0]
		default:
			v = args
		}
		s.push(event, v)
	})
	conn.On("disconnect", func(...any) { s.Close() })
	return s
}

func (s *Source) push(event string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.values <- v:
	default:
		log.Warn("socket.io source buffer full, dropping %s event", event)
	}
}

// Close ends the source once buffered events are drained.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *Source) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed || len(s.values) > 0
}

func (s *Source) Next(ctx context.Context) (any, error) {
	select {
	case v := <-s.values:
		return v, nil
	default:
	}
	select {
	case v := <-s.values:
		return v, nil
	case <-s.done:
		select {
		case v := <-s.values:
			return v, nil
		default:
			return nil, streaming.ErrExhausted
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NewSink returns a writer emitting every value as event.
func NewSink(conn Conn, event string) streaming.Writer {
	return streaming.WriterFunc(func(_ context.Context, v any) error {
		if err := conn.Emit(event, v); err != nil {
			return fmt.Errorf("failed to emit %s: %w", event, err)
		}
		return nil
	})
}
