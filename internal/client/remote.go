package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/streamlens/streamlens/internal/types"
)

// DefaultReadTimeout bounds how long a single remote read may take.
const DefaultReadTimeout = 30 * time.Second

// Remote is a Reader backed by a streamlens read server over a websocket.
//
// The connection is inherently asynchronous but Remote presents each read as
// a plain blocking call: one request in flight at a time, the reply (or a
// deadline error) returned before the next request is written. That keeps
// callers free of any in-flight bookkeeping; a stalled server stalls the
// caller until the read deadline fires.
type Remote struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to a read server. url uses the ws:// or wss:// scheme.
func Dial(url string, timeout time.Duration) (*Remote, error) {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
	}

	conn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to %s (HTTP %d): %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	return &Remote{url: url, timeout: timeout, conn: conn}, nil
}

// ReadStream implements Reader.
func (r *Remote) ReadStream(ctx context.Context, name string, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	return r.roundTrip(ctx, types.ReadRequest{
		Op:      types.OpReadStream,
		Stream:  name,
		Options: opts,
	})
}

// ReadAll implements Reader.
func (r *Remote) ReadAll(ctx context.Context, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	return r.roundTrip(ctx, types.ReadRequest{
		Op:      types.OpReadAll,
		Options: opts,
	})
}

// Close closes the underlying connection.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

func (r *Remote) roundTrip(ctx context.Context, req types.ReadRequest) ([]types.ResolvedEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil, fmt.Errorf("connection to %s is closed", r.url)
	}

	deadline := time.Now().Add(r.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := r.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := r.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send read request: %w", err)
	}

	if err := r.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	var resp types.ReadResponse
	if err := r.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.Code {
	case "":
		return resp.Events, nil
	case types.CodeNotFound:
		return nil, fmt.Errorf("stream %q: %w", req.Stream, types.ErrStreamNotFound)
	default:
		return nil, fmt.Errorf("remote read failed: %s", resp.Error)
	}
}
