// Package server exposes a store's two read operations over a websocket
// JSON protocol. One request at a time per connection, replies in order.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/types"
)

// Server serves bounded reads from a Reader (normally the local store).
type Server struct {
	reader   client.Reader
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New builds a Server. logger may be nil, in which case slog.Default is
// used.
func New(reader client.Reader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		reader: reader,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ListenAndServe blocks serving websocket read sessions on addr at path
// "/ws" until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	s.logger.Info("read server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("read server failed: %w", err)
	}
	return nil
}

// ServeHTTP upgrades the connection and serves read requests until the peer
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("session opened", "remote", r.RemoteAddr)

	for {
		var req types.ReadRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("session aborted", "remote", r.RemoteAddr, "error", err)
			} else {
				s.logger.Info("session closed", "remote", r.RemoteAddr)
			}
			return
		}

		resp := s.handle(r.Context(), req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("failed to write response", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, req types.ReadRequest) types.ReadResponse {
	var (
		events []types.ResolvedEvent
		err    error
	)

	switch req.Op {
	case types.OpReadStream:
		events, err = s.reader.ReadStream(ctx, req.Stream, req.Options)
	case types.OpReadAll:
		events, err = s.reader.ReadAll(ctx, req.Options)
	default:
		return types.ReadResponse{
			Code:  types.CodeFailed,
			Error: fmt.Sprintf("unknown operation %q", req.Op),
		}
	}

	if err != nil {
		code := types.CodeFailed
		if errors.Is(err, types.ErrStreamNotFound) {
			code = types.CodeNotFound
		}
		s.logger.Debug("read failed", "op", req.Op, "stream", req.Stream, "error", err)
		return types.ReadResponse{Code: code, Error: err.Error()}
	}

	return types.ReadResponse{Events: events}
}
