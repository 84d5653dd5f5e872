/*
Package client defines the read-capability interface the browser consumes
and a remote implementation speaking the websocket wire protocol.

A Reader exposes exactly two operations: a bounded directional read of one
named stream and the equivalent read over the global cross-stream log. Both
distinguish "stream not found" (types.ErrStreamNotFound) from every other
failure. The local implementation is *store.Store; Remote adapts a
streamlens read server.
*/
package client

import (
	"context"

	"github.com/streamlens/streamlens/internal/types"
)

// Reader is the read capability the browser and CLI operate against.
type Reader interface {
	// ReadStream performs a bounded directional read of the named stream.
	// Absent streams return an error matching types.ErrStreamNotFound.
	ReadStream(ctx context.Context, name string, opts types.ReadOptions) ([]types.ResolvedEvent, error)

	// ReadAll performs the equivalent read over the global log.
	ReadAll(ctx context.Context, opts types.ReadOptions) ([]types.ResolvedEvent, error)
}
