package types

// Wire protocol for the websocket read server. Each request receives exactly
// one response on the same connection, in order.

// Read operations.
const (
	OpReadStream = "read_stream"
	OpReadAll    = "read_all"
)

// Error codes carried in ReadResponse. CodeNotFound maps back to
// ErrStreamNotFound on the client side; every other failure is a transport
// error.
const (
	CodeNotFound = "not_found"
	CodeFailed   = "failed"
)

// ReadRequest asks the server for one bounded directional read.
type ReadRequest struct {
	Op      string      `json:"op"`
	Stream  string      `json:"stream,omitempty"`
	Options ReadOptions `json:"options"`
}

// ReadResponse carries the events of a successful read or an error.
type ReadResponse struct {
	Events []ResolvedEvent `json:"events,omitempty"`
	Code   string          `json:"code,omitempty"`
	Error  string          `json:"error,omitempty"`
}
