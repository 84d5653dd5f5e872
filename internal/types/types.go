package types

import (
	"errors"
	"strings"
	"time"
)

const (
	// AllStreams is the sentinel stream name selecting the global
	// cross-stream log instead of a named stream.
	AllStreams = "$all"

	// StreamsProjection is the system stream listing stream creations.
	// Each entry is a link event whose payload is "0@<stream-name>".
	StreamsProjection = "$streams"

	// LinkEventType marks an event whose payload is a "<revision>@<stream>"
	// pointer into another stream.
	LinkEventType = "$>"

	// SystemStreamPrefix marks system streams ("$streams", "$all", ...).
	SystemStreamPrefix = "$"
)

// ErrStreamNotFound is returned by read clients when the named stream does
// not exist. Callers that treat missing sources as empty results match with
// errors.Is.
var ErrStreamNotFound = errors.New("stream not found")

// Direction selects the traversal order of a read.
type Direction int

const (
	Backwards Direction = iota
	Forwards
)

// ReadOptions bounds a directional, positioned read.
type ReadOptions struct {
	// MaxCount caps the number of returned events. Zero means no cap.
	MaxCount uint64 `json:"maxCount"`

	// Direction is the traversal order. Backward reads start at the tail
	// (most recently appended end), forward reads at the head.
	Direction Direction `json:"direction"`

	// ResolveLinks resolves "$>" link events to their target records.
	ResolveLinks bool `json:"resolveLinks"`
}

// EventRecord is a single event as stored in the log.
type EventRecord struct {
	StreamID  string    `json:"streamId"`
	Revision  uint64    `json:"revision"`
	EventType string    `json:"eventType"`
	Created   time.Time `json:"created"`
	Data      []byte    `json:"data"`
	IsJSON    bool      `json:"isJson"`

	// Position is the event's offset in the global log.
	Position uint64 `json:"position"`
}

// ResolvedEvent is an event together with link metadata. Event is the target
// record and Link the "$>" record it was reached through, if any. Event is
// nil when a link's target has been deleted or is otherwise unreadable.
type ResolvedEvent struct {
	Event *EventRecord `json:"event,omitempty"`
	Link  *EventRecord `json:"link,omitempty"`
}

// OriginalEvent returns the record as it appeared in the source that was
// read: the link when the event was reached through one, the target
// otherwise.
func (r *ResolvedEvent) OriginalEvent() *EventRecord {
	if r.Link != nil {
		return r.Link
	}
	return r.Event
}

// IsSystemStream reports whether name denotes a system stream.
func IsSystemStream(name string) bool {
	return strings.HasPrefix(name, SystemStreamPrefix)
}
