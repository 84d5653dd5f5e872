/*
Package types defines the core data structures shared across streamlens.

# Overview

The types package provides shared definitions for:
  - Event records and resolved events (link indirection)
  - Bounded directional read options
  - The wire protocol used between the read server and the remote reader
  - Sentinel errors surfaced by every read client implementation

# Event Model

EventRecord is a single appended event: owning stream, per-stream revision,
event type, creation timestamp, raw payload, and a JSON flag. Revisions are
monotonically increasing within a stream starting at 0; the global Position
orders events across all streams.

ResolvedEvent pairs an optionally nil target event with an optionally nil
link event. When an event is reached through a "$>" link, Link holds the
record that was actually read from the stream and Event holds the record the
link points at. OriginalEvent always returns the record as it appeared in the
source that was read, which is what selection keys and catalog listings use.

# System Streams

Streams whose names start with '$' are system streams. The store maintains
the "$streams" projection: one "$>" link event per user stream, appended when
the stream receives its first event, with payload "0@<stream-name>". The
"$all" name is not a stream at all but a sentinel selecting the global log.

# Errors

ErrStreamNotFound is the distinguished "source not found" condition. Readers
must return it (wrapped or not, callers test with errors.Is) for reads of
absent streams so that callers can treat it as benign end-of-data where that
is appropriate.
*/
package types
