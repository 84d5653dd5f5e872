// Package loader implements the two data loads behind the stream browser:
// the catalog of recently created / recently changed streams and the event
// list of one selected stream. Both are bounded backward reads from the
// tail, funneled through a single collect routine.
package loader

import (
	"context"
	"errors"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/types"
)

// Default bounds, matching the catalog's two 20-item lists and the 500-item
// event view.
const (
	DefaultCatalogLimit = 20
	DefaultEventLimit   = 500
)

// Catalog is the pair of summary lists shown on the main screen, both
// most-recent-first.
type Catalog struct {
	LastCreated     []string
	RecentlyChanged []string
}

// collectTail is the one parameterized read everything else is built on: a
// bounded backward read of source ("$all" selects the global log), with
// optional link resolution and an optional keep predicate applied in read
// order. When benignNotFound is set an absent source yields an empty result
// instead of an error.
func collectTail(ctx context.Context, r client.Reader, source string, max uint64, resolve, benignNotFound bool, keep func(types.ResolvedEvent) bool) ([]types.ResolvedEvent, error) {
	opts := types.ReadOptions{
		MaxCount:     max,
		Direction:    types.Backwards,
		ResolveLinks: resolve,
	}

	var (
		events []types.ResolvedEvent
		err    error
	)
	if strings.TrimSpace(source) == types.AllStreams {
		events, err = r.ReadAll(ctx, opts)
	} else {
		events, err = r.ReadStream(ctx, source, opts)
	}

	if err != nil {
		if benignNotFound && errors.Is(err, types.ErrStreamNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if keep == nil {
		return events, nil
	}

	kept := events[:0:0]
	for _, ev := range events {
		if keep(ev) {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}

// LoadCatalog fetches both summary lists. The two reads are independent; a
// missing source is treated as empty while any other failure aborts the
// whole load with no partial result. The call returns only once both reads
// have completed or one has failed.
func LoadCatalog(ctx context.Context, r client.Reader, limit uint64) (Catalog, error) {
	if limit == 0 {
		limit = DefaultCatalogLimit
	}

	var (
		lastCreated     []string
		recentlyChanged []string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		created, err := collectTail(gctx, r, types.StreamsProjection, limit, false, true, nil)
		if err != nil {
			return err
		}
		for _, ev := range created {
			lastCreated = append(lastCreated, StreamNameFromCreation(ev.OriginalEvent().Data))
		}
		return nil
	})

	g.Go(func() error {
		// Dedup by membership check at insertion time; the bound applies to
		// events read, so the list may end up shorter than limit.
		_, err := collectTail(gctx, r, types.AllStreams, limit, false, true, func(ev types.ResolvedEvent) bool {
			id := ev.OriginalEvent().StreamID
			if slices.Contains(recentlyChanged, id) {
				return false
			}
			recentlyChanged = append(recentlyChanged, id)
			return true
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}

	return Catalog{LastCreated: lastCreated, RecentlyChanged: recentlyChanged}, nil
}

// LoadStreamEvents fetches the event list for one stream, most-recent-first
// with links resolved. The reserved "$all" name selects the global log. A
// missing stream is an error here, not end-of-data: the caller surfaces it.
func LoadStreamEvents(ctx context.Context, r client.Reader, stream string, limit uint64) ([]types.ResolvedEvent, error) {
	if limit == 0 {
		limit = DefaultEventLimit
	}
	return collectTail(ctx, r, stream, limit, true, false, nil)
}

// StreamNameFromCreation extracts the stream name from a "$streams" entry
// payload of the form "<revision>@<stream-name>": the substring after the
// final '@', or "" when there is none.
func StreamNameFromCreation(data []byte) string {
	text := string(data)
	idx := strings.LastIndex(text, "@")
	if idx < 0 {
		return ""
	}
	return text[idx+1:]
}
