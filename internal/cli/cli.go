// Package cli implements the non-interactive read commands: dumping a
// stream's events or the catalog to stdout as text, json, or yaml.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/loader"
	"github.com/streamlens/streamlens/internal/types"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// ReadOptions configures the read command.
type ReadOptions struct {
	Stream   string
	MaxCount uint64
	Output   string
	// Query is an optional JMESPath expression applied to each JSON
	// payload; its result replaces the payload in the output.
	Query string
}

// StreamsOptions configures the streams command.
type StreamsOptions struct {
	MaxCount uint64
	Output   string
}

// eventOutput is the serialized shape of one event.
type eventOutput struct {
	Stream   string `json:"stream" yaml:"stream"`
	Revision uint64 `json:"revision" yaml:"revision"`
	Type     string `json:"type" yaml:"type"`
	Created  string `json:"created" yaml:"created"`
	Position uint64 `json:"position" yaml:"position"`
	Data     any    `json:"data" yaml:"data"`
}

// Read dumps the events of one stream ("$all" selects the global log),
// most-recent-first, to w.
func Read(ctx context.Context, r client.Reader, opts ReadOptions, w io.Writer) error {
	events, err := loader.LoadStreamEvents(ctx, r, opts.Stream, opts.MaxCount)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", opts.Stream, err)
	}

	outputs := make([]eventOutput, 0, len(events))
	for _, ev := range events {
		out, err := formatEvent(ev, opts.Query)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
	}

	return emit(w, opts.Output, outputs, func() {
		for _, out := range outputs {
			data, _ := json.Marshal(out.Data)
			fmt.Fprintf(w, "%d@%s\t%s\t%s\t%s\n", out.Revision, out.Stream, out.Type, out.Created, data)
		}
	})
}

// Streams dumps the catalog's two summary lists to w.
func Streams(ctx context.Context, r client.Reader, opts StreamsOptions, w io.Writer) error {
	catalog, err := loader.LoadCatalog(ctx, r, opts.MaxCount)
	if err != nil {
		return fmt.Errorf("failed to load stream catalog: %w", err)
	}

	out := struct {
		LastCreated     []string `json:"lastCreated" yaml:"lastCreated"`
		RecentlyChanged []string `json:"recentlyChanged" yaml:"recentlyChanged"`
	}{catalog.LastCreated, catalog.RecentlyChanged}

	return emit(w, opts.Output, out, func() {
		fmt.Fprintln(w, "Recently created:")
		for _, name := range out.LastCreated {
			fmt.Fprintf(w, "  %s\n", name)
		}
		fmt.Fprintln(w, "Recently changed:")
		for _, name := range out.RecentlyChanged {
			fmt.Fprintf(w, "  %s\n", name)
		}
	})
}

func emit(w io.Writer, format string, value any, text func()) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("failed to encode json output: %w", err)
		}
	case OutputYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml output: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	case OutputText, "":
		text()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

func formatEvent(ev types.ResolvedEvent, query string) (eventOutput, error) {
	orig := ev.OriginalEvent()

	out := eventOutput{
		Stream:   orig.StreamID,
		Revision: orig.Revision,
		Created:  orig.Created.Format(time.RFC3339),
		Position: orig.Position,
	}

	target := ev.Event
	if target == nil {
		out.Type = types.LinkEventType
		out.Data = string(orig.Data)
		return out, nil
	}

	out.Type = target.EventType

	if !target.IsJSON {
		out.Data = string(target.Data)
		return out, nil
	}

	var decoded any
	if err := json.Unmarshal(target.Data, &decoded); err != nil {
		out.Data = string(target.Data)
		return out, nil
	}

	if query != "" {
		result, err := jmespath.Search(query, decoded)
		if err != nil {
			return eventOutput{}, fmt.Errorf("failed to apply query %q: %w", query, err)
		}
		decoded = result
	}

	out.Data = decoded
	return out, nil
}
