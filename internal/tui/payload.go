package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/streamlens/streamlens/internal/types"
)

// Fixed placeholders for payloads that cannot be pretty-printed.
const (
	placeholderBinary     = "<BINARY>"
	placeholderBadJSON    = "<INVALID JSON>"
	placeholderUnresolved = "<UNRESOLVED LINK>"
)

// previewContent renders the scrollable payload text for one event:
// pretty-printed, syntax-highlighted, line-numbered JSON, or a placeholder
// for everything else. A JSON-flagged payload that fails to parse degrades
// to a placeholder instead of aborting.
func previewContent(ev *types.ResolvedEvent) string {
	if ev == nil {
		return ""
	}
	target := ev.Event
	if target == nil {
		return placeholderUnresolved
	}
	if !target.IsJSON {
		return placeholderBinary
	}

	var decoded any
	if err := json.Unmarshal(target.Data, &decoded); err != nil {
		return placeholderBadJSON
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return placeholderBadJSON
	}

	return renderLineNumbers(highlightJSON(string(pretty)))
}

// highlightJSON applies terminal syntax highlighting, falling back to the
// plain text when the highlighter fails.
func highlightJSON(src string) string {
	var out strings.Builder
	if err := quick.Highlight(&out, src, "json", "terminal256", "monokai"); err != nil {
		return src
	}
	return out.String()
}

// renderLineNumbers prefixes every line with a right-aligned line number.
func renderLineNumbers(content string) string {
	lines := strings.Split(content, "\n")

	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		fmt.Fprintf(&out, "%4d  %s", i+1, line)
	}
	return out.String()
}
