package common

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/moby/fdbkit/api"
)

// FprintfIfNotEmpty prints only if `v` is not empty.
func FprintfIfNotEmpty(w io.Writer, format string, v interface{}) {
	if v != nil && v != "" {
		fmt.Fprintf(w, format, v)
	}
}

// TimestampAgo returns a relative time string from a timestamp (e.g. "12
// seconds ago"), or "-" for the zero time.
func TimestampAgo(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts)
}

// PrintRemoved lists the bindings removed along with an object.
func PrintRemoved(w io.Writer, removed []*api.Binding) {
	for _, b := range removed {
		fmt.Fprintf(w, "removed binding %s (port %s, segment %s, agent %s)\n", b.ID, b.PortID, b.SegmentID, b.AgentID)
	}
}
