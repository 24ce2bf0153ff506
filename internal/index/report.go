package index

import (
	"fmt"
	"strings"
	"time"
)

// Failure records one chunk that could not be embedded or stored.
type Failure struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Report summarizes the outcome of a full index rebuild. Partial success
// is a normal, reportable outcome, not an error state.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Chunks    int           `json:"chunks"`
	Succeeded int           `json:"succeeded"`
	Failures  []Failure     `json:"failures,omitempty"`
}

// Summary renders the report for operator consumption.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rebuild %s: %d/%d chunks indexed in %s\n", r.RunID, r.Succeeded, r.Chunks, r.Duration.Round(time.Millisecond))
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "  failed: %s (%s)\n", f.Title, f.Reason)
	}
	return sb.String()
}
