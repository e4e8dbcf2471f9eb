package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats counts what happened to the lines of one stream.
type Stats struct {
	Start    time.Time
	Read     uint64
	Kept     uint64
	Dropped  uint64
	ByReason map[DropReason]uint64
}

// NewStats returns zeroed stats starting now.
func NewStats() Stats {
	return Stats{
		Start:    time.Now(),
		ByReason: make(map[DropReason]uint64),
	}
}

// Add accounts one transformed line.
func (s *Stats) Add(o Outcome) {
	if o.Kept {
		s.Kept++
		return
	}
	s.Dropped++
	if s.ByReason == nil {
		s.ByReason = make(map[DropReason]uint64)
	}
	s.ByReason[o.Reason]++
}

// String renders the counters on one line, reasons sorted by name.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "counter[read=%d kept=%d dropped=%d", s.Read, s.Kept, s.Dropped)

	reasons := make([]string, 0, len(s.ByReason))
	for reason := range s.ByReason {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(&b, " %s=%d", reason, s.ByReason[DropReason(reason)])
	}
	b.WriteString("]")

	if !s.Start.IsZero() {
		fmt.Fprintf(&b, " elapsed=%s", time.Since(s.Start).Round(time.Millisecond))
	}
	return b.String()
}
