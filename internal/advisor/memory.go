package advisor

import (
	"fmt"
	"strings"

	"github.com/talgya/ohi-sim/internal/pillar"
)

const maxRecords = 10

// Record captures what the advisor did in one cycle.
type Record struct {
	Cycle       int
	Year        int
	OHI         float64
	Rank        int
	CrisisLevel string
	Weakest     pillar.Pillar
	Accepted    int
	Rejected    int
	Rationale   string
}

// Memory keeps a ring of recent records.
type Memory struct {
	Records []Record
}

// Record adds r, trimming to maxRecords.
func (m *Memory) Record(r Record) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// Last returns the most recent record.
func (m *Memory) Last() (Record, bool) {
	if len(m.Records) == 0 {
		return Record{}, false
	}
	return m.Records[len(m.Records)-1], true
}

// Format summarizes the last n records, oldest first.
func (m *Memory) Format(n int) string {
	if len(m.Records) == 0 {
		return ""
	}
	start := max(0, len(m.Records)-n)

	var b strings.Builder
	for _, r := range m.Records[start:] {
		fmt.Fprintf(&b, "- %d (cycle %d): ohi=%.2f rank=%d crisis=%s weakest=%s accepted=%d",
			r.Year, r.Cycle, r.OHI, r.Rank, r.CrisisLevel, r.Weakest, r.Accepted)
		if r.Rejected > 0 {
			fmt.Fprintf(&b, " rejected=%d", r.Rejected)
		}
		b.WriteString("\n")
	}
	return b.String()
}
