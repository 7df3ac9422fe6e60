package advisor

import "github.com/talgya/ohi-sim/internal/pillar"

// Crisis levels, most severe first.
const (
	Critical = "CRITICAL"
	Warning  = "WARNING"
	Watch    = "WATCH"
	Healthy  = "HEALTHY"
)

// minShare keeps every pillar funded so neglect decay never applies.
const minShare = 0.1

// Health holds derived signals computed from a Snapshot. Deterministic and
// cheap; it runs before any decision is made.
type Health struct {
	Gaps        pillar.Values // distance to 100 per pillar
	Priority    pillar.Values // budget shares, summing to 1
	Weakest     pillar.Pillar
	Falling     int // pillars with a negative trend
	CrisisLevel string
}

// Triage scores each pillar's need for funding.
func Triage(snap Snapshot) Health {
	var h Health
	var need pillar.Values
	for _, p := range pillar.All() {
		gap := pillar.MaxScore - snap.Pillars.Get(p)
		h.Gaps.Set(p, gap)

		n := gap
		// Falling pillars are weighted up: a decline compounds.
		if tr := snap.Trend.Get(p); tr < 0 {
			n += -tr * 5
			h.Falling++
		}
		need.Set(p, n)
	}
	h.Weakest, _ = snap.Pillars.Min()

	total := need.Sum()
	for _, p := range pillar.All() {
		share := 1.0 / pillar.Count
		if total > 0 {
			share = need.Get(p) / total
		}
		h.Priority.Set(p, share)
	}
	h.Priority = withFloor(h.Priority, minShare)

	_, low := snap.Pillars.Min()
	worstTrend := 0.0
	snap.Trend.Each(func(_ pillar.Pillar, x float64) { worstTrend = min(worstTrend, x) })

	switch {
	case low < 25:
		h.CrisisLevel = Critical
	case worstTrend < -3 || h.Falling >= 3:
		h.CrisisLevel = Warning
	case low < 50 || h.Falling > 0:
		h.CrisisLevel = Watch
	default:
		h.CrisisLevel = Healthy
	}
	return h
}

// withFloor lifts every share to at least floor and rescales the rest so the
// total stays 1.
func withFloor(shares pillar.Values, floor float64) pillar.Values {
	var out pillar.Values
	var above float64
	lifted := 0
	for _, p := range pillar.All() {
		if shares.Get(p) < floor {
			out.Set(p, floor)
			lifted++
		} else {
			above += shares.Get(p)
		}
	}
	left := 1 - floor*float64(lifted)
	for _, p := range pillar.All() {
		if shares.Get(p) >= floor && above > 0 {
			out.Set(p, shares.Get(p)/above*left)
		}
	}
	return out
}
