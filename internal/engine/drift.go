package engine

import (
	"hash/fnv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/ohi-sim/internal/pillar"
)

// Drift moves competitor scores along smooth, seeded trajectories. Each
// country gets its own trend and noise lane keyed by ISO code, so the field
// order does not matter and the same seed replays the same race.
type Drift struct {
	noise     opensimplex.Noise
	amplitude float64
	trendMax  float64
}

// NewDrift builds a drift generator.
func NewDrift(seed int64, amplitude, trendMax float64) *Drift {
	return &Drift{
		noise:     opensimplex.NewNormalized(seed),
		amplitude: amplitude,
		trendMax:  trendMax,
	}
}

func lane(iso string) float64 {
	h := fnv.New32a()
	h.Write([]byte(iso))
	return float64(h.Sum32()%10007) * 1.618
}

// Trend returns the per-cycle OHI trend for a competitor, in [-trendMax, trendMax].
func (d *Drift) Trend(iso string) float64 {
	return (d.noise.Eval2(lane(iso), 1000.5)*2 - 1) * d.trendMax
}

// Score returns the competitor's OHI at cycle. Cycle 0 is always base.
func (d *Drift) Score(iso string, base float64, cycle int) float64 {
	if d == nil || cycle <= 0 {
		return pillar.ClampOHI(base)
	}
	y := lane(iso)
	wobble := octaveNoise(d.noise, y, float64(cycle)*0.35) - octaveNoise(d.noise, y, 0)
	return pillar.ClampOHI(base + d.Trend(iso)*float64(cycle) + d.amplitude*wobble)
}

// octaveNoise layers two octaves of normalized noise, remapped to [-1, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64) float64 {
	v := noise.Eval2(x, y)*0.67 + noise.Eval2(x*2, y*2)*0.33
	return v*2 - 1
}
