package pillar

import "math"

// Values holds one number per pillar. It is a plain value type: copying it
// copies the data.
type Values struct {
	Governance      float64 `json:"governance" yaml:"governance"`
	HazardControl   float64 `json:"hazardControl" yaml:"hazardControl"`
	HealthVigilance float64 `json:"healthVigilance" yaml:"healthVigilance"`
	Restoration     float64 `json:"restoration" yaml:"restoration"`
}

// Uniform returns Values with every pillar set to v.
func Uniform(v float64) Values {
	return Values{v, v, v, v}
}

// Get returns the value for p. Unknown pillars read as 0.
func (v Values) Get(p Pillar) float64 {
	switch p {
	case Governance:
		return v.Governance
	case HazardControl:
		return v.HazardControl
	case HealthVigilance:
		return v.HealthVigilance
	case Restoration:
		return v.Restoration
	}
	return 0
}

// Set assigns the value for p.
func (v *Values) Set(p Pillar, x float64) {
	switch p {
	case Governance:
		v.Governance = x
	case HazardControl:
		v.HazardControl = x
	case HealthVigilance:
		v.HealthVigilance = x
	case Restoration:
		v.Restoration = x
	}
}

// Add adds d to the value for p without clamping.
func (v *Values) Add(p Pillar, d float64) {
	v.Set(p, v.Get(p)+d)
}

// AddClamped adds d to p and clamps the result to [0, 100].
func (v *Values) AddClamped(p Pillar, d float64) {
	v.Set(p, Clamp(v.Get(p)+d))
}

// Each calls fn for every pillar in canonical order.
func (v Values) Each(fn func(p Pillar, x float64)) {
	for _, p := range All() {
		fn(p, v.Get(p))
	}
}

func (v Values) Sum() float64 {
	return v.Governance + v.HazardControl + v.HealthVigilance + v.Restoration
}

// Min returns the lowest value and its pillar. Ties go to the earlier pillar.
func (v Values) Min() (Pillar, float64) {
	best, bestV := Governance, v.Governance
	for _, p := range All()[1:] {
		if x := v.Get(p); x < bestV {
			best, bestV = p, x
		}
	}
	return best, bestV
}

// Max returns the highest value and its pillar. Ties go to the earlier pillar.
func (v Values) Max() (Pillar, float64) {
	best, bestV := Governance, v.Governance
	for _, p := range All()[1:] {
		if x := v.Get(p); x > bestV {
			best, bestV = p, x
		}
	}
	return best, bestV
}

// Clamped returns a copy with every value bounded to [0, 100].
func (v Values) Clamped() Values {
	out := v
	for _, p := range All() {
		out.Set(p, Clamp(v.Get(p)))
	}
	return out
}

// Finite reports whether no value is NaN or infinite.
func (v Values) Finite() bool {
	ok := true
	v.Each(func(_ Pillar, x float64) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			ok = false
		}
	})
	return ok
}

// NonNegative reports whether every value is >= 0.
func (v Values) NonNegative() bool {
	return v.Governance >= 0 && v.HazardControl >= 0 && v.HealthVigilance >= 0 && v.Restoration >= 0
}
