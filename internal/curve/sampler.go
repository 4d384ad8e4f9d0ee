package curve

import "math/big"

// Point is one chart sample on the price curve.
type Point struct {
	X     *big.Rat
	Price *big.Rat
}

// Sampler walks (x, price(x)) pairs in uniform steps of Limit/steps over
// [0, Limit], continuing with the same step over (Limit, horizon*Limit].
// It is lazy and restartable; it exists for charting only.
type Sampler struct {
	cfg   *Config
	step  *big.Rat
	max   *big.Rat
	index int64
}

// NewSampler builds a sampler with the given linear-segment step count and
// chart horizon multiplier.
func NewSampler(cfg *Config, steps int64, horizon int64) *Sampler {
	if steps <= 0 {
		steps = 50
	}
	if horizon <= 1 {
		horizon = 10
	}
	step := new(big.Rat).Quo(cfg.Limit, new(big.Rat).SetInt64(steps))
	max := new(big.Rat).Mul(cfg.Limit, new(big.Rat).SetInt64(horizon))
	return &Sampler{cfg: cfg, step: step, max: max}
}

// Next returns the next sample, or false when the horizon is exhausted.
func (s *Sampler) Next() (Point, bool) {
	x := new(big.Rat).Mul(s.step, new(big.Rat).SetInt64(s.index))
	if x.Cmp(s.max) > 0 {
		return Point{}, false
	}
	s.index++
	return Point{X: x, Price: s.cfg.Price(x)}, true
}

// Reset rewinds the sampler to x=0.
func (s *Sampler) Reset() {
	s.index = 0
}
