// Package curve implements the hybrid two-segment bonding curve used to
// price launch tokens: a linear segment up to the curve limit, then a
// constant-product segment.
package curve

import (
	"fmt"
	"math/big"
)

// ConfigError reports invalid launch inputs. It blocks any conversion to
// raw deploy arguments.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid curve config: %s %s", e.Field, e.Reason)
}

// Inputs holds the human-facing launch parameters.
type Inputs struct {
	StartingPrice   *big.Rat // p0, reserve units per launch unit at x=0
	TransitionPrice *big.Rat // p1, price at the segment boundary
	CurveLimit      *big.Rat // L, cumulative reserve amount at the boundary
	TotalSupply     *big.Rat // S, circulating launch token supply
}

// Config holds the derived curve parameters. Immutable once derived.
type Config struct {
	BasePrice     *big.Rat // p0
	Slope         *big.Rat // M = (p1-p0)/L
	Limit         *big.Rat // L
	ReserveOffset *big.Rat // b = p1*y1 - L
	LinearSupply  *big.Rat // dy, launch tokens sold on the linear segment
	PivotSupply   *big.Rat // y1 = S - dy
	Product       *big.Rat // K = (L+b)*y1
}

var two = big.NewRat(2, 1)

// Derive computes the curve parameters from launch inputs using exact
// rational arithmetic. Rounding happens only when raw fixed-point values
// are emitted, never inside the chained formulas.
func Derive(in Inputs) (*Config, error) {
	if in.StartingPrice == nil || in.StartingPrice.Sign() <= 0 {
		return nil, &ConfigError{Field: "starting price", Reason: "must be positive"}
	}
	if in.TransitionPrice == nil || in.TransitionPrice.Cmp(in.StartingPrice) <= 0 {
		return nil, &ConfigError{Field: "transition price", Reason: "must exceed starting price"}
	}
	if in.CurveLimit == nil || in.CurveLimit.Sign() <= 0 {
		return nil, &ConfigError{Field: "curve limit", Reason: "must be positive"}
	}
	if in.TotalSupply == nil || in.TotalSupply.Sign() <= 0 {
		return nil, &ConfigError{Field: "total supply", Reason: "must be positive"}
	}

	p0 := in.StartingPrice
	p1 := in.TransitionPrice
	limit := in.CurveLimit

	// M = (p1 - p0) / L
	slope := new(big.Rat).Sub(p1, p0)
	slope.Quo(slope, limit)

	// dy = 2L / (p0 + p1): the reserve spent on the linear segment equals
	// the trapezoidal area under the price line from 0 to L.
	priceSum := new(big.Rat).Add(p0, p1)
	dy := new(big.Rat).Mul(two, limit)
	dy.Quo(dy, priceSum)

	if in.TotalSupply.Cmp(dy) <= 0 {
		return nil, &ConfigError{Field: "total supply", Reason: "must exceed linear segment supply"}
	}

	// y1 = S - dy
	y1 := new(big.Rat).Sub(in.TotalSupply, dy)

	// b = p1*y1 - L, so that vx = b+L = p1*y1 at the boundary and
	// price(L) = vx/y1 = p1.
	offset := new(big.Rat).Mul(p1, y1)
	offset.Sub(offset, limit)

	// K = (L + b) * y1
	product := new(big.Rat).Add(limit, offset)
	product.Mul(product, y1)

	return &Config{
		BasePrice:     new(big.Rat).Set(p0),
		Slope:         slope,
		Limit:         new(big.Rat).Set(limit),
		ReserveOffset: offset,
		LinearSupply:  dy,
		PivotSupply:   y1,
		Product:       product,
	}, nil
}

// FromChain rebuilds a Config from parameters read back off a pool. The
// derived fields are recomputed from the stored ones so Price works for
// both segments.
func FromChain(basePrice, slope, limit, reserveOffset, totalSupply *big.Rat) (*Config, error) {
	if basePrice == nil || limit == nil || slope == nil || reserveOffset == nil {
		return nil, &ConfigError{Field: "chain parameters", Reason: "are incomplete"}
	}
	if limit.Sign() <= 0 {
		return nil, &ConfigError{Field: "curve limit", Reason: "must be positive"}
	}

	// p1 = p0 + M*L
	p1 := new(big.Rat).Mul(slope, limit)
	p1.Add(p1, basePrice)

	// Continuity: vx = b+L and price(L) = p1 give y1 = (b+L)/p1.
	vx := new(big.Rat).Add(reserveOffset, limit)
	y1 := new(big.Rat).Quo(vx, p1)

	cfg := &Config{
		BasePrice:     new(big.Rat).Set(basePrice),
		Slope:         new(big.Rat).Set(slope),
		Limit:         new(big.Rat).Set(limit),
		ReserveOffset: new(big.Rat).Set(reserveOffset),
		PivotSupply:   y1,
		Product:       new(big.Rat).Mul(vx, y1),
	}
	if totalSupply != nil {
		cfg.LinearSupply = new(big.Rat).Sub(totalSupply, y1)
	}
	return cfg, nil
}

// Price evaluates the curve at cumulative reserve amount x.
func (c *Config) Price(x *big.Rat) *big.Rat {
	if x == nil || x.Sign() < 0 {
		return new(big.Rat).Set(c.BasePrice)
	}
	if x.Cmp(c.Limit) <= 0 {
		// p0 + M*x
		price := new(big.Rat).Mul(c.Slope, x)
		return price.Add(price, c.BasePrice)
	}
	// price = vx^2 / K with vx = b + x
	vx := new(big.Rat).Add(c.ReserveOffset, x)
	price := new(big.Rat).Mul(vx, vx)
	return price.Quo(price, c.Product)
}

// TransitionPrice returns the price at the segment boundary.
func (c *Config) TransitionPrice() *big.Rat {
	return c.Price(c.Limit)
}
