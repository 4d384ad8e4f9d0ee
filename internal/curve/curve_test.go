package curve

import (
	"math/big"
	"testing"
)

func rat(t *testing.T, s string) *big.Rat {
	t.Helper()
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		t.Fatalf("bad rational literal %q", s)
	}
	return r
}

func testInputs(t *testing.T) Inputs {
	return Inputs{
		StartingPrice:   rat(t, "0.001"),
		TransitionPrice: rat(t, "0.01"),
		CurveLimit:      rat(t, "10000"),
		TotalSupply:     rat(t, "1000000000"),
	}
}

func TestDerive(t *testing.T) {
	cfg, err := Derive(testInputs(t))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	// Exact rational expectations for p0=0.001, p1=0.01, L=10000, S=1e9:
	// dy = 2L/(p0+p1) = 20000000/11
	// y1 = S - dy     = 10980000000/11
	// b  = p1*y1 - L  = 109690000/11
	checks := []struct {
		name string
		got  *big.Rat
		want *big.Rat
	}{
		{"slope", cfg.Slope, big.NewRat(9, 10000000)},
		{"linear supply", cfg.LinearSupply, big.NewRat(20000000, 11)},
		{"pivot supply", cfg.PivotSupply, big.NewRat(10980000000, 11)},
		{"reserve offset", cfg.ReserveOffset, big.NewRat(109690000, 11)},
	}
	for _, check := range checks {
		if check.got.Cmp(check.want) != 0 {
			t.Fatalf("%s = %s, want %s", check.name, check.got.RatString(), check.want.RatString())
		}
	}

	if cfg.Price(new(big.Rat)).Cmp(rat(t, "0.001")) != 0 {
		t.Fatalf("price at 0 = %s, want 0.001", cfg.Price(new(big.Rat)).RatString())
	}
}

func TestDeriveRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Inputs)
		field  string
	}{
		{"zero starting price", func(in *Inputs) { in.StartingPrice = new(big.Rat) }, "starting price"},
		{"negative starting price", func(in *Inputs) { in.StartingPrice = rat(t, "-1") }, "starting price"},
		{"transition below start", func(in *Inputs) { in.TransitionPrice = rat(t, "0.0005") }, "transition price"},
		{"transition equals start", func(in *Inputs) { in.TransitionPrice = rat(t, "0.001") }, "transition price"},
		{"zero limit", func(in *Inputs) { in.CurveLimit = new(big.Rat) }, "curve limit"},
		{"supply below linear segment", func(in *Inputs) { in.TotalSupply = rat(t, "1000000") }, "total supply"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInputs(t)
			tc.mutate(&in)

			_, err := Derive(in)
			if err == nil {
				t.Fatalf("expected error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("error type %T, want *ConfigError", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("error field %q, want %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestPriceContinuityAtLimit(t *testing.T) {
	cfg, err := Derive(testInputs(t))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	p1 := rat(t, "0.01")

	// At the boundary the linear formula applies and must give p1 exactly.
	if got := cfg.Price(cfg.Limit); got.Cmp(p1) != 0 {
		t.Fatalf("price at limit = %s, want %s", got.RatString(), p1.RatString())
	}

	// The product segment at the same point: vx^2/K with vx = b+L must also
	// equal p1 exactly, since K = vx*y1 and p1 = vx/y1.
	vx := new(big.Rat).Add(cfg.ReserveOffset, cfg.Limit)
	product := new(big.Rat).Mul(vx, vx)
	product.Quo(product, cfg.Product)
	if product.Cmp(p1) != 0 {
		t.Fatalf("product segment at limit = %s, want %s", product.RatString(), p1.RatString())
	}

	// Just past the boundary the price keeps rising.
	above := cfg.Price(new(big.Rat).Add(cfg.Limit, big.NewRat(1, 1)))
	if above.Cmp(p1) <= 0 {
		t.Fatalf("price just past limit = %s, want > %s", above.RatString(), p1.RatString())
	}
}

func TestPriceMonotonic(t *testing.T) {
	cfg, err := Derive(testInputs(t))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	prev := cfg.Price(new(big.Rat))
	for x := int64(1000); x <= 50000; x += 1000 {
		price := cfg.Price(big.NewRat(x, 1))
		if price.Cmp(prev) < 0 {
			t.Fatalf("price decreased at x=%d: %s < %s", x, price.RatString(), prev.RatString())
		}
		prev = price
	}
}

func TestFromChainRoundTrip(t *testing.T) {
	in := testInputs(t)
	derived, err := Derive(in)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	rebuilt, err := FromChain(derived.BasePrice, derived.Slope, derived.Limit, derived.ReserveOffset, in.TotalSupply)
	if err != nil {
		t.Fatalf("FromChain: %v", err)
	}

	if rebuilt.PivotSupply.Cmp(derived.PivotSupply) != 0 {
		t.Fatalf("pivot supply = %s, want %s", rebuilt.PivotSupply.RatString(), derived.PivotSupply.RatString())
	}
	if rebuilt.Product.Cmp(derived.Product) != 0 {
		t.Fatalf("product = %s, want %s", rebuilt.Product.RatString(), derived.Product.RatString())
	}
	if rebuilt.LinearSupply.Cmp(derived.LinearSupply) != 0 {
		t.Fatalf("linear supply = %s, want %s", rebuilt.LinearSupply.RatString(), derived.LinearSupply.RatString())
	}

	for x := int64(0); x <= 30000; x += 5000 {
		xr := big.NewRat(x, 1)
		if rebuilt.Price(xr).Cmp(derived.Price(xr)) != 0 {
			t.Fatalf("price mismatch at x=%d", x)
		}
	}
}

func TestSampler(t *testing.T) {
	cfg, err := Derive(testInputs(t))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	sampler := NewSampler(cfg, 10, 2)

	var points []Point
	for {
		point, ok := sampler.Next()
		if !ok {
			break
		}
		points = append(points, point)
	}

	// Step L/10 over [0, 2L] inclusive: 21 samples.
	if len(points) != 21 {
		t.Fatalf("sample count = %d, want 21", len(points))
	}
	if points[0].X.Sign() != 0 {
		t.Fatalf("first sample x = %s, want 0", points[0].X.RatString())
	}
	if points[0].Price.Cmp(cfg.BasePrice) != 0 {
		t.Fatalf("first sample price = %s, want base price", points[0].Price.RatString())
	}
	last := points[len(points)-1]
	if last.X.Cmp(new(big.Rat).Mul(cfg.Limit, big.NewRat(2, 1))) != 0 {
		t.Fatalf("last sample x = %s, want 2L", last.X.RatString())
	}

	sampler.Reset()
	point, ok := sampler.Next()
	if !ok || point.X.Sign() != 0 {
		t.Fatalf("reset did not rewind to x=0")
	}
}

func TestRawArgs(t *testing.T) {
	in := testInputs(t)
	cfg, err := Derive(in)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	raw, err := cfg.RawArgs(in.TotalSupply, 18, 6)
	if err != nil {
		t.Fatalf("RawArgs: %v", err)
	}

	// start price: floor(0.001 * 10^6) * 2^128 / 10^18 = 1000 << 128 / 10^18
	wantStart := new(big.Int).Lsh(big.NewInt(1000), 128)
	wantStart.Quo(wantStart, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	if raw.StartPrice.Cmp(wantStart) != 0 {
		t.Fatalf("start price = %s, want %s", raw.StartPrice, wantStart)
	}

	wantSwitch := new(big.Int).Lsh(big.NewInt(10000), 128)
	wantSwitch.Quo(wantSwitch, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	if raw.SwitchPrice.Cmp(wantSwitch) != 0 {
		t.Fatalf("switch price = %s, want %s", raw.SwitchPrice, wantSwitch)
	}

	// limit: 10000 * 10^6
	if raw.CurveLimit.Cmp(big.NewInt(10000000000)) != 0 {
		t.Fatalf("curve limit = %s, want 10000000000", raw.CurveLimit)
	}

	// supply: 1e9 * 10^18
	wantSupply := new(big.Int).Mul(big.NewInt(1000000000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	if raw.TotalSupply.Cmp(wantSupply) != 0 {
		t.Fatalf("total supply = %s, want %s", raw.TotalSupply, wantSupply)
	}

	// offset truncates 109690000/11 * 10^6 toward zero.
	wantOffset := new(big.Int).Mul(big.NewInt(109690000), big.NewInt(1000000))
	wantOffset.Quo(wantOffset, big.NewInt(11))
	if raw.ReserveOffset.Cmp(wantOffset) != 0 {
		t.Fatalf("reserve offset = %s, want %s", raw.ReserveOffset, wantOffset)
	}
}
