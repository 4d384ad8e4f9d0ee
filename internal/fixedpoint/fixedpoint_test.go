package fixedpoint

import (
	"math/big"
	"testing"
)

func mustRat(t *testing.T, s string) *big.Rat {
	t.Helper()
	r, err := ParseDecimal(s)
	if err != nil {
		t.Fatalf("ParseDecimal(%q): %v", s, err)
	}
	return r
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		value    string
		decimals uint8
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"0.5", 6, "500000"},
		{"1000000000", 18, "1000000000000000000000000000"},
		{"0.000001", 6, "1"},
		{"-2.5", 6, "-2500000"},
		{"1.", 6, "1000000"},
		{".5", 2, "50"},
		{"0", 0, "0"},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.value, tc.decimals)
		if err != nil {
			t.Fatalf("ParseUnits(%q, %d): %v", tc.value, tc.decimals, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseUnits(%q, %d) = %s, want %s", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestParseUnitsErrors(t *testing.T) {
	cases := []struct {
		value    string
		decimals uint8
	}{
		{"", 18},
		{"abc", 18},
		{"1.2345678", 6}, // too many fractional digits
		{"1.5", 0},
	}
	for _, tc := range cases {
		if _, err := ParseUnits(tc.value, tc.decimals); err == nil {
			t.Fatalf("ParseUnits(%q, %d) succeeded, want error", tc.value, tc.decimals)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"1000000000000000000", 18, "1"},
		{"1500000", 6, "1.5"},
		{"1", 6, "0.000001"},
		{"-2500000", 6, "-2.5"},
		{"0", 18, "0"},
		{"1230000", 6, "1.23"},
	}
	for _, tc := range cases {
		raw, _ := new(big.Int).SetString(tc.raw, 10)
		if got := FormatUnits(raw, tc.decimals); got != tc.want {
			t.Fatalf("FormatUnits(%s, %d) = %q, want %q", tc.raw, tc.decimals, got, tc.want)
		}
	}
}

func TestPriceRawRoundTrip(t *testing.T) {
	cases := []struct {
		price      string
		launchDec  uint8
		reserveDec uint8
	}{
		{"0.001", 18, 6},
		{"0.01", 18, 6},
		{"1", 18, 18},
		{"2500", 6, 18},
		{"0.000001", 18, 6},
	}
	for _, tc := range cases {
		price := mustRat(t, tc.price)
		raw, err := PriceToRaw(price, tc.launchDec, tc.reserveDec)
		if err != nil {
			t.Fatalf("PriceToRaw(%s): %v", tc.price, err)
		}
		back := RawToPrice(raw, tc.launchDec, tc.reserveDec)

		// Truncation loses at most one reserve-decimal unit and never rounds
		// the recovered price above the input.
		if back.Cmp(price) > 0 {
			t.Fatalf("round trip of %s came back higher: %s", tc.price, back.RatString())
		}
		ulp := new(big.Rat).SetFrac(big.NewInt(1), Pow10(int(tc.reserveDec)))
		diff := new(big.Rat).Sub(price, back)
		if diff.Cmp(ulp) > 0 {
			t.Fatalf("round trip of %s off by %s, more than 1e-%d", tc.price, diff.RatString(), tc.reserveDec)
		}
	}
}

func TestPriceToRawRejectsNonPositive(t *testing.T) {
	if _, err := PriceToRaw(new(big.Rat), 18, 6); err == nil {
		t.Fatalf("zero price accepted")
	}
	if _, err := PriceToRaw(big.NewRat(-1, 2), 18, 6); err == nil {
		t.Fatalf("negative price accepted")
	}
	if _, err := PriceToRaw(nil, 18, 6); err == nil {
		t.Fatalf("nil price accepted")
	}
}

func TestSqrtPriceRoundTrip(t *testing.T) {
	cases := []struct {
		price           string
		dec0            uint8
		dec1            uint8
		reserveIsToken0 bool
	}{
		{"0.001", 6, 18, false},
		{"0.001", 18, 6, true},
		{"1", 18, 18, false},
		{"2500", 18, 6, true},
		{"0.0003", 6, 18, false},
	}
	for _, tc := range cases {
		price := mustRat(t, tc.price)
		sqrt, err := SqrtX96FromPrice(price, tc.dec0, tc.dec1, tc.reserveIsToken0)
		if err != nil {
			t.Fatalf("SqrtX96FromPrice(%s): %v", tc.price, err)
		}
		back, err := PriceFromSqrtX96(sqrt, tc.dec0, tc.dec1, tc.reserveIsToken0)
		if err != nil {
			t.Fatalf("PriceFromSqrtX96: %v", err)
		}

		// The integer square root loses under one part in 2^96; a relative
		// tolerance of 1e-18 is far above that.
		diff := new(big.Rat).Sub(price, back)
		diff.Abs(diff)
		tolerance := new(big.Rat).Mul(price, big.NewRat(1, 1000000000000000000))
		if diff.Cmp(tolerance) > 0 {
			t.Fatalf("sqrt round trip of %s off by %s", tc.price, diff.FloatString(24))
		}
	}
}

func TestPriceFromSqrtX96Reciprocal(t *testing.T) {
	price := mustRat(t, "0.004")
	sqrt, err := SqrtX96FromPrice(price, 18, 6, false)
	if err != nil {
		t.Fatalf("SqrtX96FromPrice: %v", err)
	}

	direct, err := PriceFromSqrtX96(sqrt, 18, 6, false)
	if err != nil {
		t.Fatalf("PriceFromSqrtX96: %v", err)
	}
	inverted, err := PriceFromSqrtX96(sqrt, 18, 6, true)
	if err != nil {
		t.Fatalf("PriceFromSqrtX96 (reserve as token0): %v", err)
	}

	product := new(big.Rat).Mul(direct, inverted)
	diff := new(big.Rat).Sub(product, big.NewRat(1, 1))
	diff.Abs(diff)
	if diff.Cmp(big.NewRat(1, 1000000000000)) > 0 {
		t.Fatalf("direct*inverted = %s, want 1", product.FloatString(18))
	}
}

func TestPriceFromSqrtX96RejectsZero(t *testing.T) {
	if _, err := PriceFromSqrtX96(new(big.Int), 18, 6, false); err == nil {
		t.Fatalf("zero sqrt price accepted")
	}
	if _, err := PriceFromSqrtX96(nil, 18, 6, false); err == nil {
		t.Fatalf("nil sqrt price accepted")
	}
}

func TestPow10(t *testing.T) {
	if Pow10(0).Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("Pow10(0) != 1")
	}
	if Pow10(6).Cmp(big.NewInt(1000000)) != 0 {
		t.Fatalf("Pow10(6) != 1e6")
	}
	// Same exponent twice returns the cached value.
	if Pow10(18) != Pow10(18) {
		t.Fatalf("Pow10 did not cache")
	}
}
