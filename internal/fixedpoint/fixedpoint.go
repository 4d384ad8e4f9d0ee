package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
)

// Q128 scales the raw on-chain price encoding.
var Q128 = new(big.Int).Lsh(big.NewInt(1), 128)

// Q192 is the divisor for squared sqrtPriceX96 values.
var Q192 = new(big.Int).Lsh(big.NewInt(1), 192)

var (
	pow10Mu    sync.Mutex
	pow10Cache = map[int]*big.Int{0: big.NewInt(1)}
)

// Pow10 returns 10^exp as a big.Int. Results are cached; callers must not
// mutate the returned value.
func Pow10(exp int) *big.Int {
	if exp < 0 {
		exp = 0
	}
	pow10Mu.Lock()
	defer pow10Mu.Unlock()
	if val, ok := pow10Cache[exp]; ok {
		return val
	}
	result := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
	pow10Cache[exp] = result
	return result
}

// ParseDecimal parses a human decimal string into an exact rational.
func ParseDecimal(value string) (*big.Rat, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty decimal value")
	}
	rat, ok := new(big.Rat).SetString(value)
	if !ok {
		return nil, fmt.Errorf("invalid decimal value %q", value)
	}
	return rat, nil
}

// ParseUnits converts a human decimal string into a raw integer amount
// scaled by 10^decimals. The fractional part must fit in decimals digits.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(value)
	neg := strings.HasPrefix(value, "-")
	if neg {
		value = value[1:]
	}
	if value == "" {
		return nil, fmt.Errorf("empty amount")
	}

	whole := value
	frac := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", value, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	raw, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if neg {
		raw.Neg(raw)
	}
	return raw, nil
}

// FormatUnits converts a raw integer amount into a human decimal string,
// trimming trailing fractional zeros.
func FormatUnits(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	abs := new(big.Int).Abs(raw)
	scale := Pow10(int(decimals))
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, scale, frac)

	out := whole.String()
	if frac.Sign() != 0 {
		digits := fmt.Sprintf("%0*s", decimals, frac.String())
		digits = strings.TrimRight(digits, "0")
		out += "." + digits
	}
	if raw.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// PriceToRaw converts a human price (reserve units per launch unit) into the
// on-chain 128-bit-fractional encoding:
//
//	raw = floor(price * 10^reserveDecimals) * 2^128 / 10^launchDecimals
//
// Truncation only happens at this boundary so the raw value never encodes a
// price above the input.
func PriceToRaw(price *big.Rat, launchDecimals, reserveDecimals uint8) (*big.Int, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	scaled := new(big.Rat).Mul(price, new(big.Rat).SetInt(Pow10(int(reserveDecimals))))
	floored := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	raw := new(big.Int).Mul(floored, Q128)
	raw.Quo(raw, Pow10(int(launchDecimals)))
	return raw, nil
}

// RawToPrice reverses PriceToRaw into an exact rational.
func RawToPrice(raw *big.Int, launchDecimals, reserveDecimals uint8) *big.Rat {
	if raw == nil || raw.Sign() == 0 {
		return new(big.Rat)
	}
	num := new(big.Int).Mul(raw, Pow10(int(launchDecimals)))
	den := new(big.Int).Mul(Q128, Pow10(int(reserveDecimals)))
	return new(big.Rat).SetFrac(num, den)
}

// PriceFromSqrtX96 converts a pool sqrtPriceX96 into a human token1/token0
// price adjusted for decimals. When the reserve token is token0, the
// reciprocal is returned so the price stays in reserve units per launch unit.
func PriceFromSqrtX96(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8, reserveIsToken0 bool) (*big.Rat, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return nil, fmt.Errorf("sqrt price must be positive")
	}
	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	den := new(big.Int).Set(Q192)

	exp := int(decimals0) - int(decimals1)
	if exp > 0 {
		num = new(big.Int).Mul(num, Pow10(exp))
	} else if exp < 0 {
		den = new(big.Int).Mul(den, Pow10(-exp))
	}

	price := new(big.Rat).SetFrac(num, den)
	if reserveIsToken0 {
		if price.Sign() == 0 {
			return nil, fmt.Errorf("cannot invert zero price")
		}
		price.Inv(price)
	}
	return price, nil
}

// SqrtX96FromPrice converts a human price back into a sqrtPriceX96 encoding,
// the inverse of PriceFromSqrtX96. The result is the integer square root of
// the exact rational, so a round trip recovers the price within one unit of
// sqrt precision.
func SqrtX96FromPrice(price *big.Rat, decimals0, decimals1 uint8, reserveIsToken0 bool) (*big.Int, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	p := new(big.Rat).Set(price)
	if reserveIsToken0 {
		p.Inv(p)
	}

	num := new(big.Int).Set(p.Num())
	den := new(big.Int).Set(p.Denom())
	exp := int(decimals0) - int(decimals1)
	if exp > 0 {
		den = new(big.Int).Mul(den, Pow10(exp))
	} else if exp < 0 {
		num = new(big.Int).Mul(num, Pow10(-exp))
	}

	// sqrt(num/den * 2^192) = sqrt(num * 2^192 / den)
	scaled := new(big.Int).Mul(num, Q192)
	scaled.Quo(scaled, den)
	return scaled.Sqrt(scaled), nil
}
