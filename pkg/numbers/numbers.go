// Package numbers provides rounding and clamping helpers on top of
// arbitrary-precision decimals.
package numbers

import (
	"fmt"
	"math/big"
	"math/rand"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// Rounding selects how ties and remainders are resolved.
type Rounding int

const (
	// RoundHalfEven rounds ties to the nearest even digit.
	RoundHalfEven Rounding = iota
	// RoundHalfUp rounds ties away from zero.
	RoundHalfUp
	// RoundDown rounds towards zero.
	RoundDown
	// RoundUp rounds away from zero.
	RoundUp
	// RoundFloor rounds towards negative infinity.
	RoundFloor
	// RoundCeiling rounds towards positive infinity.
	RoundCeiling
)

func applyRounding(d decimal.Decimal, places int32, mode Rounding) decimal.Decimal {
	switch mode {
	case RoundHalfUp:
		return d.Round(places)
	case RoundDown:
		return d.Truncate(places)
	case RoundUp:
		return d.RoundUp(places)
	case RoundFloor:
		return d.RoundFloor(places)
	case RoundCeiling:
		return d.RoundCeil(places)
	default:
		return d.RoundBank(places)
	}
}

// Quantise rounds n to the nearest multiple of base. With the
// RoundHalfEven mode, values exactly half way between two multiples
// round to the even multiple, so Quantise of 15 with base 30 is 0.
// It panics when base is not positive.
func Quantise(n decimal.Decimal, base int64, mode Rounding) int64 {
	if base <= 0 {
		panic(fmt.Sprintf("numbers: quantise base must be positive, got %d", base))
	}
	b := decimal.NewFromInt(base)
	return applyRounding(n.Div(b), 0, mode).Mul(b).IntPart()
}

// RoundDecimalPlaces rounds value to the given number of decimal
// places. RoundHalfUp gives the conventional arithmetic rounding
// where 12.35 at one place becomes 12.4.
func RoundDecimalPlaces(value decimal.Decimal, places int32, mode Rounding) decimal.Decimal {
	return applyRounding(value, places, mode)
}

// TruncateDecimalPlaces cuts value towards zero at the given number
// of decimal places and returns the nearest float.
func TruncateDecimalPlaces(value decimal.Decimal, places int32) float64 {
	return value.Truncate(places).InexactFloat64()
}

// RoundToInteger rounds value to a whole number.
func RoundToInteger(value decimal.Decimal, mode Rounding) int64 {
	return applyRounding(value, 0, mode).IntPart()
}

// RemoveExponent strips trailing zeroes from d without changing its
// value, so 2.500 becomes 2.5 and 5.00 becomes 5.
func RemoveExponent(d decimal.Decimal) decimal.Decimal {
	coeff := new(big.Int).Set(d.Coefficient())
	if coeff.Sign() == 0 {
		return decimal.Zero
	}
	exp := d.Exponent()
	ten := big.NewInt(10)
	rem := new(big.Int)
	for exp < 0 && coeff.Sign() != 0 {
		q, r := new(big.Int).QuoRem(coeff, ten, rem)
		if r.Sign() != 0 {
			break
		}
		coeff = q
		exp++
	}
	return decimal.NewFromBigInt(coeff, exp)
}

// ClipToRange clamps val to the closed interval [minval, maxval]. It
// panics when minval is greater than maxval.
func ClipToRange[T constraints.Ordered](val, minval, maxval T) T {
	if minval > maxval {
		panic(fmt.Sprintf("numbers: minval %v greater than maxval %v", minval, maxval))
	}
	switch {
	case val < minval:
		return minval
	case val > maxval:
		return maxval
	default:
		return val
	}
}

// RandomInt returns a pseudo-random integer with exactly the given
// number of digits. The length must be at least 2.
func RandomInt(length int) (int, error) {
	if length < 2 {
		return 0, fmt.Errorf("length must be greater than or equal to 2, got %d", length)
	}
	rangeStart := 1
	for i := 1; i < length; i++ {
		rangeStart *= 10
	}
	rangeEnd := rangeStart*10 - 1
	return rangeStart + rand.Intn(rangeEnd-rangeStart+1), nil
}
