// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
)

// Number is a numeric value held in its canonical decimal form. The
// zero Number is not a valid number and encodes as a gap.
type Number struct {
	text string
}

// Int returns the Number for an integer.
func Int(value int64) Number {
	return Number{text: strconv.FormatInt(value, 10)}
}

// Uint returns the Number for an unsigned integer.
func Uint(value uint64) Number {
	return Number{text: strconv.FormatUint(value, 10)}
}

// BigInt returns the Number for an arbitrary-precision integer.
func BigInt(value *big.Int) Number {
	return Number{text: value.String()}
}

// Float returns the Number for a float. NaN and the infinities have
// no decimal form and produce the invalid zero Number.
//
// The text is the shortest decimal that round-trips to value. Plain
// notation is used for magnitudes in [1e-6, 1e21); exponent notation
// outside that range keeps very large and very small readings short.
func Float(value float64) Number {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Number{}
	}
	magnitude := math.Abs(value)
	if magnitude != 0 && (magnitude < 1e-6 || magnitude >= 1e21) {
		return Number{text: strconv.FormatFloat(value, 'g', -1, 64)}
	}
	return Number{text: strconv.FormatFloat(value, 'f', -1, 64)}
}

// Valid reports whether n holds a number.
func (n Number) Valid() bool { return n.text != "" }

// String returns the decimal text, or "" for the invalid Number.
func (n Number) String() string { return n.text }

// hexText matches the strings that encode as numbers rather than text.
var hexText = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)

// ParseHex reports whether text is a hex literal such as "0x1F" and,
// if so, returns its value as a Number.
func ParseHex(text string) (Number, bool) {
	if !hexText.MatchString(text) {
		return Number{}, false
	}
	value, ok := new(big.Int).SetString(text[2:], 16)
	if !ok {
		return Number{}, false
	}
	return BigInt(value), true
}
