// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import (
	"errors"
	"fmt"
	"math"
)

// Conversion is the transform applied to a field's raw wire value.
// The set is closed: every schema entry uses exactly one of these.
type Conversion uint8

const (
	// Integer passes the value through as an int64.
	Integer Conversion = iota

	// Milli divides by 1000 (millivolts to volts, for example).
	Milli

	// Centi divides by 100 (centidegrees to degrees).
	Centi

	// Hex renders an integer as "0x" followed by at least two
	// uppercase hex digits: 31 becomes "0x1F".
	Hex

	// RawBytes passes a byte string through unchanged.
	RawBytes
)

// String returns the conversion's name as used in schema listings.
func (c Conversion) String() string {
	switch c {
	case Integer:
		return "int"
	case Milli:
		return "milli"
	case Centi:
		return "centi"
	case Hex:
		return "hex"
	case RawBytes:
		return "bytes"
	default:
		return fmt.Sprintf("conversion(%d)", uint8(c))
	}
}

var (
	errNotInteger = errors.New("expected an integer")
	errNotNumber  = errors.New("expected a number")
	errNotBytes   = errors.New("expected a byte string")
	errOverflow   = errors.New("integer overflows int64")
)

// Apply converts raw. The result is an int64, float64, string or
// []byte depending on the conversion. Apply has no side effects and
// performs no range checks; the only failures are type mismatches.
func (c Conversion) Apply(raw any) (any, error) {
	switch c {
	case Integer:
		return toInteger(raw)
	case Milli:
		value, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return value / 1000, nil
	case Centi:
		value, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return value / 100, nil
	case Hex:
		value, err := exactInteger(raw)
		if err != nil {
			return nil, err
		}
		return FormatHex(value), nil
	case RawBytes:
		data, ok := raw.([]byte)
		if !ok {
			return nil, errNotBytes
		}
		return append([]byte(nil), data...), nil
	default:
		return nil, fmt.Errorf("unknown conversion %d", uint8(c))
	}
}

// FormatHex renders value the way Hex does.
func FormatHex(value int64) string {
	return fmt.Sprintf("0x%02X", value)
}

// exactInteger accepts only integer kinds.
func exactInteger(raw any) (int64, error) {
	switch value := raw.(type) {
	case uint64:
		if value > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(value), nil
	case int64:
		return value, nil
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case uint:
		if uint64(value) > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint8:
		return int64(value), nil
	default:
		return 0, errNotInteger
	}
}

// toInteger accepts integers and truncates floats toward zero, so a
// controller that reports a whole-number reading as a CBOR float still
// decodes.
func toInteger(raw any) (int64, error) {
	switch value := raw.(type) {
	case float64:
		return truncate(value)
	case float32:
		return truncate(float64(value))
	default:
		return exactInteger(raw)
	}
}

func truncate(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errNotInteger
	}
	if value >= math.MaxInt64 || value < math.MinInt64 {
		return 0, errOverflow
	}
	return int64(value), nil
}

func toFloat(raw any) (float64, error) {
	switch value := raw.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case uint64:
		return float64(value), nil
	}
	integer, err := exactInteger(raw)
	if err != nil {
		return 0, errNotNumber
	}
	return float64(integer), nil
}
