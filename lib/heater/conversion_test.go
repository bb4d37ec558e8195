// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import (
	"bytes"
	"math"
	"testing"
)

func TestConversionApply(t *testing.T) {
	tests := []struct {
		name       string
		conversion Conversion
		raw        any
		want       any
	}{
		{"integer from uint64", Integer, uint64(3), int64(3)},
		{"integer from int64", Integer, int64(-7), int64(-7)},
		{"integer truncates float", Integer, 3.9, int64(3)},
		{"integer truncates negative float", Integer, -3.9, int64(-3)},
		{"milli", Milli, uint64(12500), 12.5},
		{"milli negative", Milli, int64(-250), -0.25},
		{"milli from float", Milli, 1500.0, 1.5},
		{"centi", Centi, uint64(2137), 21.37},
		{"centi negative", Centi, int64(-512), -5.12},
		{"hex", Hex, uint64(31), "0x1F"},
		{"hex pads to two digits", Hex, uint64(3), "0x03"},
		{"hex zero", Hex, uint64(0), "0x00"},
		{"hex wide", Hex, uint64(0x1ABC), "0x1ABC"},
		{"hex negative", Hex, int64(-5), "0x-5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.conversion.Apply(test.raw)
			if err != nil {
				t.Fatalf("Apply(%v): %v", test.raw, err)
			}
			if got != test.want {
				t.Errorf("Apply(%v) = %v (%T), want %v (%T)", test.raw, got, got, test.want, test.want)
			}
		})
	}
}

func TestConversionRawBytesCopies(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	got, err := RawBytes.Apply(raw)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, ok := got.([]byte)
	if !ok {
		t.Fatalf("Apply returned %T, want []byte", got)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("Apply = %x, want %x", data, raw)
	}
	raw[0] = 0xFF
	if data[0] != 0x01 {
		t.Error("RawBytes result aliases the input buffer")
	}
}

func TestConversionTypeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		conversion Conversion
		raw        any
	}{
		{"integer from text", Integer, "12"},
		{"integer from bytes", Integer, []byte{1}},
		{"integer from NaN", Integer, math.NaN()},
		{"integer overflow", Integer, uint64(math.MaxUint64)},
		{"milli from text", Milli, "12500"},
		{"centi from nil", Centi, nil},
		{"hex from float", Hex, 31.0},
		{"hex from text", Hex, "0x1F"},
		{"bytes from text", RawBytes, "abc"},
		{"bytes from integer", RawBytes, uint64(4)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got, err := test.conversion.Apply(test.raw); err == nil {
				t.Fatalf("Apply(%#v) = %#v, want error", test.raw, got)
			}
		})
	}
}

func TestFormatHex(t *testing.T) {
	if got := FormatHex(31); got != "0x1F" {
		t.Fatalf("FormatHex(31) = %q, want 0x1F", got)
	}
}
