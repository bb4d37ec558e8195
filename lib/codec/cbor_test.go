// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// storedItem mirrors the shape the sqlite item store persists: a map
// of field name to a single-entry tag map.
type storedItem struct {
	Table string         `cbor:"table"`
	Item  map[string]any `cbor:"item"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := storedItem{
		Table: "heater",
		Item:  map[string]any{"fsm_state": map[string]any{"N": "31"}},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded storedItem
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Table != original.Table {
		t.Errorf("table = %q, want %q", decoded.Table, original.Table)
	}
	node, ok := decoded.Item["fsm_state"].(map[any]any)
	if !ok {
		t.Fatalf("fsm_state decoded as %T, want map[any]any", decoded.Item["fsm_state"])
	}
	if node["N"] != "31" {
		t.Errorf("fsm_state N = %v, want 31", node["N"])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{
		"coolant_temp": 21.37,
		"burn_power":   int64(40),
		"fsm_state":    "0x1F",
		"gpios":        "0x03",
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestUnmarshalIntegerKeyedMap(t *testing.T) {
	// {3: 31, 6: 12500}
	data := []byte{0xa2, 0x03, 0x18, 0x1f, 0x06, 0x19, 0x30, 0xd4}

	var frame map[any]any
	if err := Unmarshal(data, &frame); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := frame[uint64(3)]; got != uint64(31) {
		t.Errorf("key 3 = %v (%T), want uint64(31)", got, got)
	}
	if got := frame[uint64(6)]; got != uint64(12500) {
		t.Errorf("key 6 = %v (%T), want uint64(12500)", got, got)
	}
}

func TestUnmarshalFirstReturnsRest(t *testing.T) {
	first, err := Marshal(map[int]int{0: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(map[int]int{1: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	buffer := append(append([]byte{}, first...), second...)

	var frame map[any]any
	rest, err := UnmarshalFirst(buffer, &frame)
	if err != nil {
		t.Fatalf("UnmarshalFirst: %v", err)
	}
	if !bytes.Equal(rest, second) {
		t.Errorf("rest = %x, want %x", rest, second)
	}
	if frame[uint64(0)] != uint64(1) {
		t.Errorf("first frame = %v", frame)
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	data := []byte{0xa0, 0x00}
	var frame map[any]any
	if err := Unmarshal(data, &frame); err == nil {
		t.Error("Unmarshal should reject extraneous data after the first item")
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var frame map[any]any
	err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &frame)
	if err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestByteStringRoundtrip(t *testing.T) {
	type envelope struct {
		Payload []byte `cbor:"payload"`
	}

	original := envelope{Payload: []byte{0xde, 0xad, 0xbe, 0xef}}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded envelope
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !bytes.Equal(decoded.Payload, original.Payload) {
		t.Errorf("byte string roundtrip: got %x, want %x", decoded.Payload, original.Payload)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[int]int{3: 31})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, "3: 31") {
		t.Errorf("Diagnose = %q, want it to contain %q", diagnostic, "3: 31")
	}
}

func TestDiagnoseFirst(t *testing.T) {
	first, _ := Marshal(map[int]int{0: 2})
	second, _ := Marshal(map[int]int{1: 1})
	buffer := append(append([]byte{}, first...), second...)

	diagnostic, rest, err := DiagnoseFirst(buffer)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if diagnostic != "{0: 2}" {
		t.Errorf("DiagnoseFirst = %q, want %q", diagnostic, "{0: 2}")
	}
	if !bytes.Equal(rest, second) {
		t.Errorf("rest = %x, want %x", rest, second)
	}
}

func BenchmarkUnmarshalFrame(b *testing.B) {
	data := []byte{0xa2, 0x03, 0x18, 0x1f, 0x06, 0x19, 0x30, 0xd4}

	b.ReportAllocs()
	for b.Loop() {
		var frame map[any]any
		Unmarshal(data, &frame)
	}
}
