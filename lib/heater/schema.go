// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import "strconv"

// Position is a field's index in the schema. It doubles as the CBOR
// map key on the wire.
type Position int

// Wire positions. The order is the wire contract: inserting, removing
// or reordering entries breaks every deployed controller.
const (
	Version Position = iota
	PacketType
	Buffer
	FSMState
	FSMMode
	BurnPower
	FlameDetect
	CombustionFan
	VehicleFan
	InternalTemp
	OutdoorTemp
	CoolantTemp
	ExhaustTemp
	BatteryVoltage
	VSysVoltage
	GPIOs

	// FieldCount is the number of schema positions.
	FieldCount
)

// Field describes one schema position.
type Field struct {
	Name       string
	Conversion Conversion
}

// fields is indexed by Position. The keyed literal means a missing or
// duplicated position is a compile error, and the array length pins
// the table to FieldCount.
var fields = [FieldCount]Field{
	Version:        {Name: "version", Conversion: Integer},
	PacketType:     {Name: "packet_type", Conversion: Integer},
	Buffer:         {Name: "buffer", Conversion: RawBytes},
	FSMState:       {Name: "fsm_state", Conversion: Hex},
	FSMMode:        {Name: "fsm_mode", Conversion: Hex},
	BurnPower:      {Name: "burn_power", Conversion: Integer},
	FlameDetect:    {Name: "flame_detect", Conversion: Milli},
	CombustionFan:  {Name: "combustion_fan", Conversion: Integer},
	VehicleFan:     {Name: "vehicle_fan", Conversion: Integer},
	InternalTemp:   {Name: "internal_temp", Conversion: Centi},
	OutdoorTemp:    {Name: "outdoor_temp", Conversion: Centi},
	CoolantTemp:    {Name: "coolant_temp", Conversion: Centi},
	ExhaustTemp:    {Name: "exhaust_temp", Conversion: Centi},
	BatteryVoltage: {Name: "battery_voltage", Conversion: Milli},
	VSysVoltage:    {Name: "vsys_voltage", Conversion: Milli},
	GPIOs:          {Name: "gpios", Conversion: Hex},
}

// Valid reports whether p is a schema position.
func (p Position) Valid() bool {
	return p >= 0 && p < FieldCount
}

// Field returns the schema entry for p. It panics if p is not Valid.
func (p Position) Field() Field {
	return fields[p]
}

// String returns the field name, or "position(N)" outside the schema.
func (p Position) String() string {
	if !p.Valid() {
		return "position(" + strconv.Itoa(int(p)) + ")"
	}
	return fields[p].Name
}

// Fields returns a copy of the schema in position order.
func Fields() [FieldCount]Field {
	return fields
}

// Lookup returns the position of the named field.
func Lookup(name string) (Position, bool) {
	for position, field := range fields {
		if field.Name == name {
			return Position(position), true
		}
	}
	return 0, false
}
