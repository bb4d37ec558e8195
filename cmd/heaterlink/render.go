// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/heaterlink/lib/heater"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	wireStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderTable lays out a decoded frame as field, value and wire
// columns, in schema order with the timestamp last.
func renderTable(result decodeResult) string {
	var names []string
	for _, field := range heater.Fields() {
		if _, ok := result.Record[field.Name]; ok {
			names = append(names, field.Name)
		}
	}
	names = append(names, heater.TimestampField)

	rows := [][3]string{{"FIELD", "VALUE", "WIRE"}}
	for _, name := range names {
		wire := "(dropped)"
		if node, ok := result.Item[name]; ok {
			wire = node.String()
		}
		rows = append(rows, [3]string{name, formatValue(result.Record[name]), wire})
	}

	var widths [2]int
	for _, row := range rows {
		for column := range widths {
			widths[column] = max(widths[column], lipgloss.Width(row[column]))
		}
	}

	var builder strings.Builder
	for index, row := range rows {
		name := pad(row[0], widths[0])
		value := pad(row[1], widths[1])
		wire := row[2]
		if index == 0 {
			builder.WriteString(headerStyle.Render(name + "  " + value + "  " + wire))
		} else {
			builder.WriteString(fieldStyle.Render(name) + "  " + value + "  " + wireStyle.Render(wire))
		}
		builder.WriteByte('\n')
	}

	if result.Trailing > 0 {
		builder.WriteString(warningStyle.Render(fmt.Sprintf("%d trailing bytes ignored", result.Trailing)))
		builder.WriteByte('\n')
	}
	return builder.String()
}

func pad(text string, width int) string {
	return text + strings.Repeat(" ", width-lipgloss.Width(text))
}

// formatValue renders a record value for humans: bytes as hex, floats
// without exponent noise.
func formatValue(value any) string {
	switch value := value.(type) {
	case []byte:
		return hex.EncodeToString(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
