// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"encoding/json"
	"testing"

	"github.com/bureau-foundation/heaterlink/lib/codec"
)

func TestNodeJSONShape(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"bool", BoolNode(true), `{"BOOL":true}`},
		{"null keeps the true marker", NullNode(), `{"NULL":true}`},
		{"string", StringNode("idle"), `{"S":"idle"}`},
		{"number", NumberNode("31"), `{"N":"31"}`},
		{"bytes are base64", BytesNode([]byte("hi")), `{"B":"aGk="}`},
		{"map", MapNode(map[string]Node{"a": NumberNode("1")}), `{"M":{"a":{"N":"1"}}}`},
		{"empty map", MapNode(nil), `{"M":{}}`},
		{"list", ListNode(NumberNode("1"), StringNode("x")), `{"L":[{"N":"1"},{"S":"x"}]}`},
		{"bytes set", BytesSetNode([]byte("a")), `{"BS":["YQ=="]}`},
		{"number set", NumberSetNode("1", "2"), `{"NS":["1","2"]}`},
		{"string set", StringSetNode("a"), `{"SS":["a"]}`},
		{"gap", Node{}, `{}`},
		{"map keeps a gap child", MapNode(map[string]Node{"a": {}, "b": NumberNode("1")}), `{"M":{"a":{},"b":{"N":"1"}}}`},
		{"list keeps a gap position", ListNode(Node{}, StringNode("x")), `{"L":[{},{"S":"x"}]}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := json.Marshal(test.node)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != test.want {
				t.Errorf("JSON = %s, want %s", data, test.want)
			}

			var decoded Node
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !decoded.Equal(test.node) {
				t.Errorf("JSON roundtrip = %s, want %s", decoded, test.node)
			}
		})
	}
}

func TestNodeUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"two tags", `{"S":"a","N":"1"}`},
		{"unknown tag", `{"X":"a"}`},
		{"wrong payload type", `{"N":1}`},
		{"not an object", `"S"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var node Node
			if err := json.Unmarshal([]byte(test.json), &node); err == nil {
				t.Errorf("Unmarshal(%s) = %s, want error", test.json, node)
			}
		})
	}
}

func TestItemCBORRoundtrip(t *testing.T) {
	item := Item{
		"fsm_state": NumberNode("31"),
		"buffer":    BytesNode([]byte{0x00, 0xff}),
		"nested": MapNode(map[string]Node{
			"list": ListNode(BoolNode(false), NullNode()),
		}),
		"tags":    StringSetNode("a", "b"),
		"partial": MapNode(map[string]Node{"lost": {}, "kept": NumberNode("2")}),
	}

	data, err := codec.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Item
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != len(item) {
		t.Fatalf("decoded %d attributes, want %d", len(decoded), len(item))
	}
	for name, node := range item {
		if !decoded[name].Equal(node) {
			t.Errorf("%s = %s, want %s", name, decoded[name], node)
		}
	}
}

func TestNodeCBORBytesAreByteStrings(t *testing.T) {
	data, err := codec.Marshal(BytesNode([]byte{0x01}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := codec.Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if diagnostic != `{"B": h'01'}` {
		t.Errorf("diagnostic = %s, want {\"B\": h'01'}", diagnostic)
	}
}

func TestScenarioEnvelope(t *testing.T) {
	item, dropped := EncodeItem(map[string]any{
		"fsm_state":    "0x1F",
		"flame_detect": 12.5,
		"timestamp":    1773500966.5,
	})
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v", dropped)
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"flame_detect":{"N":"12.5"},"fsm_state":{"N":"31"},"timestamp":{"N":"1773500966.5"}}`
	if string(data) != want {
		t.Errorf("envelope = %s, want %s", data, want)
	}
}
