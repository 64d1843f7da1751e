package workflow

import (
	"encoding/json"
	"fmt"
)

// Document is a serialized workflow.
type Document struct {
	LastNodeID int             `json:"last_node_id"`
	LastLinkID int             `json:"last_link_id"`
	Nodes      []NodeDoc       `json:"nodes"`
	Links      []LinkDoc       `json:"links"`
	Groups     json.RawMessage `json:"groups,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
	Extra      json.RawMessage `json:"extra,omitempty"`
	Version    float64         `json:"version"`
}

// NodeDoc is a serialized node.
type NodeDoc struct {
	ID            int             `json:"id"`
	Type          string          `json:"type"`
	Pos           json.RawMessage `json:"pos,omitempty"`
	Size          json.RawMessage `json:"size,omitempty"`
	Flags         json.RawMessage `json:"flags,omitempty"`
	Order         int             `json:"order"`
	Mode          int             `json:"mode"`
	Inputs        []InputDoc      `json:"inputs,omitempty"`
	Outputs       []OutputDoc     `json:"outputs,omitempty"`
	Properties    map[string]any  `json:"properties,omitempty"`
	WidgetsValues json.RawMessage `json:"widgets_values,omitempty"`
}

// InputDoc is a serialized input port.
type InputDoc struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Link   *int            `json:"link"`
	Label  string          `json:"label,omitempty"`
	Shape  *int            `json:"shape,omitempty"`
	Widget json.RawMessage `json:"widget,omitempty"`
}

// OutputDoc is a serialized output port.
type OutputDoc struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Links     []int  `json:"links"`
	Label     string `json:"label,omitempty"`
	Shape     *int   `json:"shape,omitempty"`
	SlotIndex *int   `json:"slot_index,omitempty"`
}

// Decode parses a workflow document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode workflow: %w", err)
	}
	return &doc, nil
}

// Encode serializes the document with two-space indentation.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to clone workflow: %w", err)
	}
	return Decode(data)
}
