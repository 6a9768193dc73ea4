package domain

import "maps"

// NodeType represents the kind of process step a node stands for
type NodeType string

const (
	NodeTypeAIAgent NodeType = "ai-agent"
	NodeTypeHuman   NodeType = "human"
	NodeTypeProcess NodeType = "process"
)

// NodeTypes lists every node type in palette order
var NodeTypes = []NodeType{NodeTypeAIAgent, NodeTypeHuman, NodeTypeProcess}

// Valid reports whether t is one of the known node types
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeAIAgent, NodeTypeHuman, NodeTypeProcess:
		return true
	}
	return false
}

// Node represents a step placed on the canvas
type Node struct {
	ID          string         `json:"id"`
	Type        NodeType       `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Position    Position       `json:"position"`
	Properties  map[string]any `json:"properties"`
}

// NewNode is the input of a place-node action; the store assigns the ID
type NewNode struct {
	Type        NodeType       `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Position    Position       `json:"position"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// Build creates the node record for id
func (n NewNode) Build(id string) Node {
	props := maps.Clone(n.Properties)
	if props == nil {
		props = make(map[string]any)
	}
	return Node{
		ID:          id,
		Type:        n.Type,
		Title:       n.Title,
		Description: n.Description,
		Position:    n.Position,
		Properties:  props,
	}
}

// NodePatch carries the fields of a partial node update. Nil fields are left
// untouched; a non-nil Properties replaces the whole map.
type NodePatch struct {
	Title       *string        `json:"title,omitempty" mapstructure:"title"`
	Description *string        `json:"description,omitempty" mapstructure:"description"`
	Position    *Position      `json:"position,omitempty" mapstructure:"position"`
	Properties  map[string]any `json:"properties,omitempty" mapstructure:"properties"`
}

// Empty reports whether the patch changes nothing
func (p NodePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Position == nil && p.Properties == nil
}

// Apply returns a copy of n with the patch merged in. n is not modified.
func (p NodePatch) Apply(n Node) Node {
	out := n
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Properties != nil {
		out.Properties = maps.Clone(p.Properties)
	}
	return out
}

// GetProperty gets a property value
func (n Node) GetProperty(key string) (any, bool) {
	if n.Properties == nil {
		return nil, false
	}
	val, ok := n.Properties[key]
	return val, ok
}

// GetPropertyString gets a property as a string
func (n Node) GetPropertyString(key string) string {
	val, ok := n.GetProperty(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithProperty returns a property map equal to n's plus key=value
func (n Node) WithProperty(key string, value any) map[string]any {
	props := maps.Clone(n.Properties)
	if props == nil {
		props = make(map[string]any)
	}
	props[key] = value
	return props
}

// Summary is the one-line caption shown under the node title
func (n Node) Summary() string {
	switch n.Type {
	case NodeTypeAIAgent:
		return "Automated processing"
	case NodeTypeHuman:
		return "Manual intervention"
	case NodeTypeProcess:
		return "Business logic"
	}
	return ""
}
