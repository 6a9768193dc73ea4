package domain

import "maps"

// ConnectionType represents the relationship a connection models
type ConnectionType string

const (
	ConnectionTypeWorkflow  ConnectionType = "workflow"
	ConnectionTypeHierarchy ConnectionType = "hierarchy"
	ConnectionTypeData      ConnectionType = "data"
)

// Valid reports whether t is one of the known connection types
func (t ConnectionType) Valid() bool {
	switch t {
	case ConnectionTypeWorkflow, ConnectionTypeHierarchy, ConnectionTypeData:
		return true
	}
	return false
}

// Connection links a source node to a target node
type Connection struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       ConnectionType `json:"type"`
	Properties map[string]any `json:"properties"`
}

// NewConnection is the input of a connect action; the store assigns the ID
type NewConnection struct {
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       ConnectionType `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Build creates the connection record for id
func (c NewConnection) Build(id string) Connection {
	props := maps.Clone(c.Properties)
	if props == nil {
		props = make(map[string]any)
	}
	return Connection{
		ID:         id,
		SourceID:   c.SourceID,
		TargetID:   c.TargetID,
		Type:       c.Type,
		Properties: props,
	}
}

// References reports whether the connection touches nodeID at either end
func (c Connection) References(nodeID string) bool {
	return c.SourceID == nodeID || c.TargetID == nodeID
}
