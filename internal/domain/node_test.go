package domain

import (
	"testing"
)

func TestNodeTypeValid(t *testing.T) {
	tests := []struct {
		nodeType NodeType
		valid    bool
	}{
		{NodeTypeAIAgent, true},
		{NodeTypeHuman, true},
		{NodeTypeProcess, true},
		{NodeType("robot"), false},
		{NodeType(""), false},
	}

	for _, tt := range tests {
		if got := tt.nodeType.Valid(); got != tt.valid {
			t.Errorf("NodeType(%q).Valid() = %v, want %v", tt.nodeType, got, tt.valid)
		}
	}
}

func TestNewNodeBuild(t *testing.T) {
	t.Run("assigns id and copies fields", func(t *testing.T) {
		node := NewNode{
			Type:     NodeTypeAIAgent,
			Title:    "AI Agent",
			Position: NewPosition(10, 20),
		}.Build("node-1")

		if node.ID != "node-1" {
			t.Errorf("expected ID 'node-1', got %s", node.ID)
		}
		if node.Type != NodeTypeAIAgent {
			t.Errorf("expected type %s, got %s", NodeTypeAIAgent, node.Type)
		}
		if node.Position != NewPosition(10, 20) {
			t.Errorf("expected position (10,20), got %+v", node.Position)
		}
		if node.Properties == nil {
			t.Error("expected Properties to be initialized")
		}
	})

	t.Run("properties are copied", func(t *testing.T) {
		props := map[string]any{"role": "Manager"}
		node := NewNode{Type: NodeTypeHuman, Properties: props}.Build("node-2")

		props["role"] = "Modified"

		if node.GetPropertyString("role") != "Manager" {
			t.Error("expected node properties to be independent of input map")
		}
	})
}

func TestNodePatchApply(t *testing.T) {
	base := Node{
		ID:          "n1",
		Type:        NodeTypeProcess,
		Title:       "Process",
		Description: "first",
		Position:    NewPosition(1, 2),
		Properties:  map[string]any{"k": "v"},
	}

	t.Run("title only", func(t *testing.T) {
		title := "Triage Bot"
		got := NodePatch{Title: &title}.Apply(base)

		if got.Title != "Triage Bot" {
			t.Errorf("expected title 'Triage Bot', got %s", got.Title)
		}
		if got.Description != base.Description || got.Position != base.Position || got.Type != base.Type {
			t.Errorf("expected other fields untouched, got %+v", got)
		}
		if base.Title != "Process" {
			t.Error("expected original node to be unmodified")
		}
	})

	t.Run("position", func(t *testing.T) {
		pos := NewPosition(50, 60)
		got := NodePatch{Position: &pos}.Apply(base)

		if got.Position != pos {
			t.Errorf("expected position %+v, got %+v", pos, got.Position)
		}
	})

	t.Run("properties replace the map", func(t *testing.T) {
		got := NodePatch{Properties: map[string]any{"other": 1}}.Apply(base)

		if _, ok := got.GetProperty("k"); ok {
			t.Error("expected old property to be gone")
		}
		if _, ok := base.GetProperty("k"); !ok {
			t.Error("expected original properties to be unmodified")
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		if !(NodePatch{}).Empty() {
			t.Error("expected zero patch to be empty")
		}
	})
}

func TestNodeWithProperty(t *testing.T) {
	node := Node{Properties: map[string]any{"a": 1}}
	props := node.WithProperty("b", 2)

	if len(props) != 2 {
		t.Errorf("expected 2 properties, got %d", len(props))
	}
	if _, ok := node.Properties["b"]; ok {
		t.Error("expected original map to be unmodified")
	}
}

func TestNodeSummary(t *testing.T) {
	tests := map[NodeType]string{
		NodeTypeAIAgent: "Automated processing",
		NodeTypeHuman:   "Manual intervention",
		NodeTypeProcess: "Business logic",
	}
	for nodeType, want := range tests {
		if got := (Node{Type: nodeType}).Summary(); got != want {
			t.Errorf("Summary(%s) = %q, want %q", nodeType, got, want)
		}
	}
}
