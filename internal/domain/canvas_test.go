package domain

import (
	"testing"
)

func TestNewCanvasState(t *testing.T) {
	state := NewCanvasState()

	if state.Nodes == nil || len(state.Nodes) != 0 {
		t.Errorf("expected empty initialized Nodes, got %v", state.Nodes)
	}
	if state.Connections == nil || len(state.Connections) != 0 {
		t.Errorf("expected empty initialized Connections, got %v", state.Connections)
	}
	if state.Viewport() != DefaultViewport() {
		t.Errorf("expected default viewport, got %+v", state.Viewport())
	}
}

func TestCanvasStateFind(t *testing.T) {
	state := NewCanvasState()
	state.Nodes = append(state.Nodes, Node{ID: "a"}, Node{ID: "b"})
	state.Connections = append(state.Connections, Connection{ID: "c1", SourceID: "a", TargetID: "b"})

	if _, ok := state.FindNode("b"); !ok {
		t.Error("expected to find node b")
	}
	if _, ok := state.FindNode("z"); ok {
		t.Error("expected node z to be absent")
	}
	conn, ok := state.FindConnection("c1")
	if !ok {
		t.Fatal("expected to find connection c1")
	}
	if !conn.References("a") || !conn.References("b") || conn.References("z") {
		t.Errorf("unexpected References result for %+v", conn)
	}
}

func TestPositionArithmetic(t *testing.T) {
	p := NewPosition(3, 4)
	q := NewPosition(1, -2)

	if got := p.Add(q); got != NewPosition(4, 2) {
		t.Errorf("Add = %+v", got)
	}
	if got := p.Sub(q); got != NewPosition(2, 6) {
		t.Errorf("Sub = %+v", got)
	}
	if got := p.Scale(0.5); got != NewPosition(1.5, 2) {
		t.Errorf("Scale = %+v", got)
	}
}
