package service

import (
	"context"
	"errors"
	"testing"

	"smartbus/internal/canvas"
	"smartbus/internal/domain"
	"smartbus/internal/palette"
	"smartbus/internal/panel"
	"smartbus/internal/session"
	"smartbus/internal/viewport"
)

type countingRecorder struct {
	ops []string
}

func (r *countingRecorder) RecordMutation(op string) {
	r.ops = append(r.ops, op)
}

func newTestService(t *testing.T) (*CanvasService, *EventBus, chan Event) {
	t.Helper()
	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)

	pal, err := palette.New(palette.DefaultSections())
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	mgr := session.NewManager(session.WithChangeHook(ChangePublisher(bus, nil)))
	return NewCanvasService(mgr, pal, bus), bus, events
}

func openCtx(t *testing.T, svc *CanvasService) (context.Context, string) {
	t.Helper()
	snap, err := svc.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	sess, err := svc.Session(snap.Session)
	if err != nil {
		t.Fatalf("lookup session: %v", err)
	}
	return session.WithSession(context.Background(), sess), sess.ID
}

func TestCanvasServiceValidateNode(t *testing.T) {
	svc := &CanvasService{}

	t.Run("valid node passes validation", func(t *testing.T) {
		if err := svc.validateNode(domain.NewNode{Type: domain.NodeTypeHuman}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		err := svc.validateNode(domain.NewNode{Type: "robot"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCanvasServiceValidateConnection(t *testing.T) {
	svc := &CanvasService{}

	tests := []struct {
		name  string
		conn  domain.NewConnection
		valid bool
	}{
		{"valid", domain.NewConnection{SourceID: "a", TargetID: "b", Type: domain.ConnectionTypeWorkflow}, true},
		{"dangling endpoints are allowed", domain.NewConnection{SourceID: "x", TargetID: "y", Type: domain.ConnectionTypeData}, true},
		{"missing source", domain.NewConnection{TargetID: "b", Type: domain.ConnectionTypeWorkflow}, false},
		{"missing target", domain.NewConnection{SourceID: "a", Type: domain.ConnectionTypeWorkflow}, false},
		{"unknown type", domain.NewConnection{SourceID: "a", TargetID: "b", Type: "ethernet"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validateConnection(tt.conn)
			if tt.valid && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCanvasServiceOperations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, _ := openCtx(t, svc)

	t.Run("drop fills title from palette", func(t *testing.T) {
		node, err := svc.Drop(ctx, DropRequest{
			Item:  domain.DragItem{NodeType: domain.NodeTypeHuman},
			Point: domain.NewPosition(40, 60),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if node.Title != "Human Rep" {
			t.Errorf("expected title 'Human Rep', got %s", node.Title)
		}
		if node.Position != domain.NewPosition(40, 60) {
			t.Errorf("expected position (40,60), got %+v", node.Position)
		}
	})

	t.Run("update via loose map", func(t *testing.T) {
		node, _ := svc.AddNode(ctx, domain.NewNode{Type: domain.NodeTypeProcess, Title: "Process"})
		got, found, err := svc.UpdateNode(ctx, node.ID, map[string]interface{}{"title": "Approve"})
		if err != nil || !found {
			t.Fatalf("expected update to succeed, found=%v err=%v", found, err)
		}
		if got.Title != "Approve" {
			t.Errorf("expected title 'Approve', got %s", got.Title)
		}
	})

	t.Run("update of absent node", func(t *testing.T) {
		_, found, err := svc.UpdateNode(ctx, "missing", map[string]interface{}{"title": "X"})
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if found {
			t.Error("expected found=false")
		}
	})

	t.Run("zoom controls clamp, direct zoom does not", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			svc.ZoomIn(ctx)
		}
		if z := svc.Snapshot(ctx).State.Zoom; z != domain.MaxZoom {
			t.Errorf("expected zoom %v, got %v", domain.MaxZoom, z)
		}
		if err := svc.SetZoom(ctx, 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if z := svc.Snapshot(ctx).State.Zoom; z != 3 {
			t.Errorf("expected zoom 3, got %v", z)
		}
		if err := svc.SetZoom(ctx, 0); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		svc.ResetView(ctx)
		if label := svc.Snapshot(ctx).ZoomLabel; label != "100%" {
			t.Errorf("expected label 100%%, got %s", label)
		}
	})

	t.Run("pointer events", func(t *testing.T) {
		g, err := svc.Pointer(ctx, viewport.PointerEvent{Kind: viewport.PointerDown, Point: domain.NewPosition(0, 0)})
		if err != nil || g != viewport.GesturePan {
			t.Fatalf("expected pan gesture, got %v err=%v", g, err)
		}
		svc.Pointer(ctx, viewport.PointerEvent{Kind: viewport.PointerMove, Point: domain.NewPosition(7, 3)})
		svc.Pointer(ctx, viewport.PointerEvent{Kind: viewport.PointerUp})
		if pan := svc.Snapshot(ctx).State.Pan; pan != domain.NewPosition(7, 3) {
			t.Errorf("expected pan (7,3), got %+v", pan)
		}
		if _, err := svc.Pointer(ctx, viewport.PointerEvent{Kind: "wheel"}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("panel edit", func(t *testing.T) {
		node, _ := svc.AddNode(ctx, domain.NewNode{Type: domain.NodeTypeAIAgent, Title: "AI Agent"})
		svc.Select(ctx, node.ID)

		view, err := svc.EditPanel(ctx, panel.Edit{Field: panel.FieldTitle, Value: "Triage Bot"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if view.Title != "Triage Bot" {
			t.Errorf("expected panel title 'Triage Bot', got %s", view.Title)
		}

		svc.DeleteNode(ctx, node.ID)
		if !svc.PanelView(ctx).Empty {
			t.Error("expected empty panel after deleting the selected node")
		}
	})
}

func TestCanvasServicePublishesEvents(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx, id := openCtx(t, svc)

	node, _ := svc.AddNode(ctx, domain.NewNode{Type: domain.NodeTypeProcess})
	svc.DeleteNode(ctx, node.ID)
	if err := svc.CloseSession(ctx, id); err != nil {
		t.Fatalf("close: %v", err)
	}

	want := []EventType{EventSessionOpened, EventNodeCreated, EventNodeDeleted, EventSessionClosed}
	for i, typ := range want {
		ev := <-events
		if ev.Type != typ {
			t.Errorf("event %d: expected %s, got %s", i, typ, ev.Type)
		}
		if ev.Session != id {
			t.Errorf("event %d: expected session %s, got %s", i, id, ev.Session)
		}
	}
}

func TestChangePublisherRecordsMutations(t *testing.T) {
	bus := NewEventBus()
	rec := &countingRecorder{}
	hook := ChangePublisher(bus, rec)

	hook("s1", canvas.Change{Op: canvas.OpSetPan})
	hook("s1", canvas.Change{Op: canvas.OpAddNode, ID: "n"})

	if len(rec.ops) != 2 || rec.ops[0] != "pan_changed" || rec.ops[1] != "node_created" {
		t.Errorf("unexpected recorded ops %v", rec.ops)
	}
}

func TestServiceOutsideSessionPanics(t *testing.T) {
	svc, _, _ := newTestService(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when no session is bound to the context")
		}
	}()
	svc.Snapshot(context.Background())
}

func TestCanvasServiceSetPalette(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx, _ := openCtx(t, svc)
	drainEvents(events)

	pal, err := palette.New([]palette.Section{{
		Title: "REVIEW",
		Items: []domain.DragItem{{NodeType: domain.NodeTypeHuman, Title: "Approver", Icon: "Check"}},
	}})
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	svc.SetPalette(pal)

	sections := svc.Palette()
	if len(sections) != 1 || sections[0].Title != "REVIEW" {
		t.Fatalf("Palette() = %+v, want the REVIEW section", sections)
	}

	select {
	case ev := <-events:
		if ev.Type != EventPaletteChanged || ev.Session != "" {
			t.Errorf("event = %+v, want unscoped %s", ev, EventPaletteChanged)
		}
	default:
		t.Error("expected a palette_changed event")
	}

	node, err := svc.Drop(ctx, DropRequest{Item: domain.DragItem{NodeType: domain.NodeTypeHuman}})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if node.Title != "Approver" {
		t.Errorf("dropped title = %q, want Approver", node.Title)
	}
}

func drainEvents(ch chan Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
