package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"smartbus/internal/domain"
	"smartbus/internal/palette"
	"smartbus/internal/panel"
	"smartbus/internal/session"
	"smartbus/internal/viewport"
)

// ErrInvalidInput marks request data that failed validation
var ErrInvalidInput = errors.New("invalid input")

// CanvasService provides the canvas operations of the current session
type CanvasService struct {
	sessions *session.Manager
	palette  atomic.Pointer[palette.Palette]
	eventBus *EventBus
}

// NewCanvasService creates a new canvas service
func NewCanvasService(sessions *session.Manager, pal *palette.Palette, eventBus *EventBus) *CanvasService {
	s := &CanvasService{
		sessions: sessions,
		eventBus: eventBus,
	}
	s.palette.Store(pal)
	return s
}

// SetPalette swaps the sidebar templates. Nodes already on a canvas keep
// their type and title.
func (s *CanvasService) SetPalette(pal *palette.Palette) {
	s.palette.Store(pal)
	s.eventBus.Publish(Event{Type: EventPaletteChanged})
}

// Snapshot is the full render state of a session
type Snapshot struct {
	Session        string             `json:"session"`
	State          domain.CanvasState `json:"state"`
	SelectedNodeID string             `json:"selected_node_id"`
	ZoomLabel      string             `json:"zoom_label"`
	Gesture        viewport.Gesture   `json:"gesture"`
}

// DropRequest is a palette item released over the canvas
type DropRequest struct {
	Item   domain.DragItem `json:"item"`
	Point  domain.Position `json:"point"`
	Origin domain.Position `json:"origin"`
}

// OpenSession creates a session with an empty canvas
func (s *CanvasService) OpenSession(ctx context.Context) (*Snapshot, error) {
	sess, err := s.sessions.Create()
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{Type: EventSessionOpened, Session: sess.ID})

	snap := snapshotOf(sess)
	return &snap, nil
}

// CloseSession discards the session with id
func (s *CanvasService) CloseSession(ctx context.Context, id string) error {
	if err := s.sessions.Close(id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{Type: EventSessionClosed, Session: id})
	return nil
}

// Session looks up an open session
func (s *CanvasService) Session(id string) (*session.Session, error) {
	return s.sessions.Get(id)
}

// Snapshot returns the render state of the current session
func (s *CanvasService) Snapshot(ctx context.Context) Snapshot {
	return snapshotOf(session.MustFromContext(ctx))
}

func snapshotOf(sess *session.Session) Snapshot {
	state := sess.Store.State()
	return Snapshot{
		Session:        sess.ID,
		State:          state,
		SelectedNodeID: sess.Store.SelectedNodeID(),
		ZoomLabel:      viewport.ZoomLabel(state.Zoom),
		Gesture:        sess.Viewport.Gesture(),
	}
}

// AddNode places a node on the current canvas
func (s *CanvasService) AddNode(ctx context.Context, n domain.NewNode) (domain.Node, error) {
	if err := s.validateNode(n); err != nil {
		return domain.Node{}, err
	}
	return session.MustFromContext(ctx).Store.AddNode(n), nil
}

// UpdateNode merges a loosely typed update into the node with id. found is
// false when no such node exists.
func (s *CanvasService) UpdateNode(ctx context.Context, id string, updates map[string]interface{}) (node domain.Node, found bool, err error) {
	patch, err := domain.DecodeNodePatch(updates)
	if err != nil {
		return domain.Node{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	store := session.MustFromContext(ctx).Store
	if !store.UpdateNode(id, patch) {
		return domain.Node{}, false, nil
	}
	node, found = store.Node(id)
	return node, found, nil
}

// DeleteNode removes a node and the connections that reference it
func (s *CanvasService) DeleteNode(ctx context.Context, id string) bool {
	return session.MustFromContext(ctx).Store.DeleteNode(id)
}

// AddConnection links two nodes. Endpoints are not checked for existence.
func (s *CanvasService) AddConnection(ctx context.Context, c domain.NewConnection) (domain.Connection, error) {
	if err := s.validateConnection(c); err != nil {
		return domain.Connection{}, err
	}
	return session.MustFromContext(ctx).Store.AddConnection(c), nil
}

// DeleteConnection removes a connection
func (s *CanvasService) DeleteConnection(ctx context.Context, id string) bool {
	return session.MustFromContext(ctx).Store.DeleteConnection(id)
}

// SetZoom stores zoom as given
func (s *CanvasService) SetZoom(ctx context.Context, zoom float64) error {
	if zoom <= 0 {
		return fmt.Errorf("%w: zoom must be positive", ErrInvalidInput)
	}
	session.MustFromContext(ctx).Store.SetZoom(zoom)
	return nil
}

// SetPan replaces the pan offset
func (s *CanvasService) SetPan(ctx context.Context, pan domain.Position) {
	session.MustFromContext(ctx).Store.SetPan(pan)
}

// ZoomIn activates the zoom-in control
func (s *CanvasService) ZoomIn(ctx context.Context) float64 {
	return session.MustFromContext(ctx).Viewport.ZoomIn()
}

// ZoomOut activates the zoom-out control
func (s *CanvasService) ZoomOut(ctx context.Context) float64 {
	return session.MustFromContext(ctx).Viewport.ZoomOut()
}

// ResetView restores the default viewport
func (s *CanvasService) ResetView(ctx context.Context) {
	session.MustFromContext(ctx).Viewport.Reset()
}

// Select replaces the selection; "" clears it
func (s *CanvasService) Select(ctx context.Context, nodeID string) {
	session.MustFromContext(ctx).Store.SetSelectedNodeID(nodeID)
}

// Pointer feeds a pointer event into the pan/drag gesture machine
func (s *CanvasService) Pointer(ctx context.Context, ev viewport.PointerEvent) (viewport.Gesture, error) {
	switch ev.Kind {
	case viewport.PointerDown, viewport.PointerMove, viewport.PointerUp, viewport.PointerLeave:
	default:
		return "", fmt.Errorf("%w: pointer kind %q", ErrInvalidInput, ev.Kind)
	}
	ctrl := session.MustFromContext(ctx).Viewport
	ctrl.Handle(ev)
	return ctrl.Gesture(), nil
}

// Palette returns the sidebar sections
func (s *CanvasService) Palette() []palette.Section {
	return s.palette.Load().Sections()
}

// Drop places a palette item at the release point. A drop naming only a node
// type picks up the title and icon of the palette template.
func (s *CanvasService) Drop(ctx context.Context, req DropRequest) (domain.Node, error) {
	item := req.Item
	if item.Title == "" {
		if tmpl, ok := s.palette.Load().Lookup(item.NodeType); ok {
			item.Title = tmpl.Title
			item.Icon = tmpl.Icon
		}
	}

	node, err := palette.Drop(session.MustFromContext(ctx).Store, item, req.Point, req.Origin)
	if err != nil {
		return domain.Node{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return node, nil
}

// PanelView renders the properties panel
func (s *CanvasService) PanelView(ctx context.Context) panel.View {
	return session.MustFromContext(ctx).Panel.View()
}

// EditPanel applies a panel field edit and returns the new view
func (s *CanvasService) EditPanel(ctx context.Context, edit panel.Edit) (panel.View, error) {
	p := session.MustFromContext(ctx).Panel
	if err := p.Apply(edit); err != nil {
		return panel.View{}, err
	}
	return p.View(), nil
}

// ClosePanel clears the selection
func (s *CanvasService) ClosePanel(ctx context.Context) panel.View {
	p := session.MustFromContext(ctx).Panel
	p.Close()
	return p.View()
}

// Validation helpers

func (s *CanvasService) validateNode(n domain.NewNode) error {
	if !n.Type.Valid() {
		return fmt.Errorf("%w: node type %q", ErrInvalidInput, n.Type)
	}
	return nil
}

func (s *CanvasService) validateConnection(c domain.NewConnection) error {
	if c.SourceID == "" {
		return fmt.Errorf("%w: connection source_id required", ErrInvalidInput)
	}
	if c.TargetID == "" {
		return fmt.Errorf("%w: connection target_id required", ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: connection type %q", ErrInvalidInput, c.Type)
	}
	return nil
}
