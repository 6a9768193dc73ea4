package domain

// Viewport bounds. The zoom control clamps to [MinZoom, MaxZoom] in steps of
// ZoomStep.
const (
	MinZoom     = 0.25
	MaxZoom     = 2.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0
)

// Viewport is the world to screen transform of a canvas
type Viewport struct {
	Zoom float64  `json:"zoom"`
	Pan  Position `json:"pan"`
}

// DefaultViewport returns zoom 1 with no pan
func DefaultViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

// CanvasState is a snapshot of a canvas. Snapshots handed out by the store
// are never modified afterwards; every mutation builds a new one.
type CanvasState struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Zoom        float64      `json:"zoom"`
	Pan         Position     `json:"pan"`
}

// NewCanvasState returns an empty canvas with the default viewport
func NewCanvasState() CanvasState {
	return CanvasState{
		Nodes:       make([]Node, 0),
		Connections: make([]Connection, 0),
		Zoom:        DefaultZoom,
	}
}

// Viewport returns the zoom and pan of the snapshot
func (s CanvasState) Viewport() Viewport {
	return Viewport{Zoom: s.Zoom, Pan: s.Pan}
}

// FindNode returns the node with id
func (s CanvasState) FindNode(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FindConnection returns the connection with id
func (s CanvasState) FindConnection(id string) (Connection, bool) {
	for _, c := range s.Connections {
		if c.ID == id {
			return c, true
		}
	}
	return Connection{}, false
}

// DragItem is the payload carried from a palette entry to the canvas
type DragItem struct {
	Type     string   `json:"type" yaml:"-"`
	NodeType NodeType `json:"node_type" yaml:"node_type"`
	Title    string   `json:"title" yaml:"title"`
	Icon     string   `json:"icon" yaml:"icon"`
}

// DragItemKind is the drag type accepted by the canvas drop target
const DragItemKind = "node"
