package viewport

import (
	"sync"

	"smartbus/internal/domain"
)

// Canvas is the part of the canvas store the controller mutates
type Canvas interface {
	State() domain.CanvasState
	SetZoom(zoom float64)
	SetPan(pan domain.Position)
	UpdateNode(id string, patch domain.NodePatch) bool
	SetSelectedNodeID(id string)
}

// Gesture is the pointer interaction in progress
type Gesture string

const (
	GestureNone Gesture = "none"
	GesturePan  Gesture = "pan"
	GestureDrag Gesture = "drag"
)

// PointerKind is the phase of a pointer event
type PointerKind string

const (
	PointerDown  PointerKind = "down"
	PointerMove  PointerKind = "move"
	PointerUp    PointerKind = "up"
	PointerLeave PointerKind = "leave"
)

// PrimaryButton is the button index that starts a pan
const PrimaryButton = 0

// PointerEvent is a pointer event forwarded by the browser. NodeID is set
// when the press landed on a node; an empty NodeID means the background.
type PointerEvent struct {
	Kind   PointerKind     `json:"kind"`
	Button int             `json:"button"`
	NodeID string          `json:"node_id,omitempty"`
	Point  domain.Position `json:"point"`
}

// Controller owns the zoom controls and the pan/drag gesture state of one
// canvas. Pan and drag are mutually exclusive: the target of the press picks
// which one runs until release.
type Controller struct {
	canvas Canvas

	mu         sync.Mutex
	gesture    Gesture
	anchor     domain.Position
	dragNodeID string
	dragOffset domain.Position
}

// NewController binds a controller to canvas. A nil canvas is a wiring bug.
func NewController(canvas Canvas) *Controller {
	if canvas == nil {
		panic("viewport: NewController called without a canvas store")
	}
	return &Controller{canvas: canvas, gesture: GestureNone}
}

// ZoomIn raises zoom by one step, capped at domain.MaxZoom
func (c *Controller) ZoomIn() float64 {
	return c.zoomBy(domain.ZoomStep)
}

// ZoomOut lowers zoom by one step, floored at domain.MinZoom
func (c *Controller) ZoomOut() float64 {
	return c.zoomBy(-domain.ZoomStep)
}

func (c *Controller) zoomBy(delta float64) float64 {
	zoom := ClampZoom(c.canvas.State().Zoom + delta)
	c.canvas.SetZoom(zoom)
	return zoom
}

// Reset restores zoom 1 and pan (0,0)
func (c *Controller) Reset() {
	vp := domain.DefaultViewport()
	c.canvas.SetZoom(vp.Zoom)
	c.canvas.SetPan(vp.Pan)
}

// Gesture returns the gesture in progress
func (c *Controller) Gesture() Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gesture
}

// Handle dispatches a pointer event to the matching gesture step
func (c *Controller) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		if ev.NodeID != "" {
			c.PressNode(ev.NodeID, ev.Point)
			return
		}
		if ev.Button == PrimaryButton {
			c.PressCanvas(ev.Point)
		}
	case PointerMove:
		c.Move(ev.Point)
	case PointerUp, PointerLeave:
		c.Release()
	}
}

// PressCanvas starts a pan anchored at p
func (c *Controller) PressCanvas(p domain.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = GesturePan
	c.anchor = p
}

// PressNode starts dragging the node and selects it. It reports false if the
// node does not exist.
func (c *Controller) PressNode(id string, p domain.Position) bool {
	node, ok := c.canvas.State().FindNode(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	c.gesture = GestureDrag
	c.dragNodeID = id
	// Pointer and node position are compared in the node layer's frame.
	c.dragOffset = p.Sub(node.Position)
	c.mu.Unlock()

	c.canvas.SetSelectedNodeID(id)
	return true
}

// Move advances the active gesture to pointer position p
func (c *Controller) Move(p domain.Position) {
	c.mu.Lock()
	switch c.gesture {
	case GesturePan:
		delta := p.Sub(c.anchor)
		c.anchor = p
		c.mu.Unlock()
		c.canvas.SetPan(c.canvas.State().Pan.Add(delta))
	case GestureDrag:
		id := c.dragNodeID
		pos := p.Sub(c.dragOffset)
		c.mu.Unlock()
		c.canvas.UpdateNode(id, domain.NodePatch{Position: &pos})
	default:
		c.mu.Unlock()
	}
}

// Release ends whichever gesture is active
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = GestureNone
	c.dragNodeID = ""
}
