package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbus/internal/canvas"
	"smartbus/internal/domain"
)

func TestNewControllerRequiresCanvas(t *testing.T) {
	assert.PanicsWithValue(t, "viewport: NewController called without a canvas store", func() {
		NewController(nil)
	})
}

func TestZoomControls(t *testing.T) {
	t.Run("zoom in caps at max", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		for i := 0; i < 5; i++ {
			ctrl.ZoomIn()
		}
		assert.Equal(t, 2.0, store.State().Zoom)
	})

	t.Run("zoom out caps at min", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		for i := 0; i < 5; i++ {
			ctrl.ZoomOut()
		}
		assert.Equal(t, 0.25, store.State().Zoom)
	})

	t.Run("steps of a quarter", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		assert.Equal(t, 1.25, ctrl.ZoomIn())
		assert.Equal(t, 1.0, ctrl.ZoomOut())
		assert.Equal(t, 0.75, ctrl.ZoomOut())
	})

	t.Run("reset restores zoom and pan", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)
		ctrl.ZoomIn()
		store.SetPan(domain.NewPosition(50, 60))

		ctrl.Reset()
		assert.Equal(t, domain.DefaultViewport(), store.State().Viewport())
	})
}

func TestPanGesture(t *testing.T) {
	store := canvas.New()
	ctrl := NewController(store)

	ctrl.PressCanvas(domain.NewPosition(10, 10))
	assert.Equal(t, GesturePan, ctrl.Gesture())

	ctrl.Move(domain.NewPosition(15, 20))
	assert.Equal(t, domain.NewPosition(5, 10), store.State().Pan)

	ctrl.Move(domain.NewPosition(25, 20))
	assert.Equal(t, domain.NewPosition(15, 10), store.State().Pan, "anchor moves with the pointer")

	ctrl.Release()
	ctrl.Move(domain.NewPosition(100, 100))
	assert.Equal(t, domain.NewPosition(15, 10), store.State().Pan, "no pan after release")
}

func TestNodeDrag(t *testing.T) {
	t.Run("moves node by pointer minus offset", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)
		node := store.AddNode(domain.NewNode{Type: domain.NodeTypeProcess, Title: "Process", Position: domain.NewPosition(100, 100)})

		require.True(t, ctrl.PressNode(node.ID, domain.NewPosition(110, 105)))
		assert.Equal(t, GestureDrag, ctrl.Gesture())
		assert.Equal(t, node.ID, store.SelectedNodeID(), "press selects the node")

		ctrl.Move(domain.NewPosition(150, 125))
		got, _ := store.Node(node.ID)
		assert.Equal(t, domain.NewPosition(140, 120), got.Position)

		ctrl.Release()
		ctrl.Move(domain.NewPosition(500, 500))
		got, _ = store.Node(node.ID)
		assert.Equal(t, domain.NewPosition(140, 120), got.Position, "no movement after release")
	})

	t.Run("drag does not pan", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)
		node := store.AddNode(domain.NewNode{Type: domain.NodeTypeHuman, Position: domain.NewPosition(0, 0)})

		ctrl.Handle(PointerEvent{Kind: PointerDown, NodeID: node.ID, Point: domain.NewPosition(5, 5)})
		ctrl.Handle(PointerEvent{Kind: PointerMove, Point: domain.NewPosition(30, 40)})
		ctrl.Handle(PointerEvent{Kind: PointerUp})

		assert.Equal(t, domain.Position{}, store.State().Pan)
		got, _ := store.Node(node.ID)
		assert.Equal(t, domain.NewPosition(25, 35), got.Position)
	})

	t.Run("press on missing node starts nothing", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		assert.False(t, ctrl.PressNode("missing", domain.Position{}))
		assert.Equal(t, GestureNone, ctrl.Gesture())
	})

	t.Run("node deleted mid drag", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)
		node := store.AddNode(domain.NewNode{Type: domain.NodeTypeHuman})

		ctrl.PressNode(node.ID, domain.Position{})
		store.DeleteNode(node.ID)
		ctrl.Move(domain.NewPosition(10, 10))

		assert.Empty(t, store.State().Nodes)
	})
}

func TestHandlePointerEvents(t *testing.T) {
	t.Run("secondary button does not pan", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		ctrl.Handle(PointerEvent{Kind: PointerDown, Button: 2, Point: domain.NewPosition(0, 0)})
		ctrl.Handle(PointerEvent{Kind: PointerMove, Point: domain.NewPosition(10, 10)})

		assert.Equal(t, GestureNone, ctrl.Gesture())
		assert.Equal(t, domain.Position{}, store.State().Pan)
	})

	t.Run("leave ends the gesture", func(t *testing.T) {
		store := canvas.New()
		ctrl := NewController(store)

		ctrl.Handle(PointerEvent{Kind: PointerDown, Point: domain.NewPosition(0, 0)})
		ctrl.Handle(PointerEvent{Kind: PointerLeave})

		assert.Equal(t, GestureNone, ctrl.Gesture())
	})
}
