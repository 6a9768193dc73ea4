package palette

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbus/internal/canvas"
	"smartbus/internal/domain"
)

func TestDefaultPalette(t *testing.T) {
	p, err := New(DefaultSections())
	require.NoError(t, err)

	sections := p.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "AGENTS & PEOPLE", sections[0].Title)
	assert.Len(t, sections[0].Items, 2)
	assert.Equal(t, "PROCESSES", sections[1].Title)

	item, ok := p.Lookup(domain.NodeTypeHuman)
	require.True(t, ok)
	assert.Equal(t, "Human Rep", item.Title)
	assert.Equal(t, "User", item.Icon)
}

func TestNewPalette(t *testing.T) {
	t.Run("rejects unknown node types", func(t *testing.T) {
		_, err := New([]Section{{Title: "X", Items: []domain.DragItem{{NodeType: "robot"}}}})
		assert.True(t, errors.Is(err, ErrUnknownNodeType))
	})

	t.Run("fills defaults", func(t *testing.T) {
		p, err := New([]Section{{Title: "X", Items: []domain.DragItem{{NodeType: domain.NodeTypeProcess}}}})
		require.NoError(t, err)

		item := p.Items()[0]
		assert.Equal(t, domain.DragItemKind, item.Type)
		assert.Equal(t, "Bot", item.Icon)
		assert.Equal(t, "process", item.Title)
	})

	t.Run("sections are copied", func(t *testing.T) {
		p, err := New(DefaultSections())
		require.NoError(t, err)

		p.Sections()[0].Items[0].Title = "Changed"
		assert.Equal(t, "AI Agent", p.Items()[0].Title)
	})
}

func TestDrop(t *testing.T) {
	agent := domain.DragItem{Type: domain.DragItemKind, NodeType: domain.NodeTypeAIAgent, Title: "AI Agent", Icon: "Bot"}

	t.Run("identity viewport", func(t *testing.T) {
		store := canvas.New()
		node, err := Drop(store, agent, domain.NewPosition(100, 100), domain.Position{})
		require.NoError(t, err)

		assert.Equal(t, domain.NewPosition(100, 100), node.Position)
		assert.Equal(t, domain.NodeTypeAIAgent, node.Type)
		assert.Equal(t, "AI Agent", node.Title)
		assert.Empty(t, node.Properties)
		assert.Len(t, store.State().Nodes, 1)
	})

	t.Run("accounts for origin, pan and zoom", func(t *testing.T) {
		store := canvas.New()
		store.SetZoom(2)
		store.SetPan(domain.NewPosition(40, 20))

		node, err := Drop(store, agent, domain.NewPosition(340, 220), domain.NewPosition(100, 0))
		require.NoError(t, err)
		assert.Equal(t, domain.NewPosition(100, 100), node.Position)
	})

	t.Run("rejects other drag kinds", func(t *testing.T) {
		store := canvas.New()
		_, err := Drop(store, domain.DragItem{Type: "file", NodeType: domain.NodeTypeAIAgent}, domain.Position{}, domain.Position{})
		assert.ErrorIs(t, err, ErrWrongDragKind)
		assert.Empty(t, store.State().Nodes)
	})

	t.Run("rejects unknown node types", func(t *testing.T) {
		store := canvas.New()
		_, err := Drop(store, domain.DragItem{NodeType: "robot"}, domain.Position{}, domain.Position{})
		assert.ErrorIs(t, err, ErrUnknownNodeType)
	})
}
