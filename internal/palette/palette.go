// Package palette holds the node templates offered in the sidebar and places
// them on a canvas when dropped.
package palette

import (
	"errors"
	"fmt"

	"smartbus/internal/domain"
	"smartbus/internal/viewport"
)

// ErrUnknownNodeType is returned for templates or drops naming a node type
// outside the known set
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrWrongDragKind is returned when a drop carries a payload the canvas does
// not accept
var ErrWrongDragKind = errors.New("canvas only accepts node drops")

// Section is a titled group of templates
type Section struct {
	Title string            `json:"title" yaml:"title"`
	Items []domain.DragItem `json:"items" yaml:"items"`
}

// DefaultSections returns the stock sidebar
func DefaultSections() []Section {
	return []Section{
		{
			Title: "AGENTS & PEOPLE",
			Items: []domain.DragItem{
				{Type: domain.DragItemKind, NodeType: domain.NodeTypeAIAgent, Title: "AI Agent", Icon: "Bot"},
				{Type: domain.DragItemKind, NodeType: domain.NodeTypeHuman, Title: "Human Rep", Icon: "User"},
			},
		},
		{
			Title: "PROCESSES",
			Items: []domain.DragItem{
				{Type: domain.DragItemKind, NodeType: domain.NodeTypeProcess, Title: "Process", Icon: "Workflow"},
			},
		},
	}
}

// Palette is an ordered, validated set of sections
type Palette struct {
	sections []Section
}

// New validates sections and builds a palette. Items get the node drag kind
// and a default icon when none is set.
func New(sections []Section) (*Palette, error) {
	out := make([]Section, 0, len(sections))
	for _, sec := range sections {
		items := make([]domain.DragItem, 0, len(sec.Items))
		for _, item := range sec.Items {
			if !item.NodeType.Valid() {
				return nil, fmt.Errorf("palette section %q, item %q: %w: %s", sec.Title, item.Title, ErrUnknownNodeType, item.NodeType)
			}
			item.Type = domain.DragItemKind
			if item.Icon == "" {
				item.Icon = "Bot"
			}
			if item.Title == "" {
				item.Title = string(item.NodeType)
			}
			items = append(items, item)
		}
		out = append(out, Section{Title: sec.Title, Items: items})
	}
	return &Palette{sections: out}, nil
}

// Sections returns a copy of the palette sections
func (p *Palette) Sections() []Section {
	out := make([]Section, len(p.sections))
	for i, sec := range p.sections {
		out[i] = Section{Title: sec.Title, Items: append([]domain.DragItem(nil), sec.Items...)}
	}
	return out
}

// Items returns all templates in display order
func (p *Palette) Items() []domain.DragItem {
	var items []domain.DragItem
	for _, sec := range p.sections {
		items = append(items, sec.Items...)
	}
	return items
}

// Lookup returns the first template for nodeType
func (p *Palette) Lookup(nodeType domain.NodeType) (domain.DragItem, bool) {
	for _, item := range p.Items() {
		if item.NodeType == nodeType {
			return item, true
		}
	}
	return domain.DragItem{}, false
}

// Placer is the part of the canvas store a drop needs
type Placer interface {
	State() domain.CanvasState
	AddNode(n domain.NewNode) domain.Node
}

// Drop places item at the screen point where it was released. origin is the
// top-left corner of the canvas element in the same frame as screen.
func Drop(c Placer, item domain.DragItem, screen, origin domain.Position) (domain.Node, error) {
	if item.Type != "" && item.Type != domain.DragItemKind {
		return domain.Node{}, fmt.Errorf("%w: %q", ErrWrongDragKind, item.Type)
	}
	if !item.NodeType.Valid() {
		return domain.Node{}, fmt.Errorf("%w: %s", ErrUnknownNodeType, item.NodeType)
	}

	world := viewport.ScreenToWorld(screen, origin, c.State().Viewport())
	return c.AddNode(domain.NewNode{
		Type:       item.NodeType,
		Title:      item.Title,
		Position:   world,
		Properties: map[string]any{},
	}), nil
}
