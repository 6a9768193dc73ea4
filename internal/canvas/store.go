package canvas

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartbus/internal/domain"
)

// Op names a store mutation
type Op string

const (
	OpAddNode          Op = "node_created"
	OpUpdateNode       Op = "node_updated"
	OpDeleteNode       Op = "node_deleted"
	OpAddConnection    Op = "connection_created"
	OpDeleteConnection Op = "connection_deleted"
	OpSetZoom          Op = "zoom_changed"
	OpSetPan           Op = "pan_changed"
	OpSelect           Op = "selection_changed"
)

// Change describes a mutation that altered the store
type Change struct {
	Op Op     `json:"op"`
	ID string `json:"id,omitempty"`
}

// IDGenerator returns a candidate id with the given prefix
type IDGenerator func(prefix string) string

// DefaultIDGenerator produces ids of the form prefix-<unix millis>-<8 hex>
func DefaultIDGenerator(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.New().String()[:8])
}

// Option configures a Store
type Option func(*Store)

// WithIDGenerator overrides id generation
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithChangeHook registers fn to be called after every effective mutation.
// fn runs synchronously before the mutating call returns.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, fn)
	}
}

// Store holds the state of one canvas
type Store struct {
	mu       sync.Mutex
	state    domain.CanvasState
	selected string
	newID    IDGenerator
	hooks    []func(Change)
}

// New creates an empty store with the default viewport
func New(opts ...Option) *Store {
	s := &Store{
		state: domain.NewCanvasState(),
		newID: DefaultIDGenerator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *Store) State() domain.CanvasState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectedNodeID returns the selected node id, or "" when nothing is selected
func (s *Store) SelectedNodeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectedNode returns the selected node if the selection points at one
func (s *Store) SelectedNode() (domain.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return domain.Node{}, false
	}
	return s.state.FindNode(s.selected)
}

// Node returns the node with id
func (s *Store) Node(id string) (domain.Node, bool) {
	return s.State().FindNode(id)
}

// AddNode places a new node and returns it with its generated id
func (s *Store) AddNode(n domain.NewNode) domain.Node {
	s.mu.Lock()
	id := s.uniqueID("node", func(id string) bool {
		_, ok := s.state.FindNode(id)
		return ok
	})
	node := n.Build(id)

	next := s.state
	next.Nodes = append(slices.Clip(s.state.Nodes), node)
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpAddNode, ID: id})
	return node
}

// UpdateNode merges patch into the node with id. It reports whether the node
// exists; an absent id leaves the store untouched.
func (s *Store) UpdateNode(id string, patch domain.NodePatch) bool {
	s.mu.Lock()
	idx := s.nodeIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	nodes := slices.Clone(s.state.Nodes)
	nodes[idx] = patch.Apply(nodes[idx])

	next := s.state
	next.Nodes = nodes
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpUpdateNode, ID: id})
	return true
}

// DeleteNode removes the node with id together with every connection that
// references it, and clears the selection if it pointed at the node.
func (s *Store) DeleteNode(id string) bool {
	s.mu.Lock()
	if s.nodeIndex(id) < 0 {
		s.mu.Unlock()
		return false
	}

	next := s.state
	next.Nodes = slices.DeleteFunc(slices.Clone(s.state.Nodes), func(n domain.Node) bool {
		return n.ID == id
	})
	next.Connections = slices.DeleteFunc(slices.Clone(s.state.Connections), func(c domain.Connection) bool {
		return c.References(id)
	})
	s.state = next
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpDeleteNode, ID: id})
	return true
}

// AddConnection records a connection. Endpoints are not checked against the
// node list.
func (s *Store) AddConnection(c domain.NewConnection) domain.Connection {
	s.mu.Lock()
	id := s.uniqueID("conn", func(id string) bool {
		_, ok := s.state.FindConnection(id)
		return ok
	})
	conn := c.Build(id)

	next := s.state
	next.Connections = append(slices.Clip(s.state.Connections), conn)
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpAddConnection, ID: id})
	return conn
}

// DeleteConnection removes the connection with id
func (s *Store) DeleteConnection(id string) bool {
	s.mu.Lock()
	if _, ok := s.state.FindConnection(id); !ok {
		s.mu.Unlock()
		return false
	}

	next := s.state
	next.Connections = slices.DeleteFunc(slices.Clone(s.state.Connections), func(c domain.Connection) bool {
		return c.ID == id
	})
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpDeleteConnection, ID: id})
	return true
}

// SetZoom stores zoom as given. Range checks belong to the zoom control.
func (s *Store) SetZoom(zoom float64) {
	s.mu.Lock()
	next := s.state
	next.Zoom = zoom
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpSetZoom})
}

// SetPan replaces the pan offset
func (s *Store) SetPan(pan domain.Position) {
	s.mu.Lock()
	next := s.state
	next.Pan = pan
	s.state = next
	s.mu.Unlock()

	s.notify(Change{Op: OpSetPan})
}

// SetSelectedNodeID replaces the selection. The id is not checked; "" clears.
func (s *Store) SetSelectedNodeID(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()

	s.notify(Change{Op: OpSelect, ID: id})
}

func (s *Store) nodeIndex(id string) int {
	return slices.IndexFunc(s.state.Nodes, func(n domain.Node) bool {
		return n.ID == id
	})
}

// uniqueID draws ids until one is not taken. Caller holds s.mu.
func (s *Store) uniqueID(prefix string, taken func(string) bool) string {
	for {
		id := s.newID(prefix)
		if !taken(id) {
			return id
		}
	}
}

func (s *Store) notify(c Change) {
	for _, fn := range s.hooks {
		fn(c)
	}
}
