// Package panel builds the properties side panel for the selected node and
// applies the edits made through it.
package panel

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"smartbus/internal/domain"
)

var (
	// ErrNoSelection is returned by edits when no node is selected
	ErrNoSelection = errors.New("no node selected")
	// ErrWrongNodeType is returned by typed config edits on other node types
	ErrWrongNodeType = errors.New("field does not apply to this node type")
	// ErrInvalidValue is returned for out of range or unknown values
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownField is returned by Apply for fields the panel does not edit
	ErrUnknownField = errors.New("unknown panel field")
)

const (
	emptyHeading = "No Selection"
	emptyHint    = "Select a node to view and edit its properties"
)

// Store is the part of the canvas store the panel reads and edits
type Store interface {
	SelectedNode() (domain.Node, bool)
	UpdateNode(id string, patch domain.NodePatch) bool
	SetSelectedNodeID(id string)
}

// View is what the panel renders
type View struct {
	Empty   bool   `json:"empty"`
	Heading string `json:"heading"`
	Hint    string `json:"hint,omitempty"`

	NodeID      string        `json:"node_id,omitempty"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	TypeLabel   string        `json:"type_label,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	X           int           `json:"x"`
	Y           int           `json:"y"`
	Agent       *AgentSection `json:"agent,omitempty"`
	Human       *HumanSection `json:"human,omitempty"`
}

// AgentSection is the AI configuration block
type AgentSection struct {
	Model       string   `json:"model"`
	Models      []string `json:"models"`
	Temperature float64  `json:"temperature"`
}

// HumanSection is the human configuration block
type HumanSection struct {
	Role   string `json:"role"`
	Skills string `json:"skills"`
}

// Panel edits the selected node of one canvas
type Panel struct {
	store Store
}

// New binds a panel to store. A nil store is a wiring bug.
func New(store Store) *Panel {
	if store == nil {
		panic("panel: New called without a canvas store")
	}
	return &Panel{store: store}
}

// View renders the current selection
func (p *Panel) View() View {
	node, ok := p.store.SelectedNode()
	if !ok {
		return View{Empty: true, Heading: emptyHeading, Hint: emptyHint}
	}

	v := View{
		Heading:     "Properties",
		NodeID:      node.ID,
		Title:       node.Title,
		Description: node.Description,
		TypeLabel:   TypeLabel(node.Type),
		Summary:     node.Summary(),
		X:           int(math.Round(node.Position.X)),
		Y:           int(math.Round(node.Position.Y)),
	}

	cfg, err := node.Config()
	if err != nil {
		return v
	}
	switch c := cfg.(type) {
	case domain.AgentConfig:
		v.Agent = &AgentSection{Model: c.Model, Models: domain.AgentModels, Temperature: c.Temperature}
	case domain.HumanConfig:
		v.Human = &HumanSection{Role: c.Role, Skills: c.Skills}
	}
	return v
}

// TypeLabel formats a node type for display, e.g. "AI AGENT"
func TypeLabel(t domain.NodeType) string {
	return strings.ToUpper(strings.Replace(string(t), "-", " ", 1))
}

// Close clears the selection
func (p *Panel) Close() {
	p.store.SetSelectedNodeID("")
}

// SetTitle renames the selected node
func (p *Panel) SetTitle(title string) error {
	return p.patch(func(domain.Node) (domain.NodePatch, error) {
		return domain.NodePatch{Title: &title}, nil
	})
}

// SetDescription replaces the selected node's description
func (p *Panel) SetDescription(desc string) error {
	return p.patch(func(domain.Node) (domain.NodePatch, error) {
		return domain.NodePatch{Description: &desc}, nil
	})
}

// SetX sets the x coordinate from the number field text. Text that does not
// start with an integer sets 0.
func (p *Panel) SetX(text string) error {
	return p.patch(func(n domain.Node) (domain.NodePatch, error) {
		pos := n.Position
		pos.X = float64(parseLeadingInt(text))
		return domain.NodePatch{Position: &pos}, nil
	})
}

// SetY sets the y coordinate, see SetX
func (p *Panel) SetY(text string) error {
	return p.patch(func(n domain.Node) (domain.NodePatch, error) {
		pos := n.Position
		pos.Y = float64(parseLeadingInt(text))
		return domain.NodePatch{Position: &pos}, nil
	})
}

// SetAgentModel picks the model of an ai-agent node
func (p *Panel) SetAgentModel(model string) error {
	if !slices.Contains(domain.AgentModels, model) {
		return fmt.Errorf("%w: model %q", ErrInvalidValue, model)
	}
	return p.editAgent(func(c *domain.AgentConfig) { c.Model = model })
}

// SetTemperature sets the temperature of an ai-agent node, snapped to
// domain.TemperatureStep
func (p *Panel) SetTemperature(temp float64) error {
	if math.IsNaN(temp) || temp < 0 || temp > 1 {
		return fmt.Errorf("%w: temperature %v outside [0,1]", ErrInvalidValue, temp)
	}
	snapped := math.Round(temp/domain.TemperatureStep) * domain.TemperatureStep
	snapped = math.Round(snapped*10) / 10
	return p.editAgent(func(c *domain.AgentConfig) { c.Temperature = snapped })
}

// SetHumanRole sets the role of a human node
func (p *Panel) SetHumanRole(role string) error {
	return p.editHuman(func(c *domain.HumanConfig) { c.Role = role })
}

// SetHumanSkills sets the skills text of a human node
func (p *Panel) SetHumanSkills(skills string) error {
	return p.editHuman(func(c *domain.HumanConfig) { c.Skills = skills })
}

func (p *Panel) editAgent(fn func(*domain.AgentConfig)) error {
	return p.patch(func(n domain.Node) (domain.NodePatch, error) {
		cfg, err := n.Config()
		if err != nil {
			return domain.NodePatch{}, err
		}
		agent, ok := cfg.(domain.AgentConfig)
		if !ok {
			return domain.NodePatch{}, fmt.Errorf("%w: %s", ErrWrongNodeType, n.Type)
		}
		fn(&agent)
		return domain.NodePatch{Properties: mergeProps(n, agent)}, nil
	})
}

func (p *Panel) editHuman(fn func(*domain.HumanConfig)) error {
	return p.patch(func(n domain.Node) (domain.NodePatch, error) {
		cfg, err := n.Config()
		if err != nil {
			return domain.NodePatch{}, err
		}
		human, ok := cfg.(domain.HumanConfig)
		if !ok {
			return domain.NodePatch{}, fmt.Errorf("%w: %s", ErrWrongNodeType, n.Type)
		}
		fn(&human)
		return domain.NodePatch{Properties: mergeProps(n, human)}, nil
	})
}

// mergeProps keeps unrelated keys of the node's property map
func mergeProps(n domain.Node, cfg domain.NodeConfig) map[string]any {
	props := maps.Clone(n.Properties)
	if props == nil {
		props = make(map[string]any)
	}
	maps.Copy(props, cfg.ToProperties())
	return props
}

func (p *Panel) patch(build func(domain.Node) (domain.NodePatch, error)) error {
	node, ok := p.store.SelectedNode()
	if !ok {
		return ErrNoSelection
	}
	patch, err := build(node)
	if err != nil {
		return err
	}
	p.store.UpdateNode(node.ID, patch)
	return nil
}

// parseLeadingInt reads an optionally signed integer prefix of s, ignoring
// leading spaces. It returns 0 when s does not start with a digit.
func parseLeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
