package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Agent model choices offered by the properties panel
var AgentModels = []string{"GPT-4", "Claude", "Custom"}

const (
	DefaultAgentModel       = "GPT-4"
	DefaultAgentTemperature = 0.7
	TemperatureStep         = 0.1
)

// NodeConfig is the typed view of a node's property map
type NodeConfig interface {
	Kind() NodeType
	ToProperties() map[string]any
}

// AgentConfig configures an ai-agent node
type AgentConfig struct {
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

func (AgentConfig) Kind() NodeType { return NodeTypeAIAgent }

func (c AgentConfig) ToProperties() map[string]any {
	return map[string]any{"model": c.Model, "temperature": c.Temperature}
}

// HumanConfig configures a human node
type HumanConfig struct {
	Role   string `json:"role" mapstructure:"role"`
	Skills string `json:"skills" mapstructure:"skills"`
}

func (HumanConfig) Kind() NodeType { return NodeTypeHuman }

func (c HumanConfig) ToProperties() map[string]any {
	return map[string]any{"role": c.Role, "skills": c.Skills}
}

// ProcessConfig configures a process node. It has no fields yet.
type ProcessConfig struct{}

func (ProcessConfig) Kind() NodeType { return NodeTypeProcess }

func (ProcessConfig) ToProperties() map[string]any { return map[string]any{} }

// Config decodes the node's property map into the configuration for its type.
// Missing keys take the panel defaults.
func (n Node) Config() (NodeConfig, error) {
	switch n.Type {
	case NodeTypeAIAgent:
		cfg := AgentConfig{Model: DefaultAgentModel, Temperature: DefaultAgentTemperature}
		if err := decodeProperties(n.Properties, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	case NodeTypeHuman:
		var cfg HumanConfig
		if err := decodeProperties(n.Properties, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	case NodeTypeProcess:
		return ProcessConfig{}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", n.Type)
}

func decodeProperties(props map[string]any, out any) error {
	if len(props) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build property decoder: %w", err)
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("decode node properties: %w", err)
	}
	return nil
}

// DecodeNodePatch converts a loosely typed update body, as sent by the
// browser, into a NodePatch. Unknown keys are ignored.
func DecodeNodePatch(updates map[string]any) (NodePatch, error) {
	var patch NodePatch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &patch,
	})
	if err != nil {
		return patch, fmt.Errorf("build patch decoder: %w", err)
	}
	if err := dec.Decode(updates); err != nil {
		return patch, fmt.Errorf("decode node patch: %w", err)
	}
	return patch, nil
}
