package panel

import (
	"fmt"
	"strconv"
)

// Field names accepted by Apply
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldX           = "x"
	FieldY           = "y"
	FieldModel       = "model"
	FieldTemperature = "temperature"
	FieldRole        = "role"
	FieldSkills      = "skills"
)

// Edit is a single form field change sent by the panel
type Edit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Apply routes an edit to the matching setter
func (p *Panel) Apply(e Edit) error {
	switch e.Field {
	case FieldTitle:
		return p.SetTitle(e.Value)
	case FieldDescription:
		return p.SetDescription(e.Value)
	case FieldX:
		return p.SetX(e.Value)
	case FieldY:
		return p.SetY(e.Value)
	case FieldModel:
		return p.SetAgentModel(e.Value)
	case FieldTemperature:
		temp, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return fmt.Errorf("%w: temperature %q", ErrInvalidValue, e.Value)
		}
		return p.SetTemperature(temp)
	case FieldRole:
		return p.SetHumanRole(e.Value)
	case FieldSkills:
		return p.SetHumanSkills(e.Value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
}
