// Package checklist holds the fixed inspection-point template and the pure
// status derivation used by finalize.
package checklist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/entity"
)

//go:embed template.json
var templateJSON []byte

//go:embed template_schema.json
var templateSchemaJSON []byte

// Definition is one inspection point as declared in the template.
type Definition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsOptional bool   `json:"isOptional,omitempty"`
}

// Template is the fixed, ordered list of inspection point definitions.
// Consumers rely on positional and identity stability: item order drives
// aggregation and per-item storage paths.
type Template struct {
	defs []Definition
}

// Load parses and validates the embedded template. It is called once at boot;
// a broken template is a build defect, so callers treat errors as fatal.
func Load() (*Template, error) {
	if err := validateTemplateJSON(templateJSON); err != nil {
		return nil, fmt.Errorf("template does not match schema: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(templateJSON, &defs); err != nil {
		return nil, fmt.Errorf("unmarshal template: %w", err)
	}

	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	return &Template{defs: defs}, nil
}

func validateTemplateJSON(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template_schema.json", bytes.NewReader(templateSchemaJSON)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("template_schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return schema.Validate(v)
}

// Len returns the number of inspection points.
func (t *Template) Len() int { return len(t.defs) }

// Definitions returns the template entries in declaration order.
func (t *Template) Definitions() []Definition {
	out := make([]Definition, len(t.defs))
	copy(out, t.defs)
	return out
}

// Generate produces a fresh checklist from the template: every item
// UNCHECKED, empty comment, no images, in template order.
func (t *Template) Generate() []entity.ChecklistItem {
	items := make([]entity.ChecklistItem, 0, len(t.defs))
	for _, d := range t.defs {
		items = append(items, entity.ChecklistItem{
			ID:         d.ID,
			Name:       d.Name,
			Status:     constants.ChecklistUnchecked,
			Comment:    "",
			Images:     []entity.ChecklistItemImage{},
			IsOptional: d.IsOptional,
		})
	}
	return items
}
