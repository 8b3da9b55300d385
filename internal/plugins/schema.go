package plugins

import (
	"fmt"
	"sort"

	"github.com/quiltlabs/quilt/internal/blueprint"
)

// FieldType enumerates the config value types a schema can require.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
)

// FieldSpec declares one config field: its type, whether it must be
// present, and an optional closed value set.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string
	Default  any
}

// ConfigSchema is the declarative validation surface a plugin exposes.
// Plugins with procedural validation needs override Validate wholesale
// instead.
type ConfigSchema struct {
	Fields []FieldSpec
}

// FieldError is one validation violation, shaped for direct rendering in a
// caller's form UI.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationResult reports the outcome of validating one node's config.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Errors   []FieldError `json:"errors,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (r *ValidationResult) addError(field, message, code string) {
	r.Valid = false
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message, Code: code})
}

// ValidateConfig checks a node's config against the schema, translating
// violations into field/message/code triples. Unknown keys are reported as
// warnings, not errors.
func (s ConfigSchema) ValidateConfig(node *blueprint.Node) ValidationResult {
	result := ValidationResult{Valid: true}
	known := make(map[string]bool, len(s.Fields))

	for _, f := range s.Fields {
		known[f.Name] = true
		v, present := node.Config[f.Name]
		if !present || v == nil {
			if f.Required {
				result.addError(f.Name, fmt.Sprintf("%s is required", f.Name), "required")
			}
			continue
		}
		if !matchesType(v, f.Type) {
			result.addError(f.Name, fmt.Sprintf("%s must be a %s", f.Name, f.Type), "type")
			continue
		}
		if len(f.Enum) > 0 {
			s, _ := v.(string)
			if !contains(f.Enum, s) {
				result.addError(f.Name, fmt.Sprintf("%s must be one of %v", f.Name, f.Enum), "enum")
			}
		}
	}

	var unknown []string
	for key := range node.Config {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key %q", key))
	}
	return result
}

func matchesType(v any, t FieldType) bool {
	switch t {
	case FieldString:
		_, ok := v.(string)
		return ok
	case FieldNumber:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case FieldBoolean:
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
