package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"footfit/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is the subset of JSON Schema the workers describe their
// variables with. It is handed to gojsonschema as a Go value.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes reported in ValidationError.Code.
const (
	CodeRequired     = "REQUIRED_FIELD_MISSING"
	CodeInvalidType  = "INVALID_TYPE"
	CodeInvalidEnum  = "INVALID_ENUM_VALUE"
	CodeSchemaFailed = "SCHEMA_VIOLATION"
)

// ProfileSchema describes the six profile variables by their camelCase names.
// With requireAll set every field must be present; otherwise only the values
// that are present are checked against their enumeration. Other process
// variables are always allowed.
func ProfileSchema(requireAll bool) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]Property, len(models.Fields)),
	}
	for _, f := range models.Fields {
		schema.Properties[f.JSONName()] = Property{
			Type:        "string",
			Description: f.Label(),
			Enum:        f.Options(),
		}
		if requireAll {
			schema.Required = append(schema.Required, f.JSONName())
		}
	}
	return schema
}

// Validate checks input against schema with gojsonschema and flattens the
// result. Errors are sorted by field so callers see a stable order.
func Validate(input map[string]interface{}, schema JSONSchema) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   errorField(e),
			Message: e.Description(),
			Code:    errorCode(e.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// errorField reports the property an error is about. Required errors are
// raised on the parent object, so the missing property comes from Details.
func errorField(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return strings.TrimPrefix(e.Field(), "(root).")
}

func errorCode(kind string) string {
	switch kind {
	case "required":
		return CodeRequired
	case "invalid_type":
		return CodeInvalidType
	case "enum":
		return CodeInvalidEnum
	default:
		return CodeSchemaFailed
	}
}

// ValidateActivityNaming validates activity ID follows naming convention
func ValidateActivityNaming(activityId string) error {
	namingPattern := regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+(-[a-z]+)*$`)
	if !namingPattern.MatchString(activityId) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., footfit.profile.validate)")
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FieldsWithCode lists the fields that failed with the given code, in order.
func (vr *ValidationResult) FieldsWithCode(code string) []string {
	var fields []string
	for _, err := range vr.Errors {
		if err.Code == code {
			fields = append(fields, err.Field)
		}
	}
	return fields
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// WithoutEmpty returns a copy of input without nil and "" values, so the
// required check reports them as missing instead of failing the type or enum
// check.
func WithoutEmpty(input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(input))
	for k, v := range input {
		if v == nil || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
