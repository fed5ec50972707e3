// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// PredictRequestSchema describes the JSON body of the prediction API.
// Numeric fields may be null or absent; the encoder reports those as
// missing values. Category values are checked by the encoder, not here.
const PredictRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "price":            {"type": ["number", "null"]},
    "initial_quantity": {"type": ["number", "null"]},
    "picture_count":    {"type": ["number", "null"]},
    "seller_loyalty":   {"type": "string"},
    "buying_mode":      {"type": "string"},
    "shipping_mode":    {"type": "string"},
    "admits_pickup":    {"type": "boolean"},
    "free_shipping":    {"type": "boolean"},
    "is_new":           {"type": "boolean"}
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator checks JSON documents against a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns an error only when data is not JSON at all.
func (v *Validator) Validate(data []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// fieldName reports the offending property. For additionalProperties
// violations gojsonschema puts the property in the details, not the field.
func fieldName(desc gojsonschema.ResultError) string {
	if prop, ok := desc.Details()["property"].(string); ok && desc.Field() == "(root)" {
		return prop
	}
	return desc.Field()
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
