// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPredictValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(PredictRequestSchema)
	require.NoError(t, err)
	return v
}

func errorFields(result *ValidationResult) []string {
	fields := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		fields[i] = e.Field
	}
	return fields
}

func TestValidate_ValidBody(t *testing.T) {
	v := newPredictValidator(t)

	result, err := v.Validate([]byte(`{
		"price": 150.5,
		"initial_quantity": 2,
		"picture_count": 3,
		"seller_loyalty": "gold",
		"buying_mode": "auction",
		"shipping_mode": "me1",
		"admits_pickup": false,
		"free_shipping": true,
		"is_new": false
	}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_NullAndMissingNumericsAllowed(t *testing.T) {
	v := newPredictValidator(t)

	result, err := v.Validate([]byte(`{"price": null, "seller_loyalty": "silver"}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidate_WrongTypes(t *testing.T) {
	v := newPredictValidator(t)

	result, err := v.Validate([]byte(`{"price": "cheap", "is_new": "yes"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{"price", "is_new"}, errorFields(result))
	assert.Len(t, result.GetErrorMessages(), 2)
	assert.Equal(t, "INVALID_TYPE", result.Errors[0].Code)
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := newPredictValidator(t)

	result, err := v.Validate([]byte(`{"colour": "red"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, errorFields(result), "colour")
}

func TestValidate_NotJSON(t *testing.T) {
	v := newPredictValidator(t)

	_, err := v.Validate([]byte(`price=10`))
	assert.Error(t, err)
}

func TestNewValidator_BadSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}
