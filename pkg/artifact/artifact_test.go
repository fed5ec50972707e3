package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validModel = `{
  "name": "bayesian_ridge",
  "version": "1",
  "intercept": 0.5,
  "featureNames": ["price", "initial_quantity"],
  "coefficients": [0.1, -0.2]
}`

func TestParseModel_Valid(t *testing.T) {
	m, err := ParseModel([]byte(validModel))
	require.NoError(t, err)

	assert.Equal(t, "bayesian_ridge", m.Name)
	assert.Equal(t, 2, m.Dimension())
	assert.Equal(t, []string{"price", "initial_quantity"}, m.FeatureNames)
}

func TestParseModel_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing coefficients", `{"intercept": 1}`},
		{"empty coefficients", `{"intercept": 1, "coefficients": []}`},
		{"string coefficient", `{"intercept": 1, "coefficients": ["a"]}`},
		{"missing intercept", `{"coefficients": [1]}`},
		{"names length mismatch", `{"intercept": 0, "coefficients": [1, 2], "featureNames": ["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.doc))
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, KindModel, schemaErr.Kind)
			assert.NotEmpty(t, schemaErr.Violations)
		})
	}
}

func TestParseModel_NotJSON(t *testing.T) {
	_, err := ParseModel([]byte("not json"))
	assert.Error(t, err)
}

func TestLinearModel_Predict(t *testing.T) {
	m := &LinearModel{Intercept: 0.5, Coefficients: []float64{0.1, -0.2}}

	got, err := m.Predict([][]float64{{10, 2}, {0, 0}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.1, 0.5}, got, 1e-12)

	_, err = m.Predict([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestParseCoefficientTable(t *testing.T) {
	table, err := ParseCoefficientTable([]byte(`{"weights":[{"attribute":"price","weight":-0.001},{"attribute":"free_shipping_true","weight":0.07}]}`))
	require.NoError(t, err)
	require.Len(t, table.Weights, 2)

	w, ok := table.Lookup("free_shipping_true")
	assert.True(t, ok)
	assert.Equal(t, 0.07, w)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)

	_, err = ParseCoefficientTable([]byte(`{"weights":[{"attribute":"","weight":1}]}`))
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestTableFromModel(t *testing.T) {
	table := TableFromModel(&LinearModel{Coefficients: []float64{1, 2}, FeatureNames: []string{"a", "b"}})
	assert.Equal(t, []AttributeWeight{{"a", 1}, {"b", 2}}, table.Weights)

	table = TableFromModel(&LinearModel{Coefficients: []float64{3}})
	assert.Equal(t, "x0", table.Weights[0].Attribute)
}

func TestLoadModel_FromFileAndURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(validModel), 0o644))

	m, err := LoadModel(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Intercept)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(validModel))
	}))
	defer srv.Close()

	m, err = LoadModel(context.Background(), srv.URL+"/model.json", srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "bayesian_ridge", m.Name)

	_, err = LoadModel(context.Background(), srv.URL+"/missing", srv.Client())
	assert.ErrorContains(t, err, "unexpected status 404")
}
