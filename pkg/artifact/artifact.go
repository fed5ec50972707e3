// pkg/artifact/artifact.go
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	KindModel        = "model"
	KindCoefficients = "coefficients"
)

// ErrDimensionMismatch is returned when a sample does not have one value per coefficient.
var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// SchemaError lists the schema violations found in an artifact document.
type SchemaError struct {
	Kind       string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s artifact invalid: %s", e.Kind, strings.Join(e.Violations, "; "))
}

// Doer is the subset of an HTTP client used to fetch remote artifacts.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Read returns the raw bytes at src, which is a file path or an http(s) URL.
func Read(ctx context.Context, src string, client Doer) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", src, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// LoadModel reads, schema-checks and decodes a model artifact.
func LoadModel(ctx context.Context, src string, client Doer) (*LinearModel, error) {
	data, err := Read(ctx, src, client)
	if err != nil {
		return nil, err
	}
	return ParseModel(data)
}

// ParseModel schema-checks and decodes a model artifact document.
func ParseModel(data []byte) (*LinearModel, error) {
	if err := validate(KindModel, modelSchema, data); err != nil {
		return nil, err
	}

	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.FeatureNames) > 0 && len(m.FeatureNames) != len(m.Coefficients) {
		return nil, &SchemaError{
			Kind: KindModel,
			Violations: []string{fmt.Sprintf(
				"featureNames has %d entries but coefficients has %d",
				len(m.FeatureNames), len(m.Coefficients),
			)},
		}
	}
	return &m, nil
}

// LoadCoefficientTable reads, schema-checks and decodes a coefficient table.
func LoadCoefficientTable(ctx context.Context, src string, client Doer) (*CoefficientTable, error) {
	data, err := Read(ctx, src, client)
	if err != nil {
		return nil, err
	}
	return ParseCoefficientTable(data)
}

func ParseCoefficientTable(data []byte) (*CoefficientTable, error) {
	if err := validate(KindCoefficients, coefficientTableSchema, data); err != nil {
		return nil, err
	}

	var t CoefficientTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode coefficient table: %w", err)
	}
	return &t, nil
}

func validate(kind, schema string, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return &SchemaError{Kind: kind, Violations: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Kind: kind, Violations: violations}
}

// Dimension is the number of features the model expects.
func (m *LinearModel) Dimension() int {
	return len(m.Coefficients)
}

// Predict scores every row of samples.
func (m *LinearModel) Predict(samples [][]float64) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, row := range samples {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("%w: row %d has %d values, model expects %d",
				ErrDimensionMismatch, i, len(row), len(m.Coefficients))
		}
		y := m.Intercept
		for j, x := range row {
			y += m.Coefficients[j] * x
		}
		out[i] = y
	}
	return out, nil
}

// Lookup returns the weight recorded for attribute.
func (t *CoefficientTable) Lookup(attribute string) (float64, bool) {
	for _, w := range t.Weights {
		if w.Attribute == attribute {
			return w.Weight, true
		}
	}
	return 0, false
}

// TableFromModel builds a coefficient table from a model that carries feature names.
func TableFromModel(m *LinearModel) *CoefficientTable {
	t := &CoefficientTable{Weights: make([]AttributeWeight, 0, len(m.Coefficients))}
	for i, c := range m.Coefficients {
		name := fmt.Sprintf("x%d", i)
		if i < len(m.FeatureNames) {
			name = m.FeatureNames[i]
		}
		t.Weights = append(t.Weights, AttributeWeight{Attribute: name, Weight: c})
	}
	return t
}
