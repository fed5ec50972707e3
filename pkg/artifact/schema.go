// pkg/artifact/schema.go
package artifact

// LinearModel is a fitted linear regression exported by the training job.
// Coefficients are ordered exactly like the feature vector the model was
// trained on.
type LinearModel struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	TrainedAt    string    `json:"trainedAt,omitempty"`
	Intercept    float64   `json:"intercept"`
	FeatureNames []string  `json:"featureNames,omitempty"`
	Coefficients []float64 `json:"coefficients"`
}

// CoefficientTable is the attribute -> weight table used for the chart.
type CoefficientTable struct {
	Title   string            `json:"title,omitempty"`
	Weights []AttributeWeight `json:"weights"`
}

type AttributeWeight struct {
	Attribute string  `json:"attribute"`
	Weight    float64 `json:"weight"`
}

const modelSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["intercept", "coefficients"],
  "properties": {
    "name": {"type": "string"},
    "version": {"type": "string"},
    "trainedAt": {"type": "string"},
    "intercept": {"type": "number"},
    "featureNames": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "coefficients": {"type": "array", "minItems": 1, "items": {"type": "number"}}
  }
}`

const coefficientTableSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["weights"],
  "properties": {
    "title": {"type": "string"},
    "weights": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["attribute", "weight"],
        "properties": {
          "attribute": {"type": "string", "minLength": 1},
          "weight": {"type": "number"}
        }
      }
    }
  }
}`
