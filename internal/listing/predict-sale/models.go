// internal/listing/predict-sale/models.go
package predictsale

import (
	"time"

	encodefeatures "listing-predictor/internal/listing/encode-features"
)

// Channels label where a prediction request came from.
const (
	ChannelForm = "form"
	ChannelAPI  = "api"
)

type Input struct {
	Listing encodefeatures.Input
	Channel string
}

type Output struct {
	PredictionID string    `json:"predictionId"`
	Score        float64   `json:"score"`
	WillSell     bool      `json:"willSell"`
	Message      string    `json:"message"`
	ModelName    string    `json:"modelName,omitempty"`
	ModelVersion string    `json:"modelVersion,omitempty"`
	CacheHit     bool      `json:"cacheHit"`
	GeneratedAt  time.Time `json:"generatedAt"`
}
