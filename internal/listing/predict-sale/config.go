// internal/listing/predict-sale/config.go
package predictsale

import "time"

const (
	MessageWillSell    = "You will probably have, at least, one sell with this publication"
	MessageWillNotSell = "You will probably not sell with this publication"

	DefaultThreshold = 0.2
)

type Config struct {
	Threshold      float64
	CacheTTL       time.Duration
	CacheKeyPrefix string
	ModelName      string
	ModelVersion   string
}

func LoadConfig() *Config {
	return &Config{
		Threshold:      DefaultThreshold,
		CacheTTL:       10 * time.Minute,
		CacheKeyPrefix: "listing:score:",
	}
}
