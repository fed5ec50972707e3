// internal/listing/record-prediction/config.go
package recordprediction

import "time"

// Config bounds a single fan-out. The sinks carry their own table and index.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 2 * time.Second,
	}
}
