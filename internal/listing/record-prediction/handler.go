// internal/listing/record-prediction/handler.go
package recordprediction

import (
	"context"
	"errors"

	apperrors "listing-predictor/internal/common/errors"
	"listing-predictor/internal/common/logger"
	"listing-predictor/internal/common/metrics"
	"listing-predictor/internal/models"
)

const TaskType = "record-prediction"

// Handler writes every record to all configured sinks. A failing sink does
// not stop the others.
type Handler struct {
	config *Config
	sinks  []Sink
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger, sinks ...Sink) *Handler {
	return &Handler{
		config: config,
		sinks:  sinks,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Enabled reports whether any sink is configured.
func (h *Handler) Enabled() bool {
	return len(h.sinks) > 0
}

func (h *Handler) Record(ctx context.Context, rec *models.PredictionRecord) error {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	var errs []error
	for _, sink := range h.sinks {
		if err := sink.Record(ctx, rec); err != nil {
			metrics.HistoryWrites.WithLabelValues(sink.Name(), "error").Inc()
			h.logger.Warn("history write failed", map[string]interface{}{
				"sink":         sink.Name(),
				"predictionId": rec.ID,
				"error":        err.Error(),
			})
			errs = append(errs, apperrors.NewHistoryWriteFailedError(sink.Name(), err))
			continue
		}
		metrics.HistoryWrites.WithLabelValues(sink.Name(), "success").Inc()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	h.logger.Debug("prediction recorded", map[string]interface{}{
		"predictionId": rec.ID,
		"sinks":        len(h.sinks),
	})
	return nil
}
