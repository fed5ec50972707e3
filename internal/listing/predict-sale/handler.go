// internal/listing/predict-sale/handler.go
package predictsale

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "listing-predictor/internal/common/errors"
	"listing-predictor/internal/common/logger"
	"listing-predictor/internal/common/metrics"
	"listing-predictor/internal/common/observability"
	encodefeatures "listing-predictor/internal/listing/encode-features"
	"listing-predictor/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "predict-sale"

// Model scores encoded samples.
type Model interface {
	Predict(samples [][]float64) ([]float64, error)
	Dimension() int
}

// Recorder persists served predictions.
type Recorder interface {
	Record(ctx context.Context, rec *models.PredictionRecord) error
}

type Handler struct {
	config   *Config
	model    Model
	encoder  *encodefeatures.Encoder
	redis    *redis.Client
	recorder Recorder
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

// NewHandler fails when the model's input size differs from the encoder's
// vector length. redisClient and recorder may be nil.
func NewHandler(config *Config, model Model, redisClient *redis.Client, recorder Recorder, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if model.Dimension() != encodefeatures.Dimension {
		return nil, apperrors.NewDimensionMismatchError(encodefeatures.Dimension, model.Dimension())
	}
	if obs == nil {
		obs = observability.NewNoop()
	}

	return &Handler{
		config:   config,
		model:    model,
		encoder:  encodefeatures.NewEncoder(log),
		redis:    redisClient,
		recorder: recorder,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:      time.Now,
	}, nil
}

// Execute encodes the listing, scores it and applies the threshold.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := h.now()
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("channel", input.Channel))
	defer span.End()

	encoded, err := h.encoder.Encode(&input.Listing)
	if err != nil {
		h.reject(ctx, input.Channel, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		return nil, err
	}

	score, cacheHit, err := h.score(ctx, encoded)
	if err != nil {
		h.reject(ctx, input.Channel, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return nil, err
	}

	willSell, message := Decide(score, h.config.Threshold)
	output := &Output{
		PredictionID: uuid.NewString(),
		Score:        score,
		WillSell:     willSell,
		Message:      message,
		ModelName:    h.config.ModelName,
		ModelVersion: h.config.ModelVersion,
		CacheHit:     cacheHit,
		GeneratedAt:  h.now().UTC(),
	}

	outcome := outcomeLabel(willSell)
	elapsed := h.now().Sub(start)
	metrics.PredictionsServed.WithLabelValues(outcome, input.Channel).Inc()
	metrics.PredictionDuration.WithLabelValues(input.Channel).Observe(elapsed.Seconds())
	h.obs.RecordPrediction(ctx, outcome)
	h.obs.RecordPredictionDuration(ctx, elapsed, outcome)
	span.SetAttributes(attribute.Float64("score", score), attribute.Bool("willSell", willSell))

	h.logger.Info("prediction served", map[string]interface{}{
		"predictionId": output.PredictionID,
		"channel":      input.Channel,
		"score":        score,
		"willSell":     willSell,
		"cacheHit":     cacheHit,
	})

	h.record(ctx, input, output)
	return output, nil
}

// Decide applies the threshold: strictly above it means the listing is
// expected to sell.
func Decide(score, threshold float64) (bool, string) {
	if score > threshold {
		return true, MessageWillSell
	}
	return false, MessageWillNotSell
}

func (h *Handler) score(ctx context.Context, encoded *encodefeatures.Output) (float64, bool, error) {
	key := h.cacheKey(encoded.Vector)
	if score, ok := h.cachedScore(ctx, key); ok {
		return score, true, nil
	}

	scores, err := h.model.Predict(encoded.Sample)
	if err != nil {
		return 0, false, apperrors.NewPredictionFailedError(err)
	}
	if len(scores) != 1 {
		return 0, false, apperrors.NewPredictionFailedError(
			fmt.Errorf("model returned %d scores for a single-row sample", len(scores)))
	}

	h.storeScore(ctx, key, scores[0])
	return scores[0], false, nil
}

func (h *Handler) cachedScore(ctx context.Context, key string) (float64, bool) {
	if h.redis == nil {
		return 0, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.ScoreCacheLookups.WithLabelValues("miss").Inc()
		return 0, false
	}
	if err != nil {
		metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("score cache read failed", map[string]interface{}{
			"error": apperrors.NewCacheUnavailableError(err).Details,
		})
		return 0, false
	}

	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("discarding malformed cached score", map[string]interface{}{
			"key":   key,
			"value": val,
		})
		return 0, false
	}

	metrics.ScoreCacheLookups.WithLabelValues("hit").Inc()
	return score, true
}

func (h *Handler) storeScore(ctx context.Context, key string, score float64) {
	if h.redis == nil {
		return
	}
	val := strconv.FormatFloat(score, 'g', -1, 64)
	if err := h.redis.Set(ctx, key, val, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("score cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// cacheKey is the prefix plus a digest of the vector and model version, so a
// redeployed model never reads scores produced by its predecessor.
func (h *Handler) cacheKey(vector []float64) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	sum := sha256.Sum256([]byte(h.config.ModelVersion + "|" + strings.Join(parts, ",")))
	return h.config.CacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) record(ctx context.Context, input *Input, output *Output) {
	if h.recorder == nil {
		return
	}

	rec := &models.PredictionRecord{
		ID:           output.PredictionID,
		Listing:      toListing(&input.Listing),
		Score:        output.Score,
		Threshold:    h.config.Threshold,
		WillSell:     output.WillSell,
		ModelName:    output.ModelName,
		ModelVersion: output.ModelVersion,
		Channel:      input.Channel,
		CacheHit:     output.CacheHit,
		CreatedAt:    output.GeneratedAt,
	}
	if err := h.recorder.Record(ctx, rec); err != nil {
		h.logger.Warn("failed to record prediction", map[string]interface{}{
			"predictionId": output.PredictionID,
			"error":        err.Error(),
		})
	}
}

func (h *Handler) reject(ctx context.Context, channel string, err error) {
	code := string(apperrors.ErrCodeInternal)
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.PredictionsRejected.WithLabelValues(code, channel).Inc()
	h.obs.RecordPrediction(ctx, "rejected")
}

func toListing(in *encodefeatures.Input) models.Listing {
	l := models.Listing{
		SellerLoyalty: in.SellerLoyalty,
		BuyingMode:    in.BuyingMode,
		ShippingMode:  in.ShippingMode,
		AdmitsPickup:  in.AdmitsPickup,
		FreeShipping:  in.FreeShipping,
		IsNew:         in.IsNew,
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.InitialQuantity != nil {
		l.InitialQuantity = *in.InitialQuantity
	}
	if in.PictureCount != nil {
		l.PictureCount = *in.PictureCount
	}
	return l
}

func outcomeLabel(willSell bool) string {
	if willSell {
		return "will_sell"
	}
	return "will_not_sell"
}
