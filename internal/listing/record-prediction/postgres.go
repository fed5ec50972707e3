// internal/listing/record-prediction/postgres.go
package recordprediction

import (
	"context"
	"database/sql"
	"fmt"

	"listing-predictor/internal/models"

	"github.com/lib/pq"
)

type PostgresSink struct {
	db    *sql.DB
	table string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates the history table when it does not exist yet.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id               UUID PRIMARY KEY,
			price            DOUBLE PRECISION NOT NULL,
			initial_quantity DOUBLE PRECISION NOT NULL,
			picture_count    DOUBLE PRECISION NOT NULL,
			seller_loyalty   TEXT NOT NULL,
			buying_mode      TEXT NOT NULL,
			shipping_mode    TEXT NOT NULL,
			admits_pickup    BOOLEAN NOT NULL,
			free_shipping    BOOLEAN NOT NULL,
			is_new           BOOLEAN NOT NULL,
			score            DOUBLE PRECISION NOT NULL,
			threshold        DOUBLE PRECISION NOT NULL,
			will_sell        BOOLEAN NOT NULL,
			model_name       TEXT,
			model_version    TEXT,
			channel          TEXT NOT NULL,
			cache_hit        BOOLEAN NOT NULL DEFAULT FALSE,
			created_at       TIMESTAMPTZ NOT NULL
		)`, s.table))
	if err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresSink) Record(ctx context.Context, rec *models.PredictionRecord) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			id, price, initial_quantity, picture_count,
			seller_loyalty, buying_mode, shipping_mode,
			admits_pickup, free_shipping, is_new,
			score, threshold, will_sell,
			model_name, model_version, channel, cache_hit, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`, s.table),
		rec.ID,
		rec.Listing.Price,
		rec.Listing.InitialQuantity,
		rec.Listing.PictureCount,
		rec.Listing.SellerLoyalty,
		rec.Listing.BuyingMode,
		rec.Listing.ShippingMode,
		rec.Listing.AdmitsPickup,
		rec.Listing.FreeShipping,
		rec.Listing.IsNew,
		rec.Score,
		rec.Threshold,
		rec.WillSell,
		rec.ModelName,
		rec.ModelVersion,
		rec.Channel,
		rec.CacheHit,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}
