// internal/listing/record-prediction/models.go
package recordprediction

import (
	"context"
	"time"

	"listing-predictor/internal/models"
)

// Sink stores prediction records in one backend.
type Sink interface {
	Name() string
	Record(ctx context.Context, rec *models.PredictionRecord) error
}

// document is the Elasticsearch representation of a record.
type document struct {
	PredictionID    string    `json:"prediction_id"`
	Price           float64   `json:"price"`
	InitialQuantity float64   `json:"initial_quantity"`
	PictureCount    float64   `json:"picture_count"`
	SellerLoyalty   string    `json:"seller_loyalty"`
	BuyingMode      string    `json:"buying_mode"`
	ShippingMode    string    `json:"shipping_mode"`
	AdmitsPickup    bool      `json:"admits_pickup"`
	FreeShipping    bool      `json:"free_shipping"`
	IsNew           bool      `json:"is_new"`
	Score           float64   `json:"score"`
	Threshold       float64   `json:"threshold"`
	WillSell        bool      `json:"will_sell"`
	ModelName       string    `json:"model_name"`
	ModelVersion    string    `json:"model_version"`
	Channel         string    `json:"channel"`
	CacheHit        bool      `json:"cache_hit"`
	CreatedAt       time.Time `json:"created_at"`
}

func toDocument(rec *models.PredictionRecord) document {
	return document{
		PredictionID:    rec.ID,
		Price:           rec.Listing.Price,
		InitialQuantity: rec.Listing.InitialQuantity,
		PictureCount:    rec.Listing.PictureCount,
		SellerLoyalty:   rec.Listing.SellerLoyalty,
		BuyingMode:      rec.Listing.BuyingMode,
		ShippingMode:    rec.Listing.ShippingMode,
		AdmitsPickup:    rec.Listing.AdmitsPickup,
		FreeShipping:    rec.Listing.FreeShipping,
		IsNew:           rec.Listing.IsNew,
		Score:           rec.Score,
		Threshold:       rec.Threshold,
		WillSell:        rec.WillSell,
		ModelName:       rec.ModelName,
		ModelVersion:    rec.ModelVersion,
		Channel:         rec.Channel,
		CacheHit:        rec.CacheHit,
		CreatedAt:       rec.CreatedAt,
	}
}
