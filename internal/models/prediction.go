// internal/models/prediction.go
package models

import "time"

// Listing is the submitted listing as recorded alongside a prediction.
type Listing struct {
	Price           float64 `json:"price"`
	InitialQuantity float64 `json:"initialQuantity"`
	PictureCount    float64 `json:"pictureCount"`
	SellerLoyalty   string  `json:"sellerLoyalty"`
	BuyingMode      string  `json:"buyingMode"`
	ShippingMode    string  `json:"shippingMode"`
	AdmitsPickup    bool    `json:"admitsPickup"`
	FreeShipping    bool    `json:"freeShipping"`
	IsNew           bool    `json:"isNew"`
}

// PredictionRecord is one served prediction, written to the history sinks.
type PredictionRecord struct {
	ID           string    `json:"id"`
	Listing      Listing   `json:"listing"`
	Score        float64   `json:"score"`
	Threshold    float64   `json:"threshold"`
	WillSell     bool      `json:"willSell"`
	ModelName    string    `json:"modelName"`
	ModelVersion string    `json:"modelVersion"`
	Channel      string    `json:"channel"`
	CacheHit     bool      `json:"cacheHit"`
	CreatedAt    time.Time `json:"createdAt"`
}
