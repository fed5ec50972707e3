// internal/listing/encode-features/models.go
package encodefeatures

// Input is one form submission. Numeric fields are pointers so that an empty
// field can be told apart from zero.
type Input struct {
	Price           *float64 `json:"price"`
	InitialQuantity *float64 `json:"initial_quantity"`
	PictureCount    *float64 `json:"picture_count"`
	SellerLoyalty   string   `json:"seller_loyalty"`
	BuyingMode      string   `json:"buying_mode"`
	ShippingMode    string   `json:"shipping_mode"`
	AdmitsPickup    bool     `json:"admits_pickup"`
	FreeShipping    bool     `json:"free_shipping"`
	IsNew           bool     `json:"is_new"`
}

// Output is the encoded feature vector and the single-row sample built from it.
type Output struct {
	Vector []float64   `json:"vector"`
	Sample [][]float64 `json:"-"`
}
