// internal/listing/encode-features/config.go
package encodefeatures

// Reference lists for the one-hot segments. Order is part of the model
// contract: position i in a list is position i in the encoded segment.
var (
	SellerLoyaltyTiers = []string{
		"bronze",
		"free",
		"gold",
		"gold_premium",
		"gold_pro",
		"gold_special",
		"silver",
	}

	BuyingModes = []string{"auction", "buy_it_now", "classified"}

	ShippingModes = []string{"custom", "me1", "me2", "not_specified"}
)

// StatusEncoding is appended for every sample. No input feeds it.
var StatusEncoding = []float64{1, 0, 0}

// Form field names, shared by the HTML form, the JSON API and error metadata.
const (
	FieldPrice           = "price"
	FieldInitialQuantity = "initial_quantity"
	FieldPictureCount    = "picture_count"
	FieldSellerLoyalty   = "seller_loyalty"
	FieldBuyingMode      = "buying_mode"
	FieldShippingMode    = "shipping_mode"
	FieldAdmitsPickup    = "admits_pickup"
	FieldFreeShipping    = "free_shipping"
	FieldIsNew           = "is_new"
)

// Dimension is the length of every encoded vector.
var Dimension = len(FeatureNames())

// FeatureNames lists the encoded vector positions in order.
func FeatureNames() []string {
	names := []string{FieldPrice, FieldInitialQuantity, FieldPictureCount}
	for _, v := range SellerLoyaltyTiers {
		names = append(names, FieldSellerLoyalty+"_"+v)
	}
	for _, v := range BuyingModes {
		names = append(names, FieldBuyingMode+"_"+v)
	}
	for _, v := range ShippingModes {
		names = append(names, FieldShippingMode+"_"+v)
	}
	names = append(names, pairNames(FieldAdmitsPickup)...)
	names = append(names, pairNames(FieldFreeShipping)...)
	names = append(names, "status_0", "status_1", "status_2")
	names = append(names, pairNames(FieldIsNew)...)
	return names
}

func pairNames(field string) []string {
	return []string{field + "_false", field + "_true"}
}
