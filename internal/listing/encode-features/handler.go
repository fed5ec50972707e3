// internal/listing/encode-features/handler.go
package encodefeatures

import (
	"errors"
	"math"
	"slices"

	apperrors "listing-predictor/internal/common/errors"
	"listing-predictor/internal/common/logger"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const TaskType = "encode-features"

// Encoder turns a form submission into the model's feature vector.
type Encoder struct {
	logger logger.Logger
}

func NewEncoder(log logger.Logger) *Encoder {
	return &Encoder{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Encode validates input and returns the encoded vector. Only presence (and
// finiteness) of the three numeric fields and membership of the categorical
// fields is checked.
func (e *Encoder) Encode(input *Input) (*Output, error) {
	if missing := invalidNumericFields(input); len(missing) > 0 {
		e.logger.Debug("rejecting submission with empty numeric fields", map[string]interface{}{
			"fields": missing,
		})
		return nil, apperrors.NewInvalidFormValueError(missing...)
	}

	loyalty, err := oneHotField(FieldSellerLoyalty, SellerLoyaltyTiers, input.SellerLoyalty)
	if err != nil {
		return nil, err
	}
	buying, err := oneHotField(FieldBuyingMode, BuyingModes, input.BuyingMode)
	if err != nil {
		return nil, err
	}
	shipping, err := oneHotField(FieldShippingMode, ShippingModes, input.ShippingMode)
	if err != nil {
		return nil, err
	}

	vector := make([]float64, 0, Dimension)
	vector = append(vector, *input.Price, *input.InitialQuantity, *input.PictureCount)
	vector = append(vector, loyalty...)
	vector = append(vector, buying...)
	vector = append(vector, shipping...)
	vector = append(vector, Pair(input.AdmitsPickup)...)
	vector = append(vector, Pair(input.FreeShipping)...)
	vector = append(vector, StatusEncoding...)
	vector = append(vector, Pair(input.IsNew)...)

	return &Output{
		Vector: vector,
		Sample: [][]float64{vector},
	}, nil
}

var errNotFinite = errors.New("must be a finite number")

func finite(value interface{}) error {
	v, ok := value.(*float64)
	if !ok || v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return errNotFinite
	}
	return nil
}

func invalidNumericFields(input *Input) []string {
	rules := []validation.Rule{validation.NotNil, validation.By(finite)}
	errs := validation.Errors{
		FieldPrice:           validation.Validate(input.Price, rules...),
		FieldInitialQuantity: validation.Validate(input.InitialQuantity, rules...),
		FieldPictureCount:    validation.Validate(input.PictureCount, rules...),
	}

	var missing []string
	for _, field := range []string{FieldPrice, FieldInitialQuantity, FieldPictureCount} {
		if errs[field] != nil {
			missing = append(missing, field)
		}
	}
	return missing
}

func oneHotField(field string, options []string, value string) ([]float64, error) {
	if err := validation.Validate(value, validation.Required, validation.In(toInterfaces(options)...)); err != nil {
		return nil, apperrors.NewUnknownCategoryError(field, value)
	}
	vec, _ := OneHot(options, value)
	return vec, nil
}

// OneHot returns a vector the length of options with a 1 at value's index.
// ok is false when value is not one of options.
func OneHot(options []string, value string) (vec []float64, ok bool) {
	vec = make([]float64, len(options))
	idx := slices.Index(options, value)
	if idx < 0 {
		return vec, false
	}
	vec[idx] = 1
	return vec, true
}

// Pair encodes a toggle: [1,0] for false, [0,1] for true.
func Pair(on bool) []float64 {
	if on {
		return []float64{0, 1}
	}
	return []float64{1, 0}
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
