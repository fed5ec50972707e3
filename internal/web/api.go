// internal/web/api.go
package web

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "listing-predictor/internal/common/errors"
	encodefeatures "listing-predictor/internal/listing/encode-features"
	predictsale "listing-predictor/internal/listing/predict-sale"

	"github.com/gin-gonic/gin"
)

// predictRequest mirrors the form. Omitted toggles default to on, like the
// form's switches.
type predictRequest struct {
	Price           *float64 `json:"price"`
	InitialQuantity *float64 `json:"initial_quantity"`
	PictureCount    *float64 `json:"picture_count"`
	SellerLoyalty   string   `json:"seller_loyalty"`
	BuyingMode      string   `json:"buying_mode"`
	ShippingMode    string   `json:"shipping_mode"`
	AdmitsPickup    *bool    `json:"admits_pickup"`
	FreeShipping    *bool    `json:"free_shipping"`
	IsNew           *bool    `json:"is_new"`
}

func (r *predictRequest) toInput() encodefeatures.Input {
	return encodefeatures.Input{
		Price:           r.Price,
		InitialQuantity: r.InitialQuantity,
		PictureCount:    r.PictureCount,
		SellerLoyalty:   r.SellerLoyalty,
		BuyingMode:      r.BuyingMode,
		ShippingMode:    r.ShippingMode,
		AdmitsPickup:    boolOr(r.AdmitsPickup, true),
		FreeShipping:    boolOr(r.FreeShipping, true),
		IsNew:           boolOr(r.IsNew, true),
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (s *Server) predictAPI(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.errors.HandleRequestError(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.validator.Validate(body)
	if err != nil {
		s.errors.HandleRequestError(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	if !result.Valid {
		stdErr := apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
		s.errors.HandleRequestError(c, stdErr.WithMetadata("violations", result.Errors))
		return
	}

	var req predictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errors.HandleRequestError(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	out, err := s.predictor.Execute(c.Request.Context(), &predictsale.Input{
		Channel: predictsale.ChannelAPI,
		Listing: req.toInput(),
	})
	if err != nil {
		s.errors.HandleRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) coefficients(c *gin.Context) {
	if s.table == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coefficient table not loaded"})
		return
	}
	c.JSON(http.StatusOK, s.table)
}

func (s *Server) features(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"features":  encodefeatures.FeatureNames(),
		"dimension": encodefeatures.Dimension,
	})
}
