// internal/web/form.go
package web

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "listing-predictor/internal/common/errors"
	encodefeatures "listing-predictor/internal/listing/encode-features"
	predictsale "listing-predictor/internal/listing/predict-sale"

	"github.com/gin-gonic/gin"
)

const (
	AlertInvalidValue = "Please, insert a valid value!"
	errorUnavailable  = "Prediction is unavailable right now, please try again later."
)

// formValues echoes the submitted form back into the page.
type formValues struct {
	Price           string
	InitialQuantity string
	PictureCount    string
	SellerLoyalty   string
	BuyingMode      string
	ShippingMode    string
	AdmitsPickup    bool
	FreeShipping    bool
	IsNew           bool
}

type pageData struct {
	Title         string
	Form          formValues
	Loyalties     []string
	BuyingModes   []string
	ShippingModes []string
	ShowAlert     bool
	Alert         string
	Message       string
	WillSell      bool
	Error         string
	Chart         *Chart
}

func (s *Server) newPage(form formValues) pageData {
	return pageData{
		Title:         "MeLI",
		Form:          form,
		Loyalties:     encodefeatures.SellerLoyaltyTiers,
		BuyingModes:   encodefeatures.BuyingModes,
		ShippingModes: encodefeatures.ShippingModes,
		Alert:         AlertInvalidValue,
		Chart:         s.chart,
	}
}

func defaultForm() formValues {
	return formValues{AdmitsPickup: true, FreeShipping: true, IsNew: true}
}

// index renders the empty form. The alert stays hidden until a submission.
func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, s.newPage(defaultForm()))
}

func (s *Server) predictForm(c *gin.Context) {
	form := formValues{
		Price:           c.PostForm(encodefeatures.FieldPrice),
		InitialQuantity: c.PostForm(encodefeatures.FieldInitialQuantity),
		PictureCount:    c.PostForm(encodefeatures.FieldPictureCount),
		SellerLoyalty:   c.PostForm(encodefeatures.FieldSellerLoyalty),
		BuyingMode:      c.PostForm(encodefeatures.FieldBuyingMode),
		ShippingMode:    c.PostForm(encodefeatures.FieldShippingMode),
		AdmitsPickup:    checked(c.PostForm(encodefeatures.FieldAdmitsPickup)),
		FreeShipping:    checked(c.PostForm(encodefeatures.FieldFreeShipping)),
		IsNew:           checked(c.PostForm(encodefeatures.FieldIsNew)),
	}
	page := s.newPage(form)

	out, err := s.predictor.Execute(c.Request.Context(), &predictsale.Input{
		Channel: predictsale.ChannelForm,
		Listing: encodefeatures.Input{
			Price:           parseNumber(form.Price),
			InitialQuantity: parseNumber(form.InitialQuantity),
			PictureCount:    parseNumber(form.PictureCount),
			SellerLoyalty:   form.SellerLoyalty,
			BuyingMode:      form.BuyingMode,
			ShippingMode:    form.ShippingMode,
			AdmitsPickup:    form.AdmitsPickup,
			FreeShipping:    form.FreeShipping,
			IsNew:           form.IsNew,
		},
	})
	if err != nil {
		stdErr := s.errors.Normalize(err)
		if apperrors.GetErrorCategory(stdErr.Code) == "VALIDATION" {
			page.ShowAlert = true
			s.render(c, http.StatusOK, page)
			return
		}
		s.logger.Error("form prediction failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		page.Error = errorUnavailable
		s.render(c, apperrors.HTTPStatus(stdErr.Code), page)
		return
	}

	page.Message = out.Message
	page.WillSell = out.WillSell
	s.render(c, http.StatusOK, page)
}

// parseNumber treats empty, unparsable and non-finite input as missing.
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "", "off", "false", "0":
		return false
	}
	return true
}

func (s *Server) render(c *gin.Context, status int, page pageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(c.Writer, "index.html", page); err != nil {
		s.logger.Error("failed to render page", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
