// internal/web/server_test.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	apperrors "listing-predictor/internal/common/errors"
	"listing-predictor/internal/common/logger"
	encodefeatures "listing-predictor/internal/listing/encode-features"
	predictsale "listing-predictor/internal/listing/predict-sale"
	"listing-predictor/pkg/artifact"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test Helper Functions
// ==========================

type recordingPredictor struct {
	inner Predictor
	err   error
	calls int
	last  *predictsale.Input
}

func (p *recordingPredictor) Execute(ctx context.Context, input *predictsale.Input) (*predictsale.Output, error) {
	p.calls++
	p.last = input
	if p.err != nil {
		return nil, p.err
	}
	return p.inner.Execute(ctx, input)
}

func createTestTable() *artifact.CoefficientTable {
	return &artifact.CoefficientTable{
		Weights: []artifact.AttributeWeight{
			{Attribute: "free_shipping_true", Weight: 0.12},
			{Attribute: "price", Weight: -0.0001},
			{Attribute: "is_new_true", Weight: 0.05},
		},
	}
}

func createTestPredictor(t *testing.T, intercept float64) *recordingPredictor {
	model := &artifact.LinearModel{
		Name:         "bayesian_ridge",
		Intercept:    intercept,
		Coefficients: make([]float64, encodefeatures.Dimension),
	}
	h, err := predictsale.NewHandler(predictsale.LoadConfig(), model, nil, nil, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	return &recordingPredictor{inner: h}
}

func createTestServer(t *testing.T, predictor Predictor, ready func() bool) *gin.Engine {
	srv, err := NewServer(Options{
		Predictor:   predictor,
		Table:       createTestTable(),
		CORSOrigins: []string{"http://localhost:3000"},
		Ready:       ready,
		Logger:      logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return srv.Router()
}

func validForm() url.Values {
	return url.Values{
		"price":            {"120"},
		"initial_quantity": {"10"},
		"picture_count":    {"3"},
		"seller_loyalty":   {"gold_pro"},
		"buying_mode":      {"buy_it_now"},
		"shipping_mode":    {"me2"},
		"admits_pickup":    {"on"},
		"free_shipping":    {"on"},
	}
}

func postForm(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.StandardError {
	t.Helper()
	var body struct {
		Error apperrors.StandardError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

// ==========================
// Page Tests
// ==========================

func TestIndex_RendersForm(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), nil)

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()

	assert.Contains(t, page, "<h1>MeLI</h1>")
	for _, label := range []string{
		"Choose a Price between 0-267201",
		"Seller Loyalty",
		"Buying Mode",
		"Shipping Mode",
		"Admits Pickup?",
		"Free Shipping?",
		"Is New?",
		"Choose a Initial quantity between 0-1000",
		"Choose a number of pictures in publication between 0-36",
	} {
		assert.Contains(t, page, label)
	}
	assert.Contains(t, page, `max="267201"`)
	assert.Contains(t, page, `max="36"`)
	assert.Equal(t, 3, strings.Count(page, " checked"))
	assert.Contains(t, page, ChartTitle)
	assert.Equal(t, 3, strings.Count(page, `class="bar"`))
	assert.NotContains(t, page, AlertInvalidValue)
}

func TestPredictForm_WillSell(t *testing.T) {
	predictor := createTestPredictor(t, 0.9)
	router := createTestServer(t, predictor, nil)

	w := postForm(router, validForm())
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()

	assert.Contains(t, page, predictsale.MessageWillSell)
	assert.NotContains(t, page, AlertInvalidValue)
	assert.Contains(t, page, `value="120"`)
	assert.Contains(t, page, `value="gold_pro" selected`)

	require.NotNil(t, predictor.last)
	assert.Equal(t, predictsale.ChannelForm, predictor.last.Channel)
	assert.True(t, predictor.last.Listing.AdmitsPickup)
	assert.True(t, predictor.last.Listing.FreeShipping)
	assert.False(t, predictor.last.Listing.IsNew)
	assert.Equal(t, 2, strings.Count(page, " checked"))
}

func TestPredictForm_WillNotSell(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0.2), nil)

	w := postForm(router, validForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), predictsale.MessageWillNotSell)
}

func TestPredictForm_ShowsAlert(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing price", "price", ""},
		{"unparsable quantity", "initial_quantity", "ten"},
		{"missing pictures", "picture_count", " "},
		{"unknown loyalty", "seller_loyalty", "platinum"},
		{"empty shipping mode", "shipping_mode", ""},
		{"non-finite price", "price", "NaN"},
		{"infinite quantity", "initial_quantity", "Inf"},
		{"negative infinite pictures", "picture_count", "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := createTestServer(t, createTestPredictor(t, 0.9), nil)
			form := validForm()
			form.Set(tt.field, tt.value)

			w := postForm(router, form)
			require.Equal(t, http.StatusOK, w.Code)
			page := w.Body.String()

			assert.Contains(t, page, AlertInvalidValue)
			assert.NotContains(t, page, predictsale.MessageWillSell)
			assert.NotContains(t, page, predictsale.MessageWillNotSell)
		})
	}
}

func TestPredictForm_NonFiniteNumbersAreMissing(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			predictor := createTestPredictor(t, 0.9)
			router := createTestServer(t, predictor, nil)
			form := validForm()
			form.Set("price", raw)

			w := postForm(router, form)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), AlertInvalidValue)
			require.NotNil(t, predictor.last)
			assert.Nil(t, predictor.last.Listing.Price)
		})
	}
}

func TestPredictForm_PredictionFailure(t *testing.T) {
	predictor := &recordingPredictor{err: apperrors.NewPredictionFailedError(assert.AnError)}
	router := createTestServer(t, predictor, nil)

	w := postForm(router, validForm())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), errorUnavailable)
	assert.NotContains(t, w.Body.String(), AlertInvalidValue)
}

// ==========================
// API Tests
// ==========================

func TestPredictAPI_Success(t *testing.T) {
	predictor := createTestPredictor(t, 0.9)
	router := createTestServer(t, predictor, nil)

	w := postJSON(router, `{
		"price": 120,
		"initial_quantity": 10,
		"picture_count": 3,
		"seller_loyalty": "silver",
		"buying_mode": "auction",
		"shipping_mode": "custom",
		"is_new": false
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out predictsale.Output
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.WillSell)
	assert.Equal(t, predictsale.MessageWillSell, out.Message)
	assert.NotEmpty(t, out.PredictionID)

	require.NotNil(t, predictor.last)
	assert.Equal(t, predictsale.ChannelAPI, predictor.last.Channel)
	assert.True(t, predictor.last.Listing.AdmitsPickup)
	assert.True(t, predictor.last.Listing.FreeShipping)
	assert.False(t, predictor.last.Listing.IsNew)
}

func TestPredictAPI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   apperrors.ErrorCode
	}{
		{"not json", `price=1`, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest},
		{"empty body", ``, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest},
		{"wrong type", `{"price": "cheap"}`, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest},
		{"unknown field", `{"colour": "red"}`, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest},
		{
			"missing numeric",
			`{"price": 1, "initial_quantity": null, "picture_count": 2, "seller_loyalty": "gold", "buying_mode": "auction", "shipping_mode": "me1"}`,
			http.StatusBadRequest, apperrors.ErrCodeInvalidFormValue,
		},
		{
			"unknown category",
			`{"price": 1, "initial_quantity": 1, "picture_count": 2, "seller_loyalty": "gold", "buying_mode": "barter", "shipping_mode": "me1"}`,
			http.StatusBadRequest, apperrors.ErrCodeUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := createTestServer(t, createTestPredictor(t, 0.9), nil)

			w := postJSON(router, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestPredictAPI_MissingNumericCarriesAlertText(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0.9), nil)

	w := postJSON(router, `{"seller_loyalty": "gold", "buying_mode": "auction", "shipping_mode": "me1"}`)
	stdErr := decodeError(t, w)
	assert.Equal(t, AlertInvalidValue, stdErr.Message)
}

func TestCoefficients(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), nil)

	w := get(router, "/api/v1/coefficients")
	require.Equal(t, http.StatusOK, w.Code)

	var table artifact.CoefficientTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, createTestTable().Weights, table.Weights)
}

func TestFeatures(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), nil)

	w := get(router, "/api/v1/features")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Features  []string `json:"features"`
		Dimension int      `json:"dimension"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 26, body.Dimension)
	assert.Equal(t, encodefeatures.FeatureNames(), body.Features)
}

// ==========================
// Operational Endpoint Tests
// ==========================

func TestHealthAndMetrics(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), nil)

	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
	assert.Equal(t, http.StatusOK, get(router, "/ready").Code)

	w := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestReady_NotReady(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), func() bool { return false })

	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/ready").Code)
}

func TestCORS_Preflight(t *testing.T) {
	router := createTestServer(t, createTestPredictor(t, 0), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/predict", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
