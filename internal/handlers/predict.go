package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/metrics"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/predict"
)

// Predict handles POST /api/predict. It validates the request, fetches the
// forecast from the external service and returns the combined
// historical + predicted series. There is no partial result: either the
// full series comes back or an error envelope does.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Bad(w, "invalid JSON body")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" || req.Days <= 0 {
		h.Bad(w, "Invalid ticker or days parameter.")
		return
	}

	predicted, err := h.predictor.Predict(r.Context(), ticker, req.Days)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Str("ticker", ticker).Msg("prediction upstream failed")
		h.Bad(w, fmt.Sprintf("Failed to get prediction for %s. The ticker might be invalid.", ticker))
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	series := predict.BuildSeries(predicted, time.Now(), rng)

	metrics.PredictionsTotal.WithLabelValues("success").Inc()
	h.OK(w, series)
}
