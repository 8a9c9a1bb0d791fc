package predict

import (
	"math/rand"
	"time"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
)

// HistoryDays is how many trailing days of mock history precede the forecast.
const HistoryDays = 90

const dateFormat = "Jan 02"

// BuildSeries synthesizes HistoryDays of random-walk history ending at now,
// then appends one point per predicted price on the following days. The
// predicted values are absolute prices and are used as-is.
func BuildSeries(predicted []float64, now time.Time, rng *rand.Rand) []models.StockDataPoint {
	points := make([]models.StockDataPoint, 0, HistoryDays+len(predicted))

	last := rng.Float64()*500 + 100
	for i := HistoryDays; i > 0; i-- {
		last += (rng.Float64() - 0.5) * 10
		if last < 10 {
			last = 10
		}
		points = append(points, models.StockDataPoint{
			Date:  now.AddDate(0, 0, -i).Format(dateFormat),
			Price: last,
		})
	}

	for i, price := range predicted {
		points = append(points, models.StockDataPoint{
			Date:         now.AddDate(0, 0, i+1).Format(dateFormat),
			Price:        price,
			IsPrediction: true,
		})
	}

	return points
}
