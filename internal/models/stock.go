package models

// StockDataPoint is one point of the combined historical + predicted series.
type StockDataPoint struct {
	Date         string  `json:"date"` // e.g. "Aug 31"
	Price        float64 `json:"price"`
	IsPrediction bool    `json:"isPrediction"`
}

// PredictionRequest is the body of POST /api/predict.
type PredictionRequest struct {
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
}
