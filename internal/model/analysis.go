package model

import "encoding/json"

// TradeInfo is the flattened trade record sent to the analysis service.
type TradeInfo struct {
	StockName string  `json:"stockName"`
	StockCode string  `json:"stockCode"`
	TradeType string  `json:"tradeType"` // "buy" or "sell"
	Date      string  `json:"date"`      // ISO calendar date
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// StockPriceInfo is one flattened daily close sent to the analysis service.
type StockPriceInfo struct {
	Date       string  `json:"date"`
	ClosePrice float64 `json:"closePrice"`
}

// AnalysisRequest is the aggregate payload forwarded to the external
// analysis endpoint. Built per call, never persisted.
type AnalysisRequest struct {
	Trades      []TradeInfo      `json:"trades"`
	StockPrices []StockPriceInfo `json:"stockPrices"`
	Strategy    string           `json:"strategy"`
	ExternalURL string           `json:"externalUrl,omitempty"`
}

// AnalysisResult is the analysis service's response, passed through
// verbatim. The upstream shape is not contractually fixed, so it stays raw.
type AnalysisResult struct {
	Raw json.RawMessage
}
