package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/inveskit/journal/internal/model"
)

type dailyPrice struct {
	Date       string  `json:"date"`
	ClosePrice float64 `json:"closePrice"`
}

type stockPriceResponse struct {
	StockName string       `json:"stockName"`
	StockCode string       `json:"stockCode"`
	Prices    []dailyPrice `json:"prices"`
}

// handleStockPrices serves the trailing 60-day close window.
// GET /api/stocks/prices?stockName=삼성전자&endDate=2025-12-04
func (s *Server) handleStockPrices(w http.ResponseWriter, r *http.Request) {
	stockName := r.URL.Query().Get("stockName")
	if stockName == "" {
		writeError(w, http.StatusBadRequest, "stockName is required")
		return
	}

	endDate := time.Now()
	if v := r.URL.Query().Get("endDate"); v != "" {
		parsed, err := time.ParseInLocation(model.DateFormat, v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid endDate %q, want YYYY-MM-DD", v))
			return
		}
		endDate = parsed
	}

	window, err := s.prices.Window(stockName, endDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := stockPriceResponse{
		StockName: stockName,
		StockCode: window[0].StockCode,
		Prices:    make([]dailyPrice, len(window)),
	}
	for i, p := range window {
		resp.Prices[i] = dailyPrice{
			Date:       p.TradeDate.Format(model.DateFormat),
			ClosePrice: p.ClosePrice.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleInitialize ingests one stock's historical closes.
// POST /api/stocks/initialize?stockName=삼성전자&stockCode=005930&market=KOSPI
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	stockName := r.URL.Query().Get("stockName")
	stockCode := r.URL.Query().Get("stockCode")
	market := r.URL.Query().Get("market")
	if market == "" {
		market = "KOSPI"
	}
	if stockName == "" || stockCode == "" {
		writeError(w, http.StatusBadRequest, "stockName and stockCode are required")
		return
	}

	log.Printf("[INFO] initializing data for %s (%s)", stockName, stockCode)
	saved, err := s.prices.Initialize(stockName, stockCode, market)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stockName": stockName,
		"saved":     saved,
	})
}

// handleInitializeAll ingests the configured universe, continue-on-error.
// POST /api/stocks/initialize-all
func (s *Server) handleInitializeAll(w http.ResponseWriter, _ *http.Request) {
	results := s.prices.InitializeAll(s.universe)

	succeeded, failed := 0, 0
	for _, res := range results {
		if res.Err == "" {
			succeeded++
		} else {
			failed++
		}
	}
	log.Printf("[INFO] bulk initialization completed: %d succeeded, %d failed", succeeded, failed)

	writeJSON(w, http.StatusOK, map[string]any{
		"succeeded": succeeded,
		"failed":    failed,
		"results":   results,
	})
}

func (s *Server) handlePriceCount(w http.ResponseWriter, _ *http.Request) {
	count, err := s.prices.Count()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// handleSearchStocks filters stored stock names by keyword.
// GET /api/stocks/search?keyword=전자
func (s *Server) handleSearchStocks(w http.ResponseWriter, r *http.Request) {
	names, err := s.prices.SearchNames(r.URL.Query().Get("keyword"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}
