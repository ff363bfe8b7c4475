package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inveskit/journal/internal/model"
)

type tradeCreateRequest struct {
	StockName string  `json:"stockName"`
	TradeType string  `json:"tradeType"` // "buy" or "sell"
	Date      string  `json:"date"`      // ISO calendar date
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type tradeResponse struct {
	ID        int64   `json:"id"`
	StockName string  `json:"stockName"`
	TradeType string  `json:"tradeType"`
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func toTradeResponse(t model.Trade) tradeResponse {
	return tradeResponse{
		ID:        t.ID,
		StockName: t.StockName,
		TradeType: t.Side.Token(),
		Date:      t.TradeDate.Format(model.DateFormat),
		Price:     t.Price.InexactFloat64(),
		Quantity:  t.Quantity,
	}
}

func toTradeResponses(trades []model.Trade) []tradeResponse {
	out := make([]tradeResponse, len(trades))
	for i, t := range trades {
		out[i] = toTradeResponse(t)
	}
	return out
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var tradeDate time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation(model.DateFormat, req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", req.Date))
			return
		}
		tradeDate = parsed
	}

	log.Printf("[INFO] creating trade: %s %s on %s", req.StockName, req.TradeType, req.Date)

	// The code is resolved from the name here, once, and stored with the
	// trade. It is never re-derived from the row afterwards.
	trade, err := s.trades.Create(model.Trade{
		StockName: req.StockName,
		StockCode: s.codes.Lookup(req.StockName),
		Side:      model.ParseSide(req.TradeType),
		TradeDate: tradeDate,
		Price:     decimal.NewFromFloat(req.Price),
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResponse(trade))
}

func (s *Server) handleListTrades(w http.ResponseWriter, _ *http.Request) {
	trades, err := s.trades.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResponses(trades))
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}
	trade, err := s.trades.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResponse(trade))
}

func (s *Server) handleTradesByStock(w http.ResponseWriter, r *http.Request) {
	trades, err := s.trades.ListByStock(r.PathValue("stockName"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResponses(trades))
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}
	log.Printf("[INFO] deleting trade: %d", id)
	if err := s.trades.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "trade deleted"})
}

func (s *Server) handleTradeCount(w http.ResponseWriter, _ *http.Request) {
	count, err := s.trades.Count()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
