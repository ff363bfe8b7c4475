// Package server exposes the journal over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/inveskit/journal/internal/analyzer"
	"github.com/inveskit/journal/internal/codes"
	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/prices"
	"github.com/inveskit/journal/internal/store"
)

// Server is the HTTP adapter over the journal services.
type Server struct {
	trades   store.TradeStore
	prices   *prices.Service
	orch     *analyzer.Orchestrator
	codes    codes.Table
	universe []model.Stock
	mux      *http.ServeMux
}

// NewServer wires the routes.
func NewServer(trades store.TradeStore, priceSvc *prices.Service, orch *analyzer.Orchestrator, table codes.Table, universe []model.Stock) *Server {
	s := &Server{
		trades:   trades,
		prices:   priceSvc,
		orch:     orch,
		codes:    table,
		universe: universe,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/trades", s.handleCreateTrade)
	s.mux.HandleFunc("GET /api/trades", s.handleListTrades)
	s.mux.HandleFunc("GET /api/trades/count", s.handleTradeCount)
	s.mux.HandleFunc("GET /api/trades/{id}", s.handleGetTrade)
	s.mux.HandleFunc("DELETE /api/trades/{id}", s.handleDeleteTrade)
	s.mux.HandleFunc("GET /api/trades/stock/{stockName}", s.handleTradesByStock)

	s.mux.HandleFunc("GET /api/stocks/prices", s.handleStockPrices)
	s.mux.HandleFunc("POST /api/stocks/initialize", s.handleInitialize)
	s.mux.HandleFunc("POST /api/stocks/initialize-all", s.handleInitializeAll)
	s.mux.HandleFunc("GET /api/stocks/count", s.handlePriceCount)
	s.mux.HandleFunc("GET /api/stocks/search", s.handleSearchStocks)

	s.mux.HandleFunc("POST /api/analysis", s.handleAnalysis)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps a service error onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, prices.ErrNoPriceData):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrValidation), errors.Is(err, analyzer.ErrNoTrades):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("[ERROR] internal: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
