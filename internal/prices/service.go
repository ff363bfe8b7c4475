// Package prices ingests historical daily closes and serves windowed queries
// over them.
package prices

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/inveskit/journal/internal/fetcher"
	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/store"
)

// ErrNoPriceData means no rows are stored for the requested stock name.
var ErrNoPriceData = errors.New("no price data for stock")

// lookbackDays is the fixed trailing window applied to every price query.
const lookbackDays = 60

// maxSearchResults caps name search output.
const maxSearchResults = 10

// Service coordinates the external fetcher and the price store.
type Service struct {
	Store   store.PriceStore
	Fetcher fetcher.Fetcher

	// IngestFrom is the start of the historical range loaded by Initialize.
	IngestFrom time.Time
	// Suffixes maps a market tag to its Yahoo ticker suffix.
	Suffixes map[string]string
}

// NewService creates a Service with the default ingestion range and the
// KOSPI/KOSDAQ ticker suffixes.
func NewService(st store.PriceStore, f fetcher.Fetcher) *Service {
	return &Service{
		Store:      st,
		Fetcher:    f,
		IngestFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
		Suffixes: map[string]string{
			"KOSPI":  ".KS",
			"KOSDAQ": ".KQ",
		},
	}
}

// Symbol builds the exchange-qualified ticker for a code and market tag.
// Unknown markets fall back to the KOSPI suffix.
func (s *Service) Symbol(code, market string) string {
	suffix, ok := s.Suffixes[market]
	if !ok {
		suffix = ".KS"
	}
	return code + suffix
}

// Window returns the trailing 60 days of closes for a stock name, ending at
// endDate inclusive and ascending by date. Returns ErrNoPriceData when
// nothing is stored for that name in the window.
func (s *Service) Window(stockName string, endDate time.Time) ([]model.StockPrice, error) {
	end := model.Day(endDate)
	start := end.AddDate(0, 0, -lookbackDays)

	log.Printf("[INFO] fetching stored prices for %s from %s to %s",
		stockName, start.Format(model.DateFormat), end.Format(model.DateFormat))

	rows, err := s.Store.QueryRange(stockName, start, end)
	if err != nil {
		return nil, fmt.Errorf("query price window: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPriceData, stockName)
	}
	return rows, nil
}

// Initialize fetches the historical closes for one stock and stores every
// point that is not already present. An empty fetch is a degrade, not an
// error: it logs a warning and reports zero saved rows.
func (s *Service) Initialize(stockName, stockCode, market string) (int, error) {
	start := s.IngestFrom
	end := time.Now()

	symbol := s.Symbol(stockCode, market)
	log.Printf("[INFO] initializing price data for %s (%s) from %s to %s",
		stockName, symbol, start.Format(model.DateFormat), end.Format(model.DateFormat))

	points, err := s.Fetcher.FetchDailyCloses(symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(points) == 0 {
		log.Printf("[WARN] no price data fetched for %s", stockName)
		return 0, nil
	}

	saved := 0
	for _, point := range points {
		exists, err := s.Store.Exists(stockCode, point.Date)
		if err != nil {
			return saved, fmt.Errorf("dedup check %s: %w", stockCode, err)
		}
		if exists {
			continue
		}
		if _, err := s.Store.Save(model.StockPrice{
			StockCode:  stockCode,
			StockName:  stockName,
			Market:     market,
			TradeDate:  point.Date,
			ClosePrice: point.Close,
		}); err != nil {
			return saved, fmt.Errorf("save %s %s: %w", stockCode, point.Date.Format(model.DateFormat), err)
		}
		saved++
	}

	log.Printf("[INFO] saved %d price rows for %s", saved, stockName)
	return saved, nil
}

// InitResult reports one stock's outcome from InitializeAll.
type InitResult struct {
	Stock model.Stock `json:"stock"`
	Saved int         `json:"saved"`
	Err   string      `json:"error,omitempty"`
}

// InitializeAll ingests every listed stock sequentially. One stock's failure
// is recorded in its result and does not abort the remaining stocks.
func (s *Service) InitializeAll(stocks []model.Stock) []InitResult {
	log.Printf("[INFO] starting bulk initialization of %d stocks", len(stocks))

	results := make([]InitResult, 0, len(stocks))
	for _, stock := range stocks {
		saved, err := s.Initialize(stock.Name, stock.Code, stock.Market)
		res := InitResult{Stock: stock, Saved: saved}
		if err != nil {
			res.Err = err.Error()
			log.Printf("[ERROR] initialize %s: %v", stock.Name, err)
		}
		results = append(results, res)
	}
	return results
}

// SearchNames returns stored stock names containing the keyword, capped at
// ten results.
func (s *Service) SearchNames(keyword string) ([]string, error) {
	names, err := s.Store.DistinctNames()
	if err != nil {
		return nil, fmt.Errorf("list stock names: %w", err)
	}
	var matched []string
	for _, name := range names {
		if strings.Contains(name, keyword) {
			matched = append(matched, name)
			if len(matched) == maxSearchResults {
				break
			}
		}
	}
	return matched, nil
}

// Count returns the number of stored price rows.
func (s *Service) Count() (int64, error) {
	return s.Store.PriceCount()
}
