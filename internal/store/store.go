package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/inveskit/journal/internal/model"
)

// Sentinel errors shared by all store implementations.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate price row")
)

// TradeStore persists trade records.
type TradeStore interface {
	// Create validates and persists a trade, assigning its ID and CreatedAt.
	Create(t model.Trade) (model.Trade, error)
	// List returns all trades ordered by trade date descending.
	List() ([]model.Trade, error)
	// Get returns one trade or ErrNotFound.
	Get(id int64) (model.Trade, error)
	// ListByStock returns trades whose stock name matches exactly.
	ListByStock(name string) ([]model.Trade, error)
	// Delete removes one trade or returns ErrNotFound.
	Delete(id int64) error
	// Count returns the total number of trades.
	Count() (int64, error)
}

// PriceStore persists daily closes with a (stock code, trade date)
// uniqueness invariant. Save does not dedup on its own; callers pre-check
// with Exists.
type PriceStore interface {
	// QueryRange returns prices for the stock name within [start, end]
	// inclusive, ascending by date. Empty result is valid.
	QueryRange(stockName string, start, end time.Time) ([]model.StockPrice, error)
	// Exists reports whether a row for (code, date) is already stored.
	Exists(code string, date time.Time) (bool, error)
	// Save persists one row; violating the uniqueness invariant is an error.
	Save(p model.StockPrice) (model.StockPrice, error)
	// DistinctNames returns every stock name present in storage.
	DistinctNames() ([]string, error)
	// PriceCount returns the total number of price rows.
	PriceCount() (int64, error)
}

func validateTrade(t model.Trade) error {
	if t.StockName == "" {
		return fmt.Errorf("%w: stock name is required", ErrValidation)
	}
	if t.Side != model.SideBuy && t.Side != model.SideSell {
		return fmt.Errorf("%w: side must be BUY or SELL", ErrValidation)
	}
	if t.TradeDate.IsZero() {
		return fmt.Errorf("%w: trade date is required", ErrValidation)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if t.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	return nil
}
