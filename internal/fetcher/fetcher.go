package fetcher

import (
	"time"

	"github.com/inveskit/journal/internal/model"
)

// Fetcher defines the interface for fetching historical daily closes.
type Fetcher interface {
	// FetchDailyCloses returns (date, close) points for the symbol within
	// [start, end]. Implementations backed by best-effort upstreams may
	// return an empty slice instead of an error.
	FetchDailyCloses(symbol string, start, end time.Time) ([]model.PricePoint, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Points []model.PricePoint
	Err    error
	// LastSymbol records the most recent symbol requested.
	LastSymbol string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(symbol string, _, _ time.Time) ([]model.PricePoint, error) {
	m.LastSymbol = symbol
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Points, nil
}
