package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used on the wire and in storage.
const DateFormat = "2006-01-02"

// Day truncates t to its calendar date in the local zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// StockPrice is one persisted daily close. (StockCode, TradeDate) is unique.
type StockPrice struct {
	ID         int64
	StockCode  string
	StockName  string
	Market     string // KOSPI, KOSDAQ
	TradeDate  time.Time
	ClosePrice decimal.Decimal // fixed 2dp
	CreatedAt  time.Time
}

// PricePoint is one (date, close) pair as returned by an external quote API,
// before it is keyed to a stock and persisted.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// Stock identifies one listing for bulk ingestion.
type Stock struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Market string `json:"market"`
}
