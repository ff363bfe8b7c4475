package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// ParseSide normalizes a user-supplied side token ("buy"/"sell", any case).
// Anything that is not recognizably a buy is treated as a sell, matching the
// permissive behavior of the inbound API.
func ParseSide(s string) TradeSide {
	if len(s) == 3 && (s[0] == 'b' || s[0] == 'B') {
		return SideBuy
	}
	return SideSell
}

// Token returns the lowercase wire form of the side.
func (s TradeSide) Token() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Trade is one recorded buy or sell. The stock code is resolved from the
// stock name exactly once, when the trade is created, and never re-derived
// from the stored name afterwards.
type Trade struct {
	ID        int64
	StockName string
	StockCode string
	Side      TradeSide
	TradeDate time.Time // calendar date, time-of-day ignored
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
}
