package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/inveskit/journal/internal/codes"
	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/store"
)

// ErrNoTrades means an analysis was requested with an empty trade journal.
var ErrNoTrades = errors.New("no trade history")

// PriceWindow supplies the trailing price window for a stock name.
type PriceWindow interface {
	Window(stockName string, endDate time.Time) ([]model.StockPrice, error)
}

// Caller forwards an aggregate payload to an analysis endpoint.
type Caller interface {
	Analyze(ctx context.Context, target string, req *model.AnalysisRequest) (*model.AnalysisResult, error)
}

// Orchestrator builds one aggregate request from current journal state and
// forwards it to the analysis service.
type Orchestrator struct {
	Trades     store.TradeStore
	Prices     PriceWindow
	Caller     Caller
	Codes      codes.Table
	DefaultURL string
}

// NewOrchestrator wires the analysis pipeline.
func NewOrchestrator(trades store.TradeStore, prices PriceWindow, caller Caller, table codes.Table, defaultURL string) *Orchestrator {
	return &Orchestrator{
		Trades:     trades,
		Prices:     prices,
		Caller:     caller,
		Codes:      table,
		DefaultURL: defaultURL,
	}
}

// AnalyzeTrading runs the single linear pipeline: load all trades, load the
// trailing price window for the first trade's stock ending at the latest
// trade date, flatten both into the wire payload and forward it.
//
// Hard-fail points: an empty journal (ErrNoTrades, checked before any
// external call) and an empty price window for the subject stock
// (prices.ErrNoPriceData). When overrideURL is non-empty it takes precedence
// over the configured default target.
func (o *Orchestrator) AnalyzeTrading(ctx context.Context, strategy, overrideURL string) (*model.AnalysisResult, error) {
	reqID := uuid.NewString()
	log.Printf("[INFO] analysis %s: strategy=%s overrideURL=%q", reqID, strategy, overrideURL)

	trades, err := o.Trades.List()
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	// The first trade's stock is the analysis subject; the window ends at
	// the latest trade date regardless of journal order.
	subject := trades[0].StockName
	endDate := trades[0].TradeDate
	for _, t := range trades[1:] {
		if t.TradeDate.After(endDate) {
			endDate = t.TradeDate
		}
	}

	window, err := o.Prices.Window(subject, endDate)
	if err != nil {
		return nil, err
	}

	tradeInfos := make([]model.TradeInfo, len(trades))
	for i, t := range trades {
		// Code is re-resolved from the table by name, not read from the
		// stored row: the mapping is name-driven and idempotent.
		tradeInfos[i] = model.TradeInfo{
			StockName: t.StockName,
			StockCode: o.Codes.Lookup(t.StockName),
			TradeType: t.Side.Token(),
			Date:      t.TradeDate.Format(model.DateFormat),
			Price:     t.Price.InexactFloat64(),
			Quantity:  t.Quantity,
		}
	}

	priceInfos := make([]model.StockPriceInfo, len(window))
	for i, p := range window {
		priceInfos[i] = model.StockPriceInfo{
			Date:       p.TradeDate.Format(model.DateFormat),
			ClosePrice: p.ClosePrice.InexactFloat64(),
		}
	}

	target := o.DefaultURL
	if overrideURL != "" {
		target = overrideURL
	}

	log.Printf("[INFO] analysis %s: forwarding %d trades, %d prices to %s",
		reqID, len(tradeInfos), len(priceInfos), target)

	result, err := o.Caller.Analyze(ctx, target, &model.AnalysisRequest{
		Trades:      tradeInfos,
		StockPrices: priceInfos,
		Strategy:    strategy,
		ExternalURL: overrideURL,
	})
	if err != nil {
		log.Printf("[ERROR] analysis %s: %v", reqID, err)
		return nil, err
	}

	log.Printf("[INFO] analysis %s: completed", reqID)
	return result, nil
}
