package prices

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inveskit/journal/internal/codes"
	"github.com/inveskit/journal/internal/fetcher"
	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func points(days ...time.Time) []model.PricePoint {
	out := make([]model.PricePoint, len(days))
	for i, d := range days {
		out[i] = model.PricePoint{Date: d, Close: decimal.NewFromInt(70000 + int64(i))}
	}
	return out
}

func TestInitialize_SavesFetchedPoints(t *testing.T) {
	mem := store.NewMemoryStore()
	mock := &fetcher.MockFetcher{Points: points(date(2025, 3, 3), date(2025, 3, 4), date(2025, 3, 5))}
	svc := NewService(mem, mock)

	saved, err := svc.Initialize("삼성전자", "005930", "KOSPI")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if saved != 3 {
		t.Fatalf("expected 3 saved rows, got %d", saved)
	}
	if mock.LastSymbol != "005930.KS" {
		t.Fatalf("expected KOSPI suffix, got %s", mock.LastSymbol)
	}

	n, _ := mem.PriceCount()
	if n != 3 {
		t.Fatalf("expected 3 stored rows, got %d", n)
	}
}

func TestInitialize_SecondRunIsNoOp(t *testing.T) {
	mem := store.NewMemoryStore()
	mock := &fetcher.MockFetcher{Points: points(date(2025, 3, 3), date(2025, 3, 4))}
	svc := NewService(mem, mock)

	if _, err := svc.Initialize("삼성전자", "005930", "KOSPI"); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	saved, err := svc.Initialize("삼성전자", "005930", "KOSPI")
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if saved != 0 {
		t.Fatalf("second run must dedup, saved %d", saved)
	}
	n, _ := mem.PriceCount()
	if n != 2 {
		t.Fatalf("expected 2 rows after double ingest, got %d", n)
	}
}

func TestInitialize_EmptyFetchIsADegrade(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewService(mem, &fetcher.MockFetcher{})

	saved, err := svc.Initialize("삼성전자", "005930", "KOSPI")
	if err != nil {
		t.Fatalf("empty fetch must not error: %v", err)
	}
	if saved != 0 {
		t.Fatalf("expected 0 saved, got %d", saved)
	}
}

func TestInitialize_KosdaqSuffix(t *testing.T) {
	mock := &fetcher.MockFetcher{}
	svc := NewService(store.NewMemoryStore(), mock)

	if _, err := svc.Initialize("에코프로", "086520", "KOSDAQ"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if mock.LastSymbol != "086520.KQ" {
		t.Fatalf("expected KOSDAQ suffix, got %s", mock.LastSymbol)
	}
}

func TestInitialize_UnknownNameStoresUnderSentinel(t *testing.T) {
	// Names outside the lookup table resolve to "UNKNOWN"; ingestion under
	// that code still stores rows keyed by the sentinel.
	mem := store.NewMemoryStore()
	mock := &fetcher.MockFetcher{Points: points(date(2025, 3, 3))}
	svc := NewService(mem, mock)

	code := codes.Default().Lookup("정체불명종목")
	if code != codes.UnknownCode {
		t.Fatalf("expected sentinel code, got %s", code)
	}
	saved, err := svc.Initialize("정체불명종목", code, "KOSPI")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if saved != 1 {
		t.Fatalf("expected 1 saved row, got %d", saved)
	}
	exists, err := mem.Exists(codes.UnknownCode, date(2025, 3, 3))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected a row stored under the sentinel code")
	}
}

func TestWindow_TrailingSixtyDays(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewService(mem, &fetcher.MockFetcher{})

	end := date(2025, 3, 10)
	inWindow := []time.Time{end.AddDate(0, 0, -60), end.AddDate(0, 0, -30), end}
	outside := []time.Time{end.AddDate(0, 0, -61), end.AddDate(0, 0, 1)}
	for i, d := range append(inWindow, outside...) {
		_, err := mem.Save(model.StockPrice{
			StockCode: "005930", StockName: "삼성전자", Market: "KOSPI",
			TradeDate: d, ClosePrice: decimal.NewFromInt(70000 + int64(i)),
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	window, err := svc.Window("삼성전자", end)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != len(inWindow) {
		t.Fatalf("expected %d rows, got %d", len(inWindow), len(window))
	}
	for i := 1; i < len(window); i++ {
		if window[i-1].TradeDate.After(window[i].TradeDate) {
			t.Fatalf("window not ascending at %d", i)
		}
	}
}

func TestWindow_NoDataIsADomainError(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), &fetcher.MockFetcher{})
	_, err := svc.Window("삼성전자", date(2025, 3, 10))
	if !errors.Is(err, ErrNoPriceData) {
		t.Fatalf("expected ErrNoPriceData, got %v", err)
	}
}

// perStockFetcher fails for selected symbols, for continue-on-error tests.
type perStockFetcher struct {
	fail   map[string]bool
	points []model.PricePoint
}

func (f *perStockFetcher) Name() string { return "per-stock" }

func (f *perStockFetcher) FetchDailyCloses(symbol string, _, _ time.Time) ([]model.PricePoint, error) {
	if f.fail[symbol] {
		return nil, errors.New("boom")
	}
	return f.points, nil
}

func TestInitializeAll_ContinuesOnError(t *testing.T) {
	mem := store.NewMemoryStore()
	f := &perStockFetcher{
		fail:   map[string]bool{"000660.KS": true},
		points: points(date(2025, 3, 3)),
	}
	svc := NewService(mem, f)

	results := svc.InitializeAll([]model.Stock{
		{Name: "삼성전자", Code: "005930", Market: "KOSPI"},
		{Name: "SK하이닉스", Code: "000660", Market: "KOSPI"},
		{Name: "카카오", Code: "035720", Market: "KOSPI"},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != "" || results[2].Err != "" {
		t.Fatalf("unexpected failures: %+v", results)
	}
	if results[1].Err == "" {
		t.Fatal("expected failure for SK하이닉스")
	}
	// The failing stock did not abort the rest.
	if results[2].Saved != 1 {
		t.Fatalf("expected the third stock to save 1 row, got %d", results[2].Saved)
	}
}

func TestSearchNames(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewService(mem, &fetcher.MockFetcher{})
	for _, name := range []string{"삼성전자", "삼성바이오로직스", "카카오"} {
		_, err := mem.Save(model.StockPrice{
			StockCode: name, StockName: name, Market: "KOSPI",
			TradeDate: date(2025, 3, 3), ClosePrice: decimal.NewFromInt(1000),
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	names, err := svc.SearchNames("삼성")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 matches, got %v", names)
	}
}
