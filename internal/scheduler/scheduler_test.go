package scheduler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inveskit/journal/internal/fetcher"
	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/prices"
	"github.com/inveskit/journal/internal/store"
)

func TestRegister_RejectsBadSpec(t *testing.T) {
	svc := prices.NewService(store.NewMemoryStore(), &fetcher.MockFetcher{})
	s := NewScheduler(svc, nil)
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if err := s.Register("0 30 18 * * 1-5"); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}

func TestRunRefreshNow_IngestsUniverse(t *testing.T) {
	mem := store.NewMemoryStore()
	mock := &fetcher.MockFetcher{Points: []model.PricePoint{{
		Date:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local),
		Close: decimal.NewFromInt(71000),
	}}}
	svc := prices.NewService(mem, mock)

	s := NewScheduler(svc, []model.Stock{
		{Name: "삼성전자", Code: "005930", Market: "KOSPI"},
		{Name: "카카오", Code: "035720", Market: "KOSPI"},
	})
	s.RunRefreshNow()

	n, err := mem.PriceCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows after refresh, got %d", n)
	}

	// A second refresh finds everything already stored.
	s.RunRefreshNow()
	n, _ = mem.PriceCount()
	if n != 2 {
		t.Fatalf("refresh must dedup, got %d rows", n)
	}
}
