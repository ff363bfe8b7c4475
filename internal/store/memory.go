package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/inveskit/journal/internal/model"
)

// MemoryStore is an in-memory implementation of TradeStore and PriceStore,
// used in tests and when no database path is configured.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	trades []model.Trade
	prices []model.StockPrice
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Create(t model.Trade) (model.Trade, error) {
	if err := validateTrade(t); err != nil {
		return model.Trade{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now()
	m.trades = append(m.trades, t)
	return t, nil
}

func (m *MemoryStore) List() ([]model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Trade, len(m.trades))
	copy(out, m.trades)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.After(out[j].TradeDate) })
	return out, nil
}

func (m *MemoryStore) Get(id int64) (model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.trades {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Trade{}, fmt.Errorf("trade %d: %w", id, ErrNotFound)
}

func (m *MemoryStore) ListByStock(name string) ([]model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Trade
	for _, t := range m.trades {
		if t.StockName == name {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.After(out[j].TradeDate) })
	return out, nil
}

func (m *MemoryStore) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.trades {
		if t.ID == id {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trade %d: %w", id, ErrNotFound)
}

func (m *MemoryStore) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.trades)), nil
}

func (m *MemoryStore) QueryRange(stockName string, start, end time.Time) ([]model.StockPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.StockPrice
	for _, p := range m.prices {
		if p.StockName != stockName {
			continue
		}
		if p.TradeDate.Before(start) || p.TradeDate.After(end) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.Before(out[j].TradeDate) })
	return out, nil
}

func (m *MemoryStore) Exists(code string, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.prices {
		if p.StockCode == code && p.TradeDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Save(p model.StockPrice) (model.StockPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.prices {
		if existing.StockCode == p.StockCode && existing.TradeDate.Equal(p.TradeDate) {
			return model.StockPrice{}, fmt.Errorf("%w: %s on %s", ErrDuplicate, p.StockCode, p.TradeDate.Format(model.DateFormat))
		}
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	m.prices = append(m.prices, p)
	return p, nil
}

func (m *MemoryStore) DistinctNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var names []string
	for _, p := range m.prices {
		if !seen[p.StockName] {
			seen[p.StockName] = true
			names = append(names, p.StockName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) PriceCount() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.prices)), nil
}
