package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inveskit/journal/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists trades and daily closes in a SQLite database.
// It implements both TradeStore and PriceStore.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads do not block ingestion writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			stock_name TEXT NOT NULL,
			stock_code TEXT NOT NULL,
			side       TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			price      TEXT NOT NULL,
			quantity   INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_name ON trades(stock_name)`,

		`CREATE TABLE IF NOT EXISTS stock_prices (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			stock_code  TEXT NOT NULL,
			stock_name  TEXT NOT NULL,
			market      TEXT NOT NULL,
			trade_date  TEXT NOT NULL,
			close_price TEXT NOT NULL,
			created_at  INTEGER NOT NULL,
			UNIQUE(stock_code, trade_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_name ON stock_prices(stock_name)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_date ON stock_prices(trade_date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Create(t model.Trade) (model.Trade, error) {
	if err := validateTrade(t); err != nil {
		return model.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.CreatedAt = time.Now()
	res, err := s.db.Exec(`INSERT INTO trades
		(stock_name, stock_code, side, trade_date, price, quantity, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		t.StockName, t.StockCode, string(t.Side),
		t.TradeDate.Format(model.DateFormat), t.Price.String(), t.Quantity,
		t.CreatedAt.Unix(),
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("insert trade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Trade{}, fmt.Errorf("trade id: %w", err)
	}
	t.ID = id
	return t, nil
}

const tradeColumns = `id, stock_name, stock_code, side, trade_date, price, quantity, created_at`

func scanTrade(row interface{ Scan(...any) error }) (model.Trade, error) {
	var (
		t         model.Trade
		side      string
		date      string
		price     string
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.StockName, &t.StockCode, &side, &date, &price, &t.Quantity, &createdAt); err != nil {
		return model.Trade{}, err
	}
	t.Side = model.TradeSide(side)
	parsed, err := time.ParseInLocation(model.DateFormat, date, time.Local)
	if err != nil {
		return model.Trade{}, fmt.Errorf("parse trade date %q: %w", date, err)
	}
	t.TradeDate = parsed
	t.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Trade{}, fmt.Errorf("parse trade price %q: %w", price, err)
	}
	t.CreatedAt = time.Unix(createdAt, 0)
	return t, nil
}

func (s *SQLiteStore) queryTrades(query string, args ...any) ([]model.Trade, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) List() ([]model.Trade, error) {
	return s.queryTrades(`SELECT ` + tradeColumns + ` FROM trades ORDER BY trade_date DESC, id DESC`)
}

func (s *SQLiteStore) Get(id int64) (model.Trade, error) {
	row := s.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, fmt.Errorf("trade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Trade{}, err
	}
	return t, nil
}

func (s *SQLiteStore) ListByStock(name string) ([]model.Trade, error) {
	return s.queryTrades(`SELECT `+tradeColumns+` FROM trades WHERE stock_name = ? ORDER BY trade_date DESC, id DESC`, name)
}

func (s *SQLiteStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trade %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) QueryRange(stockName string, start, end time.Time) ([]model.StockPrice, error) {
	rows, err := s.db.Query(`SELECT id, stock_code, stock_name, market, trade_date, close_price, created_at
		FROM stock_prices
		WHERE stock_name = ? AND trade_date >= ? AND trade_date <= ?
		ORDER BY trade_date ASC`,
		stockName, start.Format(model.DateFormat), end.Format(model.DateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []model.StockPrice
	for rows.Next() {
		var (
			p         model.StockPrice
			date      string
			closeStr  string
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.StockCode, &p.StockName, &p.Market, &date, &closeStr, &createdAt); err != nil {
			return nil, err
		}
		p.TradeDate, err = time.ParseInLocation(model.DateFormat, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse price date %q: %w", date, err)
		}
		p.ClosePrice, err = decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("parse close price %q: %w", closeStr, err)
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (s *SQLiteStore) Exists(code string, date time.Time) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_prices WHERE stock_code = ? AND trade_date = ?`,
		code, date.Format(model.DateFormat)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check price exists: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Save(p model.StockPrice) (model.StockPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.CreatedAt = time.Now()
	res, err := s.db.Exec(`INSERT INTO stock_prices
		(stock_code, stock_name, market, trade_date, close_price, created_at)
		VALUES (?,?,?,?,?,?)`,
		p.StockCode, p.StockName, p.Market,
		p.TradeDate.Format(model.DateFormat), p.ClosePrice.StringFixed(2),
		p.CreatedAt.Unix(),
	)
	if err != nil {
		// UNIQUE(stock_code, trade_date) violations surface here.
		return model.StockPrice{}, fmt.Errorf("%w: %s on %s: %v", ErrDuplicate, p.StockCode, p.TradeDate.Format(model.DateFormat), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.StockPrice{}, fmt.Errorf("price id: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *SQLiteStore) DistinctNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT stock_name FROM stock_prices ORDER BY stock_name`)
	if err != nil {
		return nil, fmt.Errorf("distinct names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// PriceCount returns the number of stored price rows. Named separately from
// Count because SQLiteStore also serves as the trade store.
func (s *SQLiteStore) PriceCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_prices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count prices: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
