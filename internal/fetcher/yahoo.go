package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inveskit/journal/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
//
// The fetch is best-effort: historical price gaps are expected and tolerable,
// so transport and parse failures degrade to an empty result with a log line
// instead of propagating to the caller.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a fetcher with optional proxy support. An empty
// baseURL selects the public Yahoo endpoint.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
// Timestamps and closes are pointer slices because individual entries can be
// null for holidays and halted sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []*int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses issues one GET for daily bars between start and end and
// returns the (date, close) points in the order the API supplied them.
func (f *YahooFetcher) FetchDailyCloses(symbol string, start, end time.Time) ([]model.PricePoint, error) {
	period1 := model.Day(start).Unix()
	period2 := model.Day(end).Add(24*time.Hour - time.Second).Unix()

	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		f.BaseURL, url.PathEscape(symbol), period1, period2)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Printf("[WARN] yahoo fetch %s: %v", symbol, err)
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[WARN] yahoo read body for %s: %v", symbol, err)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] yahoo %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
		return nil, nil
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		log.Printf("[WARN] yahoo decode for %s: %v", symbol, err)
		return nil, nil
	}
	return parseChart(symbol, &chart), nil
}

// parseChart validates the nested chart shape and converts it to price
// points. Any structural problem (missing result, absent or mismatched
// timestamp/close lists) yields an empty result.
func parseChart(symbol string, chart *yahooChart) []model.PricePoint {
	if chart.Chart.Error != nil {
		log.Printf("[WARN] yahoo api error for %s: %s", symbol, chart.Chart.Error.Description)
		return nil
	}
	if len(chart.Chart.Result) == 0 {
		log.Printf("[WARN] yahoo: no result for %s", symbol)
		return nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		log.Printf("[WARN] yahoo: no quote data for %s", symbol)
		return nil
	}
	timestamps := result.Timestamp
	closes := result.Indicators.Quote[0].Close
	if timestamps == nil || len(timestamps) != len(closes) {
		log.Printf("[WARN] yahoo: timestamp/close mismatch for %s (%d vs %d)", symbol, len(timestamps), len(closes))
		return nil
	}

	points := make([]model.PricePoint, 0, len(timestamps))
	for i, ts := range timestamps {
		if ts == nil || closes[i] == nil {
			continue // skip null entries
		}
		points = append(points, model.PricePoint{
			Date:  model.Day(time.Unix(*ts, 0)),
			Close: decimal.NewFromFloat(*closes[i]).Round(2),
		})
	}
	log.Printf("[INFO] yahoo: parsed %d price points for %s", len(points), symbol)
	return points
}
