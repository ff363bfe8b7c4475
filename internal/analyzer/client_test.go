package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inveskit/journal/internal/model"
)

func sampleRequest() *model.AnalysisRequest {
	return &model.AnalysisRequest{
		Trades: []model.TradeInfo{{
			StockName: "삼성전자", StockCode: "005930", TradeType: "buy",
			Date: "2025-03-01", Price: 71000, Quantity: 10,
		}},
		StockPrices: []model.StockPriceInfo{{Date: "2025-03-01", ClosePrice: 71234.5}},
		Strategy:    "external",
	}
}

func TestAnalyze_PostsPayloadAndReturnsBody(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"analysis":[],"total_score":80}`))
	}))
	defer srv.Close()

	c := NewClient("", 5*time.Second)
	result, err := c.Analyze(context.Background(), srv.URL, sampleRequest())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gotPath != "/api/analyze" {
		t.Fatalf("expected /api/analyze, got %s", gotPath)
	}
	if string(result.Raw) != `{"analysis":[],"total_score":80}` {
		t.Fatalf("body not verbatim: %s", result.Raw)
	}

	var sent model.AnalysisRequest
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("sent payload not JSON: %v", err)
	}
	if len(sent.Trades) != 1 || sent.Trades[0].StockCode != "005930" {
		t.Fatalf("unexpected payload: %+v", sent)
	}
	if sent.StockPrices[0].ClosePrice != 71234.5 {
		t.Fatalf("unexpected close price: %v", sent.StockPrices[0])
	}
}

func TestAnalyze_StatusFailureIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("", 5*time.Second)
	_, err := c.Analyze(context.Background(), srv.URL, sampleRequest())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAnalyze_TransportFailureIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient("", time.Second)
	_, err := c.Analyze(context.Background(), srv.URL, sampleRequest())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
