package tickdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alias1177/Decomposer/internal/ticks"
)

func TestGetTicks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "ES" {
			t.Errorf("symbol query = %q, want ES", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "secret" {
			t.Errorf("apikey query = %q, want secret", got)
		}

		// Newest first on purpose: the client must sort oldest first
		w.Write([]byte(`{
			"symbol": "ES",
			"trades": [
				{"ts": "2024-03-01T10:00:02Z", "price": 5100.25},
				{"ts": "2024-03-01T10:00:00Z", "price": 5100.00},
				{"ts": "2024-03-01T10:00:01Z", "price": 5100.50}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseURL:        server.URL,
		APIKey:         "secret",
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 100,
	})

	got, err := client.GetTicks(context.Background(), "ES", 100)
	if err != nil {
		t.Fatalf("GetTicks() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d ticks, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("ticks not sorted: %v before %v", got[i].Timestamp, got[i-1].Timestamp)
		}
	}
	if got[0].Price != 5100.00 {
		t.Errorf("oldest price = %v, want 5100.00", got[0].Price)
	}
}

func TestGetTicksAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "unknown symbol"}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, RequestsPerSec: 100})

	_, err := client.GetTicks(context.Background(), "NOPE", 10)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestGetTicksEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol": "ES", "trades": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, RequestsPerSec: 100})

	_, err := client.GetTicks(context.Background(), "ES", 10)
	if !errors.Is(err, ticks.ErrNoTicks) {
		t.Errorf("error = %v, want ErrNoTicks", err)
	}
}

func TestGetTicksRejectsBadPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"symbol": "ES",
			"trades": [
				{"ts": "2024-03-01T10:00:00Z", "price": 5100.00},
				{"ts": "2024-03-01T10:00:01Z", "price": -1}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, RequestsPerSec: 100})

	_, err := client.GetTicks(context.Background(), "ES", 10)
	if err == nil {
		t.Fatal("expected an error for negative price")
	}
}

func TestGetTicksNotFoundIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, RequestsPerSec: 100})

	_, err := client.GetTicks(context.Background(), "ES", 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}
