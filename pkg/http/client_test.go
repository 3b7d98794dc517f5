package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	expected := &ClientConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryBackoff: 1 * time.Second,
		UserAgent:    "postboard/1.0",
		Headers:      make(map[string]string),
	}

	if !reflect.DeepEqual(config, expected) {
		t.Errorf("DefaultConfig() = %+v, expected %+v", config, expected)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name   string
		config *ClientConfig
	}{
		{
			name:   "with nil config",
			config: nil,
		},
		{
			name:   "with default config",
			config: DefaultConfig(),
		},
		{
			name: "with custom config",
			config: &ClientConfig{
				Timeout:      5 * time.Second,
				MaxRetries:   2,
				RetryBackoff: 500 * time.Millisecond,
				UserAgent:    "custom-agent/1.0",
				Headers:      map[string]string{"Custom": "header"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.config)

			if client == nil {
				t.Fatal("NewClient() returned nil")
			}

			if tt.config == nil {
				if !reflect.DeepEqual(client.config, DefaultConfig()) {
					t.Errorf("NewClient(nil) should use default config")
				}
			} else if !reflect.DeepEqual(client.config, tt.config) {
				t.Errorf("NewClient() config = %+v, expected %+v", client.config, tt.config)
			}

			if client.client.Timeout != client.config.Timeout {
				t.Errorf("NewClient() timeout = %v, expected %v", client.client.Timeout, client.config.Timeout)
			}
		})
	}
}

func TestNewClient_NegativeRetriesClamped(t *testing.T) {
	client := NewClient(&ClientConfig{MaxRetries: -1})
	if client.config.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, expected 0", client.config.MaxRetries)
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{name: "200 OK", statusCode: http.StatusOK, expected: false},
		{name: "404 Not Found", statusCode: http.StatusNotFound, expected: false},
		{name: "429 Too Many Requests", statusCode: http.StatusTooManyRequests, expected: true},
		{name: "500 Internal Server Error", statusCode: http.StatusInternalServerError, expected: true},
		{name: "502 Bad Gateway", statusCode: http.StatusBadGateway, expected: true},
		{name: "503 Service Unavailable", statusCode: http.StatusServiceUnavailable, expected: true},
		{name: "504 Gateway Timeout", statusCode: http.StatusGatewayTimeout, expected: true},
		{name: "505 HTTP Version Not Supported", statusCode: http.StatusHTTPVersionNotSupported, expected: false},
		{name: "edge case: 0 status code", statusCode: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsRetryableStatusCode(tt.statusCode); result != tt.expected {
				t.Errorf("IsRetryableStatusCode(%d) = %v, expected %v", tt.statusCode, result, tt.expected)
			}
		})
	}
}

func TestGetWithContext_SetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.Headers["Accept"] = "application/json"
	client := NewClient(config)

	resp, err := client.GetWithContext(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetWithContext() error = %v", err)
	}
	_ = resp.Body.Close()

	if gotUA != "postboard/1.0" {
		t.Errorf("User-Agent = %q, expected postboard/1.0", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, expected application/json", gotAccept)
	}
}

func TestGetWithContext_SingleAttemptByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(nil)

	resp, err := client.GetWithContext(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetWithContext() error = %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, expected 500", resp.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, expected 1", got)
	}
}

func TestGetWithContext_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{
		Timeout:      time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})

	resp, err := client.GetWithContext(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetWithContext() error = %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, expected 200", resp.StatusCode)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, expected 3", got)
	}
}

func TestGetWithContext_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(nil).GetWithContext(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetWithContext() error = %v, expected context.Canceled", err)
	}
}
