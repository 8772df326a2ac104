package ratesapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/adapters/ratesapi"
	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) *ratesapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return ratesapi.NewClient(srv.URL+"/v6/", "key123", time.Second)
}

func TestFetchRate_Latest(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/key123/latest/USD", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"EUR":0.9123}}`))
	})

	rate, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	require.NoError(t, err)
	assert.Equal(t, "0.9123", rate.String())
}

func TestFetchRate_HistoryPathAndRatesFallback(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/key123/history/USD/2025/7/5", r.URL.Path)
		w.Write([]byte(`{"result":"success","rates":{"BRL":5.4321}}`))
	})
	day := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)

	rate, err := client.FetchRate(context.Background(), "USD", "BRL", &day)

	require.NoError(t, err)
	assert.Equal(t, "5.4321", rate.String())
}

func TestFetchRate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "api error result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
			},
		},
		{
			name: "unknown target currency",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"result":"success","conversion_rates":{"EUR":0.9}}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serve(t, tt.handler)

			_, err := client.FetchRate(context.Background(), "USD", "XYZ", nil)

			assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
		})
	}
}
