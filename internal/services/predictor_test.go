package services

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestPredictorClient_Predict(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"url":"http://bad.example","prediction":"phishing","confidence":97.5}`))
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		result, err := client.Predict(context.Background(), "http://bad.example", "42")

		assert.NoError(t, err)
		assert.Equal(t, "phishing", result.Prediction)
		assert.Equal(t, 97.5, result.Confidence)
	})

	t.Run("Retries Once Then Succeeds", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"prediction":"legitimate","confidence":88.0}`))
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		client.backoff = 0

		result, err := client.Predict(context.Background(), "http://ok.example", "anonymous")
		assert.NoError(t, err)
		assert.Equal(t, "legitimate", result.Prediction)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("Unavailable After Two Attempts", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		client.backoff = 0

		_, err := client.Predict(context.Background(), "http://down.example", "anonymous")
		var unavail *PredictorUnavailableError
		assert.ErrorAs(t, err, &unavail)
		assert.Contains(t, unavail.Error(), "500")
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("Connection Refused", func(t *testing.T) {
		client := NewPredictorClient("http://127.0.0.1:1", nil, testLogger())
		client.backoff = 0

		_, err := client.Predict(context.Background(), "http://x.example", "anonymous")
		var unavail *PredictorUnavailableError
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("Not Configured", func(t *testing.T) {
		client := NewPredictorClient("", nil, testLogger())
		_, err := client.Predict(context.Background(), "http://x.example", "anonymous")
		assert.ErrorIs(t, err, ErrPredictorNotConfigured)
	})

	t.Run("Missing Prediction Field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"confidence":50.0}`))
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		client.backoff = 0

		_, err := client.Predict(context.Background(), "http://x.example", "anonymous")
		var unavail *PredictorUnavailableError
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestPredictorClient_HealthCheck(t *testing.T) {
	t.Run("Online", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.Write([]byte(`{"status":"healthy"}`))
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		assert.Equal(t, "online", client.HealthCheck(context.Background()))
	})

	t.Run("Offline", func(t *testing.T) {
		client := NewPredictorClient("http://127.0.0.1:1", nil, testLogger())
		assert.Equal(t, "offline", client.HealthCheck(context.Background()))
	})

	t.Run("Bad Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewPredictorClient(srv.URL, nil, testLogger())
		assert.Equal(t, "offline", client.HealthCheck(context.Background()))
	})

	t.Run("Not Configured", func(t *testing.T) {
		client := NewPredictorClient("", nil, testLogger())
		assert.Equal(t, "not_configured", client.HealthCheck(context.Background()))
	})
}
