package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	predictTimeout = 2 * time.Minute
	healthTimeout  = 3 * time.Second
	retryBackoff   = 2 * time.Second
	predictionTTL  = 10 * time.Minute
	maxAttempts    = 2
)

// PredictionResult mirrors the JSON body of the external prediction service.
type PredictionResult struct {
	URL                 string   `json:"url"`
	Prediction          string   `json:"prediction"`
	Confidence          float64  `json:"confidence"`
	PhishingProbability *float64 `json:"phishingProbability,omitempty"`
	Signals             []string `json:"signals,omitempty"`
	CheckedAt           string   `json:"checkedAt,omitempty"`
}

// PredictorClient relays URL scans to the external prediction endpoint.
// Verdicts are cached in redis best-effort; a missing cache never fails a call.
type PredictorClient struct {
	baseURL string
	client  *http.Client
	rdb     *redis.Client
	logger  *slog.Logger
	backoff time.Duration
}

func NewPredictorClient(baseURL string, rdb *redis.Client, logger *slog.Logger) *PredictorClient {
	return &PredictorClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: predictTimeout},
		rdb:     rdb,
		logger:  logger,
		backoff: retryBackoff,
	}
}

func (p *PredictorClient) Configured() bool {
	return p.baseURL != ""
}

// Predict classifies a URL. One retry after a fixed backoff; both attempts
// failing yields a PredictorUnavailableError carrying the last cause.
func (p *PredictorClient) Predict(ctx context.Context, rawURL, callerID string) (*PredictionResult, error) {
	if !p.Configured() {
		return nil, ErrPredictorNotConfigured
	}

	if cached := p.cacheGet(ctx, rawURL); cached != nil {
		return cached, nil
	}

	payload, err := json.Marshal(map[string]string{"url": rawURL, "user": callerID})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(p.backoff):
			case <-ctx.Done():
				return nil, &PredictorUnavailableError{Cause: ctx.Err()}
			}
		}

		result, err := p.doPredict(ctx, payload)
		if err == nil {
			p.cacheSet(ctx, rawURL, result)
			return result, nil
		}
		lastErr = err
		p.logger.Warn("Predictor request failed", "attempt", attempt, "url", rawURL, "error", err)
	}

	return nil, &PredictorUnavailableError{Cause: lastErr}
}

func (p *PredictorClient) doPredict(ctx context.Context, payload []byte) (*PredictionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictor returned status %d", resp.StatusCode)
	}

	var result PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid predictor response: %w", err)
	}
	if result.Prediction == "" {
		return nil, fmt.Errorf("predictor response missing prediction")
	}

	return &result, nil
}

// HealthCheck probes the predictor with a short timeout. It reports status
// and never returns an error.
func (p *PredictorClient) HealthCheck(ctx context.Context) string {
	if !p.Configured() {
		return "not_configured"
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return "offline"
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "offline"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "offline"
	}
	return "online"
}

func (p *PredictorClient) cacheGet(ctx context.Context, rawURL string) *PredictionResult {
	if p.rdb == nil {
		return nil
	}
	val, err := p.rdb.Get(ctx, "scan:"+rawURL).Result()
	if err != nil {
		return nil
	}
	var cached PredictionResult
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil
	}
	return &cached
}

func (p *PredictorClient) cacheSet(ctx context.Context, rawURL string, result *PredictionResult) {
	if p.rdb == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, "scan:"+rawURL, data, predictionTTL).Err(); err != nil {
		p.logger.Warn("Failed to cache prediction", "url", rawURL, "error", err)
	}
}
