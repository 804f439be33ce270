// Package pinecone provides a vector store adapter backed by Pinecone's
// serverless REST API. Index lifecycle goes through the control plane at
// api.pinecone.io; vector reads and writes go to the index's own host.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL   = "https://api.pinecone.io"
	DefaultTimeout           = 30 * time.Second
	DefaultBatchSize         = 100
	DefaultMetric            = "cosine"
	DefaultCloud             = "aws"
	DefaultRegion            = "us-east-1"
	DefaultPollInterval      = 2 * time.Second
	DefaultRequestsPerMinute = 120

	apiVersion = "2025-01"
)

// Config holds configuration for the Pinecone vector store.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the serverless index to operate on (required).
	IndexName string

	// Dimension is the vector dimension the index must have (required).
	Dimension int

	// Metric is the similarity metric for new indexes (default: cosine).
	Metric string

	// Cloud is the serverless cloud provider for new indexes (default: aws).
	Cloud string

	// Region is the serverless region for new indexes (default: us-east-1).
	Region string

	// BatchSize caps how many vectors go into one upsert call (default: 100).
	BatchSize int

	// ControlPlaneURL overrides the control plane endpoint. Used in tests.
	ControlPlaneURL string

	// IndexHost overrides data plane host resolution. Used in tests.
	IndexHost string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// PollInterval is the wait between readiness checks after index
	// creation (default: 2s).
	PollInterval time.Duration

	// RequestsPerMinute paces data plane calls (default: 120).
	RequestsPerMinute int
}

// VectorStore talks to a single Pinecone serverless index.
type VectorStore struct {
	client       *http.Client
	limiter      *rate.Limiter
	controlURL   string
	apiKey       string
	indexName    string
	dimension    int
	metric       string
	cloud        string
	region       string
	batchSize    int
	pollInterval time.Duration

	mu   sync.Mutex
	host string
}

// indexDescription is the control plane's view of an index.
type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// createIndexRequest is the control plane create payload.
type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

// vectorPayload is the data plane vector format.
type vectorPayload struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors []vectorPayload `json:"vectors"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float32           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

type statsResponse struct {
	TotalVectorCount int `json:"totalVectorCount"`
	Dimension        int `json:"dimension"`
}

// apiError is Pinecone's error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// New creates a Pinecone vector store client.
func New(cfg Config) (*VectorStore, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone: index name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("pinecone: dimension must be positive")
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &VectorStore{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		controlURL:   strings.TrimSuffix(cfg.ControlPlaneURL, "/"),
		apiKey:       cfg.APIKey,
		indexName:    cfg.IndexName,
		dimension:    cfg.Dimension,
		metric:       cfg.Metric,
		cloud:        cfg.Cloud,
		region:       cfg.Region,
		batchSize:    cfg.BatchSize,
		pollInterval: cfg.PollInterval,
		host:         cfg.IndexHost,
	}, nil
}

// EnsureIndex creates the index when missing and waits until it reports
// ready. An existing index must match the configured dimension.
func (s *VectorStore) EnsureIndex(ctx context.Context) error {
	desc, err := s.describeIndex(ctx)
	if err != nil {
		return err
	}

	if desc == nil {
		logger.Info("creating index %q (%d dimensions, %s, %s/%s)",
			s.indexName, s.dimension, s.metric, s.cloud, s.region)
		if err := s.createIndex(ctx); err != nil {
			return err
		}
	}

	desc, err = s.awaitReady(ctx)
	if err != nil {
		return err
	}

	if desc.Dimension != s.dimension {
		return fmt.Errorf("%w: index %q has dimension %d, configuration expects %d",
			domain.ErrDimensionMismatch, s.indexName, desc.Dimension, s.dimension)
	}

	s.setHost(desc.Host)
	logger.Debug("index %q ready at %s", s.indexName, desc.Host)
	return nil
}

// DeleteIndex removes the index. Deleting an index that does not exist is
// not an error.
func (s *VectorStore) DeleteIndex(ctx context.Context) error {
	err := s.do(ctx, http.MethodDelete, s.controlURL+"/indexes/"+s.indexName, nil, nil)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("index %q already absent", s.indexName)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	s.setHost("")
	return nil
}

// Upsert writes vectors to the index in batches. Every vector is checked
// against the configured dimension before anything goes over the wire.
func (s *VectorStore) Upsert(ctx context.Context, vectors []domain.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	for _, v := range vectors {
		if len(v.Values) != s.dimension {
			return fmt.Errorf("%w: vector %q has %d values, index expects %d",
				domain.ErrDimensionMismatch, v.ID, len(v.Values), s.dimension)
		}
	}

	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(vectors); start += s.batchSize {
		end := start + s.batchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		batch := vectors[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pinecone: rate limiter: %w", err)
		}

		payload := upsertRequest{Vectors: make([]vectorPayload, len(batch))}
		for i, v := range batch {
			payload.Vectors[i] = vectorPayload{ID: v.ID, Values: v.Values, Metadata: v.Metadata}
		}

		var resp upsertResponse
		if err := s.do(ctx, http.MethodPost, host+"/vectors/upsert", payload, &resp); err != nil {
			return fmt.Errorf("upsert vectors %d-%d: %w", start, end, err)
		}

		logger.Debug("upserted %d vectors (%d/%d)", resp.UpsertedCount, end, len(vectors))
	}

	return nil
}

// Query returns the topK nearest vectors with their metadata.
func (s *VectorStore) Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, index expects %d",
			domain.ErrDimensionMismatch, len(vector), s.dimension)
	}

	host, err := s.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	payload := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := s.do(ctx, http.MethodPost, host+"/query", payload, &resp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	matches := make([]domain.Match, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = domain.Match{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}
	return matches, nil
}

// Stats reports the index vector count and dimension.
func (s *VectorStore) Stats(ctx context.Context) (domain.IndexStats, error) {
	host, err := s.resolveHost(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}

	var resp statsResponse
	if err := s.do(ctx, http.MethodPost, host+"/describe_index_stats", struct{}{}, &resp); err != nil {
		return domain.IndexStats{}, fmt.Errorf("describe index stats: %w", err)
	}

	return domain.IndexStats{
		VectorCount: resp.TotalVectorCount,
		Dimension:   resp.Dimension,
	}, nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// describeIndex fetches the index description, returning nil when the
// index does not exist.
func (s *VectorStore) describeIndex(ctx context.Context) (*indexDescription, error) {
	var desc indexDescription
	err := s.do(ctx, http.MethodGet, s.controlURL+"/indexes/"+s.indexName, nil, &desc)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("describe index: %w", err)
	}
	return &desc, nil
}

func (s *VectorStore) createIndex(ctx context.Context) error {
	payload := createIndexRequest{
		Name:      s.indexName,
		Dimension: s.dimension,
		Metric:    s.metric,
		Spec: indexSpec{
			Serverless: serverlessSpec{Cloud: s.cloud, Region: s.region},
		},
	}

	if err := s.do(ctx, http.MethodPost, s.controlURL+"/indexes", payload, nil); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// awaitReady polls the control plane until the index reports ready. The
// caller bounds the wait through ctx.
func (s *VectorStore) awaitReady(ctx context.Context) (*indexDescription, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		desc, err := s.describeIndex(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrIndexNotReady, ctx.Err())
			}
			return nil, err
		}
		if desc != nil && desc.Status.Ready {
			return desc, nil
		}

		logger.Debug("index %q not ready yet", s.indexName)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrIndexNotReady, ctx.Err())
		case <-ticker.C:
		}
	}
}

// resolveHost returns the data plane base URL, looking it up from the
// control plane on first use.
func (s *VectorStore) resolveHost(ctx context.Context) (string, error) {
	s.mu.Lock()
	host := s.host
	s.mu.Unlock()

	if host == "" {
		desc, err := s.describeIndex(ctx)
		if err != nil {
			return "", err
		}
		if desc == nil {
			return "", fmt.Errorf("%w: index %q does not exist, run init first",
				domain.ErrIndexNotReady, s.indexName)
		}
		if desc.Host == "" {
			return "", fmt.Errorf("%w: index %q has no host yet", domain.ErrIndexNotReady, s.indexName)
		}
		s.setHost(desc.Host)
		host = desc.Host
	}

	if strings.Contains(host, "://") {
		return strings.TrimSuffix(host, "/"), nil
	}
	return "https://" + host, nil
}

func (s *VectorStore) setHost(host string) {
	s.mu.Lock()
	s.host = host
	s.mu.Unlock()
}

// do performs one JSON request against either plane.
func (s *VectorStore) do(ctx context.Context, method, url string, in, out any) error {
	var reqBody io.Reader = http.NoBody
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pinecone-Api-Version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiMessage(body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: pinecone returned 429", domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrVectorStoreUnavailable, resp.StatusCode, apiMessage(body))
	case resp.StatusCode >= 400:
		return fmt.Errorf("pinecone error (status %d): %s", resp.StatusCode, apiMessage(body))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiMessage pulls a readable message out of Pinecone's error envelope,
// falling back to the raw body.
func apiMessage(body []byte) string {
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if len(body) == 0 {
		return "no response body"
	}
	return string(body)
}
