// Package qdrant implements the VectorIndex port over the Qdrant REST API.
//
// There is no client library dependency: the handful of collection and
// point endpoints the pipeline needs are called directly, the same way the
// embedding adapters speak to their HTTP APIs.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.VectorIndex = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Qdrant client.
type Config struct {
	// BaseURL is the Qdrant HTTP endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is the access credential. Optional for local instances.
	APIKey string

	// Timeout is the per-request timeout (default: 120s). Bulk upserts of
	// large batches can take a while on cold collections.
	Timeout time.Duration

	// Model names the embedding model for cloud-inference upserts, where
	// the service embeds raw text server-side.
	Model string
}

// Client talks to the Qdrant REST API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// New creates a new Qdrant client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// apiResponse is the envelope every Qdrant endpoint returns.
type apiResponse struct {
	Status json.RawMessage `json:"status"`
	Result json.RawMessage `json:"result"`
}

// statusError is the error form of the status field.
type statusError struct {
	Error string `json:"error"`
}

// CollectionExists reports whether the named collection exists.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	result, err := c.do(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return false, err
	}

	var listing struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	}
	if err := json.Unmarshal(result, &listing); err != nil {
		return false, fmt.Errorf("decode collections: %w", err)
	}

	for _, col := range listing.Collections {
		if col.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// GetCollection returns the collection's current state.
func (c *Client) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	result, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return nil, err
	}

	var info struct {
		PointsCount int `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
			OptimizerConfig struct {
				IndexingThreshold int `json:"indexing_threshold"`
			} `json:"optimizer_config"`
		} `json:"config"`
	}
	if err := json.Unmarshal(result, &info); err != nil {
		return nil, fmt.Errorf("decode collection info: %w", err)
	}

	return &domain.CollectionInfo{
		PointsCount:     info.PointsCount,
		Dimension:       info.Config.Params.Vectors.Size,
		Distance:        domain.Distance(info.Config.Params.Vectors.Distance),
		IndexingEnabled: info.Config.OptimizerConfig.IndexingThreshold > 0,
	}, nil
}

// CreateCollection creates a collection with indexing disabled for bulk
// load. When quantize is true the collection stores binary-quantized
// vectors in RAM, trading a little recall for a much smaller footprint.
func (c *Client) CreateCollection(ctx context.Context, name string, dimension int, distance domain.Distance, quantize bool) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": string(distance),
		},
		"optimizers_config": map[string]any{
			"indexing_threshold": 0,
		},
	}
	if quantize {
		body["quantization_config"] = map[string]any{
			"binary": map[string]any{
				"always_ram": true,
			},
		}
	}

	_, err := c.do(ctx, http.MethodPut, "/collections/"+name, body)
	return err
}

// DeleteCollection drops the collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil)
	return err
}

// SetIndexingThreshold updates the collection's optimizer threshold.
func (c *Client) SetIndexingThreshold(ctx context.Context, name string, threshold int) error {
	body := map[string]any{
		"optimizers_config": map[string]any{
			"indexing_threshold": threshold,
		},
	}
	_, err := c.do(ctx, http.MethodPatch, "/collections/"+name, body)
	return err
}

// pointRecord is the wire form of one upserted point.
type pointRecord struct {
	ID      string         `json:"id"`
	Vector  any            `json:"vector"`
	Payload domain.Payload `json:"payload"`
}

// Upsert writes a batch of points. Points carrying raw Text instead of a
// Vector are sent as inference documents so the service embeds them
// server-side (cloud inference).
func (c *Client) Upsert(ctx context.Context, name string, points []domain.Point, wait bool) error {
	if len(points) == 0 {
		return nil
	}

	records := make([]pointRecord, len(points))
	for i, p := range points {
		rec := pointRecord{ID: p.ID, Payload: p.Payload}
		if p.Vector != nil {
			rec.Vector = p.Vector
		} else {
			rec.Vector = map[string]string{
				"text":  p.Text,
				"model": c.model,
			}
		}
		records[i] = rec
	}

	path := "/collections/" + name + "/points?wait=" + strconv.FormatBool(wait)
	_, err := c.do(ctx, http.MethodPut, path, map[string]any{"points": records})
	return err
}

// Close releases resources.
func (c *Client) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// do issues one API call and unwraps the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var se statusError
		if json.Unmarshal(envelope.Status, &se) == nil && se.Error != "" {
			return nil, fmt.Errorf("qdrant %s %s: %s", method, path, se.Error)
		}
		return nil, fmt.Errorf("qdrant %s %s: status %d", method, path, resp.StatusCode)
	}

	return envelope.Result, nil
}
