package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// post serializes body, issues one POST to baseURL+path, and decodes the
// response into out (out may be nil when the caller only cares about
// success). The error contract is uniform across every operation: a
// transport failure, a non-2xx status, or a 2xx body whose `error` field
// is non-empty all surface as a single error. Nothing is retried.
func (c *Client) post(ctx context.Context, op, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", c.baseURL, path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	requestsTotal.WithLabelValues(op).Inc()

	resp, err := c.http.Do(req)
	if err != nil {
		requestFailures.WithLabelValues(op).Inc()
		log.Error().Err(err).Str("operation", op).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		requestFailures.WithLabelValues(op).Inc()
		log.Error().Err(err).Str("operation", op).Msg("read response failed")
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if apiErr := checkResponse(resp.StatusCode, raw); apiErr != nil {
		requestFailures.WithLabelValues(op).Inc()
		log.Error().Str("operation", op).Int("status", apiErr.Status).Str("message", apiErr.Message).Msg("backend rejected request")
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		requestFailures.WithLabelValues(op).Inc()
		log.Error().Err(err).Str("operation", op).Msg("decode response failed")
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// checkResponse applies the unified failure contract to one response.
func checkResponse(status int, raw []byte) *APIError {
	var env struct {
		Error string `json:"error"`
	}
	// A non-JSON body is fine for status checking; the envelope stays empty.
	_ = json.Unmarshal(raw, &env)

	if status < 200 || status >= 300 {
		if env.Error != "" {
			return &APIError{Status: status, Message: env.Error}
		}
		return newStatusError(status)
	}
	if env.Error != "" {
		return &APIError{Status: status, Message: env.Error}
	}
	return nil
}
