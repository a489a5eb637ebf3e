package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"datascope/internal/config"
	"datascope/internal/errors"
)

// NarrativeResult is the free text the generator returns. The core
// only type-checks each field; content is the generator's business.
type NarrativeResult struct {
	Narrative       string   `json:"narrative"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
	NextCharts      []string `json:"next_charts"`
}

// NarrativeClient posts the compact payload to the external narrative
// generator and parses its structured JSON response.
type NarrativeClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewNarrativeClient creates a client from generator config
func NewNarrativeClient(cfg config.GeneratorConfig) *NarrativeClient {
	return &NarrativeClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
	}
}

// Enabled reports whether a remote endpoint is configured.
func (c *NarrativeClient) Enabled() bool {
	return c.endpoint != ""
}

// GetNarrative sends the payload and returns the validated result.
func (c *NarrativeClient) GetNarrative(ctx context.Context, payload Payload) (*NarrativeResult, error) {
	type requestBody struct {
		Model   string  `json:"model"`
		Payload Payload `json:"payload"`
	}

	body, err := json.Marshal(requestBody{Model: c.model, Payload: payload})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode generator request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build generator request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "generator request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read generator response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeGenerator,
			fmt.Sprintf("generator returned status %d", resp.StatusCode))
	}

	return parseNarrative(raw)
}

// parseNarrative type-checks each field: narrative must be a string,
// the rest arrays of strings. Anything else is a generator error.
func parseNarrative(raw []byte) (*NarrativeResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "generator response is not a JSON object")
	}

	result := &NarrativeResult{}

	if msg, ok := fields["narrative"]; ok {
		if err := json.Unmarshal(msg, &result.Narrative); err != nil {
			return nil, errors.New(errors.CodeGenerator, "narrative must be a string")
		}
	}
	for name, dst := range map[string]*[]string{
		"recommendations": &result.Recommendations,
		"risks":           &result.Risks,
		"next_charts":     &result.NextCharts,
	} {
		msg, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			return nil, errors.New(errors.CodeGenerator, name+" must be an array of strings")
		}
	}

	return result, nil
}
