package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datascope/internal/config"
)

func clientFor(endpoint string) *NarrativeClient {
	return NewNarrativeClient(config.GeneratorConfig{
		Endpoint:  endpoint,
		Model:     "test-model",
		APIKey:    "test-key",
		TimeoutMs: 5000,
	})
}

func TestEnabled(t *testing.T) {
	assert.True(t, clientFor("http://example.com").Enabled())
	assert.False(t, clientFor("").Enabled())
}

func TestGetNarrative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "model")
		assert.Contains(t, body, "payload")

		w.Write([]byte(`{
			"narrative": "sales trend upward",
			"recommendations": ["dedupe rows"],
			"risks": [],
			"next_charts": ["line:day:sales"]
		}`))
	}))
	defer srv.Close()

	result, err := clientFor(srv.URL).GetNarrative(context.Background(), Payload{RowCount: 3})
	require.NoError(t, err)

	assert.Equal(t, "sales trend upward", result.Narrative)
	assert.Equal(t, []string{"dedupe rows"}, result.Recommendations)
	assert.Empty(t, result.Risks)
	assert.Equal(t, []string{"line:day:sales"}, result.NextCharts)
}

func TestGetNarrative_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := clientFor(srv.URL).GetNarrative(context.Background(), Payload{})
	assert.Error(t, err)
}

func TestParseNarrative_TypeChecks(t *testing.T) {
	for name, raw := range map[string]string{
		"narrative not a string":  `{"narrative": 42}`,
		"recommendations scalar":  `{"recommendations": "not a list"}`,
		"risks mixed types":       `{"risks": ["ok", 7]}`,
		"next_charts object":      `{"next_charts": {"a": 1}}`,
		"response not an object":  `[1, 2]`,
		"response not valid JSON": `narrative`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseNarrative([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseNarrative_MissingFieldsOK(t *testing.T) {
	result, err := parseNarrative([]byte(`{"narrative": "fine"}`))
	require.NoError(t, err)

	assert.Equal(t, "fine", result.Narrative)
	assert.Nil(t, result.Recommendations)
}
