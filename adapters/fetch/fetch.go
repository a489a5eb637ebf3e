package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"datascope/domain/table"
	"datascope/internal/errors"
)

// Client loads remote JSON datasets (arrays of flat objects) into the
// raw Source shape. Column order is first-seen across rows, which
// requires token-level decoding: a plain map would randomize it.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a fetch client with the given timeout
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch downloads one JSON dataset.
func (c *Client) Fetch(ctx context.Context, url string) (*table.Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeFetchFailed,
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url))
	}

	src, err := DecodeSource(json.NewDecoder(resp.Body))
	if err != nil {
		return nil, errors.Wrapf(err, "malformed dataset at %s", url)
	}
	return src, nil
}

// FetchAll downloads several datasets concurrently. Results keep the
// order of the input URLs; the first failure cancels the rest.
func (c *Client) FetchAll(ctx context.Context, urls []string) ([]*table.Source, error) {
	sources := make([]*table.Source, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			src, err := c.Fetch(ctx, url)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// DecodeSource walks a JSON array of objects token by token so object
// key order is preserved. Non-object rows are rejected here; the core
// assumes well-formed rows.
func DecodeSource(dec *json.Decoder) (*table.Source, error) {
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	columns := make([]string, 0)
	seen := make(map[string]struct{})
	rows := make([]map[string]any, 0)

	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, errors.New(errors.CodeMalformedInput, "dataset rows must be objects")
		}

		row := make(map[string]any)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(err, "failed to read row key")
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, errors.New(errors.CodeMalformedInput, "row keys must be strings")
			}

			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, errors.Wrapf(err, "failed to decode value for %q", key)
			}
			row[key] = normalizeValue(value)

			if _, known := seen[key]; !known {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
		if _, err := dec.Token(); err != nil { // closing }
			return nil, errors.Wrap(err, "failed to close row object")
		}

		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return nil, errors.Wrap(err, "failed to close dataset array")
	}

	return &table.Source{Columns: columns, Rows: rows}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "failed to read JSON token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return errors.New(errors.CodeMalformedInput,
			fmt.Sprintf("expected %q, got %v", want, tok))
	}
	return nil
}

// normalizeValue lowers json.Number and nested structures to the value
// kinds the coercer understands.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case nil, string, bool, float64:
		return val
	default:
		// Nested arrays/objects are not tabular; keep their JSON text
		// so the coercer treats them as strings.
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
