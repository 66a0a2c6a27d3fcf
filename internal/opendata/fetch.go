package opendata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrFetch  = errors.New("fetch dataset")
	ErrDecode = errors.New("decode dataset")
)

// Record is one element of an opendatasoft JSON export.
type Record struct {
	DatasetID string                     `json:"datasetid,omitempty"`
	RecordID  string                     `json:"recordid,omitempty"`
	Fields    map[string]json.RawMessage `json:"fields"`
}

// RecordFetcher downloads a whole dataset.
type RecordFetcher interface {
	Fetch(ctx context.Context, url string) ([]Record, error)
}

// Fetcher downloads JSON exports over HTTP. Bodies are read fully into memory.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFetcher returns a Fetcher whose requests time out after timeout and are
// spaced at least interval apart. A zero interval disables spacing.
func NewFetcher(timeout, interval time.Duration) *Fetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Record, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	LogRequest(http.MethodGet, url)
	start := time.Now()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		LogError("fetch", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrFetch, err)
	}

	records, err := DecodeRecords(body)
	if err != nil {
		LogError("decode", err)
		return nil, err
	}

	LogResponse(resp.StatusCode, len(body), time.Since(start), len(records))
	return records, nil
}

// DecodeRecords parses a JSON array of records. Anything other than an array,
// or a record without a "fields" object, is rejected.
func DecodeRecords(body []byte) ([]Record, error) {
	t := bytes.TrimSpace(body)
	if len(t) == 0 || t[0] != '[' {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrDecode)
	}
	var records []Record
	if err := json.Unmarshal(t, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	for i := range records {
		if records[i].Fields == nil {
			return nil, fmt.Errorf("%w: record %d has no fields object", ErrDecode, i)
		}
	}
	return records, nil
}
