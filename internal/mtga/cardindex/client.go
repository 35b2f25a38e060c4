// Package cardindex loads the published card index, a gzipped JSON
// snapshot of every card's type line, oracle text, and mana value, and
// serves lookups from it.
package cardindex

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
)

const (
	indexPath      = "/data/cards_index.json.gz"
	rateLimitDelay = 100 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

type indexRecord struct {
	TypeLine   string  `json:"type_line"`
	OracleText string  `json:"oracle_text"`
	CMC        float64 `json:"cmc"`
}

type indexPayload struct {
	ByName        map[string]indexRecord `json:"by_name"`
	ByNameNorm    map[string]string      `json:"by_name_norm"`
	SchemaVersion string                 `json:"schema_version"`
}

// Index is one loaded snapshot of the card index.
type Index struct {
	byName        map[string]indexRecord
	byNorm        map[string]string
	schemaVersion string
}

// Count returns the number of cards in the snapshot.
func (ix *Index) Count() int {
	return len(ix.byName)
}

// SchemaVersion returns the snapshot's declared schema version, empty
// when the publisher omitted it.
func (ix *Index) SchemaVersion() string {
	return ix.schemaVersion
}

// Find resolves an exact or normalized name to a card record. It
// returns nil when the card is unknown.
func (ix *Index) Find(nameOrNorm string) *cards.Record {
	name := strings.TrimSpace(nameOrNorm)
	record, ok := ix.byName[name]
	if !ok {
		canonical, found := ix.byNorm[cards.Normalize(name)]
		if !found {
			return nil
		}
		name = canonical
		if record, ok = ix.byName[name]; !ok {
			return nil
		}
	}
	return &cards.Record{
		Name:       name,
		NameNorm:   cards.Normalize(name),
		TypeLine:   record.TypeLine,
		OracleText: record.OracleText,
		CMC:        record.CMC,
	}
}

// Client fetches card index snapshots with rate limiting and retries.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// NewClient creates an index client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "Deck-Analyzer/1.0",
	}
}

// FetchIndex downloads and decodes the current snapshot. When the
// publisher omits the normalized-name table it is rebuilt locally.
func (c *Client) FetchIndex(ctx context.Context) (*Index, error) {
	body, err := c.get(ctx, c.baseURL+indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards index: %w", err)
	}
	defer func() { _ = body.Close() }()

	gz, err := gzip.NewReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cards index: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var payload indexPayload
	if err := json.NewDecoder(gz).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse cards index: %w", err)
	}

	byName := payload.ByName
	if byName == nil {
		byName = map[string]indexRecord{}
	}
	byNorm := payload.ByNameNorm
	if len(byNorm) == 0 {
		byNorm = make(map[string]string, len(byName))
		for name := range byName {
			byNorm[cards.Normalize(name)] = name
		}
	}

	return &Index{
		byName:        byName,
		byNorm:        byNorm,
		schemaVersion: payload.SchemaVersion,
	}, nil
}

// get performs a rate-limited GET with retry on transient failures.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/gzip")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return resp.Body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("index fetch throttled (HTTP %d)", resp.StatusCode)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return nil, lastErr

		default:
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("index fetch failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
