package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/yangwenmai/prodpage/internal/model"
)

const (
	// maxDescriptionLength caps the extracted description.
	maxDescriptionLength = 2000
	// minDescriptionLength is the minimum content length to accept.
	// Pages returning less are likely login walls or empty pages.
	minDescriptionLength = 40
	// fetchRetries is the number of fetch attempts before giving up.
	fetchRetries = 3
	// maxBodySize is the maximum HTTP response body size (5MB).
	maxBodySize = 5 * 1024 * 1024
)

// DescriptionExtractor fetches a product's source page and extracts
// readable text to use as its description.
type DescriptionExtractor struct {
	client *http.Client
}

// NewDescriptionExtractor creates an HTTP-based description extractor.
func NewDescriptionExtractor() *DescriptionExtractor {
	return &DescriptionExtractor{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enrich fills in the record's description from metadata.source_url when
// the description is empty. Extraction failure is advisory: the record is
// returned unchanged together with the error.
func (e *DescriptionExtractor) Enrich(ctx context.Context, p model.ProductRecord) (model.ProductRecord, error) {
	if p.Description != "" {
		return p, nil
	}
	srcURL, _ := p.Metadata["source_url"].(string)
	if srcURL == "" {
		return p, nil
	}

	text, err := e.Extract(ctx, srcURL)
	if err != nil {
		return p, fmt.Errorf("enrich description: %w", err)
	}
	p.Description = text
	return p, nil
}

// Extract fetches the URL and extracts the main content with automatic
// retry.
func (e *DescriptionExtractor) Extract(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < fetchRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := e.doExtract(ctx, url)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", fetchRetries, lastErr)
}

func (e *DescriptionExtractor) doExtract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	// Use a realistic browser User-Agent to avoid being blocked by sites.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	parsedURL, _ := nurl.Parse(url)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	text := strings.TrimSpace(strings.Join(strings.Fields(article.TextContent), " "))

	if utf8.RuneCountInString(text) < minDescriptionLength {
		return "", fmt.Errorf("extracted content too short (%d chars), possibly blocked or empty page", utf8.RuneCountInString(text))
	}
	if utf8.RuneCountInString(text) > maxDescriptionLength {
		runes := []rune(text)
		text = string(runes[:maxDescriptionLength])
	}
	return text, nil
}
