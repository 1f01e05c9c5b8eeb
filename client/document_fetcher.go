package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxDocumentBytes caps how much of a linked document we will pull in.
const maxDocumentBytes = 8 << 20

// FetchedDocument is a linked contract page pulled over HTTP.
type FetchedDocument struct {
	URL         string
	ContentType string
	Body        []byte
}

// IsPDF reports whether the document should go through PDF text
// extraction instead of the HTML parser.
func (d *FetchedDocument) IsPDF() bool {
	if strings.Contains(strings.ToLower(d.ContentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(d.Body, []byte("%PDF-"))
}

// DocumentFetcher retrieves addendum documents with a bounded per-request
// timeout.
type DocumentFetcher struct {
	httpClient *http.Client
}

func NewDocumentFetcher(timeout time.Duration) *DocumentFetcher {
	return &DocumentFetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves one document. Non-200 responses are errors; the resolver
// isolates them per reference.
func (f *DocumentFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid addendum URL %q: %w", url, err)
	}
	req.Header.Set("Accept", "text/html, application/pdf")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed for %q: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read failed for %q: %w", url, err)
	}

	return &FetchedDocument{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
