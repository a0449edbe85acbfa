// Package csvsource fetches the raw vocabulary dataset from a URL or a file.
package csvsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// maxBody caps the dataset download.
const maxBody = 32 << 20

// HTTPSource fetches the dataset over HTTP. Every failure, network or
// status, is reported as *domain.TransportError.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewHTTPSource creates a source for url with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "csvsource"),
	}
}

// Name returns the URL, for logs.
func (s *HTTPSource) Name() string { return s.url }

// Fetch downloads the dataset text.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", &domain.TransportError{URL: s.url, Err: err}
	}

	resp, err := s.doWithRetry(ctx, req)
	if err != nil {
		return "", &domain.TransportError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.TransportError{URL: s.url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &domain.TransportError{URL: s.url, Err: fmt.Errorf("read body: %w", err)}
	}

	s.log.DebugContext(ctx, "dataset fetched",
		slog.String("url", s.url),
		slog.Int("bytes", len(body)),
	)
	return string(body), nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (s *HTTPSource) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := s.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	s.log.WarnContext(ctx, "dataset fetch retry", slog.String("url", s.url), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return s.httpClient.Do(req)
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the path, for logs.
func (s *FileSource) Name() string { return s.path }

// Fetch reads the file. A missing or unreadable file is a transport failure
// so callers fall back the same way as for a failed download.
func (s *FileSource) Fetch(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", &domain.TransportError{URL: s.path, Err: err}
	}
	return string(data), nil
}
