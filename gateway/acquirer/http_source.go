package acquirer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yaron8/microlink/gateway/config"
)

// maxBodyBytes caps how much of a simulator response is read.
const maxBodyBytes = 1 << 20

// HTTPSource fetches metrics from a remote simulator over HTTP.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Mode() config.Mode {
	return config.ModeHTTP
}

// FetchRaw issues GET <url>/metrics and returns the body of a 200 response.
func (s *HTTPSource) FetchRaw(ctx context.Context) ([]byte, error) {
	resp, err := s.get(ctx, "/metrics")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s/metrics", ErrUnexpectedStatus, resp.StatusCode, s.baseURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read simulator response: %w", err)
	}

	return body, nil
}

// Probe issues GET <url>/health and expects a 200.
func (s *HTTPSource) Probe(ctx context.Context) error {
	resp, err := s.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d from %s/health", ErrUnexpectedStatus, resp.StatusCode, s.baseURL)
	}
	return nil
}

func (s *HTTPSource) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach simulator at %s%s: %w", s.baseURL, path, err)
	}
	return resp, nil
}
