package publicdata

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 32 << 20

// retryableStatus lists the HTTP statuses retried on idempotent GETs.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Getter fetches a JSON document with a GET request.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// TransportConfig configures the primary HTTP transport.
type TransportConfig struct {
	// TLSVersion is the only protocol version negotiated (MinVersion == MaxVersion).
	TLSVersion uint16
	// CAFile optionally appends PEM roots to the system pool.
	CAFile      string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	UserAgent   string
}

// HTTPGetter is the primary transport: a pinned-TLS http.Client with
// bounded retries and exponential backoff.
type HTTPGetter struct {
	client      *http.Client
	maxRetries  int
	backoffBase time.Duration
	userAgent   string
}

// NewHTTPGetter creates the primary transport.
func NewHTTPGetter(cfg TransportConfig) (*HTTPGetter, error) {
	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 6 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 300 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "trendsync/1.0"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	transport.TLSHandshakeTimeout = cfg.Timeout
	transport.ResponseHeaderTimeout = cfg.Timeout
	// A pinned TLS version rules out the HTTP/2 upgrade path.
	transport.ForceAttemptHTTP2 = false

	return &HTTPGetter{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		userAgent:   cfg.UserAgent,
	}, nil
}

// buildTLSConfig pins the protocol version and loads the trusted roots.
func buildTLSConfig(cfg TransportConfig) (*tls.Config, error) {
	version := cfg.TLSVersion
	if version == 0 {
		version = tls.VersionTLS12
	}

	roots, err := x509.SystemCertPool()
	if err != nil || roots == nil {
		roots = x509.NewCertPool()
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		if !roots.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA file %s", cfg.CAFile)
		}
	}

	return &tls.Config{
		MinVersion: version,
		MaxVersion: version,
		RootCAs:    roots,
	}, nil
}

// GetJSON performs the GET, retrying transport errors and retryable statuses.
func (g *HTTPGetter) GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	// Query parameters already in the endpoint are kept; params win on conflict.
	query := u.Query()
	for k, v := range params {
		query[k] = v
	}
	u.RawQuery = query.Encode()

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, g.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		body, retry, err := g.do(ctx, u.String())
		if err == nil {
			if !json.Valid(body) {
				return nil, fmt.Errorf("%w (%d bytes)", ErrInvalidJSON, len(body))
			}
			return json.RawMessage(body), nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// do runs one request. retry reports whether the failure is worth retrying.
func (g *HTTPGetter) do(ctx context.Context, rawURL string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, retryableStatus[resp.StatusCode], &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}
	return body, false, nil
}

// backoff returns base * 2^(attempt-1).
func (g *HTTPGetter) backoff(attempt int) time.Duration {
	return g.backoffBase << (attempt - 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTransportError decides whether err came from the network or TLS layer
// (including non-2xx statuses) and so warrants the fallback transport.
// Parse errors and caller cancellation do not.
func IsTransportError(err error) bool {
	if err == nil || errors.Is(err, ErrInvalidJSON) || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	var urlErr *url.Error
	var netErr net.Error
	var recordErr tls.RecordHeaderError
	var alertErr tls.AlertError
	var certErr *tls.CertificateVerificationError

	switch {
	case errors.As(err, &statusErr),
		errors.As(err, &urlErr),
		errors.As(err, &netErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &certErr):
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.DeadlineExceeded)
}
