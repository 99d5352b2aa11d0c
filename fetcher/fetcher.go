// Package fetcher retrieves raw article documents over HTTP. It is the
// Document Fetcher collaborator consumed by the pipeline: validation and
// transport only, no extraction.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"article-summarizer/config"
	"article-summarizer/domain"
)

// URL scheme constants
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// DocumentFetcher retrieves the raw document behind a URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.FetchedDocument, error)
}

type httpFetcher struct {
	client       *http.Client
	cfg          *config.HTTPConfig
	logger       *slog.Logger
	allowPrivate bool
}

// NewHTTPFetcher creates a DocumentFetcher backed by a configured
// http.Client.
func NewHTTPFetcher(cfg *config.Config, logger *slog.Logger) DocumentFetcher {
	httpCfg := cfg.HTTP
	client := &http.Client{
		Timeout: httpCfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= httpCfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", httpCfg.MaxRedirects)
			}
			return nil
		},
	}

	return &httpFetcher{
		client: client,
		cfg:    &httpCfg,
		logger: logger,
	}
}

// NewHTTPFetcherWithClient creates a fetcher with a custom HTTP client and
// the private-host restriction lifted. Intended for tests and trusted
// internal environments.
func NewHTTPFetcherWithClient(client *http.Client, cfg *config.HTTPConfig, logger *slog.Logger) DocumentFetcher {
	return &httpFetcher{
		client:       client,
		cfg:          cfg,
		logger:       logger,
		allowPrivate: true,
	}
}

// Fetch validates the URL, retrieves the document, and returns its body
// capped at the configured size. All failures wrap domain sentinels so the
// pipeline can record them per item.
func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) (*domain.FetchedDocument, error) {
	if f.allowPrivate {
		if err := ValidateURLFormat(rawURL); err != nil {
			return nil, err
		}
	} else if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		// Keep the deadline error visible so the pipeline can report a
		// batch timeout instead of a generic fetch failure.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Error("failed to close response body", "error", err, "url", rawURL)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d %s", domain.ErrFetchFailed, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}

	f.logger.DebugContext(ctx, "fetched article document", "url", rawURL, "bytes", len(body))

	return &domain.FetchedDocument{URL: rawURL, HTML: string(body)}, nil
}

// ValidateURLFormat checks that a URL is well formed with an HTTP(S)
// scheme and a host.
func ValidateURLFormat(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: URL cannot be empty", domain.ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	if parsed.Scheme != SchemeHTTP && parsed.Scheme != SchemeHTTPS {
		return fmt.Errorf("%w: only HTTP or HTTPS schemes allowed", domain.ErrInvalidURL)
	}

	if parsed.Hostname() == "" {
		return fmt.Errorf("%w: URL must contain a host", domain.ErrInvalidURL)
	}

	return nil
}

// ValidateURL validates a URL for format and security before any network
// access is attempted.
func ValidateURL(rawURL string) error {
	if err := ValidateURLFormat(rawURL); err != nil {
		return err
	}

	parsed, _ := url.Parse(rawURL)

	if isPrivateHost(parsed.Hostname()) {
		return fmt.Errorf("%w: access to private networks not allowed", domain.ErrInvalidURL)
	}

	if port := parsed.Port(); port != "" && blockedPorts[port] {
		return fmt.Errorf("%w: access to port %s not allowed", domain.ErrInvalidURL, port)
	}

	return nil
}

var blockedPorts = map[string]bool{
	"22": true, "23": true, "25": true, "53": true, "110": true,
	"143": true, "993": true, "995": true, "1433": true, "3306": true,
	"5432": true, "6379": true, "7687": true, "11211": true,
}

func isPrivateHost(hostname string) bool {
	if ip := net.ParseIP(hostname); ip != nil {
		return isPrivateIPAddress(ip)
	}

	hostname = strings.ToLower(hostname)
	if hostname == "localhost" || strings.HasPrefix(hostname, "127.") {
		return true
	}

	if hostname == "169.254.169.254" || hostname == "metadata.google.internal" {
		return true
	}

	for _, suffix := range []string{".local", ".internal", ".corp", ".lan"} {
		if strings.HasSuffix(hostname, suffix) {
			return true
		}
	}

	return false
}

func isPrivateIPAddress(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		switch {
		case ip4[0] == 10:
			return true
		case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
			return true
		case ip4[0] == 192 && ip4[1] == 168:
			return true
		case ip4[0] == 127:
			return true
		}
		return false
	}

	if ip6 := ip.To16(); ip6 != nil {
		if ip6[0] == 0xfe && ip6[1]&0xc0 == 0x80 {
			return true
		}
		if ip6[0]&0xfe == 0xfc {
			return true
		}
	}

	return false
}
