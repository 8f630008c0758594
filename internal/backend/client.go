package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"plaque-gateway/internal/config"
	"plaque-gateway/internal/model"
)

var ErrInvalidBody = errors.New("backend returned a non-JSON body")

const maxBodySize = 10 << 20

// Response is a relayed backend answer: status code and JSON body as sent.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Client reads collections from the internal backend. The backend uses a
// self-signed certificate, so verification is disabled unless configured
// otherwise.
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

func NewClient(cfg config.BackendConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: newTransport(cfg.InsecureTLS)}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.Timeout
	}
	return &Client{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		log:     log.With().Str("component", "backend").Logger(),
	}
}

func newTransport(insecure bool) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // самоподписанный сертификат backend
	}
	return transport
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAll relays GET <base>/<resource>/get/all.
func (c *Client) FetchAll(ctx context.Context, resource model.Resource) (*Response, error) {
	url := c.baseURL + resource.Path()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read backend %s response: %w", resource, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s answered %d", ErrInvalidBody, resource, resp.StatusCode)
	}

	c.log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("backend responded")

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Ping checks that the backend answers HTTP at all; any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
	return nil
}
