package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"plaque-gateway/internal/config"
	"plaque-gateway/internal/domain/vehicle"
)

// ErrInvalidResponse is returned when the provider body is not a JSON object.
var ErrInvalidResponse = errors.New("invalid registration response")

const maxBodySize = 1 << 20

// Client calls the plate registration API (apiplaqueimmatriculation.com).
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	country string
	log     zerolog.Logger
}

// NewClient builds a client from the provider config. A nil httpClient gets
// a default one bounded by cfg.Timeout.
func NewClient(cfg config.ProviderConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.Timeout
	}
	return &Client{
		http:    httpClient,
		baseURL: cfg.URL,
		token:   cfg.Token,
		country: cfg.Country,
		log:     log.With().Str("component", "registration").Logger(),
	}
}

// Lookup fetches the registration envelope for one plate. The HTTP status
// is not interpreted: the provider reports missing plates in the body.
func (c *Client) Lookup(ctx context.Context, plate string) (*vehicle.Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL(plate), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registration lookup: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("plate", plate).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("registration provider responded")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read registration response: %w", err)
	}

	var env vehicle.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w (status %d): %v", ErrInvalidResponse, resp.StatusCode, err)
	}
	return &env, nil
}

func (c *Client) lookupURL(plate string) string {
	q := url.Values{}
	q.Set("immatriculation", plate)
	q.Set("token", c.token)
	q.Set("pays", c.country)
	return c.baseURL + "?" + q.Encode()
}
