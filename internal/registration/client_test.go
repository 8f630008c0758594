package registration

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"

	"plaque-gateway/internal/config"
)

const testURL = "https://plates.test/plaque"

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	cfg := config.ProviderConfig{
		URL:     testURL,
		Token:   "TokenTest",
		Country: "FR",
		Timeout: time.Second,
	}
	return NewClient(cfg, &http.Client{Transport: transport}, zerolog.Nop()), transport
}

func TestLookupSendsQuery(t *testing.T) {
	client, transport := newTestClient(t)

	transport.RegisterResponder(http.MethodGet, testURL, func(r *http.Request) (*http.Response, error) {
		q := r.URL.Query()
		if q.Get("immatriculation") != "AA-123-BB" || q.Get("token") != "TokenTest" || q.Get("pays") != "FR" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"data": map[string]any{"marque": "PEUGEOT", "co2": "120"},
		})
	})

	env, err := client.Lookup(context.Background(), "AA-123-BB")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	rec, ok := env.Record()
	if !ok {
		t.Fatal("expected data in envelope")
	}
	if rec.Marque.Text() != "PEUGEOT" || rec.CO2.Text() != "120" {
		t.Errorf("record = %+v", rec)
	}
	if n := transport.GetTotalCallCount(); n != 1 {
		t.Errorf("call count = %d, want 1", n)
	}
}

func TestLookupIgnoresStatus(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusNotFound, `{"error":"plaque inconnue"}`))

	env, err := client.Lookup(context.Background(), "ZZ-999-ZZ")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if _, ok := env.Record(); ok {
		t.Error("expected no data")
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		invalid   bool
	}{
		{
			name:      "transport failure",
			responder: httpmock.NewErrorResponder(errors.New("connection refused")),
		},
		{
			name:      "html body",
			responder: httpmock.NewStringResponder(http.StatusBadGateway, "<html>bad gateway</html>"),
			invalid:   true,
		},
		{
			name:      "json array",
			responder: httpmock.NewStringResponder(http.StatusOK, `[1,2,3]`),
			invalid:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newTestClient(t)
			transport.RegisterResponder(http.MethodGet, testURL, tt.responder)

			_, err := client.Lookup(context.Background(), "AA-123-BB")
			if err == nil {
				t.Fatal("Lookup() should fail")
			}
			if got := errors.Is(err, ErrInvalidResponse); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidResponse) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLookupCanceledContext(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testURL, func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Lookup(ctx, "AA-123-BB"); err == nil {
		t.Fatal("Lookup() with canceled context should fail")
	}
}

func TestNewClientAppliesTimeout(t *testing.T) {
	cfg := config.ProviderConfig{URL: testURL, Token: "t", Country: "FR", Timeout: 15 * time.Second}
	client := NewClient(cfg, nil, zerolog.Nop())
	if client.http.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", client.http.Timeout)
	}
}
