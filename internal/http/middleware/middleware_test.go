package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})
	return r
}

func TestSharedToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		headers map[string]string
		want    int
	}{
		{name: "disabled", token: "", want: http.StatusOK},
		{name: "missing", token: "s3cret", want: http.StatusUnauthorized},
		{name: "bearer", token: "s3cret", headers: map[string]string{"Authorization": "Bearer s3cret"}, want: http.StatusOK},
		{name: "bearer lowercase", token: "s3cret", headers: map[string]string{"Authorization": "bearer s3cret"}, want: http.StatusOK},
		{name: "header", token: "s3cret", headers: map[string]string{TokenHeader: "s3cret"}, want: http.StatusOK},
		{name: "wrong", token: "s3cret", headers: map[string]string{"Authorization": "Bearer nope"}, want: http.StatusUnauthorized},
		{name: "basic scheme", token: "s3cret", headers: map[string]string{"Authorization": "Basic s3cret"}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(SharedToken(tt.token))
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if len(generated) != 36 {
		t.Errorf("generated id = %q, want a uuid", generated)
	}
	if !strings.Contains(rec.Body.String(), generated) {
		t.Errorf("id not available to handlers: %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "from-client")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "from-client" {
		t.Errorf("id = %q, want from-client", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)
	r := newEngine(RequestID(), RequestLogger(log))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if buf.Len() != 0 {
		t.Errorf("successful request logged at warn: %s", buf.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))
	if !strings.Contains(buf.String(), `"status":404`) || !strings.Contains(buf.String(), `/missing?x=1`) {
		t.Errorf("404 not logged: %s", buf.String())
	}
}
