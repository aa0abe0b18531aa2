package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medifirst/medifirst-api/pkg/logger"
)

func TestRedactResetToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/api/auth/reset-password/abc123", "/api/auth/reset-password/[redacted]"},
		{"/api/auth/reset-password/abc123?x=1", "/api/auth/reset-password/[redacted]?x=1"},
		{"/api/auth/reset-password/", "/api/auth/reset-password/"},
		{"/api/first-aid/42", "/api/first-aid/42"},
	}
	for _, tt := range tests {
		if got := redactResetToken(tt.in); got != tt.want {
			t.Errorf("redactResetToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(RequestLogger(log))
	e.GET("/api/auth/reset-password/:token", func(c echo.Context) error {
		l := logger.Ctx(c.Request().Context(), zerolog.Nop())
		l.Info().Msg("inside")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reset-password/deadbeef", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := buf.String()
	if strings.Contains(out, "deadbeef") {
		t.Fatalf("token leaked into logs: %s", out)
	}
	if !strings.Contains(out, `"message":"inside"`) || !strings.Contains(out, `"message":"request"`) {
		t.Fatalf("expected scoped and access lines, got: %s", out)
	}
	if strings.Count(out, `"request_id":"`+rec.Header().Get(echo.HeaderXRequestID)+`"`) != 2 {
		t.Fatalf("request id missing from log lines: %s", out)
	}
}
