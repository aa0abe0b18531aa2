package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medifirst/medifirst-api/internal/api/handler"
	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

const testSecret = "router-test-secret"

type fakeAuth struct{ ports.AuthService }

type fakeReset struct {
	mu      sync.Mutex
	request func(email string) error
	reset   func(token, password string) error
}

func (f *fakeReset) RequestReset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.request(email)
}

func (f *fakeReset) VerifyResetToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidResetToken
}

func (f *fakeReset) ResetPassword(_ context.Context, token, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reset(token, password)
}

type fakeProfile struct{ ports.ProfileService }

func (fakeProfile) GetProfile(_ context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID, FirstName: "Ada"}, nil
}

type fakeGuides struct{ ports.GuideService }

func (fakeGuides) Create(_ context.Context, in ports.GuideInput) (*domain.Guide, error) {
	return &domain.Guide{ID: "g1", Title: in.Title, Category: in.Category}, nil
}

var (
	routerOnce sync.Once
	router     *echo.Echo
	resets     = &fakeReset{}
)

// testRouter is built once: the Prometheus middleware registers collectors
// on the default registry.
func testRouter() *echo.Echo {
	routerOnce.Do(func() {
		router = NewRouter(Dependencies{
			Auth:          fakeAuth{},
			PasswordReset: resets,
			Profile:       fakeProfile{},
			Guides:        fakeGuides{},
			Readiness: map[string]handler.DependencyCheck{
				"mongodb": func(context.Context) error { return nil },
			},
			JWTSecret: testSecret,
			Logger:    zerolog.Nop(),
		})
	})
	return router
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func do(t *testing.T, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	return rec
}

func TestRouter_ForgotPassword_Indistinguishable(t *testing.T) {
	resets.mu.Lock()
	resets.request = func(string) error { return nil }
	resets.mu.Unlock()

	known := do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"known@example.com"}`, "")
	unknown := do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"ghost@example.com"}`, "")

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", known.Body.String(), unknown.Body.String())
	}
}

func TestRouter_ForgotPassword_Errors(t *testing.T) {
	resets.mu.Lock()
	resets.request = func(email string) error {
		if email == "" {
			return domain.ErrEmailRequired
		}
		return domain.ErrNotificationFailed
	}
	resets.mu.Unlock()

	if rec := do(t, http.MethodPost, "/api/auth/forgot-password", `{}`, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty email: expected 400, got %d", rec.Code)
	}
	if rec := do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"bad"}`, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed email: expected 400, got %d", rec.Code)
	}
	rec := do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"known@example.com"}`, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("dispatch failure: expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestRouter_ResetPassword(t *testing.T) {
	resets.mu.Lock()
	resets.reset = func(token, password string) error {
		if err := domain.CheckPassword(password); err != nil {
			return err
		}
		if token != "live" {
			return domain.ErrInvalidResetToken
		}
		return nil
	}
	resets.mu.Unlock()

	if rec := do(t, http.MethodPost, "/api/auth/reset-password/live", `{"password":"newpass1"}`, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, http.MethodPost, "/api/auth/reset-password/live", `{"password":"123"}`, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("weak password: expected 400, got %d", rec.Code)
	}
	long := fmt.Sprintf(`{"password":%q}`, strings.Repeat("a", 80))
	if rec := do(t, http.MethodPost, "/api/auth/reset-password/live", long, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("long password: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	rec := do(t, http.MethodPost, "/api/auth/reset-password/stale", `{"password":"newpass1"}`, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid or has expired") {
		t.Fatalf("stale token: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ResetPage_Expired(t *testing.T) {
	rec := do(t, http.MethodGet, "/api/auth/reset-password/whatever", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML) {
		t.Fatalf("expected html, got %q", rec.Header().Get(echo.HeaderContentType))
	}
}

func TestRouter_ProfileRequiresAuth(t *testing.T) {
	if rec := do(t, http.MethodGet, "/api/user/profile", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec := do(t, http.MethodGet, "/api/user/profile", "", bearer(t, "u1", domain.RoleUser))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"u1"`) {
		t.Fatalf("expected profile, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GuideWritesAreAdminOnly(t *testing.T) {
	body := `{"title":"Adult CPR","category":"cpr","description":"Compressions"}`

	if rec := do(t, http.MethodPost, "/api/first-aid", body, bearer(t, "u1", domain.RoleUser)); rec.Code != http.StatusForbidden {
		t.Fatalf("user: expected 403, got %d", rec.Code)
	}
	if rec := do(t, http.MethodPost, "/api/first-aid", body, bearer(t, "a1", domain.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Operational(t *testing.T) {
	if rec := do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	if rec := do(t, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	rec := do(t, http.MethodGet, "/api/nowhere", "", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("unknown route: expected 404 envelope, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}
