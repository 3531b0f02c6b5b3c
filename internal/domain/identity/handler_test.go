package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T) (*Handler, *auth.TokenRevocationStore) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewService(repo, zerolog.Nop())
	revoked := auth.NewTokenRevocationStore()
	t.Cleanup(revoked.Close)
	return NewHandler(svc, testSecret, time.Hour, revoked), revoked
}

func doJSON(h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(h.Register, http.MethodPost, "/api/v1/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"patient"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q", u.Username)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks password material")
	}

	rec = doJSON(h.Register, http.MethodPost, "/api/v1/register",
		`{"username":"alice","email":"other@example.com","password":"secret1","role":"patient"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate username status = %d, want 400", rec.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	doJSON(h.Register, http.MethodPost, "/api/v1/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"patient"}`)

	rec := doJSON(h.Login, http.MethodPost, "/api/v1/login",
		`{"username":"alice","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	claims, err := auth.ParseToken(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Role != auth.RolePatient {
		t.Errorf("token role = %q, want patient", claims.Role)
	}

	rec = doJSON(h.Login, http.MethodPost, "/api/v1/login",
		`{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	h, revoked := newTestHandler(t)

	doJSON(h.Register, http.MethodPost, "/api/v1/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"patient"}`)
	rec := doJSON(h.Login, http.MethodPost, "/api/v1/login",
		`{"username":"alice","password":"secret1"}`)
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	claims, err := auth.ParseToken(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	out := httptest.NewRecorder()
	c := e.NewContext(req, out)
	c.Set(auth.ClaimsContextKey, claims)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if out.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", out.Code)
	}
	if !revoked.IsRevoked(claims.ID) {
		t.Error("token jti was not revoked")
	}
}

func TestLogoutWithoutClaims(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestListDoctorsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	doJSON(h.Register, http.MethodPost, "/api/v1/register",
		`{"username":"drx","email":"drx@example.com","password":"secret1","role":"doctor","specialization":"Cardiologist"}`)

	rec := doJSON(h.ListDoctors, http.MethodGet, "/api/v1/doctors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data  []*User `json:"data"`
		Total int     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", resp.Total, len(resp.Data))
	}
	if resp.Data[0].Username != "drx" {
		t.Errorf("doctor = %q", resp.Data[0].Username)
	}
}
