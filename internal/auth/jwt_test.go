package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fanvault/fanvault-be/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	user := models.User{ID: 42, Username: "JaneDoe", Email: "jane@example.com"}

	tok, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	claims, err := ValidateJWT(tok)
	if err != nil {
		t.Fatalf("ValidateJWT error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "JaneDoe" {
		t.Errorf("Username = %q, want JaneDoe", claims.Username)
	}
}

func TestValidateJWT_Malformed(t *testing.T) {
	if _, err := ValidateJWT("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	if got := TokenFromRequest(r); got != "header-token" {
		t.Errorf("header token = %q, want header-token", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	if got := TokenFromRequest(r); got != "cookie-token" {
		t.Errorf("cookie token = %q, want cookie-token", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("empty request token = %q, want empty", got)
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	var sawClaims *Claims
	handler := OptionalAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawClaims = ClaimsFromContext(r.Context())
	}))

	// Garbage token: the request still goes through, anonymously.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawClaims != nil {
		t.Errorf("expected anonymous request, got claims %+v", sawClaims)
	}

	// Valid token: claims flow through the context.
	tok, err := GenerateJWT(models.User{ID: 7, Username: "jane"})
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if sawClaims == nil || sawClaims.UserID != 7 {
		t.Errorf("expected claims for user 7, got %+v", sawClaims)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	handler := RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without a token")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
