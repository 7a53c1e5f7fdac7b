package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/blogman/internal/model"
)

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, header string) (string, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, header string) (string, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, header)
	}
	return "", model.NewMissingTokenError()
}

var _ TokenAuthenticator = (*mockAuthenticator)(nil)

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	var gotHeader string
	auth := &mockAuthenticator{
		authenticateFn: func(_ context.Context, header string) (string, error) {
			gotHeader = header
			return "user-1", nil
		},
	}

	var ctxUserID string
	handler := NewAuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts/user", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if gotHeader != "Bearer token-abc" {
		t.Errorf("header passed = %q", gotHeader)
	}
	if ctxUserID != "user-1" {
		t.Errorf("user ID in context = %q, want user-1", ctxUserID)
	}
}

func TestAuthMiddleware_Failure_DoesNotCallNext(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing token", model.NewMissingTokenError(), http.StatusUnauthorized, "Access denied: No token provided"},
		{"invalid token", model.NewInvalidTokenError("jwt expired"), http.StatusBadRequest, "Invalid token: jwt expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthenticator{
				authenticateFn: func(context.Context, string) (string, error) { return "", tt.err },
			}
			called := false
			handler := NewAuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts", nil))

			if called {
				t.Error("next handler must not be called")
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body ErrorResponseBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}

	ctx := ContextWithUserID(context.Background(), "user-9")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if userID != "user-9" {
		t.Errorf("userID = %q, want user-9", userID)
	}
}
