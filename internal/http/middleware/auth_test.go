package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSelf(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireSelf("userID")).Get("/users/{userID}", okHandler)

	tests := []struct {
		signedIn string
		path     string
		want     int
	}{
		{"u1", "/users/u1", http.StatusOK},
		{"u1", "/users/u2", http.StatusForbidden},
		{"", "/users/u1", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req = req.WithContext(WithUserID(req.Context(), tt.signedIn))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, "%s as %q", tt.path, tt.signedIn)
	}
}
