package middlewarectx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantToken      string
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty token",
			authHeader:     "Bearer   ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer abc.def",
			wantStatusCode: http.StatusOK,
			wantToken:      "abc.def",
		},
		{
			name:           "scheme is case insensitive",
			authHeader:     "bearer abc.def",
			wantStatusCode: http.StatusOK,
			wantToken:      "abc.def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				handlerCalled bool
				gotToken      string
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotToken, _ = TokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/forms/feedback", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			BearerToken(sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantToken != "", handlerCalled)
			assert.Equal(t, tt.wantToken, gotToken)
			if tt.wantStatusCode == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"status":"Error","error":"not authenticated"}`, rec.Body.String())
			}
		})
	}
}
