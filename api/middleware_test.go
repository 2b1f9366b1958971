package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func protectedProbe(secret string, called *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return RequireImportSecret(secret)(next)
}

func TestRequireImportSecret(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "matching secret passes through",
			configured: "s3cret",
			provided:   "s3cret",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "wrong secret rejected",
			configured: "s3cret",
			provided:   "guess",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header rejected",
			configured: "s3cret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty configured secret disables endpoint",
			configured: "",
			provided:   "",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodPost, "/scheduler/import", nil)
			if tt.provided != "" {
				req.Header.Set(HeaderImportSecret, tt.provided)
			}
			rec := httptest.NewRecorder()

			protectedProbe(tt.configured, &called).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
