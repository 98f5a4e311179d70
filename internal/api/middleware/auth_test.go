package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkgrade/essay-api/internal/api/middleware"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/stretchr/testify/assert"
)

type staticAuthService struct {
	token string
}

func (s *staticAuthService) ValidateAccessCode(ctx context.Context, code string) (*service.Token, error) {
	return nil, service.ErrInvalidAccessCode
}

func (s *staticAuthService) VerifyToken(ctx context.Context, tokenString string) error {
	if tokenString != s.token {
		return service.ErrInvalidToken
	}
	return nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	mw := middleware.NewAuthMiddleware(&staticAuthService{token: "good-token"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.Authenticate(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer good-token", want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic Zm9v", want: http.StatusUnauthorized},
		{name: "malformed", header: "Bearer", want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer bad-token", want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
