package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "cafebook/pkg/errors"
	"cafebook/pkg/logger"
)

type fakeVerifier struct {
	user *User
	err  error
}

func (f *fakeVerifier) VerifyToken(token string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatText,
		Output:  io.Discard,
		Service: "test",
	})
}

func TestRequireAuth(t *testing.T) {
	admin := &User{ID: "u1", Email: "admin@cafe.test"}

	tests := []struct {
		name       string
		authHeader string
		verifier   *fakeVerifier
		wantStatus int
		wantUser   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifier:   &fakeVerifier{user: admin},
			wantStatus: http.StatusOK,
			wantUser:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &fakeVerifier{user: admin},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &fakeVerifier{user: admin},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			authHeader: "Bearer expired-token",
			verifier:   &fakeVerifier{err: apperrors.Unauthorized("Invalid or expired token")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "provider unreachable",
			authHeader: "Bearer good-token",
			verifier:   &fakeVerifier{err: apperrors.Unavailable("Auth provider unreachable")},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *User
			next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				gotUser = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			guarded := RequireAuth(tt.verifier, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			guarded(rec, req, nil)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUser && (gotUser == nil || gotUser.ID != admin.ID) {
				t.Errorf("expected user %v in context, got %v", admin, gotUser)
			}
			if !tt.wantUser && gotUser != nil {
				t.Errorf("expected no user in context, got %v", gotUser)
			}
		})
	}
}
