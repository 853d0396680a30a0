package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"steeltrade/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID string, roles []string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"roles":   roles,
		"iat":     jwt.NewNumericDate(now),
		"exp":     jwt.NewNumericDate(now.Add(expiresIn)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func authedHandler(t *testing.T, captured *[]domain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roles, ok := GetUserRoles(r.Context())
		if !ok {
			t.Error("expected roles in context")
		}
		*captured = roles
		w.WriteHeader(http.StatusOK)
	})
}

// Property: requests without a parseable bearer token never reach the handler
func TestProperty_MalformedAuthorizationHeadersAreRejected(t *testing.T) {
	logger := zap.NewNop()
	middleware := AuthMiddleware(testSecret, logger)

	properties := gopter.NewProperties(nil)

	properties.Property("arbitrary header values yield 401", prop.ForAll(
		func(header string) bool {
			handlerCalled := false
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			}))

			req := httptest.NewRequest("GET", "/api/orders", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if handlerCalled {
				t.Logf("FAIL: handler reached with header %q", header)
				return false
			}
			if rec.Code != http.StatusUnauthorized {
				t.Logf("FAIL: expected 401 for header %q, got %d", header, rec.Code)
				return false
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a well-signed token carrying any non-empty role subset passes
// through, and the handler observes exactly those roles in the context
func TestProperty_ValidTokensResolveRolesIntoContext(t *testing.T) {
	logger := zap.NewNop()
	middleware := AuthMiddleware(testSecret, logger)

	allRoles := []string{"ADMIN", "MANAGER", "STAFF"}

	properties := gopter.NewProperties(nil)

	properties.Property("role subsets survive the round trip", prop.ForAll(
		func(mask int) bool {
			roles := []string{}
			for i, r := range allRoles {
				if mask&(1<<i) != 0 {
					roles = append(roles, r)
				}
			}
			if len(roles) == 0 {
				roles = []string{"STAFF"}
			}

			var captured []domain.Role
			handler := middleware(authedHandler(t, &captured))

			token := signToken(t, testSecret, uuid.New().String(), roles, time.Hour)
			req := httptest.NewRequest("GET", "/api/orders", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Logf("FAIL: expected 200, got %d for roles %v", rec.Code, roles)
				return false
			}
			if len(captured) != len(roles) {
				t.Logf("FAIL: expected %d roles in context, got %d", len(roles), len(captured))
				return false
			}
			for i, r := range roles {
				if string(captured[i]) != r {
					t.Logf("FAIL: role %d is %s, want %s", i, captured[i], r)
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	logger := zap.NewNop()
	middleware := AuthMiddleware(testSecret, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	token := signToken(t, testSecret, uuid.New().String(), []string{"ADMIN"}, -time.Minute)
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	logger := zap.NewNop()
	middleware := AuthMiddleware(testSecret, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	token := signToken(t, "other-secret", uuid.New().String(), []string{"ADMIN"}, time.Hour)
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong signing secret, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsTokenWithoutRoles(t *testing.T) {
	logger := zap.NewNop()
	middleware := AuthMiddleware(testSecret, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	token := signToken(t, testSecret, uuid.New().String(), []string{}, time.Hour)
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token without roles, got %d", rec.Code)
	}
}
