package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, domain.Identity, bool) {
	t.Helper()
	var (
		identity domain.Identity
		found    bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, found = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/my/listings", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	JWTAuth(testSecret, logger.NewNop())(next).ServeHTTP(rec, req)
	return rec, identity, found
}

func TestJWTAuth_ValidTokenSetsIdentity(t *testing.T) {
	token := signToken(t, &Claims{
		UserID: "user-1",
		Name:   "Ana",
		Email:  "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec, identity, found := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "Ana", identity.Name)
	assert.Equal(t, "ana@example.com", identity.Email)
}

func TestJWTAuth_SubjectFallbackForGoogleTokens(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "google-uid-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec, identity, found := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, "google-uid-42", identity.UserID)
}

func TestJWTAuth_MissingHeaderIsUnauthorized(t *testing.T) {
	rec, _, found := runAuth(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
}

func TestJWTAuth_GarbageTokenIsUnauthorized(t *testing.T) {
	rec, _, found := runAuth(t, "Bearer not.a.token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
}

func TestJWTAuth_ExpiredTokenIsUnauthorized(t *testing.T) {
	token := signToken(t, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	rec, _, _ := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecretIsUnauthorized(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	rec, _, _ := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_TokenWithoutUserIDIsUnauthorized(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec, _, _ := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
