package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"transparency-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewVerifier_NoKey(t *testing.T) {
	_, err := NewVerifier(config.AuthConfig{})
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestVerifier_HMAC(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Secret: "s3cret"})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		token, err := IssueHS256("s3cret", "user-1", time.Hour, time.Now())
		require.NoError(t, err)

		sub, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", sub)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := IssueHS256("other", "user-1", time.Hour, time.Now())
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := IssueHS256("s3cret", "user-1", time.Minute, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := IssueHS256("s3cret", "", time.Hour, time.Now())
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestVerifier_RSAPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewVerifier(config.AuthConfig{PublicKey: pemKey, Audience: "transparency"})
	require.NoError(t, err)

	sign := func(claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	sub, err := v.Verify(sign(jwt.RegisteredClaims{
		Subject:   "user-42",
		Audience:  jwt.ClaimStrings{"transparency"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}))
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)

	_, err = v.Verify(sign(jwt.RegisteredClaims{Subject: "user-42", Audience: jwt.ClaimStrings{"elsewhere"}}))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	t.Run("HMAC token is rejected for an RSA key", func(t *testing.T) {
		token, err := IssueHS256("anything", "user-42", time.Hour, time.Now())
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestMiddleware(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Secret: "s3cret"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Middleware(v), func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
	}

	token, err := IssueHS256("s3cret", "user-7", time.Hour, time.Now())
	require.NoError(t, err)
	tests = append(tests, struct {
		name   string
		header string
		status int
		body   string
	}{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "user-7"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}
