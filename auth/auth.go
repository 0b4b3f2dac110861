// Package auth verifies bearer tokens issued by the external identity provider and
// exposes the caller identity to handlers.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"transparency-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const userIDKey = "user_id"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNoKey           = errors.New("no token verification key configured")
)

// Verifier checks bearer tokens and extracts the subject claim
type Verifier struct {
	key      interface{}
	parser   *jwt.Parser
	issuer   string
	audience string
}

// NewVerifier creates a verifier from configuration. A PEM public key (RSA or ECDSA)
// takes precedence over an HMAC secret.
func NewVerifier(cfg config.AuthConfig) (*Verifier, error) {
	v := &Verifier{issuer: cfg.Issuer, audience: cfg.Audience}

	switch {
	case cfg.PublicKey != "":
		pem := []byte(normalizePEM(cfg.PublicKey))
		if key, err := jwt.ParseRSAPublicKeyFromPEM(pem); err == nil {
			v.key = key
			v.parser = jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
		} else if key, ecErr := jwt.ParseECPublicKeyFromPEM(pem); ecErr == nil {
			v.key = key
			v.parser = jwt.NewParser(jwt.WithValidMethods([]string{"ES256", "ES384", "ES512"}))
		} else {
			return nil, fmt.Errorf("failed to parse JWT public key: %w", err)
		}
	case cfg.Secret != "":
		v.key = []byte(cfg.Secret)
		v.parser = jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	default:
		return nil, ErrNoKey
	}

	return v, nil
}

// normalizePEM restores newlines in keys passed through single-line env vars
func normalizePEM(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), `\n`, "\n")
}

// Verify validates a token and returns its subject
func (v *Verifier) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return "", ErrUnauthenticated
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrUnauthenticated)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return "", fmt.Errorf("%w: unexpected audience", ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stores the caller id
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		userID, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// UserID returns the caller id stored by Middleware
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

// IssueHS256 signs a token for subject with an HMAC secret. It exists for local
// development and tests; production tokens come from the identity provider.
func IssueHS256(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
