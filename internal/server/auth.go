package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "tictactoe"
	tokenAudience = "spectator"
)

// ErrInvalidToken is returned for a missing, expired or forged token.
var ErrInvalidToken = errors.New("invalid spectator token")

// TokenIssuer signs and checks HS256 spectator tokens scoped to one match
// session.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. An empty secret is replaced by a random
// one, so tokens are only valid for this process.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate spectator secret: %w", err)
		}
		key = []byte(hex.EncodeToString(buf))
	}
	return &TokenIssuer{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a token for subject.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign spectator token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature, issuer, audience and expiry of tokenString
// and returns its subject.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// RequireToken accepts a token from the Authorization header or the token
// query parameter, which browsers need for websockets.
func (i *TokenIssuer) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			AbortWithError(c, http.StatusUnauthorized, "missing spectator token")
			return
		}

		subject, err := i.Verify(tokenString)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set("spectator", subject)
		c.Next()
	}
}
