package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"journeycompass/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userEmailKey = "user_email"

// Sessions issues and checks the signed token handed out after OTP sign-in.
// The subject is the normalized email.
type Sessions struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (s Sessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Sessions) Issue(email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return "", errors.New("email is required")
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(s.Secret)
}

// Parse returns the email of a valid token.
func (s Sessions) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	email := utils.NormalizeEmail(claims.Subject)
	if email == "" {
		return "", errors.New("token has no subject")
	}
	return email, nil
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(s Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required", "code": "unauthorized"})
			return
		}
		email, err := s.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, sign in again", "code": "unauthorized"})
			return
		}
		c.Set(userEmailKey, email)
		c.Next()
	}
}

// GetUserEmail returns the signed-in email set by RequireUser.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get(userEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
