package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "beanery-storefront"

// Config holds the single back-office account and token settings
type Config struct {
	Username     string
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

// Authenticator checks admin credentials and issues signed tokens
type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthenticator creates an authenticator. The secret must not be empty.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.Secret),
		tokenTTL:     ttl,
		now:          time.Now,
	}, nil
}

// HashPassword returns a bcrypt hash suitable for the admin password setting
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the credentials and returns a token with its expiry
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	if len(a.passwordHash) == 0 {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil || !userOK {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	return a.Issue(username)
}

// Issue signs an HS256 token for the subject
func (a *Authenticator) Issue(subject string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Validate parses a token and returns its subject
func (a *Authenticator) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims.Subject, nil
}
