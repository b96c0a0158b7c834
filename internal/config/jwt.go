package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoJWTSecret means bearer auth is not configured and the API is open.
var ErrNoJWTSecret = errors.New("no JWT_SECRET or JWT_SECRET_FILE env variable set")

const issuer = "minesweeper-gym"

// Claims identify the agent or orchestrator driving the environment.
type Claims struct {
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if ok && secret != "" {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("JWT_SECRET_FILE")
	if !ok || secretPath == "" {
		return nil, ErrNoJWTSecret
	}
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

func NewJWT() (*JWT, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	return NewJWTWithSecret(secret), nil
}

func NewJWTWithSecret(secret []byte) *JWT {
	return &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: time.Hour * 24 * 30,
	}
}

// Sign issues a token for subject valid for the configured lifetime.
func (j *JWT) Sign(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
