// Package session guards access to the tracker behind the local password.
// An unlock yields a short-lived signed token; locking rotates the signing
// key so every token issued before dies at once.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/lunalog/internal/security"
	"go.uber.org/zap"
)

const (
	DefaultUnlockTTL = 15 * time.Minute

	unlockAudience  = "lunalog-unlock"
	signingKeyBytes = 32
	tokenIDLength   = 16
)

var (
	ErrSetupRequired   = errors.New("password setup required")
	ErrInvalidPassword = errors.New("invalid password")
	ErrLocked          = errors.New("session locked")
)

type CredentialVerifier interface {
	IsAppInitialized(ctx context.Context) bool
	VerifyPassword(ctx context.Context, password string) bool
}

type Gate struct {
	mu          sync.Mutex
	credentials CredentialVerifier
	signingKey  []byte
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewGate(credentials CredentialVerifier, ttl time.Duration, logger *zap.Logger) (*Gate, error) {
	if ttl <= 0 {
		ttl = DefaultUnlockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	key, err := security.RandomKey(signingKeyBytes)
	if err != nil {
		return nil, err
	}
	return &Gate{
		credentials: credentials,
		signingKey:  key,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger.Named("session"),
	}, nil
}

// Unlock checks password and returns a token valid for the gate's TTL. An
// unreachable secret store is reported as ErrInvalidPassword.
func (gate *Gate) Unlock(ctx context.Context, password string) (string, error) {
	if !gate.credentials.IsAppInitialized(ctx) {
		return "", ErrSetupRequired
	}
	if !gate.credentials.VerifyPassword(ctx, password) {
		gate.logger.Info("unlock rejected")
		return "", ErrInvalidPassword
	}

	tokenID, err := security.RandomString(tokenIDLength, security.TokenIDAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	gate.mu.Lock()
	defer gate.mu.Unlock()

	now := gate.now()
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Audience:  jwt.ClaimStrings{unlockAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(gate.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(gate.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign unlock token: %w", err)
	}

	gate.logger.Info("unlocked", zap.String("token_id", tokenID), zap.Time("expires_at", claims.ExpiresAt.Time))
	return token, nil
}

// Authorize returns ErrLocked unless rawToken was issued by this gate since
// the last Lock and has not expired.
func (gate *Gate) Authorize(rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return ErrLocked
	}

	gate.mu.Lock()
	key := gate.signingKey
	now := gate.now
	gate.mu.Unlock()

	_, err := jwt.ParseWithClaims(rawToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(unlockAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocked, err)
	}
	return nil
}

// Lock invalidates every outstanding token.
func (gate *Gate) Lock() error {
	key, err := security.RandomKey(signingKeyBytes)
	if err != nil {
		return err
	}

	gate.mu.Lock()
	gate.signingKey = key
	gate.mu.Unlock()

	gate.logger.Info("locked")
	return nil
}
