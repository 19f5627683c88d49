package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/secretstore"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordSecretKey is the fixed secret store entry holding the bcrypt hash.
const PasswordSecretKey = "period_tracker_password"

type CredentialSettingsRepository interface {
	Set(key string, value string) error
	Delete(key string) error
}

// CredentialService owns the single local password. The hash lives in the
// secret store; app_settings only records that setup happened.
type CredentialService struct {
	secrets    secretstore.Store
	settings   CredentialSettingsRepository
	bcryptCost int
	logger     *zap.Logger
}

func NewCredentialService(secrets secretstore.Store, settings CredentialSettingsRepository, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{
		secrets:    secrets,
		settings:   settings,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.Named("credentials"),
	}
}

// WithBcryptCost overrides the hashing cost. Values outside bcrypt's range
// are ignored.
func (service *CredentialService) WithBcryptCost(cost int) *CredentialService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		service.bcryptCost = cost
	}
	return service
}

func (service *CredentialService) SetupPassword(ctx context.Context, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return validationError("password failed max=72 bytes")
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := service.secrets.Set(ctx, PasswordSecretKey, string(hash)); err != nil {
		service.logger.Error("store password hash failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCredentialUnavailable, err)
	}
	if err := service.settings.Set(models.SettingInitialized, "1"); err != nil {
		service.logger.Error("storage write failed", zap.String("operation", "mark initialized"), zap.Error(err))
		return storageFault("mark initialized", err)
	}

	service.logger.Info("password set up")
	return nil
}

// VerifyPassword reports whether password matches the stored hash. A missing
// hash and an unreachable secret store both read as a mismatch.
func (service *CredentialService) VerifyPassword(ctx context.Context, password string) bool {
	hash, ok := service.loadHash(ctx)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsAppInitialized is true iff a hash is present in the secret store.
func (service *CredentialService) IsAppInitialized(ctx context.Context) bool {
	_, ok := service.loadHash(ctx)
	return ok
}

// ClearCredential removes the hash and the initialized marker. It is only
// reached through a factory reset.
func (service *CredentialService) ClearCredential(ctx context.Context) error {
	if err := service.secrets.Delete(ctx, PasswordSecretKey); err != nil {
		service.logger.Error("delete password hash failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCredentialUnavailable, err)
	}
	if err := service.settings.Delete(models.SettingInitialized); err != nil {
		service.logger.Error("storage write failed", zap.String("operation", "clear initialized"), zap.Error(err))
		return storageFault("clear initialized", err)
	}
	service.logger.Info("password cleared")
	return nil
}

func (service *CredentialService) loadHash(ctx context.Context) (string, bool) {
	hash, err := service.secrets.Get(ctx, PasswordSecretKey)
	if errors.Is(err, secretstore.ErrNotFound) {
		return "", false
	}
	if err != nil {
		service.logger.Warn("load password hash failed", zap.Error(err))
		return "", false
	}
	return hash, hash != ""
}
