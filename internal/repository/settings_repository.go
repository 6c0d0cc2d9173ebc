package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/store"
)

// SettingsRepository persists the contact record and the admin password
type SettingsRepository interface {
	LoadContact(ctx context.Context) domain.ContactInfo
	SaveContact(ctx context.Context, info domain.ContactInfo) error

	// LoadAdminPassword returns the stored password value (a bcrypt hash, or
	// a legacy plain string) and whether one was stored at all
	LoadAdminPassword(ctx context.Context) (string, bool)
	SaveAdminPassword(ctx context.Context, value string) error
}

type settingsRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewSettingsRepository creates a new instance of SettingsRepository
func NewSettingsRepository(kv store.KV, logger *zap.Logger) SettingsRepository {
	return &settingsRepository{kv: kv, logger: logger}
}

func (r *settingsRepository) LoadContact(ctx context.Context) domain.ContactInfo {
	return store.Load(ctx, r.kv, store.KeyContactInfo, domain.DefaultContactInfo(), r.logger)
}

func (r *settingsRepository) SaveContact(ctx context.Context, info domain.ContactInfo) error {
	if err := store.Save(ctx, r.kv, store.KeyContactInfo, info); err != nil {
		return fmt.Errorf("failed to save contact info: %w", err)
	}
	return nil
}

func (r *settingsRepository) LoadAdminPassword(ctx context.Context) (string, bool) {
	value, err := store.Get[string](ctx, r.kv, store.KeyAdminPassword)
	switch {
	case err == nil:
	case store.IsKind(err, store.KindParseFailure):
		// Older shops stored the password unquoted
		raw, rerr := r.kv.Get(ctx, store.KeyAdminPassword)
		if rerr != nil {
			return "", false
		}
		value = strings.TrimSpace(string(raw))
	case store.IsKind(err, store.KindNotFound):
		return "", false
	default:
		r.logger.Warn("Failed to load admin password", zap.Error(err))
		return "", false
	}
	return value, value != ""
}

func (r *settingsRepository) SaveAdminPassword(ctx context.Context, value string) error {
	if err := store.Save(ctx, r.kv, store.KeyAdminPassword, value); err != nil {
		return fmt.Errorf("failed to save admin password: %w", err)
	}
	return nil
}
