package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/repository"
)

// SettingsService holds the shop's contact record
type SettingsService interface {
	Contact() domain.ContactInfo
	UpdateContact(ctx context.Context, info domain.ContactInfo) (domain.ContactInfo, error)
}

type settingsService struct {
	mu      sync.RWMutex
	contact domain.ContactInfo
	repo    repository.SettingsRepository
	logger  *zap.Logger
}

// NewSettingsService loads the contact record, falling back to the defaults
func NewSettingsService(ctx context.Context, repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{
		contact: repo.LoadContact(ctx),
		repo:    repo,
		logger:  logger,
	}
}

func (s *settingsService) Contact() domain.ContactInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.contact
}

// UpdateContact overwrites the whole record
func (s *settingsService) UpdateContact(ctx context.Context, info domain.ContactInfo) (domain.ContactInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveContact(ctx, info); err != nil {
		return domain.ContactInfo{}, fmt.Errorf("failed to persist contact info: %w", err)
	}
	s.contact = info

	s.logger.Info("Contact info updated")
	return info, nil
}
