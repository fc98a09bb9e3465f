package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/events"
	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/validator"
)

// serviceManager wires the services over a shared repository, validator and
// event publisher and owns their lifecycle.
type serviceManager struct {
	mu sync.RWMutex

	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	policy    *AccessPolicy

	promptService  PromptService
	profileService ProfileService
	exportService  ExportService

	initialized bool
}

func NewServiceManager(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if m.repo == nil {
		return fmt.Errorf("repository is required")
	}
	if m.validator == nil {
		return fmt.Errorf("validator is required")
	}
	if m.publisher == nil {
		return fmt.Errorf("event publisher is required")
	}

	m.policy = NewAccessPolicy(m.repo.Profile(), m.logger)

	m.promptService = NewPromptService(m.repo, m.db, m.logger, m.validator, m.policy, m.publisher)
	m.profileService = NewProfileService(m.repo, m.db, m.logger, m.validator, m.policy, m.publisher)
	m.exportService = NewExportService(m.repo, m.logger, m.policy)

	m.initialized = true
	m.logger.Info("Service manager initialized")
	return nil
}

func (m *serviceManager) Prompt() PromptService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.promptService
}

func (m *serviceManager) Profile() ProfileService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profileService
}

func (m *serviceManager) Export() ExportService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exportService
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	if err := m.publisher.Close(); err != nil {
		m.logger.Warn("Failed to close event publisher", "error", err)
	}

	m.initialized = false
	m.logger.Info("Service manager shut down")
	return nil
}
