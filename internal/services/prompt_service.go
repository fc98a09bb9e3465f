package services

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/events"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/validator"
)

// promptService implements PromptService over the catalog repository.
type promptService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	publisher events.EventPublisher
}

func NewPromptService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	policy *AccessPolicy,
	publisher events.EventPublisher,
) PromptService {
	return &promptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		policy:    policy,
		publisher: publisher,
	}
}

func (s *promptService) Create(ctx context.Context, req *CreatePromptRequest, actorID string) (*PromptResponse, error) {
	if err := s.policy.CanMutatePrompt(ctx, actorID, "create", 0); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidatePromptCreate(req); len(errs) > 0 {
		return nil, errs
	}

	prompt := &models.Prompt{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Author:      req.Author,
		Category:    req.Category,
		UserID:      &actorID,
	}

	if err := s.repo.Prompt().Create(ctx, nil, prompt); err != nil {
		s.logger.Error("Failed to create prompt", "error", err, "actor_id", actorID)
		return nil, NewStorageError("create prompt", err)
	}

	s.publishPromptEvent(ctx, events.EventPromptCreated, prompt, actorID)

	s.logger.Info("Prompt created", "prompt_id", prompt.ID, "category", prompt.Category, "actor_id", actorID)
	return s.toResponse(prompt, true), nil
}

func (s *promptService) Update(ctx context.Context, id uint, req *UpdatePromptRequest, actorID string) (*PromptResponse, error) {
	if err := s.policy.CanMutatePrompt(ctx, actorID, "update", id); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidatePromptUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	prompt, err := s.repo.Prompt().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPromptNotFound
		}
		return nil, NewStorageError("load prompt", err)
	}

	applyPromptUpdate(prompt, req)

	if err := s.repo.Prompt().Update(ctx, nil, prompt); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPromptNotFound
		}
		s.logger.Error("Failed to update prompt", "error", err, "prompt_id", id)
		return nil, NewStorageError("update prompt", err)
	}

	s.publishPromptEvent(ctx, events.EventPromptUpdated, prompt, actorID)

	return s.toResponse(prompt, true), nil
}

func (s *promptService) Delete(ctx context.Context, id uint, actorID string) error {
	if err := s.policy.CanMutatePrompt(ctx, actorID, "delete", id); err != nil {
		return err
	}

	if err := s.repo.Prompt().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPromptNotFound
		}
		s.logger.Error("Failed to delete prompt", "error", err, "prompt_id", id)
		return NewStorageError("delete prompt", err)
	}

	s.publishPromptEvent(ctx, events.EventPromptDeleted, &models.Prompt{ID: id}, actorID)

	s.logger.Info("Prompt deleted", "prompt_id", id, "actor_id", actorID)
	return nil
}

func (s *promptService) GetByID(ctx context.Context, id uint, actorID string) (*PromptResponse, error) {
	prompt, err := s.repo.Prompt().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPromptNotFound
		}
		return nil, NewStorageError("load prompt", err)
	}

	isAdmin := false
	if actorID != "" {
		role, roleErr := s.policy.EffectiveRole(ctx, actorID)
		if roleErr != nil {
			// A role lookup failure must not take the public read down
			// with it; the caller just sees the anonymous view.
			s.logger.Warn("Failed to resolve role for read", "error", roleErr, "actor_id", actorID)
		} else {
			isAdmin = role == models.RoleAdmin
		}
	}

	return s.toResponse(prompt, isAdmin), nil
}

// List returns the full catalog and then narrows it with FilterPrompts. The
// retrieval itself is unfiltered so the category and text filters stay a
// pure, separately testable function.
func (s *promptService) List(ctx context.Context, query ListPromptsQuery) (*PromptListResponse, error) {
	if query.Category != "" && !models.PromptCategory(query.Category).IsValid() {
		return nil, validator.ValidationErrors{{
			Field:   "category",
			Message: "category must be one of: Coding, Writing, Art, Productivity, Other",
			Value:   query.Category,
			Rule:    "prompt_category",
		}}
	}

	prompts, _, err := s.repo.Prompt().List(ctx, repositories.PromptFilters{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		s.logger.Error("Failed to list prompts", "error", err)
		return nil, NewStorageError("list prompts", err)
	}

	filtered := FilterPrompts(prompts, query.Category, query.Query)

	return &PromptListResponse{
		Prompts: filtered,
		Total:   int64(len(filtered)),
	}, nil
}

func (s *promptService) Like(ctx context.Context, id uint) error {
	if err := s.repo.Prompt().IncrementLikes(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPromptNotFound
		}
		s.logger.Error("Failed to increment likes", "error", err, "prompt_id", id)
		return NewStorageError("increment likes", err)
	}

	s.publishPromptEvent(ctx, events.EventPromptLiked, &models.Prompt{ID: id}, "")
	return nil
}

// FilterPrompts narrows a catalog slice by exact category and case-insensitive
// free-text match over title, description and tags. Pure: no I/O, input order
// preserved, empty filters return the input unchanged.
func FilterPrompts(prompts []*models.Prompt, category, query string) []*models.Prompt {
	if category == "" && query == "" {
		return prompts
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]*models.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if category != "" && string(p.Category) != category {
			continue
		}
		if needle != "" && !promptMatchesQuery(p, needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func promptMatchesQuery(p *models.Prompt, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func applyPromptUpdate(prompt *models.Prompt, req *UpdatePromptRequest) {
	if req.Title != nil {
		prompt.Title = *req.Title
	}
	if req.Description != nil {
		prompt.Description = *req.Description
	}
	if req.Content != nil {
		prompt.Content = *req.Content
	}
	if req.Tags != nil {
		prompt.Tags = req.Tags
	}
	if req.Author != nil {
		prompt.Author = *req.Author
	}
	if req.Category != nil {
		prompt.Category = *req.Category
	}
}

func (s *promptService) toResponse(prompt *models.Prompt, isAdmin bool) *PromptResponse {
	return &PromptResponse{
		Prompt:    prompt,
		CanEdit:   isAdmin,
		CanDelete: isAdmin,
	}
}

func (s *promptService) publishPromptEvent(ctx context.Context, eventType string, prompt *models.Prompt, actorID string) {
	event := events.NewEvent(eventType, &events.PromptEvent{
		PromptID:  prompt.ID,
		Title:     prompt.Title,
		Category:  string(prompt.Category),
		ActorID:   actorID,
		LikeCount: prompt.LikeCount,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Event delivery is best-effort; the mutation already committed.
		s.logger.Warn("Failed to publish event", "error", err, "event_type", eventType, "prompt_id", prompt.ID)
	}
}
