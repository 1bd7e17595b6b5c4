package forms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// FeedbackRepository определяет методы хранилища отзывов.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f models.CreateFeedback) (string, error)
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	ArchiveFeedback(ctx context.Context, id string) (int64, error)
}

// FeedbackService реализует операции над отзывами.
type FeedbackService struct {
	repo  FeedbackRepository
	auth  IdentityResolver
	cache Cache
	log   *slog.Logger
}

// NewFeedbackService создает новый экземпляр FeedbackService.
func NewFeedbackService(repo FeedbackRepository, auth IdentityResolver, cache Cache, log *slog.Logger) *FeedbackService {
	return &FeedbackService{
		repo:  repo,
		auth:  auth,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет отзыв и возвращает его ID.
func (s *FeedbackService) Create(ctx context.Context, req models.CreateFeedback) (string, error) {
	const op = "forms.FeedbackService.Create"

	id, err := s.repo.CreateFeedback(ctx, req)
	if err != nil {
		return "", persistenceErr(op, err)
	}

	bumpGeneration(ctx, s.cache, s.log, kindFeedback)
	return id, nil
}

// List возвращает все отзывы. Только для администратора.
func (s *FeedbackService) List(ctx context.Context, token string) ([]models.Feedback, error) {
	const op = "forms.FeedbackService.List"

	if _, err := requireAdmin(ctx, s.auth, token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := cachedList(ctx, s.cache, s.log, kindFeedback, s.repo.ListFeedback)
	if err != nil {
		return nil, persistenceErr(op, err)
	}
	return result, nil
}

// Archive помечает отзыв архивным.
func (s *FeedbackService) Archive(ctx context.Context, token, id string) error {
	const op = "forms.FeedbackService.Archive"

	if _, err := requireAdmin(ctx, s.auth, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.repo.ArchiveFeedback(ctx, id)
	if err != nil {
		return persistenceErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	bumpGeneration(ctx, s.cache, s.log, kindFeedback)
	return nil
}
