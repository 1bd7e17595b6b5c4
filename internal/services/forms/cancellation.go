package forms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// CancellationRepository определяет методы хранилища заявок на расторжение.
type CancellationRepository interface {
	CreateCancellation(ctx context.Context, c models.CreateCancellation, terminationDate time.Time) (string, error)
	ListCancellations(ctx context.Context) ([]models.Cancellation, error)
	ArchiveCancellation(ctx context.Context, id string) (int64, error)
}

// CancellationService реализует операции над заявками на расторжение.
type CancellationService struct {
	repo  CancellationRepository
	auth  IdentityResolver
	cache Cache
	log   *slog.Logger
}

// NewCancellationService создает новый экземпляр CancellationService.
func NewCancellationService(repo CancellationRepository, auth IdentityResolver, cache Cache, log *slog.Logger) *CancellationService {
	return &CancellationService{
		repo:  repo,
		auth:  auth,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет заявку и возвращает её ID. Авторизация не требуется.
func (s *CancellationService) Create(ctx context.Context, req models.CreateCancellation) (string, error) {
	const op = "forms.CancellationService.Create"

	terminationDate, err := time.Parse(models.DateLayout, req.TerminationDate)
	if err != nil {
		return "", fmt.Errorf("%s: %w: termination_date: %w", op, ErrInvalidInput, err)
	}

	id, err := s.repo.CreateCancellation(ctx, req, terminationDate)
	if err != nil {
		return "", persistenceErr(op, err)
	}

	bumpGeneration(ctx, s.cache, s.log, kindCancellation)
	return id, nil
}

// List возвращает все заявки, включая архивные. Только для администратора.
func (s *CancellationService) List(ctx context.Context, token string) ([]models.Cancellation, error) {
	const op = "forms.CancellationService.List"

	if _, err := requireAdmin(ctx, s.auth, token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := cachedList(ctx, s.cache, s.log, kindCancellation, s.repo.ListCancellations)
	if err != nil {
		return nil, persistenceErr(op, err)
	}
	return result, nil
}

// Archive помечает заявку архивной. Только для администратора.
// Неизвестный ID возвращает ErrNotFound, повторная архивация не ошибка.
func (s *CancellationService) Archive(ctx context.Context, token, id string) error {
	const op = "forms.CancellationService.Archive"

	if _, err := requireAdmin(ctx, s.auth, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.repo.ArchiveCancellation(ctx, id)
	if err != nil {
		return persistenceErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	bumpGeneration(ctx, s.cache, s.log, kindCancellation)
	return nil
}
