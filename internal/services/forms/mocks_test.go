package forms

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

type ResolverMock struct{ mock.Mock }

func (m *ResolverMock) User(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CancellationRepoMock struct{ mock.Mock }

func (m *CancellationRepoMock) CreateCancellation(ctx context.Context, c models.CreateCancellation, terminationDate time.Time) (string, error) {
	args := m.Called(ctx, c, terminationDate)
	return args.String(0), args.Error(1)
}
func (m *CancellationRepoMock) ListCancellations(ctx context.Context) ([]models.Cancellation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cancellation), args.Error(1)
}
func (m *CancellationRepoMock) ArchiveCancellation(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type FeedbackRepoMock struct{ mock.Mock }

func (m *FeedbackRepoMock) CreateFeedback(ctx context.Context, f models.CreateFeedback) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}
func (m *FeedbackRepoMock) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}
func (m *FeedbackRepoMock) ArchiveFeedback(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any) error {
	return m.Called(ctx, key, value).Error(0)
}
func (m *CacheMock) Generation(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}
func (m *CacheMock) Bump(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var (
	admin   = &models.User{ID: "1", Username: "root", IsAdmin: true}
	regular = &models.User{ID: "2", Username: "jane"}
)
