package forms

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/forms-service/internal/authclient"
	"github.com/magabrotheeeer/forms-service/internal/cache"
	"github.com/magabrotheeeer/forms-service/internal/lib/authstub"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/models"
	"github.com/magabrotheeeer/forms-service/internal/services/access"
)

func TestFeedbackService_Create(t *testing.T) {
	req := models.CreateFeedback{Text: "hello"}

	t.Run("success", func(t *testing.T) {
		repo := new(FeedbackRepoMock)
		repo.On("CreateFeedback", mock.Anything, req).Return("id-1", nil).Once()

		svc := NewFeedbackService(repo, new(ResolverMock), cache.Noop{}, sl.Discard())
		id, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)
		repo.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(FeedbackRepoMock)
		repo.On("CreateFeedback", mock.Anything, req).Return("", errors.New("value too long")).Once()

		svc := NewFeedbackService(repo, new(ResolverMock), cache.Noop{}, sl.Discard())
		id, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, id)
	})
}

func TestFeedbackService_ListAndArchive(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		authErr    error
		wantErr    error
		wantRepoOp bool
	}{
		{name: "admin", user: admin, wantRepoOp: true},
		{name: "non admin", user: regular, wantErr: access.ErrForbidden},
		{name: "upstream unavailable", authErr: authclient.ErrUnavailable, wantErr: authclient.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(ResolverMock)
			repo := new(FeedbackRepoMock)
			if tt.authErr != nil {
				auth.On("User", mock.Anything, "tok").Return(nil, tt.authErr)
			} else {
				auth.On("User", mock.Anything, "tok").Return(tt.user, nil)
			}
			if tt.wantRepoOp {
				repo.On("ListFeedback", mock.Anything).Return([]models.Feedback{{ID: "x", Text: "hi"}}, nil).Once()
				repo.On("ArchiveFeedback", mock.Anything, "x").Return(int64(1), nil).Once()
			}

			svc := NewFeedbackService(repo, auth, cache.Noop{}, sl.Discard())

			list, listErr := svc.List(context.Background(), "tok")
			archiveErr := svc.Archive(context.Background(), "tok", "x")

			if tt.wantErr != nil {
				require.ErrorIs(t, listErr, tt.wantErr)
				require.ErrorIs(t, archiveErr, tt.wantErr)
				repo.AssertNotCalled(t, "ListFeedback", mock.Anything)
				repo.AssertNotCalled(t, "ArchiveFeedback", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, listErr)
			require.NoError(t, archiveErr)
			assert.Len(t, list, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestFeedbackService_ArchiveUnknown(t *testing.T) {
	auth := new(ResolverMock)
	repo := new(FeedbackRepoMock)
	auth.On("User", mock.Anything, "tok").Return(admin, nil).Once()
	repo.On("ArchiveFeedback", mock.Anything, "missing").Return(int64(0), nil).Once()

	svc := NewFeedbackService(repo, auth, cache.Noop{}, sl.Discard())
	err := svc.Archive(context.Background(), "tok", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

// Проверка прав через настоящий клиент и заглушку сервиса авторизации.
func TestFeedbackService_WithAuthService(t *testing.T) {
	stub := authstub.New()
	t.Cleanup(stub.Close)
	require.NoError(t, stub.AddUser(models.User{ID: "1", Username: "root", IsAdmin: true}, "secret"))
	require.NoError(t, stub.AddUser(models.User{ID: "2", Username: "jane"}, "secret"))

	client, err := authclient.New(authclient.Config{Host: stub.Host(), Port: stub.Port()})
	require.NoError(t, err)

	adminToken, err := stub.IssueToken("root")
	require.NoError(t, err)
	userToken, err := stub.IssueToken("jane")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantErr    error
	}{
		{name: "admin", token: adminToken},
		{name: "non admin", token: userToken, wantErr: access.ErrForbidden},
		{name: "garbage token", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(FeedbackRepoMock)
			if tt.wantErr == nil && tt.wantStatus == 0 {
				repo.On("ListFeedback", mock.Anything).Return([]models.Feedback{}, nil).Once()
			}
			svc := NewFeedbackService(repo, client, cache.Noop{}, sl.Discard())

			got, err := svc.List(context.Background(), tt.token)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var upstream *authclient.UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, tt.wantStatus, upstream.StatusCode)
			default:
				require.NoError(t, err)
				assert.NotNil(t, got)
			}
			repo.AssertExpectations(t)
		})
	}
}
