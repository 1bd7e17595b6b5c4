package token

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/forms-service/internal/authclient"
	"github.com/magabrotheeeer/forms-service/internal/lib/authstub"
	"github.com/magabrotheeeer/forms-service/internal/lib/sl"
	"github.com/magabrotheeeer/forms-service/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Token(ctx context.Context, usernameOrEmail, password string, stayLoggedIn bool) (*models.Token, error) {
	args := m.Called(ctx, usernameOrEmail, password, stayLoggedIn)
	tok, _ := args.Get(0).(*models.Token)
	return tok, args.Error(1)
}

func newFormRequest(query string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/token"+query, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestTokenHandler(t *testing.T) {
	creds := url.Values{"username": {"jane"}, "password": {"secret"}}
	refresh := "refresh"

	tests := []struct {
		name       string
		query      string
		form       url.Values
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name:  "stay logged in",
			query: "?stay_logged_in=true",
			form:  creds,
			setupMock: func(m *ServiceMock) {
				m.On("Token", mock.Anything, "jane", "secret", true).
					Return(&models.Token{AccessToken: "a", RefreshToken: &refresh, TokenType: "Bearer"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"access_token":"a","refresh_token":"refresh","token_type":"Bearer"}`,
		},
		{
			name: "flag defaults to false",
			form: creds,
			setupMock: func(m *ServiceMock) {
				m.On("Token", mock.Anything, "jane", "secret", false).
					Return(&models.Token{AccessToken: "a", TokenType: "Bearer"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"access_token":"a","token_type":"Bearer"}`,
		},
		{
			name:       "missing password",
			form:       url.Values{"username": {"jane"}},
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field Password is a required field"}`,
		},
		{
			name:       "bad flag",
			query:      "?stay_logged_in=maybe",
			form:       creds,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field stay_logged_in must be a boolean"}`,
		},
		{
			name: "upstream rejection is forwarded",
			form: creds,
			setupMock: func(m *ServiceMock) {
				m.On("Token", mock.Anything, "jane", "secret", false).
					Return(nil, &authclient.UpstreamError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"status":"Error","error":"Incorrect username or password"}`,
		},
		{
			name: "upstream down",
			form: creds,
			setupMock: func(m *ServiceMock) {
				m.On("Token", mock.Anything, "jane", "secret", false).
					Return(nil, errors.Join(authclient.ErrUnavailable, errors.New("dial tcp"))).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"Error","error":"authentication service unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, newFormRequest(tt.query, tt.form))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

// Сценарий с заглушкой сервиса авторизации: refresh-токен выдаётся
// только при stay_logged_in=true.
func TestTokenHandler_WithAuthService(t *testing.T) {
	stub := authstub.New()
	t.Cleanup(stub.Close)
	require.NoError(t, stub.AddUser(models.User{ID: "1", Username: "jane"}, "secret"))

	client, err := authclient.New(authclient.Config{Host: stub.Host(), Port: stub.Port()})
	require.NoError(t, err)
	handler := New(sl.Discard(), client)

	creds := url.Values{"username": {"jane"}, "password": {"secret"}}

	for _, tt := range []struct {
		query       string
		wantRefresh bool
	}{
		{query: "?stay_logged_in=true", wantRefresh: true},
		{query: "?stay_logged_in=false", wantRefresh: false},
	} {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newFormRequest(tt.query, creds))
			require.Equal(t, http.StatusOK, w.Code)

			var tok models.Token
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
			assert.NotEmpty(t, tok.AccessToken)
			assert.Equal(t, "bearer", tok.TokenType)
			assert.Equal(t, tt.wantRefresh, tok.RefreshToken != nil)
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newFormRequest("", url.Values{"username": {"jane"}, "password": {"nope"}}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Incorrect username or password"}`, w.Body.String())
	})
}
