// Package authclient реализует HTTP-клиент внешнего сервиса авторизации:
// обмен логина и пароля на токен и получение пользователя по токену.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// DefaultTimeout ограничивает каждый вызов сервиса авторизации.
const DefaultTimeout = 10 * time.Second

// Config описывает адрес сервиса авторизации.
type Config struct {
	Host          string
	Port          string
	UserEndpoint  string
	TokenEndpoint string
	Timeout       time.Duration
}

// Client обращается к сервису авторизации по HTTP.
type Client struct {
	tokenURL   string
	userURL    string
	httpClient *http.Client
}

// New создаёт клиента. Хост и порт обязательны: без них адрес сервиса не определён.
func New(cfg Config) (*Client, error) {
	const op = "authclient.New"

	if cfg.Host == "" {
		return nil, fmt.Errorf("%s: auth service host is not set", op)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("%s: auth service port is not set", op)
	}
	if cfg.UserEndpoint == "" {
		cfg.UserEndpoint = "/user/me"
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = "/token"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	host := cfg.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	base := host + ":" + cfg.Port

	return &Client{
		tokenURL:   base + cfg.TokenEndpoint,
		userURL:    base + cfg.UserEndpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Token обменивает логин (или email) и пароль на токен доступа.
// При stayLoggedIn сервис авторизации дополнительно выдаёт refresh-токен.
func (c *Client) Token(ctx context.Context, usernameOrEmail, password string, stayLoggedIn bool) (*models.Token, error) {
	const op = "authclient.Token"

	form := url.Values{
		"username": {usernameOrEmail},
		"password": {password},
	}
	reqURL := c.tokenURL + "?" + url.Values{"stay_logged_in": {strconv.FormatBool(stayLoggedIn)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var token models.Token
	if err := c.do(req, &token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if token.TokenType == "" {
		token.TokenType = models.DefaultTokenType
	}
	return &token, nil
}

// User возвращает пользователя, которому принадлежит токен.
func (c *Client) User(ctx context.Context, token string) (*models.User, error) {
	const op = "authclient.User"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	var user models.User
	if err := c.do(req, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
