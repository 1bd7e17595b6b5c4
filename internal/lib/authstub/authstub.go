// Package authstub поднимает тестовый сервис авторизации с тем же HTTP-контрактом,
// что и настоящий: POST /token (form) и GET /user/me (Bearer).
// Пароли хранятся как bcrypt-хэши, токены доступа — подписанные HS256 JWT.
package authstub

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

const (
	// TokenPath и UserPath — пути, на которых отвечает заглушка.
	TokenPath = "/token"
	UserPath  = "/user/me"
)

var signingKey = []byte("authstub-signing-key")

// claims — содержимое токенов заглушки.
type claims struct {
	Kind string `json:"kind"` // access или refresh
	jwt.RegisteredClaims
}

type account struct {
	user         models.User
	passwordHash []byte
}

// Server — тестовый сервис авторизации.
type Server struct {
	srv *httptest.Server

	mu       sync.RWMutex
	accounts map[string]account // ключ — username

	tokenCalls atomic.Int64
	userCalls  atomic.Int64
}

// New запускает заглушку. Вызывающий обязан вызвать Close.
func New() *Server {
	s := &Server{accounts: make(map[string]account)}

	mux := http.NewServeMux()
	mux.HandleFunc(TokenPath, s.handleToken)
	mux.HandleFunc(UserPath, s.handleUser)
	s.srv = httptest.NewServer(mux)
	return s
}

// Close останавливает сервер.
func (s *Server) Close() {
	s.srv.Close()
}

// Host возвращает адрес сервера со схемой, например http://127.0.0.1.
func (s *Server) Host() string {
	u, _ := url.Parse(s.srv.URL)
	host, _, _ := net.SplitHostPort(u.Host)
	return u.Scheme + "://" + host
}

// Port возвращает порт сервера.
func (s *Server) Port() string {
	u, _ := url.Parse(s.srv.URL)
	_, port, _ := net.SplitHostPort(u.Host)
	return port
}

// AddUser регистрирует пользователя с паролем.
func (s *Server) AddUser(user models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("authstub.AddUser: %w", err)
	}
	s.mu.Lock()
	s.accounts[user.Username] = account{user: user, passwordHash: hash}
	s.mu.Unlock()
	return nil
}

// IssueToken выдаёт токен доступа пользователю без проверки пароля.
func (s *Server) IssueToken(username string) (string, error) {
	return sign(username, "access", 15*time.Minute)
}

// TokenCalls возвращает число обращений к /token.
func (s *Server) TokenCalls() int64 {
	return s.tokenCalls.Load()
}

// UserCalls возвращает число обращений к /user/me.
func (s *Server) UserCalls() int64 {
	return s.userCalls.Load()
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.tokenCalls.Add(1)
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	acc, ok := s.lookup(username)
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	access, err := sign(acc.user.Username, "access", 15*time.Minute)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not sign token")
		return
	}
	resp := models.Token{AccessToken: access, TokenType: "bearer"}
	if r.URL.Query().Get("stay_logged_in") == "true" {
		refresh, err := sign(acc.user.Username, "refresh", 24*time.Hour)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "could not sign token")
			return
		}
		resp.RefreshToken = &refresh
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	s.userCalls.Add(1)
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || parsed.Kind != "access" {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	acc, ok := s.lookup(parsed.Subject)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) lookup(username string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[username]
	return acc, ok
}

func sign(subject, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(signingKey)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
