package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable возвращается, когда сервис авторизации недоступен:
// соединение не установлено, истёк таймаут или оборвался ответ.
var ErrUnavailable = errors.New("auth service unavailable")

// UpstreamError — ответ сервиса авторизации со статусом >= 300.
// Код и текст ошибки передаются клиенту без изменений.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("auth service responded %d: %s", e.StatusCode, e.Detail)
}

// errorDetail достаёт поле detail из JSON-ответа; если его нет или это не строка,
// возвращается тело ответа целиком.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			return detail
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}
