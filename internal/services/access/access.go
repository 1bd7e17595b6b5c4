// Package access решает, может ли пользователь выполнять привилегированные операции.
package access

import (
	"errors"

	"github.com/magabrotheeeer/forms-service/internal/models"
)

// ErrForbidden — пользователь аутентифицирован, но не является администратором.
var ErrForbidden = errors.New("user does not have admin privileges")

// RequireAdmin возвращает пользователя без изменений, если у него есть права администратора.
// Результат не кешируется: права проверяются заново на каждый запрос.
func RequireAdmin(user *models.User) (*models.User, error) {
	if user == nil || !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}
