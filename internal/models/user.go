package models

// User описывает пользователя, полученного от внешнего сервиса авторизации по токену.
// Сервис его не хранит: копия живёт только в рамках одного запроса.
type User struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	EmailVerified    bool    `json:"email_verified"`
	IsAdmin          bool    `json:"is_admin"`
	PremiumLevel     int     `json:"premium_level"`
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"` // Внешняя ссылка на биллинг
	Disabled         bool    `json:"disabled"`
}

// DefaultTokenType — тип токена, если сервис авторизации его не вернул.
const DefaultTokenType = "Bearer"

// Token — ответ сервиса авторизации на обмен логина и пароля.
// RefreshToken присутствует только при stay_logged_in=true.
type Token struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	TokenType    string  `json:"token_type"`
}
