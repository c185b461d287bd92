package types

const (
	TOKEN_ROLE_USER  = "user"
	TOKEN_ROLE_ADMIN = "admin"
)

type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Role      string `json:"role" db:"role"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"`
	Info      string `json:"info" db:"info"`
}

func (t AccessToken) IsAdmin() bool {
	return t.Role == TOKEN_ROLE_ADMIN
}
