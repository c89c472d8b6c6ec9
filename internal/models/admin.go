package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser сотрудник службы реагирования
type AdminUser struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	EmailVerified  bool       `json:"email_verified"`
	Role           AdminRole  `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// EmailVerificationCode одноразовый код подтверждения почты, хранится в виде bcrypt-хеша
type EmailVerificationCode struct {
	ID          uuid.UUID  `json:"id"`
	AdminUserID uuid.UUID  `json:"admin_user_id"`
	CodeHash    string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Attempts    int        `json:"attempts"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// Token выданный токен доступа
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
