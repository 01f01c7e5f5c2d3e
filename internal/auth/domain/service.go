package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type LoginRequest struct {
	Subdomain string `json:"subdomain"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type CreateUserRequest struct {
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Claims is the decoded JWT payload attached to authenticated requests.
type Claims struct {
	UserID   snowflake.ID
	TenantID *snowflake.ID
	Role     Role
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (Session, error)
	ParseToken(ctx context.Context, token string) (Claims, error)
	Me(ctx context.Context) (User, error)

	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	ListUsers(ctx context.Context, tenantID string) ([]User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrUserInactive       = errors.New("user_inactive")
	ErrNotFound           = errors.New("not_found")
)
