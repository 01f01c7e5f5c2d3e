package domain

import (
	"context"
	"errors"
	"time"
)

type CreateEmployeeRequest struct {
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Position       string     `json:"position"`
	CommissionType string     `json:"commission_type"`
	CommissionRate float64    `json:"commission_rate"`
	MonthlyTarget  float64    `json:"monthly_target"`
	BaseSalary     float64    `json:"base_salary"`
	JoinedAt       *time.Time `json:"joined_at,omitempty"`
}

type UpdateEmployeeRequest struct {
	ID             string   `json:"id"`
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Position       *string  `json:"position,omitempty"`
	CommissionType *string  `json:"commission_type,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	MonthlyTarget  *float64 `json:"monthly_target,omitempty"`
	BaseSalary     *float64 `json:"base_salary,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	List(ctx context.Context, activeOnly bool) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidTenant         = errors.New("invalid_tenant")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidCommissionType = errors.New("invalid_commission_type")
	ErrInvalidCommissionRate = errors.New("invalid_commission_rate")
	ErrNotFound              = errors.New("not_found")
)
