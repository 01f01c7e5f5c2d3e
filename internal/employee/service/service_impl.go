package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/employee/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("employee.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Employee{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Employee{}, domain.ErrInvalidName
	}

	commissionType := domain.CommissionType(strings.ToLower(strings.TrimSpace(req.CommissionType)))
	if commissionType == "" {
		commissionType = domain.CommissionNone
	}
	if !commissionType.Valid() {
		return domain.Employee{}, domain.ErrInvalidCommissionType
	}
	if err := validateRate(commissionType, req.CommissionRate); err != nil {
		return domain.Employee{}, err
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		ID:             s.genID.Generate(),
		TenantID:       tenantID,
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		Position:       strings.TrimSpace(req.Position),
		CommissionType: commissionType,
		CommissionRate: req.CommissionRate,
		MonthlyTarget:  req.MonthlyTarget,
		BaseSalary:     req.BaseSalary,
		Active:         true,
		JoinedAt:       req.JoinedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, s.db, &employee); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Employee, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, s.db, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	employees := make([]domain.Employee, 0, len(items))
	for _, item := range items {
		employees = append(employees, *item)
	}
	return employees, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Employee{}, err
	}
	employeeID, err := s.parseID(id)
	if err != nil {
		return domain.Employee{}, err
	}
	employee, err := s.repo.FindByID(ctx, s.db, tenantID, employeeID)
	if err != nil {
		return domain.Employee{}, err
	}
	if employee == nil {
		return domain.Employee{}, domain.ErrNotFound
	}
	return *employee, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateEmployeeRequest) (domain.Employee, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Employee{}, err
	}
	employeeID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Employee{}, err
	}
	employee, err := s.repo.FindByID(ctx, s.db, tenantID, employeeID)
	if err != nil {
		return domain.Employee{}, err
	}
	if employee == nil {
		return domain.Employee{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Employee{}, domain.ErrInvalidName
		}
		employee.Name = name
	}
	if req.Phone != nil {
		employee.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Position != nil {
		employee.Position = strings.TrimSpace(*req.Position)
	}
	if req.CommissionType != nil {
		commissionType := domain.CommissionType(strings.ToLower(strings.TrimSpace(*req.CommissionType)))
		if !commissionType.Valid() {
			return domain.Employee{}, domain.ErrInvalidCommissionType
		}
		employee.CommissionType = commissionType
	}
	if req.CommissionRate != nil {
		employee.CommissionRate = *req.CommissionRate
	}
	if err := validateRate(employee.CommissionType, employee.CommissionRate); err != nil {
		return domain.Employee{}, err
	}
	if req.MonthlyTarget != nil {
		employee.MonthlyTarget = *req.MonthlyTarget
	}
	if req.BaseSalary != nil {
		employee.BaseSalary = *req.BaseSalary
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}
	employee.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, employee); err != nil {
		return domain.Employee{}, err
	}
	return *employee, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	employeeID, err := s.parseID(id)
	if err != nil {
		return err
	}
	employee, err := s.repo.FindByID(ctx, s.db, tenantID, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, tenantID, employeeID)
}

func validateRate(commissionType domain.CommissionType, rate float64) error {
	switch commissionType {
	case domain.CommissionPercentage:
		if rate < 0 || rate > 100 {
			return domain.ErrInvalidCommissionRate
		}
	case domain.CommissionFixed:
		if rate < 0 {
			return domain.ErrInvalidCommissionRate
		}
	}
	return nil
}

func (s *Service) tenantID(ctx context.Context) (snowflake.ID, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidTenant
	}
	return tenantID, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
