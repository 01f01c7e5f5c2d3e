package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vestrapos/vestra/internal/auth/domain"
	"github.com/vestrapos/vestra/internal/config"
	"github.com/vestrapos/vestra/internal/plan/gate"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Gate   *gate.Gate
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	gate     *gate.Gate
	secret   []byte
	tokenTTL time.Duration
}

func New(p Params) (domain.Service, error) {
	if strings.TrimSpace(p.Config.AuthJWTSecret) == "" {
		// No secret means every token we mint is forgeable.
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}
	ttl := time.Duration(p.Config.AuthTokenHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		gate:     p.Gate,
		secret:   []byte(p.Config.AuthJWTSecret),
		tokenTTL: ttl,
	}, nil
}

type tokenClaims struct {
	TenantID string `json:"tid,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	var tenantID *snowflake.ID
	if subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain)); subdomain != "" {
		var tenant tenantdomain.Tenant
		err := s.db.WithContext(ctx).First(&tenant, "subdomain = ?", subdomain).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrInvalidCredentials
		}
		if err != nil {
			return domain.Session{}, err
		}
		if tenant.Status == tenantdomain.StatusSuspended {
			return domain.Session{}, domain.ErrUserInactive
		}
		tenantID = &tenant.ID
	}

	user, err := s.repo.FindByUsername(ctx, s.db, tenantID, username)
	if err != nil {
		return domain.Session{}, err
	}
	if user == nil {
		// Burn a compare anyway so missing users cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(req.Password))
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return domain.Session{}, domain.ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if user.TenantID != nil {
		claims.TenantID = user.TenantID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Session{}, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return domain.Session{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (s *Service) ParseToken(ctx context.Context, token string) (domain.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrInvalidToken
	}
	if !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	out := domain.Claims{UserID: userID, Role: role}
	if claims.TenantID != "" {
		tenantID, err := snowflake.ParseString(claims.TenantID)
		if err != nil {
			return domain.Claims{}, domain.ErrInvalidToken
		}
		out.TenantID = &tenantID
	}
	return out, nil
}

func (s *Service) Me(ctx context.Context) (domain.User, error) {
	userID, ok := tenantctx.UserIDFromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrInvalidToken
	}
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return domain.User{}, domain.ErrInvalidUsername
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		return domain.User{}, domain.ErrInvalidPassword
	}
	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	var tenantID *snowflake.ID
	if role.TenantScoped() {
		raw := strings.TrimSpace(req.TenantID)
		if raw == "" {
			if fromCtx, ok := tenantctx.TenantIDFromContext(ctx); ok {
				tenantID = &fromCtx
			}
		} else {
			parsed, err := snowflake.ParseString(raw)
			if err != nil {
				return domain.User{}, domain.ErrInvalidTenant
			}
			tenantID = &parsed
		}
		if tenantID == nil {
			return domain.User{}, domain.ErrInvalidTenant
		}
		if err := s.gate.CheckUserLimit(tenantctx.WithTenantID(ctx, *tenantID)); err != nil {
			return domain.User{}, err
		}
	}

	existing, err := s.repo.FindByUsername(ctx, s.db, tenantID, username)
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil {
		return domain.User{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	var scope *snowflake.ID
	if raw := strings.TrimSpace(tenantID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidTenant
		}
		scope = &parsed
	} else if fromCtx, ok := tenantctx.TenantIDFromContext(ctx); ok {
		scope = &fromCtx
	}

	items, err := s.repo.ListByTenant(ctx, s.db, scope)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		users = append(users, *item)
	}
	return users, nil
}

func (s *Service) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (domain.User, error) {
	userID, err := s.parseID(req.ID)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Password != nil {
		if len(strings.TrimSpace(*req.Password)) < 6 {
			return domain.User{}, domain.ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		role := domain.Role(strings.ToLower(strings.TrimSpace(*req.Role)))
		if !role.Valid() {
			return domain.User{}, domain.ErrInvalidRole
		}
		user.Role = role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	userID, err := s.parseID(id)
	if err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, userID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
