// Package server is the HTTP surface. Handlers bind requests, delegate
// to the feature services and translate errors through mapError; no
// business rules live here.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vestrapos/vestra/internal/auth"
	authdomain "github.com/vestrapos/vestra/internal/auth/domain"
	"github.com/vestrapos/vestra/internal/businesstype"
	btdomain "github.com/vestrapos/vestra/internal/businesstype/domain"
	"github.com/vestrapos/vestra/internal/cache"
	"github.com/vestrapos/vestra/internal/commission"
	commissiondomain "github.com/vestrapos/vestra/internal/commission/domain"
	"github.com/vestrapos/vestra/internal/config"
	"github.com/vestrapos/vestra/internal/customer"
	customerdomain "github.com/vestrapos/vestra/internal/customer/domain"
	"github.com/vestrapos/vestra/internal/employee"
	employeedomain "github.com/vestrapos/vestra/internal/employee/domain"
	"github.com/vestrapos/vestra/internal/inventory"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/logger"
	"github.com/vestrapos/vestra/internal/metrics"
	"github.com/vestrapos/vestra/internal/migration"
	"github.com/vestrapos/vestra/internal/plan"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/internal/plan/gate"
	"github.com/vestrapos/vestra/internal/pos"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/internal/providers/pdf"
	"github.com/vestrapos/vestra/internal/purchase"
	purchasedomain "github.com/vestrapos/vestra/internal/purchase/domain"
	"github.com/vestrapos/vestra/internal/referral"
	referraldomain "github.com/vestrapos/vestra/internal/referral/domain"
	"github.com/vestrapos/vestra/internal/settings"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/internal/tenant"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/internal/whatsapp"
	"github.com/vestrapos/vestra/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module assembles the whole application.
var Module = fx.Module("server",
	config.Module,
	logger.Module,
	db.Module,
	migration.Module,
	cache.Module,
	metrics.Module,
	gate.Module,
	pdf.Module,

	plan.Module,
	tenant.Module,
	referral.Module,
	businesstype.Module,
	settings.Module,
	auth.Module,
	inventory.Module,
	customer.Module,
	employee.Module,
	pos.Module,
	commission.Module,
	purchase.Module,
	whatsapp.Module,

	fx.Provide(newSnowflakeNode),
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(0)
}

type ServerParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Engine  *gin.Engine
	Metrics *metrics.HTTPMetrics

	Gate        *gate.Gate
	PDF         *pdf.Provider
	PlanSvc     plandomain.Service
	TenantSvc   tenantdomain.Service
	ReferralSvc referraldomain.Service
	BTypeSvc    btdomain.Service
	SettingsSvc settingsdomain.Service
	AuthSvc     authdomain.Service
	ProductSvc  invdomain.Service
	CustomerSvc customerdomain.Service
	EmployeeSvc employeedomain.Service
	PosSvc      posdomain.Service
	CommSvc     commissiondomain.Service
	PurchSvc    purchasedomain.Service
	WaSvc       whatsapp.Service
}

type Server struct {
	cfg config.Config
	log *zap.Logger

	gate        *gate.Gate
	pdf         *pdf.Provider
	plansvc     plandomain.Service
	tenantsvc   tenantdomain.Service
	referralsvc referraldomain.Service
	btypesvc    btdomain.Service
	settingssvc settingsdomain.Service
	authsvc     authdomain.Service
	productsvc  invdomain.Service
	customersvc customerdomain.Service
	employeesvc employeedomain.Service
	possvc      posdomain.Service
	commsvc     commissiondomain.Service
	purchsvc    purchasedomain.Service
	wasvc       whatsapp.Service
}

func registerGin(cfg config.Config, m *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(cfg))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		gate:        p.Gate,
		pdf:         p.PDF,
		plansvc:     p.PlanSvc,
		tenantsvc:   p.TenantSvc,
		referralsvc: p.ReferralSvc,
		btypesvc:    p.BTypeSvc,
		settingssvc: p.SettingsSvc,
		authsvc:     p.AuthSvc,
		productsvc:  p.ProductSvc,
		customersvc: p.CustomerSvc,
		employeesvc: p.EmployeeSvc,
		possvc:      p.PosSvc,
		commsvc:     p.CommSvc,
		purchsvc:    p.PurchSvc,
		wasvc:       p.WaSvc,
	}

	s.registerRoutes(p.Engine)
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	// Public receipt links shared over WhatsApp. Token-addressed, no auth.
	r.GET("/r/:token", s.getPublicReceipt)
	r.GET("/r/:token/pdf", s.getPublicReceiptPDF)

	api := r.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("")
	authed.Use(s.AuthRequired())

	authed.GET("/auth/me", s.me)

	s.registerAdminRoutes(authed)
	s.registerTenantRoutes(authed)
}

// registerAdminRoutes wires the super-admin control plane.
func (s *Server) registerAdminRoutes(g *gin.RouterGroup) {
	admin := g.Group("")
	admin.Use(RequireRole())

	admin.POST("/plans", s.createPlan)
	admin.GET("/plans/:id", s.getPlan)
	admin.PUT("/plans/:id", s.updatePlan)
	admin.DELETE("/plans/:id", s.deletePlan)

	admin.POST("/tenants", s.createTenant)
	admin.GET("/tenants", s.listTenants)
	admin.GET("/tenants/:id", s.getTenant)
	admin.PUT("/tenants/:id", s.updateTenant)
	admin.PATCH("/tenants/:id/status", s.updateTenantStatus)
	admin.DELETE("/tenants/:id", s.deleteTenant)

	admin.POST("/referrals", s.createReferral)
	admin.GET("/referrals", s.listReferrals)
	admin.PATCH("/referrals/:id/status", s.updateReferralStatus)
	admin.DELETE("/referrals/:id", s.deleteReferral)
	admin.POST("/referral-codes", s.createReferralCode)

	admin.POST("/business-types", s.createBusinessType)
	admin.PUT("/business-types/:id", s.updateBusinessType)
	admin.DELETE("/business-types/:id", s.deleteBusinessType)
	admin.POST("/init-business-types", s.initBusinessTypes)

	// Plan listing and business-type listing are shared with tenant
	// signup flows, so they sit outside the admin group.
	g.GET("/plans", s.listPlans)
	g.GET("/business-types", s.listBusinessTypes)
	g.GET("/business-types/:id", s.getBusinessType)
	g.GET("/referral-codes/:code", s.validateReferralCode)

	users := g.Group("/users")
	users.Use(RequireRole(authdomain.RoleOwner))
	users.POST("", s.createUser)
	users.GET("", s.listUsers)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)
}

// registerTenantRoutes wires the per-tenant back office. Everything here
// requires a tenant scope; POS endpoints are open to cashiers while
// management endpoints need owner or manager.
func (s *Server) registerTenantRoutes(g *gin.RouterGroup) {
	t := g.Group("")
	t.Use(RequireTenant())

	mgmt := t.Group("")
	mgmt.Use(RequireRole(authdomain.RoleOwner, authdomain.RoleManager))

	t.GET("/settings", s.getSettings)
	mgmt.PUT("/settings", s.updateSettings)
	mgmt.POST("/settings/delete-password", s.setDeletePassword)
	t.GET("/plan-limits", s.getPlanLimits)

	t.GET("/tenant-fields", s.getTenantFields)
	mgmt.PUT("/tenant-fields", s.setTenantFields)
	t.GET("/tenant-features", s.getTenantFeatures)
	mgmt.PUT("/tenant-features", s.setTenantFeatures)
	t.GET("/dropdown-data", s.getDropdownData)

	t.GET("/products", s.listProducts)
	t.GET("/products/:id", s.getProduct)
	t.GET("/products/barcode/:code", s.getProductByBarcode)
	mgmt.POST("/products", s.createProduct)
	mgmt.PUT("/products/:id", s.updateProduct)
	mgmt.DELETE("/products/:id", s.deleteProduct)
	mgmt.GET("/products/export", s.exportProducts)
	mgmt.POST("/products/import", s.importProducts)
	mgmt.POST("/products/clear", s.clearProducts)

	t.GET("/customers", s.listCustomers)
	t.GET("/customers/:id", s.getCustomer)
	t.POST("/customers", s.createCustomer)
	mgmt.PUT("/customers/:id", s.updateCustomer)
	mgmt.DELETE("/customers/:id", s.deleteCustomer)
	mgmt.GET("/customers/export", s.exportCustomers)
	mgmt.POST("/customers/import", s.importCustomers)
	mgmt.POST("/customers/clear", s.clearCustomers)

	t.GET("/employees", s.listEmployees)
	t.GET("/employees/:id", s.getEmployee)
	mgmt.POST("/employees", s.createEmployee)
	mgmt.PUT("/employees/:id", s.updateEmployee)
	mgmt.DELETE("/employees/:id", s.deleteEmployee)

	t.POST("/sales/checkout", s.checkout)
	t.GET("/sales", s.listSales)
	t.GET("/sales/:id", s.getSale)
	t.GET("/sales/:id/pdf", s.getSalePDF)
	mgmt.POST("/sales/:id/void", s.voidSale)
	mgmt.GET("/sales/export", s.exportSales)
	mgmt.POST("/sales/import", s.importSales)
	mgmt.POST("/sales/clear", s.clearSales)

	t.POST("/held-bills", s.holdBill)
	t.GET("/held-bills", s.listHeldBills)
	t.POST("/held-bills/:id/resume", s.resumeHeldBill)
	t.DELETE("/held-bills/:id", s.discardHeldBill)

	mgmt.GET("/commissions", s.listCommissions)
	mgmt.POST("/commissions/calculate", s.calculateCommissions)
	mgmt.GET("/commissions/export", s.exportCommissions)
	mgmt.POST("/commissions/import", s.importCommissions)
	mgmt.POST("/commissions/bulk-delete", s.bulkDeleteCommissions)
	mgmt.POST("/commissions/clear", s.clearCommissions)

	mgmt.POST("/purchases", s.createPurchase)
	t.GET("/purchases", s.listPurchases)
	t.GET("/purchases/:id", s.getPurchase)
	mgmt.PUT("/purchases/:id", s.updatePurchase)
	mgmt.DELETE("/purchases/:id", s.deletePurchase)

	t.GET("/whatsapp/status", s.whatsappStatus)
	t.POST("/whatsapp/send-bill", s.sendBill)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
