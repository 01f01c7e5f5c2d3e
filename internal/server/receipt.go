package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
)

// Public receipt endpoints. The ULID share token is the only credential;
// it is unguessable and scoped to a single sale.

func (s *Server) getPublicReceipt(c *gin.Context) {
	sale, settings, err := s.loadSharedReceipt(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"sale": sale,
		"store": gin.H{
			"name":           settings.StoreName,
			"address":        settings.Address,
			"phone":          settings.Phone,
			"currency":       settings.Currency,
			"receipt_footer": settings.ReceiptFooter,
			"logo_url":       settings.LogoURL,
		},
	}})
}

func (s *Server) getPublicReceiptPDF(c *gin.Context) {
	sale, settings, err := s.loadSharedReceipt(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.writeReceiptPDF(c, settings, sale)
}

// getSalePDF renders the receipt for an authenticated back-office user.
func (s *Server) getSalePDF(c *gin.Context) {
	sale, err := s.possvc.GetSale(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	settings, err := s.settingssvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.writeReceiptPDF(c, settings, sale)
}

// loadSharedReceipt resolves the share token and loads the owning
// tenant's settings. The settings lookup runs under the sale's tenant
// because public requests carry no tenant of their own.
func (s *Server) loadSharedReceipt(c *gin.Context) (posdomain.Sale, settingsdomain.TenantSettings, error) {
	token := strings.TrimSpace(c.Param("token"))
	sale, err := s.possvc.GetSaleByShareToken(c.Request.Context(), token)
	if err != nil {
		return posdomain.Sale{}, settingsdomain.TenantSettings{}, err
	}

	ctx := tenantctx.WithTenantID(c.Request.Context(), sale.TenantID)
	settings, err := s.settingssvc.Get(ctx)
	if err != nil {
		return posdomain.Sale{}, settingsdomain.TenantSettings{}, err
	}
	return sale, settings, nil
}

func (s *Server) writeReceiptPDF(c *gin.Context, settings settingsdomain.TenantSettings, sale posdomain.Sale) {
	doc, err := s.pdf.GenerateReceipt(c.Request.Context(), settings, sale)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+sale.BillNumber+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
