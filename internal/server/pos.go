package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
)

func (s *Server) checkout(c *gin.Context) {
	var req posdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	// The key may also ride the header, which the dashboard's retry
	// wrapper prefers.
	if key := strings.TrimSpace(c.GetHeader("X-Idempotency-Key")); key != "" {
		req.IdempotencyKey = key
	}

	sale, err := s.possvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sale})
}

func (s *Server) listSales(c *gin.Context) {
	var req posdomain.ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sales, page, err := s.possvc.ListSales(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sales, "page_info": page})
}

func (s *Server) getSale(c *gin.Context) {
	sale, err := s.possvc.GetSale(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) voidSale(c *gin.Context) {
	var req deleteGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if !s.verifyGuard(c, req.DeletePassword) {
		return
	}

	sale, err := s.possvc.Void(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) exportSales(c *gin.Context) {
	data, err := s.possvc.ExportCSV(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) importSales(c *gin.Context) {
	data, err := readImportBody(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.possvc.ImportCSV(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) clearSales(c *gin.Context) {
	var req deleteGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if !s.verifyGuard(c, req.DeletePassword) {
		return
	}

	removed, err := s.possvc.Clear(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": removed}})
}

func (s *Server) holdBill(c *gin.Context) {
	var req posdomain.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	held, err := s.possvc.Hold(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": held})
}

func (s *Server) listHeldBills(c *gin.Context) {
	held, err := s.possvc.ListHeld(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": held})
}

// resumeHeldBill hands the snapshot back and removes it from the held
// list in one step, so two terminals cannot resume the same bill.
func (s *Server) resumeHeldBill(c *gin.Context) {
	held, err := s.possvc.Resume(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": held})
}

func (s *Server) discardHeldBill(c *gin.Context) {
	if err := s.possvc.DiscardHeld(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
