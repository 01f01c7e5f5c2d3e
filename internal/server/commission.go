package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) listCommissions(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	records, stats, err := s.commsvc.List(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"records": records,
		"stats":   stats,
	}})
}

func (s *Server) calculateCommissions(c *gin.Context) {
	var req struct {
		Month string `json:"month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	records, stats, err := s.commsvc.Calculate(c.Request.Context(), strings.TrimSpace(req.Month))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"records": records,
		"stats":   stats,
	}})
}

func (s *Server) exportCommissions(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	data, err := s.commsvc.ExportCSV(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="commissions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) importCommissions(c *gin.Context) {
	data, err := readImportBody(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.commsvc.ImportCSV(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) bulkDeleteCommissions(c *gin.Context) {
	var req struct {
		IDs            []string `json:"ids"`
		DeletePassword string   `json:"delete_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if !s.verifyGuard(c, req.DeletePassword) {
		return
	}

	removed, err := s.commsvc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": removed}})
}

func (s *Server) clearCommissions(c *gin.Context) {
	var req deleteGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if !s.verifyGuard(c, req.DeletePassword) {
		return
	}

	removed, err := s.commsvc.Clear(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": removed}})
}
