package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vestrapos/vestra/internal/whatsapp"
)

func (s *Server) whatsappStatus(c *gin.Context) {
	status, err := s.wasvc.Status(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

func (s *Server) sendBill(c *gin.Context) {
	var req whatsapp.SendBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.SaleID = strings.TrimSpace(req.SaleID)
	req.Phone = strings.TrimSpace(req.Phone)

	result, err := s.wasvc.SendBill(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
