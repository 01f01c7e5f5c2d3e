package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	btdomain "github.com/vestrapos/vestra/internal/businesstype/domain"
)

func (s *Server) createBusinessType(c *gin.Context) {
	var req btdomain.CreateBusinessTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Code = strings.TrimSpace(strings.ToLower(req.Code))
	req.Name = strings.TrimSpace(req.Name)

	resp, err := s.btypesvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) listBusinessTypes(c *gin.Context) {
	resp, err := s.btypesvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) getBusinessType(c *gin.Context) {
	resp, err := s.btypesvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) updateBusinessType(c *gin.Context) {
	var req btdomain.UpdateBusinessTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.btypesvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) deleteBusinessType(c *gin.Context) {
	if err := s.btypesvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// initBusinessTypes seeds the built-in verticals. Safe to call again;
// already-seeded codes are skipped.
func (s *Server) initBusinessTypes(c *gin.Context) {
	created, err := s.btypesvc.InitDefaults(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"created": created}})
}

func (s *Server) getTenantFields(c *gin.Context) {
	fields, err := s.btypesvc.GetTenantFields(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fields})
}

func (s *Server) setTenantFields(c *gin.Context) {
	var req struct {
		Fields []btdomain.CustomField `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.btypesvc.SetTenantFields(c.Request.Context(), req.Fields); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": req.Fields})
}

func (s *Server) getTenantFeatures(c *gin.Context) {
	features, err := s.btypesvc.GetTenantFeatures(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": features})
}

func (s *Server) setTenantFeatures(c *gin.Context) {
	var req struct {
		Features []string `json:"features"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.btypesvc.SetTenantFeatures(c.Request.Context(), req.Features); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": req.Features})
}

func (s *Server) getDropdownData(c *gin.Context) {
	data, err := s.btypesvc.DropdownData(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
