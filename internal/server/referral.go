package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	referraldomain "github.com/vestrapos/vestra/internal/referral/domain"
)

func (s *Server) createReferral(c *gin.Context) {
	var req referraldomain.CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ReferrerName = strings.TrimSpace(req.ReferrerName)
	req.ReferredName = strings.TrimSpace(req.ReferredName)
	req.PlanTier = strings.TrimSpace(strings.ToLower(req.PlanTier))

	resp, err := s.referralsvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) listReferrals(c *gin.Context) {
	referrals, stats, err := s.referralsvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"referrals": referrals,
		"stats":     stats,
	}})
}

func (s *Server) updateReferralStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referralsvc.UpdateStatus(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		referraldomain.Status(strings.TrimSpace(strings.ToLower(req.Status))))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) deleteReferral(c *gin.Context) {
	if err := s.referralsvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) createReferralCode(c *gin.Context) {
	var req struct {
		ReferrerName  string  `json:"referrer_name"`
		ReferrerEmail string  `json:"referrer_email"`
		DiscountPct   float64 `json:"discount_pct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code, err := s.referralsvc.CreateCode(c.Request.Context(),
		strings.TrimSpace(req.ReferrerName),
		strings.TrimSpace(req.ReferrerEmail),
		req.DiscountPct)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": code})
}

// validateReferralCode backs the signup form's inline code check.
func (s *Server) validateReferralCode(c *gin.Context) {
	code, err := s.referralsvc.ValidateCode(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": code})
}
