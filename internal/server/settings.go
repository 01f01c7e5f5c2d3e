package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
)

// deleteGuardRequest carries the delete password for guarded destructive
// endpoints. The password is verified server-side against the stored
// bcrypt hash before any rows are touched.
type deleteGuardRequest struct {
	DeletePassword string `json:"delete_password"`
}

// verifyGuard runs the delete-password check for a destructive handler.
// Returns false after aborting the request when the guard is unset or
// the password does not match.
func (s *Server) verifyGuard(c *gin.Context, password string) bool {
	if err := s.settingssvc.VerifyDeleteGuard(c.Request.Context(), password); err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}

func (s *Server) getSettings(c *gin.Context) {
	resp, err := s.settingssvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) updateSettings(c *gin.Context) {
	var req settingsdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingssvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) setDeletePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.settingssvc.SetDeleteGuard(c.Request.Context(), req.Password); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"configured": true}})
}
