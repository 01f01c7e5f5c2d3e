package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/vestrapos/vestra/internal/auth/domain"
	btdomain "github.com/vestrapos/vestra/internal/businesstype/domain"
	commissiondomain "github.com/vestrapos/vestra/internal/commission/domain"
	customerdomain "github.com/vestrapos/vestra/internal/customer/domain"
	employeedomain "github.com/vestrapos/vestra/internal/employee/domain"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/internal/plan/gate"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	purchasedomain "github.com/vestrapos/vestra/internal/purchase/domain"
	referraldomain "github.com/vestrapos/vestra/internal/referral/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/internal/whatsapp"
	"github.com/vestrapos/vestra/internal/whatsapp/bridge"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Limit   int               `json:"limit,omitempty"`
	Plan    string            `json:"plan,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	// Plan limits carry the structured upgrade-prompt body the dashboard
	// special-cases into the upgrade dialog.
	if le := gate.AsLimitExceeded(err); le != nil {
		return http.StatusForbidden, errorPayload{
			Type:    le.Code,
			Message: "plan limit reached",
			Limit:   le.Limit,
			Plan:    le.Plan,
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, settingsdomain.ErrInvalidDeletePassword):
		return http.StatusForbidden, errorPayload{
			Type:    "invalid_delete_password",
			Message: "delete password does not match",
		}
	case errors.Is(err, settingsdomain.ErrGuardNotConfigured):
		return http.StatusForbidden, errorPayload{
			Type:    "delete_guard_not_configured",
			Message: "set a delete password in settings before destructive operations",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authdomain.ErrUserInactive),
		errors.Is(err, gate.ErrFeatureNotAllowed),
		errors.Is(err, gate.ErrNoActivePlan):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, posdomain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_stock",
			Message: "not enough stock to complete the sale",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUsernameTaken),
		errors.Is(err, tenantdomain.ErrSubdomainTaken),
		errors.Is(err, btdomain.ErrCodeTaken),
		errors.Is(err, invdomain.ErrSKUTaken),
		errors.Is(err, customerdomain.ErrPhoneTaken),
		errors.Is(err, plandomain.ErrPlanInUse),
		errors.Is(err, posdomain.ErrCheckoutInFlight),
		errors.Is(err, posdomain.ErrAlreadyVoided),
		errors.Is(err, purchasedomain.ErrAlreadyCompleted):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, bridge.ErrUnavailable),
		errors.Is(err, bridge.ErrNotReady):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, plandomain.ErrInvalidName),
		errors.Is(err, plandomain.ErrInvalidTier),
		errors.Is(err, plandomain.ErrInvalidID):
		return true
	case errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, tenantdomain.ErrInvalidSubdomain),
		errors.Is(err, tenantdomain.ErrInvalidStatus),
		errors.Is(err, tenantdomain.ErrInvalidID):
		return true
	case errors.Is(err, referraldomain.ErrInvalidReferrer),
		errors.Is(err, referraldomain.ErrInvalidTier),
		errors.Is(err, referraldomain.ErrInvalidStatus),
		errors.Is(err, referraldomain.ErrInvalidID),
		errors.Is(err, referraldomain.ErrInvalidCode):
		return true
	case errors.Is(err, btdomain.ErrInvalidCode),
		errors.Is(err, btdomain.ErrInvalidName),
		errors.Is(err, btdomain.ErrInvalidID):
		return true
	case errors.Is(err, settingsdomain.ErrInvalidStoreName),
		errors.Is(err, settingsdomain.ErrInvalidTaxRate),
		errors.Is(err, settingsdomain.ErrInvalidPassword):
		return true
	case errors.Is(err, authdomain.ErrInvalidUsername),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, authdomain.ErrInvalidRole),
		errors.Is(err, authdomain.ErrInvalidID),
		errors.Is(err, authdomain.ErrInvalidTenant):
		return true
	case errors.Is(err, invdomain.ErrInvalidName),
		errors.Is(err, invdomain.ErrInvalidSKU),
		errors.Is(err, invdomain.ErrInvalidPrice),
		errors.Is(err, invdomain.ErrInvalidStock),
		errors.Is(err, invdomain.ErrInvalidID),
		errors.Is(err, invdomain.ErrEmptyImport):
		return true
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidPhone),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrEmptyImport):
		return true
	case errors.Is(err, employeedomain.ErrInvalidName),
		errors.Is(err, employeedomain.ErrInvalidID),
		errors.Is(err, employeedomain.ErrInvalidCommissionType),
		errors.Is(err, employeedomain.ErrInvalidCommissionRate):
		return true
	case errors.Is(err, posdomain.ErrEmptyCart),
		errors.Is(err, posdomain.ErrInvalidItem),
		errors.Is(err, posdomain.ErrInvalidDiscount),
		errors.Is(err, posdomain.ErrInvalidID),
		errors.Is(err, posdomain.ErrMissingIdemKey),
		errors.Is(err, posdomain.ErrProductMissing),
		errors.Is(err, posdomain.ErrEmptyImport):
		return true
	case errors.Is(err, commissiondomain.ErrInvalidMonth),
		errors.Is(err, commissiondomain.ErrInvalidID),
		errors.Is(err, commissiondomain.ErrEmptyImport):
		return true
	case errors.Is(err, purchasedomain.ErrInvalidSupplier),
		errors.Is(err, purchasedomain.ErrInvalidItem),
		errors.Is(err, purchasedomain.ErrInvalidID),
		errors.Is(err, purchasedomain.ErrInvalidStatus),
		errors.Is(err, purchasedomain.ErrProductMissing):
		return true
	case errors.Is(err, whatsapp.ErrInvalidPhone):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, referraldomain.ErrNotFound),
		errors.Is(err, btdomain.ErrNotFound),
		errors.Is(err, settingsdomain.ErrNotFound),
		errors.Is(err, authdomain.ErrNotFound),
		errors.Is(err, invdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, employeedomain.ErrNotFound),
		errors.Is(err, posdomain.ErrNotFound),
		errors.Is(err, purchasedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_cart":
		return "cart is empty"
	case "missing_idempotency_key":
		return "idempotency key is required"
	default:
		return "invalid value"
	}
}
