package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// notFoundErrors are reported as 404. Service-level sentinels come first so
// the client sees "club not found" rather than the generic store error.
var notFoundErrors = []error{
	core.ErrClubNotFound,
	core.ErrMemberNotFound,
	core.ErrPaymentNotFound,
	core.ErrEventNotFound,
	core.ErrUserNotFound,
	db.ErrNotFound,
}

// conflictErrors are reported as 409.
var conflictErrors = []error{
	db.ErrSlugTaken,
	db.ErrAlreadyExists,
	auth.ErrEmailAlreadyRegistered,
}

func firstMatch(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

// errorStatus maps an error from the service, data or auth layers to a
// status code and the message safe to show the client. Order matters:
// validation is checked first because repositories wrap validation errors
// with their own context, and retryable storage errors are checked last so a
// sentinel wrapped around one still wins.
func errorStatus(err error) (int, ErrorResponse) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: models.ErrValidation.Error(), Details: verr.Error()}
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: models.ErrValidation.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		return http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case firstMatch(err, notFoundErrors) != nil:
		return http.StatusNotFound, ErrorResponse{Error: firstMatch(err, notFoundErrors).Error()}
	case firstMatch(err, conflictErrors) != nil:
		return http.StatusConflict, ErrorResponse{Error: firstMatch(err, conflictErrors).Error()}
	case errors.Is(err, db.ErrBatchTooLarge):
		// 413: the batch cannot be committed atomically in one transaction.
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: db.ErrBatchTooLarge.Error(), Details: err.Error()}
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUserNotFound):
		// Unknown email and wrong password are indistinguishable to the client.
		return http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidCredentials.Error()}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidToken.Error()}
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, ErrorResponse{Error: auth.ErrWeakPassword.Error()}
	case errors.Is(err, auth.ErrPopupClosedByUser):
		return http.StatusBadRequest, ErrorResponse{Error: auth.ErrPopupClosedByUser.Error()}
	case errors.Is(err, auth.ErrIdentity):
		// Any other provider failure is the upstream's fault, not the client's.
		return http.StatusBadGateway, ErrorResponse{Error: auth.ErrProviderError.Error()}
	case db.IsRetryable(err):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "The service is temporarily unavailable, please retry."}
	default:
		// The original error is attached with c.Error by respondError and
		// logged by RequestLogger; the client only gets a generic message.
		return http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
}

// respondError writes the mapped error and records the original on the gin
// context for the request logger.
func respondError(c *gin.Context, err error) {
	status, body := errorStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
