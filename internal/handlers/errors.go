// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pujaya/auction-backend/internal/services"
	"github.com/pujaya/auction-backend/internal/utils"
)

// respondServiceError maps service sentinel errors to HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAuctionNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrSelfBidForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrAuctionInactive),
		errors.Is(err, services.ErrAuctionFinished),
		errors.Is(err, services.ErrHasActiveBids),
		errors.Is(err, services.ErrProductAlreadyAssigned),
		errors.Is(err, services.ErrEmailAlreadyInUse):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrInvalidBidAmount),
		errors.Is(err, services.ErrEndDateInPast):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}
