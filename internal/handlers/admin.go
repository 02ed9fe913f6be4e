// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pujaya/auction-backend/internal/services"
	"github.com/pujaya/auction-backend/internal/utils"
)

type AdminHandler struct {
	auctionService   *services.AuctionService
	schedulerService *services.SchedulerService
}

func NewAdminHandler(auctionService *services.AuctionService, schedulerService *services.SchedulerService) *AdminHandler {
	return &AdminHandler{
		auctionService:   auctionService,
		schedulerService: schedulerService,
	}
}

// DELETE /admin/auctions/:id
//
// Toggles the auction's active flag. Unlike the owner path this bypasses
// the bid and ownership checks, so a deactivated auction can be restored.
func (h *AdminHandler) ToggleAuction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	if err := h.auctionService.RemoveForAdmin(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Auction status toggled"})
}

// POST /admin/sweeps/expiry
func (h *AdminHandler) RunExpirySweep(c *gin.Context) {
	count, err := h.schedulerService.RunExpirySweep(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"expired": count})
}

// POST /admin/sweeps/purge
func (h *AdminHandler) RunPurgeSweep(c *gin.Context) {
	count, err := h.schedulerService.RunPurgeSweep(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"purged": count})
}
