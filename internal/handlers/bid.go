// internal/handlers/bid.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pujaya/auction-backend/internal/services"
	"github.com/pujaya/auction-backend/internal/utils"
)

type BidHandler struct {
	bidService *services.BidService
}

type placeBidRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
	}
}

// POST /auctions/:id/bids
func (h *BidHandler) Place(c *gin.Context) {
	bidderID, ok := callerID(c)
	if !ok {
		return
	}

	auctionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	bid, err := h.bidService.PlaceBid(c.Request.Context(), auctionID, bidderID, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, bid)
}

// GET /auctions/:id/bids
func (h *BidHandler) ListByAuction(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	bids, err := h.bidService.ListBidsForAuction(c.Request.Context(), auctionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, bids)
}

// GET /bids/me
func (h *BidHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	onlyActive := c.DefaultQuery("status", "all") == "active"

	summaries, err := h.bidService.ListBidsForUser(c.Request.Context(), userID, onlyActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, summaries)
}
