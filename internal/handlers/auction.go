// internal/handlers/auction.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pujaya/auction-backend/internal/repository"
	"github.com/pujaya/auction-backend/internal/services"
	"github.com/pujaya/auction-backend/internal/utils"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
}

func NewAuctionHandler(auctionService *services.AuctionService) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
	}
}

// POST /auctions
func (h *AuctionHandler) Create(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	auction, err := h.auctionService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, auction)
}

// GET /auctions
func (h *AuctionHandler) Search(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	params := repository.AuctionSearchParams{
		Limit:    pagination.Limit,
		Page:     pagination.Page,
		Search:   pagination.Search,
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if sellerID := c.Query("seller_id"); sellerID != "" {
		id, err := uuid.Parse(sellerID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid seller id", nil)
			return
		}
		params.SellerID = &id
	}

	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			utils.BadRequestResponse(c, "Invalid coordinates", nil)
			return
		}
		params.Lat = &lat
		params.Lng = &lng
		params.Radius, _ = strconv.ParseFloat(c.DefaultQuery("radius", "50"), 64)
	}

	auctions, total, err := h.auctionService.Search(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(auctions, total, pagination))
}

// GET /auctions/:id
func (h *AuctionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	auction, err := h.auctionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, auction)
}

// GET /auctions/user/:userId
func (h *AuctionHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user id", nil)
		return
	}

	auctions, err := h.auctionService.FindByUserAndStatus(c.Request.Context(), userID, c.DefaultQuery("status", "all"))
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, auctions)
}

// PATCH /auctions/:id
func (h *AuctionHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	var req services.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	auction, err := h.auctionService.Update(c.Request.Context(), id, caller, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, auction)
}

// POST /auctions/:id/product/:productId
func (h *AuctionHandler) AddProduct(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	auction, err := h.auctionService.AddProduct(c.Request.Context(), id, productID, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, auction)
}

// DELETE /auctions/:id
func (h *AuctionHandler) Remove(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	if err := h.auctionService.Remove(c.Request.Context(), id, caller); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Auction removed"})
}

// POST /auctions/:id/end
func (h *AuctionHandler) End(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	if err := h.auctionService.EndAuction(c.Request.Context(), id, caller); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Auction ended"})
}

// callerID extracts the authenticated user's id from the request context.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return userID, true
}
