// internal/services/auction_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pujaya/auction-backend/internal/models"
	"github.com/pujaya/auction-backend/internal/repository"
	"github.com/pujaya/auction-backend/internal/utils"
)

// AuctionService enforces the auction lifecycle rules: creation and update
// constraints, the owner soft-delete path with its has-bids guard, the admin
// toggle override, and early close.
type AuctionService struct {
	auctions      repository.AuctionRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	notifications NotificationDispatcher
}

type CreateAuctionRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=255"`
	Description string     `json:"description" validate:"required"`
	EndDate     time.Time  `json:"end_date" validate:"required"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

type UpdateAuctionRequest struct {
	Name        string     `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description string     `json:"description,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func NewAuctionService(auctions repository.AuctionRepository, products repository.ProductRepository, users repository.UserRepository, notifications NotificationDispatcher) *AuctionService {
	return &AuctionService{
		auctions:      auctions,
		products:      products,
		users:         users,
		notifications: notifications,
	}
}

// Create persists a new auction owned by the caller. The end date must be
// strictly in the future. When a product id is supplied the product must
// exist and must not already belong to another auction.
func (s *AuctionService) Create(ctx context.Context, ownerID uuid.UUID, req *CreateAuctionRequest) (*models.Auction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if !req.EndDate.After(time.Now()) {
		return nil, ErrEndDateInPast
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	auction := &models.Auction{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
		OwnerID:     owner.ID,
		IsActive:    true,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	var startingPrice int64
	if req.ProductID != nil {
		product, err := s.products.FindByID(ctx, *req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		// A product belongs to at most one auction.
		if _, err := s.products.FindAuctionFor(ctx, product.ID); err == nil {
			return nil, ErrProductAlreadyAssigned
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		auction.ProductID = &product.ID
		startingPrice = product.InitialPrice
	}

	if err := s.auctions.Create(ctx, auction); err != nil {
		return nil, err
	}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifications.AuctionCreated(notifyCtx, owner.Email, owner.Name, auction.Name, startingPrice, auction.EndDate); err != nil {
			logrus.WithError(err).WithField("auction_id", auction.ID).Error("Failed to send auction created notification")
		}
	}()

	return s.auctions.FindByID(ctx, auction.ID)
}

func (s *AuctionService) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	auction, err := s.auctions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func (s *AuctionService) Search(ctx context.Context, params repository.AuctionSearchParams) ([]models.Auction, int64, error) {
	return s.auctions.Search(ctx, params)
}

func (s *AuctionService) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]models.Auction, error) {
	return s.auctions.FindByUserAndStatus(ctx, userID, status)
}

// Update applies owner edits. Name and description may change while the
// auction is active and unfinished, even with bids; moving the end date
// additionally requires that no bid has been placed.
func (s *AuctionService) Update(ctx context.Context, auctionID, callerID uuid.UUID, req *UpdateAuctionRequest) (*models.Auction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	auction, err := s.Get(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if auction.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if auction.IsFinished(now) {
		return nil, ErrAuctionFinished
	}
	if !auction.IsActive {
		return nil, ErrAuctionInactive
	}

	if req.EndDate != nil {
		if auction.HasBids() {
			return nil, ErrHasActiveBids
		}
		if !req.EndDate.After(now) {
			return nil, ErrEndDateInPast
		}
		auction.EndDate = *req.EndDate
	}
	if req.Name != "" {
		auction.Name = req.Name
	}
	if req.Description != "" {
		auction.Description = req.Description
	}

	if err := s.auctions.Save(ctx, auction); err != nil {
		return nil, err
	}

	s.notifyOwnerAsync(auction, "updated")

	return s.auctions.FindByID(ctx, auctionID)
}

// AddProduct attaches a product to a product-less auction. The auction must
// still be modifiable: active, unfinished, and without bids.
func (s *AuctionService) AddProduct(ctx context.Context, auctionID, productID, callerID uuid.UUID) (*models.Auction, error) {
	auction, err := s.Get(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if auction.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if auction.IsFinished(now) {
		return nil, ErrAuctionFinished
	}
	if !auction.IsActive {
		return nil, ErrAuctionInactive
	}
	if auction.HasBids() {
		return nil, ErrHasActiveBids
	}
	if auction.ProductID != nil {
		return nil, ErrProductAlreadyAssigned
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.products.FindAuctionFor(ctx, product.ID); err == nil {
		return nil, ErrProductAlreadyAssigned
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	auction.ProductID = &product.ID
	if err := s.auctions.Save(ctx, auction); err != nil {
		return nil, err
	}

	return s.auctions.FindByID(ctx, auctionID)
}

// Remove is the owner-initiated soft delete. Auctions with bids cannot be
// removed this way; only time expiry or the admin override closes those. The
// auction and its product (if any) are deactivated and the product reference
// is unlinked so the purge sweep can collect both after the grace window.
func (s *AuctionService) Remove(ctx context.Context, auctionID, callerID uuid.UUID) error {
	auction, err := s.Get(ctx, auctionID)
	if err != nil {
		return err
	}

	now := time.Now()
	if auction.OwnerID != callerID {
		return ErrForbidden
	}
	if auction.IsFinished(now) {
		return ErrAuctionFinished
	}
	if auction.HasBids() {
		return ErrHasActiveBids
	}

	auction.Deactivate(now)

	if auction.Product != nil {
		auction.Product.Deactivate(now)
		if err := s.products.Save(ctx, auction.Product); err != nil {
			return err
		}
	}

	if err := s.auctions.Save(ctx, auction); err != nil {
		return err
	}

	// The product row is kept; only the reference is cleared.
	if auction.ProductID != nil {
		if err := s.auctions.UnlinkProduct(ctx, auction.ID); err != nil {
			return err
		}
	}

	s.notifyOwnerAsync(auction, "deleted")

	return nil
}

// RemoveForAdmin toggles the active flag unconditionally, bypassing owner
// and bid checks. Reactivation clears deactivatedAt together with the flip.
func (s *AuctionService) RemoveForAdmin(ctx context.Context, auctionID uuid.UUID) error {
	auction, err := s.Get(ctx, auctionID)
	if err != nil {
		return err
	}

	if auction.IsActive {
		auction.Deactivate(time.Now())
	} else {
		auction.Reactivate()
	}

	return s.auctions.Save(ctx, auction)
}

// EndAuction closes an auction early at the owner's request: the end date is
// pulled to now and the auction deactivated. Product and bids are untouched.
func (s *AuctionService) EndAuction(ctx context.Context, auctionID, callerID uuid.UUID) error {
	auction, err := s.Get(ctx, auctionID)
	if err != nil {
		return err
	}

	if auction.OwnerID != callerID {
		return ErrForbidden
	}
	if !auction.IsActive {
		return ErrAuctionFinished
	}

	now := time.Now()
	auction.EndDate = now
	auction.Deactivate(now)

	if err := s.auctions.Save(ctx, auction); err != nil {
		return err
	}

	s.notifyOwnerAsync(auction, "updated")

	return nil
}

func (s *AuctionService) notifyOwnerAsync(auction *models.Auction, kind string) {
	email, name := auction.Owner.Email, auction.Owner.Name
	if email == "" {
		return
	}
	title := auction.Name

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		switch kind {
		case "deleted":
			err = s.notifications.AuctionDeleted(notifyCtx, email, name, title)
		default:
			err = s.notifications.AuctionUpdated(notifyCtx, email, name, title)
		}
		if err != nil {
			logrus.WithError(err).WithField("auction", title).Error("Failed to send auction notification")
		}
	}()
}
