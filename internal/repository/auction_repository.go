// internal/repository/auction_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pujaya/auction-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// BidAdmitFunc re-validates an auction under the commit lock and, if the bid
// is admissible, returns the bid to persist. Returning an error aborts the
// commit without side effects.
type BidAdmitFunc func(auction *models.Auction) (*models.Bid, error)

// AuctionSearchParams mirrors the browse filters exposed by the HTTP layer.
type AuctionSearchParams struct {
	Limit    int
	Page     int
	Search   string
	Category string
	Sort     string
	SellerID *uuid.UUID
	Lat      *float64
	Lng      *float64
	Radius   float64
}

type AuctionRepository interface {
	Create(ctx context.Context, auction *models.Auction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	Save(ctx context.Context, auction *models.Auction) error
	Search(ctx context.Context, params AuctionSearchParams) ([]models.Auction, int64, error)
	FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]models.Auction, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error)
	FindPurgeCandidates(ctx context.Context, cutoff time.Time) ([]models.Auction, error)
	UnlinkProduct(ctx context.Context, auctionID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CommitBid serializes bid admission per auction: it loads the auction
	// under an exclusive row lock, runs admit, and persists the returned bid
	// together with the recomputed highest-bid cache in the same transaction.
	CommitBid(ctx context.Context, auctionID uuid.UUID, admit BidAdmitFunc) (*models.Bid, error)
}

type auctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	if err := r.db.WithContext(ctx).Create(auction).Error; err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Product").
		Preload("Product.Category").
		Preload("Bids").
		Preload("Bids.Bidder").
		First(&auction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	auction.ComputeCurrentHighestBid()
	return &auction, nil
}

func (r *auctionRepository) Save(ctx context.Context, auction *models.Auction) error {
	if err := r.db.WithContext(ctx).Save(auction).Error; err != nil {
		return fmt.Errorf("failed to save auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) Search(ctx context.Context, params AuctionSearchParams) ([]models.Auction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Auction{}).
		Preload("Owner").
		Preload("Product").
		Preload("Product.Category").
		Preload("Bids").
		Joins("LEFT JOIN products ON products.id = auctions.product_id").
		Where("auctions.is_active = ?", true)

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where(
			"LOWER(auctions.name) LIKE LOWER(?) OR LOWER(auctions.description) LIKE LOWER(?) OR LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?)",
			searchTerm, searchTerm, searchTerm, searchTerm)
	}

	if params.Category != "" {
		query = query.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.category_name) = LOWER(?)", params.Category)
	}

	if params.SellerID != nil {
		query = query.Where("auctions.owner_id = ?", *params.SellerID)
	}

	// Haversine distance filter, 6371 = Earth radius in km
	if params.Lat != nil && params.Lng != nil {
		query = query.Where(`
			auctions.latitude IS NOT NULL AND auctions.longitude IS NOT NULL AND
			6371 * 2 * ASIN(SQRT(
				POWER(SIN((? - auctions.latitude) * PI() / 180 / 2), 2) +
				COS(? * PI() / 180) * COS(auctions.latitude * PI() / 180) *
				POWER(SIN((? - auctions.longitude) * PI() / 180 / 2), 2)
			)) <= ?`,
			*params.Lat, *params.Lat, *params.Lng, params.Radius)
	}

	switch params.Sort {
	case "ending":
		query = query.Order("auctions.end_date ASC")
	case "newest":
		query = query.Order("auctions.created_at DESC")
	case "lowest":
		query = query.Order("products.initial_price ASC")
	case "highest":
		query = query.Order("products.initial_price DESC")
	default:
		query = query.Order("auctions.created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count auctions: %w", err)
	}

	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	query = query.Offset((params.Page - 1) * params.Limit).Limit(params.Limit)

	var auctions []models.Auction
	if err := query.Find(&auctions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch auctions: %w", err)
	}

	for i := range auctions {
		auctions[i].ComputeCurrentHighestBid()
	}

	return auctions, total, nil
}

func (r *auctionRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]models.Auction, error) {
	query := r.db.WithContext(ctx).Model(&models.Auction{}).
		Preload("Owner").
		Preload("Product").
		Preload("Product.Category").
		Preload("Bids")

	now := time.Now()
	switch status {
	case "active":
		// Active auctions where the user has placed at least one bid
		query = query.
			Joins("JOIN bids ON bids.auction_id = auctions.id").
			Where("auctions.is_active = ?", true).
			Where("auctions.end_date > ?", now).
			Where("bids.bidder_id = ?", userID).
			Distinct("auctions.*")
	case "history":
		// Finished auctions where the user placed a bid
		query = query.
			Joins("JOIN bids ON bids.auction_id = auctions.id").
			Where("auctions.end_date <= ?", now).
			Where("bids.bidder_id = ?", userID).
			Distinct("auctions.*")
	case "selling", "":
		query = query.Where("auctions.owner_id = ?", userID)
	default:
		query = query.Where("auctions.owner_id = ?", userID)
	}

	var auctions []models.Auction
	if err := query.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user auctions: %w", err)
	}

	for i := range auctions {
		auctions[i].ComputeCurrentHighestBid()
	}

	return auctions, nil
}

func (r *auctionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Bids").
		Preload("Bids.Bidder").
		Where("is_active = ? AND end_date <= ?", true, now).
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expired auctions: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) FindPurgeCandidates(ctx context.Context, cutoff time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("is_active = ? AND deactivated_at < ?", false, cutoff).
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purge candidates: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) UnlinkProduct(ctx context.Context, auctionID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("id = ?", auctionID).
		Update("product_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to unlink product: %w", err)
	}
	return nil
}

func (r *auctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Auction{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) CommitBid(ctx context.Context, auctionID uuid.UUID, admit BidAdmitFunc) (*models.Bid, error) {
	var committed *models.Bid

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Exclusive row lock serializes concurrent commits on this auction.
		var auction models.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&auction, "id = ?", auctionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Bids and product are reloaded inside the transaction so the highest
		// value the admit check sees reflects every committed bid.
		if err := tx.Where("auction_id = ?", auctionID).Find(&auction.Bids).Error; err != nil {
			return fmt.Errorf("failed to load bids: %w", err)
		}
		if auction.ProductID != nil {
			auction.Product = &models.Product{}
			if err := tx.First(auction.Product, "id = ?", *auction.ProductID).Error; err != nil {
				return fmt.Errorf("failed to load product: %w", err)
			}
		}

		bid, err := admit(&auction)
		if err != nil {
			return err
		}

		if err := tx.Create(bid).Error; err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}

		updates := map[string]interface{}{
			"current_highest_bid":       bid.Amount,
			"current_highest_bidder_id": bid.BidderID,
		}
		if err := tx.Model(&models.Auction{}).Where("id = ?", auctionID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update highest bid: %w", err)
		}

		committed = bid
		return nil
	})
	if err != nil {
		return nil, err
	}

	return committed, nil
}
