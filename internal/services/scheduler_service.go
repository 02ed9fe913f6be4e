// internal/services/scheduler_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pujaya/auction-backend/internal/models"
	"github.com/pujaya/auction-backend/internal/repository"
)

// SchedulerService runs the two reconciliation sweeps. Both are idempotent
// and process candidates one at a time: a failure on one auction is logged
// and the sweep moves on, and each item runs under its own timeout so an
// unreachable notification target cannot stall the rest.
type SchedulerService struct {
	auctions      repository.AuctionRepository
	products      repository.ProductRepository
	notifications NotificationDispatcher

	itemTimeout time.Duration
	now         func() time.Time
}

func NewSchedulerService(auctions repository.AuctionRepository, products repository.ProductRepository, notifications NotificationDispatcher) *SchedulerService {
	return &SchedulerService{
		auctions:      auctions,
		products:      products,
		notifications: notifications,
		itemTimeout:   30 * time.Second,
		now:           time.Now,
	}
}

// RunExpirySweep deactivates every active auction whose end date has passed
// and notifies the owner plus each distinct bidder that the auction ended.
// Returns the number of auctions transitioned.
func (s *SchedulerService) RunExpirySweep(ctx context.Context) (int, error) {
	now := s.now()

	expired, err := s.auctions.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range expired {
		auction := &expired[i]
		if err := s.expireOne(ctx, auction, now); err != nil {
			logrus.WithError(err).WithField("auction_id", auction.ID).Error("Expiry sweep: failed to process auction")
			continue
		}
		processed++
	}

	if processed > 0 {
		logrus.WithField("count", processed).Info("Expiry sweep deactivated expired auctions")
	}

	return processed, nil
}

func (s *SchedulerService) expireOne(ctx context.Context, auction *models.Auction, now time.Time) error {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	auction.Deactivate(now)
	if err := s.auctions.Save(itemCtx, auction); err != nil {
		return err
	}

	// State change is durable; notification failures are reported only.
	if auction.Owner.Email != "" && auction.Owner.Name != "" {
		if err := s.notifications.AuctionEnded(itemCtx, auction.Owner.Email, auction.Owner.Name, auction.Name); err != nil {
			logrus.WithError(err).WithField("auction_id", auction.ID).Warn("Expiry sweep: owner notification failed")
		}
	}

	// Each bidder is notified once, however many bids they placed.
	notified := map[string]bool{}
	for _, bid := range auction.Bids {
		email := bid.Bidder.Email
		if email == "" || bid.Bidder.Name == "" || notified[email] {
			continue
		}
		if err := s.notifications.AuctionEnded(itemCtx, email, bid.Bidder.Name, auction.Name); err != nil {
			logrus.WithError(err).WithField("auction_id", auction.ID).Warn("Expiry sweep: bidder notification failed")
		}
		notified[email] = true
	}

	return nil
}

// RunPurgeSweep hard-deletes auctions that have been inactive for longer than
// the grace period, deleting each auction's product first when the product
// has aged out of the same window. A second run over the same state is a
// no-op. Returns the number of auctions purged.
func (s *SchedulerService) RunPurgeSweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-models.PurgeGracePeriod)

	candidates, err := s.auctions.FindPurgeCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for i := range candidates {
		auction := &candidates[i]
		if err := s.purgeOne(ctx, auction, cutoff); err != nil {
			logrus.WithError(err).WithField("auction_id", auction.ID).Error("Purge sweep: failed to purge auction")
			continue
		}
		purged++
	}

	// Products orphaned by earlier soft deletes age out on the same window.
	oldProducts, err := s.products.FindOldInactive(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("Purge sweep: failed to list inactive products")
		return purged, nil
	}
	for _, product := range oldProducts {
		itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
		if _, err := s.products.FindAuctionFor(itemCtx, product.ID); err == nil {
			// Still referenced; its auction's purge will take it.
			cancel()
			continue
		}
		if err := s.products.DeletePhysical(itemCtx, product.ID); err != nil {
			logrus.WithError(err).WithField("product_id", product.ID).Error("Purge sweep: failed to purge product")
		}
		cancel()
	}

	if purged > 0 {
		logrus.WithField("count", purged).Info("Purge sweep removed old inactive auctions")
	}

	return purged, nil
}

func (s *SchedulerService) purgeOne(ctx context.Context, auction *models.Auction, cutoff time.Time) error {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	if auction.Product != nil &&
		!auction.Product.IsActive &&
		auction.Product.DeactivatedAt != nil &&
		auction.Product.DeactivatedAt.Before(cutoff) {
		if err := s.products.DeletePhysical(itemCtx, auction.Product.ID); err != nil {
			return err
		}
	}

	return s.auctions.Delete(itemCtx, auction.ID)
}
