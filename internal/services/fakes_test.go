// internal/services/fakes_test.go
package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pujaya/auction-backend/internal/models"
	"github.com/pujaya/auction-backend/internal/repository"
)

// In-memory repository fakes. CommitBid serializes on the same mutex the
// stored state lives behind, mirroring the row lock the real implementation
// takes.

type fakeAuctionRepo struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*models.Auction
	deleted  []uuid.UUID
	unlinked []uuid.UUID

	// Optional failure injection, keyed by auction id.
	saveErr   func(uuid.UUID) error
	deleteErr func(uuid.UUID) error
}

func newFakeAuctionRepo() *fakeAuctionRepo {
	return &fakeAuctionRepo{auctions: make(map[uuid.UUID]*models.Auction)}
}

func (r *fakeAuctionRepo) put(a *models.Auction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.auctions[a.ID] = a
}

func copyAuction(a *models.Auction) *models.Auction {
	cp := *a
	cp.Bids = append([]models.Bid(nil), a.Bids...)
	return &cp
}

func (r *fakeAuctionRepo) Create(ctx context.Context, auction *models.Auction) error {
	r.put(auction)
	return nil
}

func (r *fakeAuctionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := copyAuction(a)
	cp.ComputeCurrentHighestBid()
	return cp, nil
}

func (r *fakeAuctionRepo) Save(ctx context.Context, auction *models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		if err := r.saveErr(auction.ID); err != nil {
			return err
		}
	}
	r.auctions[auction.ID] = copyAuction(auction)
	return nil
}

func (r *fakeAuctionRepo) Search(ctx context.Context, params repository.AuctionSearchParams) ([]models.Auction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Auction
	for _, a := range r.auctions {
		if a.IsActive {
			out = append(out, *copyAuction(a))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuctionRepo) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	hasBidBy := func(a *models.Auction) bool {
		for _, b := range a.Bids {
			if b.BidderID == userID {
				return true
			}
		}
		return false
	}

	var out []models.Auction
	for _, a := range r.auctions {
		switch status {
		case "active":
			// Running auctions the user has bid on
			if !a.IsActive || !now.Before(a.EndDate) || !hasBidBy(a) {
				continue
			}
		case "history":
			// Finished auctions the user has bid on
			if now.Before(a.EndDate) || !hasBidBy(a) {
				continue
			}
		default:
			if a.OwnerID != userID {
				continue
			}
		}
		out = append(out, *copyAuction(a))
	}
	return out, nil
}

func (r *fakeAuctionRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Auction
	for _, a := range r.auctions {
		if a.IsActive && !now.Before(a.EndDate) {
			out = append(out, *copyAuction(a))
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) FindPurgeCandidates(ctx context.Context, cutoff time.Time) ([]models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Auction
	for _, a := range r.auctions {
		if !a.IsActive && a.DeactivatedAt != nil && a.DeactivatedAt.Before(cutoff) {
			out = append(out, *copyAuction(a))
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) UnlinkProduct(ctx context.Context, auctionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.auctions[auctionID]; ok {
		a.ProductID = nil
		a.Product = nil
	}
	r.unlinked = append(r.unlinked, auctionID)
	return nil
}

func (r *fakeAuctionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		if err := r.deleteErr(id); err != nil {
			return err
		}
	}
	delete(r.auctions, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeAuctionRepo) CommitBid(ctx context.Context, auctionID uuid.UUID, admit repository.BidAdmitFunc) (*models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	locked := copyAuction(a)
	locked.ComputeCurrentHighestBid()

	bid, err := admit(locked)
	if err != nil {
		return nil, err
	}

	bid.ID = uuid.New()
	bid.CreatedAt = time.Now()
	a.Bids = append(a.Bids, *bid)
	a.CurrentHighestBid = bid.Amount
	a.CurrentHighestBidderID = &bid.BidderID
	return bid, nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids []models.Bid
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeBidRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Bid
	for _, b := range r.bids {
		if b.BidderID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	auctions *fakeAuctionRepo
	deleted  []uuid.UUID
}

func newFakeProductRepo(auctions *fakeAuctionRepo) *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*models.Product),
		auctions: auctions,
	}
}

func (r *fakeProductRepo) put(p *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.put(product)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, limit, page int) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindAuctionFor(ctx context.Context, productID uuid.UUID) (*models.Auction, error) {
	r.auctions.mu.Lock()
	defer r.auctions.mu.Unlock()
	for _, a := range r.auctions.auctions {
		if a.ProductID != nil && *a.ProductID == productID {
			return copyAuction(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) FindOldInactive(ctx context.Context, cutoff time.Time) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if !p.IsActive && p.DeactivatedAt != nil && p.DeactivatedAt.Before(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) DeletePhysical(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeNotifier records every dispatched notification; safe for the async
// send paths. With failAll set every dispatch errors without recording,
// standing in for an unreachable mail relay.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []string
	ended   []string // emails that received an auction-ended notice
	failAll bool
}

var errMailRelayDown = errors.New("mail relay unreachable")

func (n *fakeNotifier) record(kind, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return errMailRelayDown
	}
	n.sent = append(n.sent, kind+":"+email)
	if kind == "ended" {
		n.ended = append(n.ended, email)
	}
	return nil
}

func (n *fakeNotifier) AuctionCreated(ctx context.Context, email, name, auctionTitle string, startingPrice int64, endDate time.Time) error {
	return n.record("created", email)
}

func (n *fakeNotifier) AuctionUpdated(ctx context.Context, email, name, auctionTitle string) error {
	return n.record("updated", email)
}

func (n *fakeNotifier) AuctionDeleted(ctx context.Context, email, name, auctionTitle string) error {
	return n.record("deleted", email)
}

func (n *fakeNotifier) AuctionEnded(ctx context.Context, email, name, auctionTitle string) error {
	return n.record("ended", email)
}

func (n *fakeNotifier) BidPlaced(ctx context.Context, email, name, auctionTitle, bidderName string, amount int64) error {
	return n.record("bid", email)
}

func (n *fakeNotifier) endedEmails() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ended...)
}
