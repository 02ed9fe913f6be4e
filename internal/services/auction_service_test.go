// internal/services/auction_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/pujaya/auction-backend/internal/models"
)

type AuctionServiceTestSuite struct {
	suite.Suite
	auctions *fakeAuctionRepo
	products *fakeProductRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	service  *AuctionService

	owner    *models.User
	stranger *models.User
}

func (suite *AuctionServiceTestSuite) SetupTest() {
	suite.auctions = newFakeAuctionRepo()
	suite.products = newFakeProductRepo(suite.auctions)
	suite.users = newFakeUserRepo()
	suite.notifier = &fakeNotifier{}
	suite.service = NewAuctionService(suite.auctions, suite.products, suite.users, suite.notifier)

	suite.owner = &models.User{Name: "Owner", Email: "owner@example.com", IsActive: true}
	suite.stranger = &models.User{Name: "Stranger", Email: "stranger@example.com", IsActive: true}
	suite.users.put(suite.owner)
	suite.users.put(suite.stranger)
}

func (suite *AuctionServiceTestSuite) seedAuction(endsIn time.Duration) *models.Auction {
	auction := &models.Auction{
		Name:        "Signed first edition",
		Description: "Hardcover, excellent condition",
		IsActive:    true,
		EndDate:     time.Now().Add(endsIn),
		OwnerID:     suite.owner.ID,
		Owner:       *suite.owner,
	}
	suite.auctions.put(auction)
	return auction
}

func (suite *AuctionServiceTestSuite) seedProduct(price int64) *models.Product {
	product := &models.Product{Name: "Leica M3", Description: "Working condition", InitialPrice: price, IsActive: true}
	suite.products.put(product)
	return product
}

func (suite *AuctionServiceTestSuite) TestCreateSuccess() {
	req := &CreateAuctionRequest{
		Name:        "Signed first edition",
		Description: "Hardcover, excellent condition",
		EndDate:     time.Now().Add(48 * time.Hour),
	}

	auction, err := suite.service.Create(context.Background(), suite.owner.ID, req)

	suite.NoError(err)
	suite.True(auction.IsActive)
	suite.Equal(suite.owner.ID, auction.OwnerID)
	suite.Nil(auction.DeactivatedAt)
}

func (suite *AuctionServiceTestSuite) TestCreateEndDateMustBeFuture() {
	req := &CreateAuctionRequest{
		Name:        "Signed first edition",
		Description: "Hardcover, excellent condition",
		EndDate:     time.Now().Add(-time.Minute),
	}

	_, err := suite.service.Create(context.Background(), suite.owner.ID, req)
	suite.ErrorIs(err, ErrEndDateInPast)
}

func (suite *AuctionServiceTestSuite) TestCreateWithProduct() {
	product := suite.seedProduct(75)

	req := &CreateAuctionRequest{
		Name:        "Camera auction",
		Description: "Vintage rangefinder camera",
		EndDate:     time.Now().Add(48 * time.Hour),
		ProductID:   &product.ID,
	}

	auction, err := suite.service.Create(context.Background(), suite.owner.ID, req)

	suite.NoError(err)
	suite.NotNil(auction.ProductID)
	suite.Equal(product.ID, *auction.ProductID)
}

func (suite *AuctionServiceTestSuite) TestCreateRejectsAssignedProduct() {
	product := suite.seedProduct(75)

	first := suite.seedAuction(time.Hour)
	first.ProductID = &product.ID
	suite.auctions.put(first)

	req := &CreateAuctionRequest{
		Name:        "Camera auction",
		Description: "Vintage rangefinder camera",
		EndDate:     time.Now().Add(48 * time.Hour),
		ProductID:   &product.ID,
	}

	_, err := suite.service.Create(context.Background(), suite.owner.ID, req)
	suite.ErrorIs(err, ErrProductAlreadyAssigned)
}

func (suite *AuctionServiceTestSuite) TestUpdateByNonOwner() {
	auction := suite.seedAuction(time.Hour)

	_, err := suite.service.Update(context.Background(), auction.ID, suite.stranger.ID, &UpdateAuctionRequest{Name: "New name"})
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *AuctionServiceTestSuite) TestUpdateNameAllowedWithBids() {
	auction := suite.seedAuction(time.Hour)
	auction.Bids = []models.Bid{{Amount: 100, AuctionID: auction.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(auction)

	updated, err := suite.service.Update(context.Background(), auction.ID, suite.owner.ID, &UpdateAuctionRequest{Name: "Renamed lot"})

	suite.NoError(err)
	suite.Equal("Renamed lot", updated.Name)
}

func (suite *AuctionServiceTestSuite) TestUpdateEndDateBlockedByBids() {
	auction := suite.seedAuction(time.Hour)
	auction.Bids = []models.Bid{{Amount: 100, AuctionID: auction.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(auction)

	later := time.Now().Add(72 * time.Hour)
	_, err := suite.service.Update(context.Background(), auction.ID, suite.owner.ID, &UpdateAuctionRequest{EndDate: &later})
	suite.ErrorIs(err, ErrHasActiveBids)
}

func (suite *AuctionServiceTestSuite) TestUpdateEndDateMustBeFuture() {
	auction := suite.seedAuction(time.Hour)

	past := time.Now().Add(-time.Hour)
	_, err := suite.service.Update(context.Background(), auction.ID, suite.owner.ID, &UpdateAuctionRequest{EndDate: &past})
	suite.ErrorIs(err, ErrEndDateInPast)
}

func (suite *AuctionServiceTestSuite) TestUpdateFinishedAuction() {
	auction := suite.seedAuction(-time.Minute)

	_, err := suite.service.Update(context.Background(), auction.ID, suite.owner.ID, &UpdateAuctionRequest{Name: "Too late"})
	suite.ErrorIs(err, ErrAuctionFinished)
}

func (suite *AuctionServiceTestSuite) TestAddProductChecksModifiable() {
	auction := suite.seedAuction(time.Hour)
	auction.Bids = []models.Bid{{Amount: 100, AuctionID: auction.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(auction)
	product := suite.seedProduct(75)

	_, err := suite.service.AddProduct(context.Background(), auction.ID, product.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrHasActiveBids)
}

func (suite *AuctionServiceTestSuite) TestAddProductSuccess() {
	auction := suite.seedAuction(time.Hour)
	product := suite.seedProduct(75)

	updated, err := suite.service.AddProduct(context.Background(), auction.ID, product.ID, suite.owner.ID)

	suite.NoError(err)
	suite.NotNil(updated.ProductID)
	suite.Equal(product.ID, *updated.ProductID)
}

func (suite *AuctionServiceTestSuite) TestRemoveBlockedByBids() {
	auction := suite.seedAuction(time.Hour)
	auction.Bids = []models.Bid{{Amount: 100, AuctionID: auction.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(auction)

	err := suite.service.Remove(context.Background(), auction.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrHasActiveBids)
}

func (suite *AuctionServiceTestSuite) TestRemoveDeactivatesAndUnlinks() {
	product := suite.seedProduct(75)
	auction := suite.seedAuction(time.Hour)
	auction.ProductID = &product.ID
	auction.Product = product
	suite.auctions.put(auction)

	err := suite.service.Remove(context.Background(), auction.ID, suite.owner.ID)
	suite.NoError(err)

	reloaded, err := suite.auctions.FindByID(context.Background(), auction.ID)
	suite.NoError(err)
	suite.False(reloaded.IsActive)
	suite.NotNil(reloaded.DeactivatedAt)
	suite.Nil(reloaded.ProductID)

	// The product row survives, soft-deleted, until the purge sweep.
	storedProduct, err := suite.products.FindByID(context.Background(), product.ID)
	suite.NoError(err)
	suite.False(storedProduct.IsActive)
	suite.NotNil(storedProduct.DeactivatedAt)
}

func (suite *AuctionServiceTestSuite) TestRemoveForAdminToggles() {
	auction := suite.seedAuction(time.Hour)
	auction.Bids = []models.Bid{{Amount: 100, AuctionID: auction.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(auction)

	// Admin deactivation ignores the bid guard
	suite.NoError(suite.service.RemoveForAdmin(context.Background(), auction.ID))

	reloaded, _ := suite.auctions.FindByID(context.Background(), auction.ID)
	suite.False(reloaded.IsActive)
	suite.NotNil(reloaded.DeactivatedAt)

	// A second toggle restores it and clears the timestamp
	suite.NoError(suite.service.RemoveForAdmin(context.Background(), auction.ID))

	reloaded, _ = suite.auctions.FindByID(context.Background(), auction.ID)
	suite.True(reloaded.IsActive)
	suite.Nil(reloaded.DeactivatedAt)
}

func (suite *AuctionServiceTestSuite) TestEndAuctionClosesEarly() {
	auction := suite.seedAuction(48 * time.Hour)

	err := suite.service.EndAuction(context.Background(), auction.ID, suite.owner.ID)
	suite.NoError(err)

	reloaded, _ := suite.auctions.FindByID(context.Background(), auction.ID)
	suite.False(reloaded.IsActive)
	suite.True(reloaded.IsFinished(time.Now()))
	suite.NotNil(reloaded.DeactivatedAt)
}

func (suite *AuctionServiceTestSuite) TestEndAuctionByNonOwner() {
	auction := suite.seedAuction(48 * time.Hour)

	err := suite.service.EndAuction(context.Background(), auction.ID, suite.stranger.ID)
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *AuctionServiceTestSuite) TestEndAuctionAlreadyClosed() {
	auction := suite.seedAuction(48 * time.Hour)
	auction.Deactivate(time.Now())
	suite.auctions.put(auction)

	err := suite.service.EndAuction(context.Background(), auction.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrAuctionFinished)
}

func (suite *AuctionServiceTestSuite) TestGetUnknownAuction() {
	_, err := suite.service.Get(context.Background(), uuid.New())
	suite.ErrorIs(err, ErrAuctionNotFound)
}

func (suite *AuctionServiceTestSuite) TestFindByUserAndStatusBuckets() {
	running := suite.seedAuction(time.Hour)
	running.Bids = []models.Bid{{Amount: 100, AuctionID: running.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(running)

	ended := suite.seedAuction(-time.Hour)
	ended.Bids = []models.Bid{{Amount: 80, AuctionID: ended.ID, BidderID: suite.stranger.ID}}
	suite.auctions.put(ended)

	// No bids from the stranger on this one.
	suite.seedAuction(time.Hour)

	// "active" and "history" bucket by bid participation, not ownership.
	active, err := suite.service.FindByUserAndStatus(context.Background(), suite.stranger.ID, "active")
	suite.NoError(err)
	suite.Len(active, 1)
	suite.Equal(running.ID, active[0].ID)

	history, err := suite.service.FindByUserAndStatus(context.Background(), suite.stranger.ID, "history")
	suite.NoError(err)
	suite.Len(history, 1)
	suite.Equal(ended.ID, history[0].ID)

	selling, err := suite.service.FindByUserAndStatus(context.Background(), suite.owner.ID, "selling")
	suite.NoError(err)
	suite.Len(selling, 3)

	none, err := suite.service.FindByUserAndStatus(context.Background(), suite.stranger.ID, "selling")
	suite.NoError(err)
	suite.Empty(none)
}

func TestAuctionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuctionServiceTestSuite))
}
