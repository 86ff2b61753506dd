package handlers

import (
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
	"bidmarket/internal/verify"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	StorefrontHandler *StorefrontHandler
	CollectionHandler *CollectionHandler
	ProductHandler    *ProductHandler
	BidHandler        *BidHandler
	TransferHandler   *TransferHandler
	ReviewHandler     *ReviewHandler
	CartHandler       *CartHandler
	AdminHandler      *AdminHandler
}

func NewDeps(db *sqlx.DB, ledger verify.Ledger, auth *services.AuthService) *Deps {
	colRepo := repos.NewCollectionRepo(db)
	prodRepo := repos.NewProductRepo(db)
	bidRepo := repos.NewBidRepo(db)
	transferRepo := repos.NewTransferRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	cartRepo := repos.NewCartRepo(db)
	userRepo := repos.NewUserRepo(db)
	custRepo := repos.NewCustomerRepo(db)

	catalogSvc := services.NewCatalogService(colRepo, prodRepo, bidRepo, transferRepo)
	bidSvc := services.NewBidService(bidRepo, prodRepo)
	transferSvc := services.NewTransferService(transferRepo, bidRepo, prodRepo, ledger)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)

	return &Deps{
		StorefrontHandler: &StorefrontHandler{Catalog: catalogSvc},
		CollectionHandler: &CollectionHandler{Catalog: catalogSvc},
		ProductHandler:    &ProductHandler{Catalog: catalogSvc},
		BidHandler:        &BidHandler{Bids: bidSvc},
		TransferHandler:   &TransferHandler{Transfers: transferSvc},
		ReviewHandler:     &ReviewHandler{Reviews: reviewSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		AdminHandler:      &AdminHandler{Users: userRepo, Custs: custRepo, Transfers: transferRepo},
	}
}
