package services

import (
	"database/sql"
	"errors"

	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
)

type BidService struct {
	Bids  *repos.BidRepo
	Prods *repos.ProductRepo
}

func NewBidService(bids *repos.BidRepo, prods *repos.ProductRepo) *BidService {
	return &BidService{Bids: bids, Prods: prods}
}

// Place records a new bid. Hidden products and the product's own owner are
// rejected before anything is written.
func (s *BidService) Place(p domain.Principal, productID string, price float64, description string) (domain.Bid, error) {
	prod, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Bid{}, apperr.ErrProductNotFound
		}
		return domain.Bid{}, apperr.ErrTxFailed(err)
	}
	if !prod.Visible {
		return domain.Bid{}, apperr.ErrProductHidden
	}
	if domain.IsItemOwner(p, prod) {
		return domain.Bid{}, apperr.ErrSelfBid
	}
	if price < 1 {
		return domain.Bid{}, apperr.InvalidArg("price must be at least 1")
	}

	b := domain.Bid{
		ID:          newID(),
		ProductID:   productID,
		CustomerID:  p.CustomerID,
		Price:       price,
		Description: description,
	}
	if err := s.Bids.Insert(b); err != nil {
		return domain.Bid{}, apperr.ErrTxFailed(err)
	}
	return s.Bids.Get(b.ID)
}

// List returns a product's bids, newest first.
func (s *BidService) List(productID string) ([]domain.Bid, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, apperr.ErrTxFailed(err)
	}
	return s.Bids.ListByProduct(productID)
}

// Withdraw deletes a bid. Only the bidder may withdraw, and an approved bid
// can never be deleted.
func (s *BidService) Withdraw(p domain.Principal, bidID string) error {
	b, err := s.Bids.Get(bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrBidNotFound
		}
		return apperr.ErrTxFailed(err)
	}
	if !domain.IsBidder(p, b) {
		return apperr.ErrNotBidder
	}
	if b.Approved {
		return apperr.ErrBidApproved
	}
	if err := s.Bids.Delete(bidID); err != nil {
		return apperr.ErrTxFailed(err)
	}
	return nil
}
