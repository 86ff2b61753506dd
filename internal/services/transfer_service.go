package services

import (
	"context"
	"database/sql"
	"errors"

	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
	"bidmarket/internal/verify"
)

type TransferService struct {
	Transfers *repos.TransferRepo
	Bids      *repos.BidRepo
	Prods     *repos.ProductRepo
	Ledger    verify.Ledger
}

func NewTransferService(transfers *repos.TransferRepo, bids *repos.BidRepo, prods *repos.ProductRepo, ledger verify.Ledger) *TransferService {
	return &TransferService{Transfers: transfers, Bids: bids, Prods: prods, Ledger: ledger}
}

// Approve turns a bid into a pending transfer. The approver must own the
// product and the bid must belong to it. Transfer creation, hiding the
// product and flagging the bid approved happen in one transaction; a failed
// commit leaves no trace.
func (s *TransferService) Approve(p domain.Principal, productID, bidID string) (domain.Transfer, error) {
	prod, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transfer{}, apperr.ErrProductNotFound
		}
		return domain.Transfer{}, apperr.ErrTxFailed(err)
	}
	if !domain.IsItemOwner(p, prod) {
		return domain.Transfer{}, apperr.ErrNotItemOwner
	}

	b, err := s.Bids.Get(bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transfer{}, apperr.ErrBidNotFound
		}
		return domain.Transfer{}, apperr.ErrTxFailed(err)
	}
	if b.ProductID != productID {
		return domain.Transfer{}, apperr.ErrBidWrongProduct
	}

	// Cheap pre-check; the UNIQUE constraint on transfers.product_id is what
	// actually closes the race between two concurrent approvals.
	if _, err := s.Transfers.ByProduct(productID); err == nil {
		return domain.Transfer{}, apperr.ErrTransferExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.Transfer{}, apperr.ErrTxFailed(err)
	}

	t := domain.Transfer{
		ID:        newID(),
		ProductID: productID,
		BuyerID:   b.CustomerID,
		SellerID:  p.CustomerID,
	}
	if err := s.Transfers.Approve(t, bidID); err != nil {
		return domain.Transfer{}, apperr.ErrTxFailed(err)
	}
	return s.Transfers.Get(t.ID)
}

// Confirm completes a pending transfer after the external ledger attributes
// the product hash to the requester's key. Verification failure leaves every
// row untouched; on success ownership moves, the transfer row disappears and
// all bids on the product are purged.
func (s *TransferService) Confirm(ctx context.Context, p domain.Principal, transferID string) (domain.Product, error) {
	t, err := s.Transfers.Get(transferID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.ErrTransferNotFound
		}
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	if !domain.IsBuyer(p, t) {
		return domain.Product{}, apperr.ErrNotBuyer
	}

	prod, err := s.Prods.Get(t.ProductID)
	if err != nil {
		return domain.Product{}, apperr.ErrTxFailed(err)
	}

	ownerHash, found, err := s.Ledger.OwnerOf(ctx, prod.ProductHash)
	if err != nil {
		return domain.Product{}, err
	}
	if !found || ownerHash != verify.KeyHash(p.PublicKey) {
		return domain.Product{}, apperr.ErrNotAttributed
	}

	if err := s.Transfers.Complete(t); err != nil {
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	return s.Prods.Get(t.ProductID)
}

// List returns transfers where the caller is buyer or seller.
func (s *TransferService) List(p domain.Principal) ([]domain.Transfer, error) {
	return s.Transfers.ListForCustomer(p.CustomerID)
}
