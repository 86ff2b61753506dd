package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type TransferRepo struct{ db *sqlx.DB }

func NewTransferRepo(db *sqlx.DB) *TransferRepo { return &TransferRepo{db: db} }

const transferCols = `id, product_id, buyer_id, seller_id, completed, created_at`

func (r *TransferRepo) Get(id string) (domain.Transfer, error) {
	var t domain.Transfer
	err := r.db.Get(&t, `SELECT `+transferCols+` FROM transfers WHERE id = ?`, id)
	return t, err
}

func (r *TransferRepo) ByProduct(productID string) (domain.Transfer, error) {
	var t domain.Transfer
	err := r.db.Get(&t, `SELECT `+transferCols+` FROM transfers WHERE product_id = ?`, productID)
	return t, err
}

// ListForCustomer returns transfers where the customer is buyer or seller.
// Buyer and seller are distinct by construction, so no dedup is needed.
func (r *TransferRepo) ListForCustomer(custID string) ([]domain.Transfer, error) {
	var out []domain.Transfer
	err := r.db.Select(&out, `
	  SELECT `+transferCols+`
	  FROM transfers
	  WHERE buyer_id = ? OR seller_id = ?
	  ORDER BY created_at DESC
	`, custID, custID)
	return out, err
}

// Approve records a bid approval as one atomic unit: the transfer row is
// created, the product is hidden from new bids, and the bid is flagged
// approved. The UNIQUE constraint on transfers.product_id makes a racing
// second approval fail the whole transaction.
func (r *TransferRepo) Approve(t domain.Transfer, bidID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO transfers(id, product_id, buyer_id, seller_id, completed)
	  VALUES(?,?,?,?,0)
	`, t.ID, t.ProductID, t.BuyerID, t.SellerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  UPDATE products SET visible=0, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, t.ProductID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE bids SET approved=1 WHERE id=?`, bidID); err != nil {
		return err
	}

	return tx.Commit()
}

// Complete finalizes a verified transfer: ownership moves to the buyer, the
// pending transfer row is removed, and every bid on the product is purged
// (the approved one included). All or nothing.
func (r *TransferRepo) Complete(t domain.Transfer) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE products SET owner_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, t.BuyerID, t.ProductID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM transfers WHERE id=?`, t.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM bids WHERE product_id=?`, t.ProductID); err != nil {
		return err
	}

	return tx.Commit()
}

// PullListing hides a product and discards its bids and any pending transfer,
// used when the owner withdraws the listing outside the approval flow.
func (r *TransferRepo) PullListing(productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE products SET visible=0, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM bids WHERE product_id=?`, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM transfers WHERE product_id=?`, productID); err != nil {
		return err
	}

	return tx.Commit()
}
