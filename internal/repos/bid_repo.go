package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type BidRepo struct{ db *sqlx.DB }

func NewBidRepo(db *sqlx.DB) *BidRepo { return &BidRepo{db: db} }

const bidCols = `id, product_id, customer_id, price, description, placed_at, approved`

func (r *BidRepo) Insert(b domain.Bid) error {
	_, err := r.db.Exec(`
	  INSERT INTO bids(id, product_id, customer_id, price, description, placed_at, approved)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP,0)
	`, b.ID, b.ProductID, b.CustomerID, b.Price, b.Description)
	return err
}

func (r *BidRepo) Get(id string) (domain.Bid, error) {
	var b domain.Bid
	err := r.db.Get(&b, `SELECT `+bidCols+` FROM bids WHERE id = ?`, id)
	return b, err
}

// ListByProduct returns bids newest first. Bid ids are ULIDs, so the id is a
// stable tiebreak when two rows share a CURRENT_TIMESTAMP second.
func (r *BidRepo) ListByProduct(productID string) ([]domain.Bid, error) {
	var out []domain.Bid
	err := r.db.Select(&out, `
	  SELECT `+bidCols+`
	  FROM bids
	  WHERE product_id = ?
	  ORDER BY placed_at DESC, id DESC
	`, productID)
	return out, err
}

func (r *BidRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM bids WHERE id = ?`, id)
	return err
}

func (r *BidRepo) DeleteByProduct(productID string) error {
	_, err := r.db.Exec(`DELETE FROM bids WHERE product_id = ?`, productID)
	return err
}

func (r *BidRepo) CountByProduct(productID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM bids WHERE product_id = ?`, productID)
	return n, err
}
