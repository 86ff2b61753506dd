package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) ListByProduct(productID string) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.Select(&out, `
	  SELECT id, product_id, posted_by, description, posted_at
	  FROM reviews
	  WHERE product_id = ?
	  ORDER BY posted_at DESC, id DESC
	`, productID)
	return out, err
}

func (r *ReviewRepo) Insert(rev domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, product_id, posted_by, description, posted_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, rev.ID, rev.ProductID, rev.PostedByID, rev.Description)
	return err
}

func (r *ReviewRepo) Get(id string) (domain.Review, error) {
	var rev domain.Review
	err := r.db.Get(&rev, `
	  SELECT id, product_id, posted_by, description, posted_at FROM reviews WHERE id = ?
	`, id)
	return rev, err
}

func (r *ReviewRepo) InsertReply(rep domain.Reply) error {
	_, err := r.db.Exec(`
	  INSERT INTO replies(id, review_id, posted_by, description, posted_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, rep.ID, rep.ReviewID, rep.PostedByID, rep.Description)
	return err
}

func (r *ReviewRepo) ListReplies(reviewID string) ([]domain.Reply, error) {
	var out []domain.Reply
	err := r.db.Select(&out, `
	  SELECT id, review_id, posted_by, description, posted_at
	  FROM replies
	  WHERE review_id = ?
	  ORDER BY posted_at ASC, id ASC
	`, reviewID)
	return out, err
}
