package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CollectionRepo struct{ db *sqlx.DB }

func NewCollectionRepo(db *sqlx.DB) *CollectionRepo { return &CollectionRepo{db: db} }

func (r *CollectionRepo) List() ([]domain.Collection, error) {
	var out []domain.Collection
	err := r.db.Select(&out, `
	  SELECT id, title, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM collections
	  ORDER BY LOWER(title)
	`)
	return out, err
}

func (r *CollectionRepo) Get(id string) (domain.Collection, error) {
	var c domain.Collection
	err := r.db.Get(&c, `
	  SELECT id, title, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM collections WHERE id = ?
	`, id)
	return c, err
}

func (r *CollectionRepo) Create(id, title string) error {
	_, err := r.db.Exec(`INSERT INTO collections(id,title) VALUES(?,?)`, id, title)
	return err
}

func (r *CollectionRepo) ProductCount(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE collection_id = ?`, id)
	return n, err
}

func (r *CollectionRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM collections WHERE id = ?`, id)
	return err
}
