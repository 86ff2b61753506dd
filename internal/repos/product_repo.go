package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, collection_id, owner_id, title, description, price,
    product_hash, visible, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListVisible(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE visible = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) ListByCollection(colID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE collection_id = ? AND visible = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, colID, limit, offset)
	return out, err
}

func (r *ProductRepo) Search(q string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE visible = 1 AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, "%"+q+"%", "%"+q+"%", limit, offset)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, collection_id, owner_id, title, description, price, product_hash, visible)
	  VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.CollectionID, p.OwnerID, p.Title, p.Description, p.Price, p.ProductHash, p.Visible)
	return err
}

func (r *ProductRepo) Update(id, title, description string, price float64) error {
	_, err := r.db.Exec(`
	  UPDATE products SET title=?, description=?, price=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, title, description, price, id)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

func (r *ProductRepo) SetVisible(id string, visible bool) error {
	_, err := r.db.Exec(`UPDATE products SET visible=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, visible, id)
	return err
}
