package repos

import (
	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) ByUserID(userID string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT id,user_id,phone,birthday FROM customers WHERE user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) ByID(id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT id,user_id,phone,birthday FROM customers WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(c domain.Customer) error {
	_, err := r.db.Exec(`INSERT INTO customers(id,user_id,phone,birthday) VALUES(?,?,?,?)`,
		c.ID, c.UserID, c.Phone, c.Birthday)
	return err
}

func (r *CustomerRepo) UpdateProfile(id, phone, birthday string) error {
	_, err := r.db.Exec(`UPDATE customers SET phone=?, birthday=? WHERE id=?`, phone, birthday, id)
	return err
}

func (r *CustomerRepo) List() ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `SELECT id,user_id,phone,birthday FROM customers ORDER BY id`)
	return out, err
}
