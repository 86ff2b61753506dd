package repos

import (
	"errors"

	"bidmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

var errOwnsProducts = errors.New("user still owns products")

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,wallet_address,public_key,verified,challenge`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetChallenge stores a fresh one-time login challenge on the account.
func (r *UserRepo) SetChallenge(userID, challenge string) error {
	_, err := r.DB.Exec(`UPDATE users SET challenge=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, challenge, userID)
	return err
}

// ConsumeChallenge clears the challenge and marks the account verified.
func (r *UserRepo) ConsumeChallenge(userID string) error {
	_, err := r.DB.Exec(`UPDATE users SET challenge='', verified=1, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.wallet_address,u.public_key,u.verified,u.challenge
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// List returns non-admin accounts for the admin screen.
func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE role != 'ADMIN' ORDER BY email`)
	return out, err
}

// DeleteUserCascade removes a user and everything hanging off their customer
// row. Products still owned by the customer block the delete (RESTRICT-style
// guard at the application level so listings never lose their owner).
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var custID string
	if err := tx.Get(&custID, `SELECT id FROM customers WHERE user_id=?`, userID); err == nil {
		var owned int
		if err := tx.Get(&owned, `SELECT COUNT(*) FROM products WHERE owner_id=?`, custID); err != nil {
			return err
		}
		if owned > 0 {
			return errOwnsProducts
		}
		if _, err := tx.Exec(`DELETE FROM bids WHERE customer_id=?`, custID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM transfers WHERE buyer_id=? OR seller_id=?`, custID, custID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM customers WHERE id=?`, custID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
