package domain

type User struct {
	ID            string `db:"id"`
	Email         string `db:"email"`
	Name          string `db:"name"`
	Hash          string `db:"password_hash"`
	Role          string `db:"role"`
	WalletAddress string `db:"wallet_address"`
	PublicKey     string `db:"public_key"` // base64 ed25519 key
	Verified      bool   `db:"verified"`
	Challenge     string `db:"challenge"` // one-time login challenge, cleared on use
}

// Customer wraps an account for marketplace activity; products, bids and
// transfers all reference customers rather than users.
type Customer struct {
	ID       string `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"user_id"`
	Phone    string `db:"phone" json:"phone"`
	Birthday string `db:"birthday" json:"birthday,omitempty"`
}
