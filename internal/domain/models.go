package domain

type Collection struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID           string  `db:"id" json:"id"`
	CollectionID string  `db:"collection_id" json:"collection_id"`
	OwnerID      string  `db:"owner_id" json:"owner_id"`
	Title        string  `db:"title" json:"title"`
	Description  string  `db:"description" json:"description"`
	Price        float64 `db:"price" json:"price"`
	ProductHash  string  `db:"product_hash" json:"product_hash"`
	Visible      bool    `db:"visible" json:"visible"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	UpdatedAt    string  `db:"updated_at" json:"updated_at,omitempty"`
}

type Bid struct {
	ID          string  `db:"id" json:"id"`
	ProductID   string  `db:"product_id" json:"product_id"`
	CustomerID  string  `db:"customer_id" json:"customer_id"`
	Price       float64 `db:"price" json:"price"`
	Description string  `db:"description" json:"description"`
	PlacedAt    string  `db:"placed_at" json:"placed_at"`
	Approved    bool    `db:"approved" json:"approved"`
}

// Transfer is a pending intent, not an audit record: it exists from bid
// approval until ownership reassignment is confirmed, then it is deleted.
type Transfer struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	BuyerID   string `db:"buyer_id" json:"buyer_id"`
	SellerID  string `db:"seller_id" json:"seller_id"`
	Completed bool   `db:"completed" json:"completed"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Review struct {
	ID          string `db:"id" json:"id"`
	ProductID   string `db:"product_id" json:"product_id"`
	PostedByID  string `db:"posted_by" json:"posted_by"`
	Description string `db:"description" json:"description"`
	PostedAt    string `db:"posted_at" json:"posted_at"`
}

type Reply struct {
	ID          string `db:"id" json:"id"`
	ReviewID    string `db:"review_id" json:"review_id"`
	PostedByID  string `db:"posted_by" json:"posted_by"`
	Description string `db:"description" json:"description"`
	PostedAt    string `db:"posted_at" json:"posted_at"`
}
