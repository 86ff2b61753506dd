package repos

import (
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (users/customers/collections/products)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  wallet_address TEXT NOT NULL DEFAULT '',
  public_key TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  challenge TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Customers
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  phone TEXT NOT NULL DEFAULT '',
  birthday TEXT NOT NULL DEFAULT ''
);

-- Collections
CREATE TABLE IF NOT EXISTS collections(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_collections_title_nocase ON collections(LOWER(title));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE RESTRICT,
  owner_id TEXT NOT NULL REFERENCES customers(id),
  title TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 1),
  product_hash TEXT NOT NULL UNIQUE,
  visible INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_collection ON products(collection_id);
CREATE INDEX IF NOT EXISTS idx_products_owner      ON products(owner_id);
CREATE INDEX IF NOT EXISTS idx_products_title      ON products(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Bids
CREATE TABLE IF NOT EXISTS bids(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  price NUMERIC NOT NULL CHECK (price >= 1),
  description TEXT,
  placed_at TEXT DEFAULT CURRENT_TIMESTAMP,
  approved INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_bids_product   ON bids(product_id);
CREATE INDEX IF NOT EXISTS idx_bids_placed_at ON bids(placed_at);

-- Transfers: one pending transfer per product, enforced at the schema level
CREATE TABLE IF NOT EXISTS transfers(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
  buyer_id TEXT NOT NULL REFERENCES customers(id),
  seller_id TEXT NOT NULL REFERENCES customers(id),
  completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transfers_buyer  ON transfers(buyer_id);
CREATE INDEX IF NOT EXISTS idx_transfers_seller ON transfers(seller_id);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  posted_by TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  description TEXT NOT NULL,
  posted_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

CREATE TABLE IF NOT EXISTS replies(
  id TEXT PRIMARY KEY,
  review_id TEXT NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
  posted_by TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  description TEXT NOT NULL,
  posted_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  price_at_add NUMERIC NOT NULL,
  created_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures demo accounts and their customer rows exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash, Wallet, PubKey string
	}
	mk := func(id, email, name, role, raw, wallet string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		// Demo key material: deterministic placeholder, not a usable signing key.
		pk := sha256.Sum256([]byte(id + "-pubkey"))
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h),
			Wallet: wallet, PubKey: hex.EncodeToString(pk[:])}
	}

	users := []u{
		mk("u-alice", "alice@bidmarket.test", "Alice", "USER", "Passw0rd!", "0xA11CE"),
		mk("u-bob", "bob@bidmarket.test", "Bob", "USER", "Passw0rd!", "0xB0B"),
		mk("u-carol", "carol@bidmarket.test", "Carol", "USER", "Passw0rd!", "0xCA201"),
		mk("u-admin", "admin@bidmarket.test", "Admin", "ADMIN", "Passw0rd!", "0xAD317"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,wallet_address,public_key)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Wallet, x.PubKey); err != nil {
			return err
		}
		if x.Role == "ADMIN" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO customers(id,user_id,phone)
			SELECT 'c-'||substr(?,3), ?, ''
			WHERE NOT EXISTS (SELECT 1 FROM customers WHERE user_id=?)
		`, x.ID, x.ID, x.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedCatalog inserts demo collections and products if the DB is empty.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM collections`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo collections/products")

	hash := func(s string) string {
		h := sha256.Sum256([]byte(s))
		return hex.EncodeToString(h[:])
	}

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO collections(id,title) VALUES
	  ('digital-art','Digital Art'),
	  ('collectibles','Collectibles'),
	  ('music','Music')`)

	tx.MustExec(`INSERT INTO products(id,collection_id,owner_id,title,description,price,product_hash) VALUES
	  ('prod-nebula','digital-art','c-alice','Nebula Study #4','Generative piece, 4k render',250.00,?),
	  ('prod-coin','collectibles','c-alice','1921 Silver Dollar','Graded MS-63',480.00,?),
	  ('prod-track','music','c-bob','Analog Dusk (master)','Original master recording',120.00,?)`,
		hash("prod-nebula"), hash("prod-coin"), hash("prod-track"))

	return tx.Commit()
}
