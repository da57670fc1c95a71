package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so TEXT columns sort chronologically.
const timeLayout = "2006-01-02 15:04:05.000000"

func FormatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// OpenDB connects to sqlite or postgres, applies the schema and seeds demo data.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "", "sqlite":
		driver = "sqlite"
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// Each sqlite connection to :memory: is its own database, and a single
		// writer keeps batch commits serialized.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedProducts(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  barcode TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  items_json TEXT NOT NULL,
  total TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  cashier_email TEXT NOT NULL,
  cashier_name TEXT NOT NULL,
  created_at TEXT NOT NULL,
  date_string TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

-- Running totals, updated in the same transaction as each sale.
CREATE TABLE IF NOT EXISTS revenue(
  id TEXT PRIMARY KEY,
  total_cents BIGINT NOT NULL DEFAULT 0,
  sale_count BIGINT NOT NULL DEFAULT 0
);
INSERT INTO revenue(id) VALUES('all') ON CONFLICT(id) DO NOTHING;

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- value of the 'sid' cookie
  user_id TEXT NULL,                 -- NULL for the owner
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at TEXT NOT NULL,
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedProducts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	zap.L().Info("seeding demo products")

	now := time.Now()
	rows := []struct {
		name, price, barcode, category string
		stock                          int
	}{
		{"Iced Latte", "2.50", "8850001000011", "Drinks", 40},
		{"Jasmine Tea", "1.75", "8850001000028", "Drinks", 60},
		{"Croissant", "1.95", "8850001000035", "Bakery", 25},
		{"Chicken Sandwich", "3.80", "8850001000042", "Food", 15},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for i, r := range rows {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO products(id,name,price,stock,barcode,category,created_at)
			VALUES(?,?,?,?,?,?,?)
		`), uuid.NewString(), r.name, r.price, r.stock, r.barcode, r.category,
			FormatTime(now.Add(time.Duration(i)*time.Millisecond))); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures the demo staff accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Hash string
	}
	mk := func(id, email, name, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Hash: string(h)}
	}

	users := []u{
		mk("u-sokha", "sokha@counterpos.test", "Sokha", "Passw0rd!"),
		mk("u-dara", "dara@counterpos.test", "Dara", "Passw0rd!"),
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := FormatTime(time.Now())
	for _, x := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,created_at)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`), x.ID, x.Email, x.Name, x.Hash, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
