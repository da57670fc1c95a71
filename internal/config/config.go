package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port     string
	DBDriver string // sqlite | postgres
	DBDSN    string
	LogFile  string
	LogMode  string // development | production

	// Owner credentials never live in the users table.
	OwnerEmail      string
	OwnerSecretHash string

	JWTSecret         string
	StockPolicy       string // allow | reject
	TimeZone          string
	ReconcileSchedule string
	TemplatesDir      string
	StaticDir         string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file, using process environment")
	}

	cfg := Config{
		Port:              getenv("PORT", "3000"),
		DBDriver:          getenv("DB_DRIVER", "sqlite"),
		DBDSN:             getenv("DB_DSN", "counterpos.db"),
		LogFile:           os.Getenv("LOG_FILE"),
		LogMode:           getenv("LOG_MODE", "development"),
		OwnerEmail:        os.Getenv("OWNER_EMAIL"),
		OwnerSecretHash:   os.Getenv("OWNER_SECRET_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		StockPolicy:       getenv("STOCK_POLICY", "allow"),
		TimeZone:          getenv("TIMEZONE", "UTC"),
		ReconcileSchedule: getenv("RECONCILE_SCHEDULE", "@hourly"),
		TemplatesDir:      getenv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:         getenv("STATIC_DIR", "./web/static"),
	}

	// A plain OWNER_SECRET_CODE is accepted for local setups and hashed once at startup.
	if cfg.OwnerSecretHash == "" {
		if raw := os.Getenv("OWNER_SECRET_CODE"); raw != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("[config] could not hash OWNER_SECRET_CODE: %v", err)
			} else {
				cfg.OwnerSecretHash = string(h)
			}
		}
	}
	if cfg.JWTSecret == "" {
		log.Printf("[warn] JWT_SECRET not set; API tokens are disabled")
	}
	if cfg.StockPolicy != "allow" && cfg.StockPolicy != "reject" {
		log.Printf("[warn] unknown STOCK_POLICY=%q, falling back to allow", cfg.StockPolicy)
		cfg.StockPolicy = "allow"
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s LOG_FILE=%s STOCK_POLICY=%s TIMEZONE=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.LogFile, cfg.StockPolicy, cfg.TimeZone)
	return cfg
}
