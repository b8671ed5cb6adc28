package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/vitrine/internal/order"
	pkgcfg "github.com/Skotchmaster/vitrine/pkg/config"
)

const (
	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"

	CatalogSourceDB     = "db"
	CatalogSourceStatic = "static"
)

type Config struct {
	ServerPort string
	LogLevel   string

	DatabaseURL string
	SQLitePath  string

	JWTSecret     []byte
	RefreshSecret []byte
	CookieSecure  bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CartBackend string
	RedisAddr   string
	CartTTL     time.Duration

	UploadDir     string
	PublicBaseURL string
	MaxUploadMB   int

	StoreLocale    string
	WhatsAppScheme string
	SeedCatalog    bool
	// CatalogSource picks where the storefront reads products from.
	CatalogSource string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	cfg := &Config{
		ServerPort:     pkgcfg.EnvDefault("SERVER_PORT", "8080"),
		LogLevel:       pkgcfg.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL:    pkgcfg.EnvDefault("DATABASE_URL", ""),
		SQLitePath:     pkgcfg.EnvDefault("SQLITE_PATH", "vitrine.db"),
		JWTSecret:      []byte(pkgcfg.EnvDefault("JWT_SECRET", "")),
		RefreshSecret:  []byte(pkgcfg.EnvDefault("JWT_REFRESH_SECRET", "")),
		CookieSecure:   pkgcfg.EnvBoolDefault("COOKIE_SECURE", true),
		KafkaBrokers:   pkgcfg.CSV(pkgcfg.EnvDefault("KAFKA_BROKERS", "")),
		ESURL:          pkgcfg.EnvDefault("ES_URL", ""),
		ESUser:         pkgcfg.EnvDefault("ES_USER", ""),
		ESPassword:     pkgcfg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:        pkgcfg.EnvDefault("ES_INDEX", "products"),
		CartBackend:    strings.ToLower(pkgcfg.EnvDefault("CART_BACKEND", CartBackendMemory)),
		RedisAddr:      pkgcfg.EnvDefault("REDIS_ADDR", "localhost:6379"),
		CartTTL:        time.Duration(pkgcfg.EnvIntDefault("CART_TTL_HOURS", 24*30)) * time.Hour,
		UploadDir:      pkgcfg.EnvDefault("UPLOAD_DIR", "uploads"),
		PublicBaseURL:  pkgcfg.EnvDefault("PUBLIC_BASE_URL", ""),
		MaxUploadMB:    pkgcfg.EnvIntDefault("MAX_UPLOAD_MB", 5),
		StoreLocale:    pkgcfg.EnvDefault("STORE_LOCALE", order.LocalePTBR),
		WhatsAppScheme: pkgcfg.EnvDefault("WHATSAPP_SCHEME", order.DefaultScheme),
		SeedCatalog:    pkgcfg.EnvBoolDefault("SEED_CATALOG", true),
		CatalogSource:  strings.ToLower(pkgcfg.EnvDefault("CATALOG_SOURCE", CatalogSourceDB)),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if err := pkgcfg.RequireNonEmpty(string(c.JWTSecret), "JWT_SECRET"); err != nil {
		return err
	}
	if err := pkgcfg.RequireNonEmpty(string(c.RefreshSecret), "JWT_REFRESH_SECRET"); err != nil {
		return err
	}
	if bytes.Equal(c.JWTSecret, c.RefreshSecret) {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	switch c.CartBackend {
	case CartBackendMemory, CartBackendRedis:
	default:
		return fmt.Errorf("CART_BACKEND must be %q or %q, got %q", CartBackendMemory, CartBackendRedis, c.CartBackend)
	}
	switch c.CatalogSource {
	case CatalogSourceDB, CatalogSourceStatic:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogSourceDB, CatalogSourceStatic, c.CatalogSource)
	}
	if !order.SupportedLocale(c.StoreLocale) {
		return fmt.Errorf("unsupported STORE_LOCALE %q", c.StoreLocale)
	}
	return nil
}
