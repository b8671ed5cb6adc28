package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/catalog"
	"github.com/Skotchmaster/vitrine/internal/config"
	"github.com/Skotchmaster/vitrine/internal/gate"
	"github.com/Skotchmaster/vitrine/internal/httpserver"
	"github.com/Skotchmaster/vitrine/internal/order"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/internal/search"
	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/internal/storage"
	pkgdb "github.com/Skotchmaster/vitrine/pkg/db"
	"github.com/Skotchmaster/vitrine/pkg/events"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/vitrine/pkg/middleware/logging"
	"github.com/Skotchmaster/vitrine/pkg/tokens"
)

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return pkgdb.OpenSQLite(cfg.SQLitePath)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pkgdb.Open(ctx, cfg.DatabaseURL)
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("notice: KAFKA_BROKERS empty, domain events are dropped")
		return events.Nop{}
	}
	prod, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	return prod
}

func newSessions(cfg *config.Config, contact *cart.ContactCache) cart.Sessions {
	if cfg.CartBackend != config.CartBackendRedis {
		return cart.NewMemorySessions(contact, cfg.CartTTL)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}
	return cart.NewRedisSessions(client, contact, cfg.CartTTL)
}

// newIndex falls back to database LIKE search when ES_URL is unset.
func newIndex(ctx context.Context, cfg *config.Config, r *repo.GormRepo) search.Index {
	if cfg.ESURL == "" {
		return search.DBIndex{Repo: r}
	}
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	idx := search.NewESIndex(client, cfg.ESIndex)

	products, err := r.ListProducts(ctx)
	if err != nil {
		log.Fatalf("list products for index: %v", err)
	}
	for _, p := range products {
		if err := idx.IndexProduct(ctx, p); err != nil {
			log.Printf("index product %s: %v", p.ID, err)
		}
	}
	return idx
}

func newSource(cfg *config.Config, r *repo.GormRepo) catalog.Source {
	if cfg.CatalogSource == config.CatalogSourceStatic {
		log.Println("catalog: serving the built-in product list")
		return catalog.NewStaticSource()
	}
	return catalog.DBSource{Repo: r}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "vitrine")
	slog.SetDefault(logger)
	tokens.Secure = cfg.CookieSecure

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	ctx := logging.IntoContext(context.Background(), logger)
	r := repo.New(db)
	if err := r.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.SeedCatalog {
		seeded, err := r.SeedCatalog(ctx, catalog.Seed())
		if err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
		if seeded {
			log.Println("demo catalog seeded")
		}
	}

	publisher := newPublisher(cfg)
	index := newIndex(ctx, cfg, r)

	images, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	contact := &cart.ContactCache{}
	sessions := newSessions(cfg, contact)

	auth := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Events:        publisher,
	}
	admin := &service.AdminService{Repo: r, Auth: auth}
	catalogSvc := &service.CatalogService{
		Repo:   r,
		Source: newSource(cfg, r),
		Index:  index,
		Images: images,
		Events: publisher,
	}
	settings := &service.SettingsService{Repo: r, Contact: contact, Events: publisher}
	if err := settings.LoadContact(ctx); err != nil {
		log.Fatalf("load whatsapp number: %v", err)
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(strconv.Itoa(cfg.MaxUploadMB) + "M"))

	httpserver.Register(e, &httpserver.Deps{
		DB:        r,
		Gate:      &gate.Gate{Auth: auth, Admins: admin},
		CSRF:      csrfCfg,
		UploadDir: cfg.UploadDir,
		Catalog:   &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart: &httpserver.CartHTTP{
			Cart: &service.CartService{Sessions: sessions, Products: catalogSvc},
			Checkout: &service.Checkout{
				Sessions: sessions,
				Handoff:  order.ClientHandoff{},
				Options:  order.Options{Locale: cfg.StoreLocale, Scheme: cfg.WhatsAppScheme},
				Events:   publisher,
			},
			SessionTTL: cfg.CartTTL,
		},
		Admin: &httpserver.AdminHTTP{
			Admin:      admin,
			Auth:       auth,
			Catalog:    catalogSvc,
			Categories: &service.CategoryService{Repo: r, Events: publisher},
			Settings:   settings,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("vitrine listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := sessions.Close(); err != nil {
		log.Printf("sessions close error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("shutdown complete")
}
