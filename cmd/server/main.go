// Command server runs the shop directory API: registration, the trust
// verification pipeline, and the admin review surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopdir/internal/audit"
	"shopdir/internal/platform/config"
	"shopdir/internal/platform/httpserver"
	"shopdir/internal/platform/logger"
	"shopdir/internal/platform/metrics"
	"shopdir/internal/platform/middleware"
	platformredis "shopdir/internal/platform/redis"
	shophandler "shopdir/internal/shop/handler"
	shopservice "shopdir/internal/shop/service"
	"shopdir/internal/shop/store"
	"shopdir/internal/verification"
	"shopdir/internal/verification/adapters/cached"
	"shopdir/internal/verification/adapters/exifimg"
	"shopdir/internal/verification/adapters/media"
	"shopdir/internal/verification/adapters/nominatim"
	"shopdir/internal/verification/adapters/ocr"
	verificationhandler "shopdir/internal/verification/handler"
	verificationmetrics "shopdir/internal/verification/metrics"
	"shopdir/pkg/platform/httputil"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	// Shop persistence: Postgres when configured, in-memory otherwise.
	var shops store.Store
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		shops = pg
		log.Info("using postgres shop store")
	} else {
		shops = store.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory shop store")
	}

	// Redis geocode cache (optional).
	cache, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		log.Info("geocode cache enabled")
	}

	// Audit trail with optional Kafka fan-out.
	auditOpts := []audit.Option{audit.WithLogger(log)}
	kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err)
		os.Exit(1)
	}
	if kafkaSink != nil {
		defer kafkaSink.Close()
		auditOpts = append(auditOpts, audit.WithSink(kafkaSink))
		log.Info("audit events published to kafka", "topic", cfg.KafkaTopic)
	}
	auditPublisher := audit.NewPublisher(audit.NewInMemoryStore(), auditOpts...)

	// Verification providers.
	geocoder := nominatim.New(cfg.NominatimBaseURL, cfg.ProviderTimeout)
	cachedGeocoder := cached.New(geocoder, geocoder, cache, log)

	providers := verification.Providers{
		Reverse: cachedGeocoder,
		Forward: cachedGeocoder,
		Exif:    exifimg.New(cfg.ProviderTimeout),
	}
	if cfg.OCREndpoint != "" {
		providers.OCR = ocr.New(cfg.OCREndpoint, cfg.ProviderTimeout)
	} else {
		log.Warn("OCR_ENDPOINT not set, license documents will fail closed")
	}
	if cfg.MinioEndpoint != "" {
		mediaStore, err := media.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL, cfg.ProviderTimeout)
		if err != nil {
			log.Error("failed to connect to object storage", "error", err)
			os.Exit(1)
		}
		if err := mediaStore.EnsureBucket(context.Background()); err != nil {
			log.Error("failed to ensure media bucket", "error", err)
			os.Exit(1)
		}
		providers.Media = mediaStore
	} else {
		log.Warn("MINIO_ENDPOINT not set, media will not be re-hosted")
	}

	platformMetrics := metrics.New()
	stepMetrics := verificationmetrics.New()

	shopSvc := shopservice.New(shops,
		shopservice.WithLogger(log),
		shopservice.WithMetrics(platformMetrics),
		shopservice.WithAuditPublisher(auditPublisher),
	)
	verificationSvc := verification.New(shops, providers,
		verification.WithLogger(log),
		verification.WithMetrics(stepMetrics),
		verification.WithAuditPublisher(auditPublisher),
		verification.WithProviderTimeout(cfg.ProviderTimeout),
	)

	shopH := shophandler.New(shopSvc, log)
	verificationH := verificationhandler.New(verificationSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.OwnerIdentity)
	r.Use(middleware.Logging(log))

	shopH.Register(r)
	verificationH.Register(r)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdminToken(cfg.AdminToken, log))
		shopH.RegisterAdmin(admin)
		verificationH.RegisterAdmin(admin)
	})

	r.Handle("/metrics", promhttp.Handler())
	var checks []healthCheck
	if db != nil {
		checks = append(checks, db.PingContext)
	}
	if cache != nil {
		checks = append(checks, cache.Health)
	}
	r.Get("/healthz", healthHandler(checks...))

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting shopdir", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		_ = cache.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	log.Info("shopdir stopped")
}

type healthCheck func(ctx context.Context) error

// healthHandler reports ok only when every configured backing store is
// reachable.
func healthHandler(checks ...healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
