package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "staybook/internal/adapters/http_server"
	"staybook/internal/adapters/notify"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/cache"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// notifications are best-effort: a dead broker degrades to logged warnings
	var notifier *notify.Publisher
	if p, err := notify.New(cfg.AMQPURL); err != nil {
		log.Warn().Err(err).Msg("notification broker unavailable, continuing without it")
	} else {
		notifier = p
		defer notifier.Close()
	}

	// deps
	catalog := mysqlrepo.NewCatalogRepo(db)
	bookings := mysqlrepo.NewBookingRepo(db)
	maintenance := mysqlrepo.NewMaintenanceRepo(db)
	waitlist := mysqlrepo.NewWaitlistRepo(db)

	detail := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	results := cache.NewResultCache(cfg.ResultCacheTTL, cfg.ResultCacheCap)

	detector := app.NewAvailabilityDetector(bookings, maintenance)
	searchSvc := app.NewSearchService(catalog, detector, results, detail, cfg.CacheTTL, cfg.SearchPageSize)
	bookingSvc := app.NewBookingService(bookings, detector, notifierOrNil(notifier))
	maintSvc := app.NewMaintenanceService(maintenance)
	waitlistSvc := app.NewWaitlistService(waitlist, notifierOrNil(notifier))

	// http
	srv := server.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search:      searchSvc,
		Bookings:    bookingSvc,
		Maintenance: maintSvc,
		Waitlist:    waitlistSvc,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// notifierOrNil keeps a typed-nil *Publisher out of the domain.Notifier
// interface so service nil checks stay meaningful.
func notifierOrNil(p *notify.Publisher) domain.Notifier {
	if p == nil {
		return nil
	}
	return p
}
