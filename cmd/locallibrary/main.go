package main

import (
	"context"
	"database/sql"
	"expvar"
	"flag"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/emzola/locallibrary/clients"
	"github.com/emzola/locallibrary/config"
	"github.com/emzola/locallibrary/data"
	_ "github.com/emzola/locallibrary/docs"
	"github.com/emzola/locallibrary/handler"
	"github.com/emzola/locallibrary/internal/jsonlog"
	"github.com/emzola/locallibrary/internal/mailer"
	"github.com/emzola/locallibrary/repository"
	"github.com/emzola/locallibrary/repository/memory"
	"github.com/emzola/locallibrary/repository/postgres"
	"github.com/emzola/locallibrary/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/joho/godotenv"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title  Local Library API
// @version 1.0.0
// @description A catalog of genres, authors, books and the copies a library holds.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Decode(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	level, err := jsonlog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger = jsonlog.New(os.Stdout, level)

	// Storage: PostgreSQL when a DSN is configured, otherwise in memory.
	var repo repository.Repository
	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = postgres.OpenDBConn(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer db.Close()
		logger.PrintInfo("database connection pool established", nil)
		if cfg.Database.Migrate {
			err = postgres.Migrate(context.Background(), db)
			if err != nil {
				logger.PrintFatal(err, nil)
			}
			logger.PrintInfo("database schema applied", nil)
		}
		repo = repository.New(db)
	} else {
		repo = memory.New()
		logger.PrintWarn("no database configured, using in-memory storage", nil)
	}

	// Optional collaborators
	var notifier service.Notifier
	if cfg.Smtp.Host != "" {
		notifier = mailer.New(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.Sender)
	}
	var uploader service.Uploader
	coverUploader, err := clients.NewCoverUploader(context.Background(), cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	if coverUploader != nil {
		uploader = coverUploader
	}

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.CatalogSummary](cfg.Cache.SummaryTTL))
	go cache.Start()
	defer cache.Stop()

	publishMetrics(db)

	// Application layers
	svc := service.New(cfg, &wg, logger, repo, notifier, uploader, clients.NewHTTPClient(cfg))
	h := handler.New(cfg, logger, cache, svc, nil)

	app := &app{
		config:  cfg,
		repo:    repo,
		service: svc,
		handler: h,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// publishMetrics exposes process information on /debug/vars.
func publishMetrics(db *sql.DB) {
	expvar.NewString("version").Set(handler.Version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))
	if db != nil {
		expvar.Publish("database", expvar.Func(func() any {
			return db.Stats()
		}))
	}
}
