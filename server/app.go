package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockroom/config"
	"stockroom/internal/access"
	"stockroom/internal/auth"
	"stockroom/internal/db"
	"stockroom/internal/health"
	"stockroom/internal/invapi"
	"stockroom/internal/logs"
	"stockroom/internal/middleware"
	"stockroom/internal/models"
	"stockroom/internal/obs"
	"stockroom/internal/repo"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Inventory{},
		&models.InventoryMember{},
		&models.Item{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	/* 3) Сторы и identity */
	tokens, err := auth.NewTokens(a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("auth init failed: %v", err)
	}
	acl := access.NewEvaluator(a.db)
	users := repo.NewUserStore(a.db)
	invs := repo.NewInventoryStore(a.db, acl)
	items := repo.NewItemStore(a.db, acl)

	h := invapi.NewHandler(users, invs, items, tokens,
		a.cfg.Pagination.PerPage, a.cfg.Pagination.MaxPerPage)

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		obs.Instrument,
	)
	if a.cfg.RateLimit.Enabled {
		a.Router.Use(middleware.RateLimit(a.cfg.RateLimit.Burst, a.cfg.RateLimit.PerSecond))
	}

	/* 5) Health + метрики */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	obs.Init()
	a.Router.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	/* 6) API */
	invapi.RegisterRoutes(a.Router, h)

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
