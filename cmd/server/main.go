package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	mydb "storefront/internal/db"
	"storefront/internal/store"
	"storefront/internal/web"
)

func main() {
	// .env is read from the working dir and its parents, so `go run` works
	// from cmd/server too.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger()
	if cfg.UsesDevSecret() {
		logger.Warn("SESSION_SECRET is empty, using the development fallback")
	}
	gin.SetMode(cfg.GinMode)

	db := mydb.MustOpen(cfg.DBDSN)
	if err := mydb.Migrate(db); err != nil {
		log.Fatal(err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	srv := web.New(store.New(db), web.Config{
		SessionSecret:   cfg.SessionSecret,
		SessionMaxAge:   cfg.SessionMaxAge,
		SecureCookies:   cfg.GinMode == gin.ReleaseMode,
		UploadDir:       cfg.UploadDir,
		CartDedupWindow: cfg.CartDedupWindow,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
