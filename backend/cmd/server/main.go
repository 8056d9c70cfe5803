package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/stockpile/backend/internal/auth"
	"github.com/user/stockpile/backend/internal/config"
	"github.com/user/stockpile/backend/internal/database"
	"github.com/user/stockpile/backend/internal/handlers"
	"github.com/user/stockpile/backend/internal/middleware"
	"github.com/user/stockpile/backend/internal/portfolio"
	"github.com/user/stockpile/backend/internal/pricing"
	"github.com/user/stockpile/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	pool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatalf("%v", err)
		}
	}
	store := database.NewStore(pool)

	authSvc, err := auth.NewService(store, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Invalid BCRYPT_COST: %v", err)
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	quoter := pricing.FromTable(cfg.PriceTable)
	if tbl, ok := quoter.(*pricing.Table); ok {
		log.Printf("Valuing portfolios with fixed prices for %d symbols", len(tbl.Prices()))
	} else {
		log.Println("Valuing portfolios with manually entered current prices")
	}
	assets := portfolio.NewService(store, quoter)

	h := handlers.New(authSvc, assets, tokens, store)
	app := server.New(h, middleware.Identity(tokens, cfg.RequireToken), server.Options{
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
	log.Println("Server stopped.")
}
