package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/app"
	"github.com/ishaanJ91/NiteOut/internal/clock"
	"github.com/ishaanJ91/NiteOut/internal/config"
	"github.com/ishaanJ91/NiteOut/internal/storage/postgres"
	transporthttp "github.com/ishaanJ91/NiteOut/internal/transport/http"
	"github.com/ishaanJ91/NiteOut/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()
	eventSvc := app.NewEventService(postgres.NewEventRepository(pool), clk)
	gameSvc := app.NewAllocationService(postgres.NewGameRepository(pool), clk)
	gamerSvc := app.NewGamerService(postgres.NewGamerRepository(pool), clk)

	router := transporthttp.NewRouter(eventSvc, gameSvc, gamerSvc)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	handler := transporthttp.RequestLogger(corsMiddleware.Handler(router), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := app.NewSweeper(eventSvc, cfg.SweepInterval, logger)
	go sweeper.Run(stopCtx)

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
