package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/cart"
	"github.com/artvista/marketplace/internal/collection"
	"github.com/artvista/marketplace/internal/config"
	"github.com/artvista/marketplace/internal/db"
	"github.com/artvista/marketplace/internal/favorite"
	marketplaceHttp "github.com/artvista/marketplace/internal/handler/http"
	"github.com/artvista/marketplace/internal/order"
	"github.com/artvista/marketplace/internal/promo"
	"github.com/artvista/marketplace/internal/user"
	"github.com/artvista/marketplace/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().Str("app", cfg.App.Name).Msg("Starting marketplace service")

	database, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	userRepo := user.NewRepository(database.Pool)
	userSvc := user.NewService(userRepo)

	artworkRepo := artwork.NewRepository(database.Pool)
	artworkSvc := artwork.NewService(artworkRepo)

	orderRepo := order.NewRepository(database.Pool)
	orderSvc := order.NewService(orderRepo)

	cartRepo := cart.NewRepository(database.Pool)
	cartSvc := cart.NewService(cartRepo, artworkRepo)

	favoriteRepo := favorite.NewRepository(database.Pool)
	favoriteSvc := favorite.NewService(favoriteRepo)

	promoRepo := promo.NewRepository(database.Pool)
	promoSvc := promo.NewService(promoRepo)

	collectionRepo := collection.NewRepository(database.Pool)
	collectionSvc := collection.NewService(collectionRepo)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	marketplaceHttp.NewUserHandler(userSvc).RegisterRoutes(router)
	marketplaceHttp.NewArtworkHandler(artworkSvc).RegisterRoutes(router)
	marketplaceHttp.NewOrderHandler(orderSvc).RegisterRoutes(router)
	marketplaceHttp.NewCartHandler(cartSvc, userSvc).RegisterRoutes(router)
	marketplaceHttp.NewFavoriteHandler(favoriteSvc, userSvc).RegisterRoutes(router)
	marketplaceHttp.NewPromoHandler(promoSvc).RegisterRoutes(router)
	marketplaceHttp.NewCollectionHandler(collectionSvc).RegisterRoutes(router)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	reconciler := worker.NewReconciler(orderRepo, time.Duration(cfg.Worker.ReconcileInterval))
	go reconciler.Run(workerCtx)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.App.Port).Msg("Could not listen")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	database.Close()

	log.Info().Msg("Marketplace service stopped gracefully")
}
