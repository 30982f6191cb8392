package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carola178/storefront-service-go/internal/cart"
	"github.com/Carola178/storefront-service-go/internal/catalog"
	"github.com/Carola178/storefront-service-go/internal/config"
	"github.com/Carola178/storefront-service-go/internal/db"
	"github.com/Carola178/storefront-service-go/internal/events"
	httpapi "github.com/Carola178/storefront-service-go/internal/http"
	"github.com/Carola178/storefront-service-go/internal/order"
	"github.com/Carola178/storefront-service-go/internal/sequence"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront-service] ", log.LstdFlags|log.Lshortfile)

	// DB
	database := db.MustOpen(cfg.DatabaseDSN)
	defer database.Close()

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)
	seqRepo := sequence.NewRepository(database)

	// Catalog, loaded once at startup
	catalogStore := catalog.NewStore()
	loader := catalog.NewLoader(catalogStore, logger)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	res := loader.Load(startupCtx, cfg.CatalogSource)
	startupCancel()
	logger.Printf("catalog: %d products (%s)", res.Count, res.Status)

	// Cart ledger, restored from the persisted slot
	ledger := cart.NewLedger(catalogStore, cartRepo, logger)
	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), 5*time.Second)
	ledger.Restore(restoreCtx)
	restoreCancel()

	builder := order.NewBuilder(ledger, catalogStore)

	// RabbitMQ
	rabbitConn := events.MustDial(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, seqRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}
	defer publisher.Close()

	// HTTP
	handler := httpapi.NewHandler(catalogStore, ledger, builder, orderRepo, publisher, logger)
	router := httpapi.NewRouter(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("storefront-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
