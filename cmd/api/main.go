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

	"github.com/joho/godotenv"
	"github.com/sahaara/backend/internal/config"
	"github.com/sahaara/backend/internal/handler"
	"github.com/sahaara/backend/internal/model/resource"
	"github.com/sahaara/backend/internal/service/ai"
	"github.com/sahaara/backend/internal/service/chat"
	"github.com/sahaara/backend/internal/service/checkin"
	"github.com/sahaara/backend/internal/service/conversation"
	"github.com/sahaara/backend/internal/service/recommend"
	"github.com/sahaara/backend/internal/service/safety"
	"github.com/sahaara/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	gateway, err := ai.NewGateway(ctx, cfg.AI)
	if err != nil {
		log.Printf("warning: failed to initialize LLM gateway: %v", err)
		log.Println("continuing without AI functionality - every request will be served its default")
		gateway = ai.Unavailable(err)
	} else {
		log.Printf("LLM gateway initialized (provider=%s)", cfg.AI.Provider)
	}

	history, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open check-in store: %v", err)
	}
	defer func() {
		if err := history.Close(); err != nil {
			log.Printf("failed to close check-in store: %v", err)
		}
	}()
	log.Printf("check-in store ready (driver=%s)", cfg.Storage.Driver)

	classifier := safety.NewClassifier(gateway, safety.Config{FailClosed: cfg.Safety.FailClosed})
	if cfg.Safety.FailClosed {
		log.Println("crisis classifier fails closed: classification errors are treated as crisis")
	}

	checkinWorkflow := checkin.NewWorkflow(
		classifier,
		recommend.NewGenerator(gateway),
		resource.NewMemoryStore(resource.Seed()),
		history,
	)
	chatWorkflow := chat.NewWorkflow(conversation.NewResponder(classifier, gateway))

	router := handler.NewRouter(checkinWorkflow, chatWorkflow)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Sahaara backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Printf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
