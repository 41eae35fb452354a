// Command server runs the prodpage HTTP API plus the background worker
// that processes queued product submissions.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/yangwenmai/prodpage/internal/api"
	"github.com/yangwenmai/prodpage/internal/config"
	"github.com/yangwenmai/prodpage/internal/engine"
	"github.com/yangwenmai/prodpage/internal/store"
	"github.com/yangwenmai/prodpage/internal/worker"
)

func main() {
	cfg := config.Load()

	// Open SQLite.
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// Initialize store.
	s, err := store.New(db)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reset stale PROCESSING runs from a previous process.
	if n, err := s.ResetStaleProcessing(ctx); err != nil {
		log.Printf("warning: reset stale processing: %v", err)
	} else if n > 0 {
		log.Printf("reset %d stale PROCESSING runs to QUEUED", n)
	}

	// Build pipeline dependencies.
	var modelClient engine.ModelClient
	if cfg.UseStubs() {
		log.Printf("no API key for provider %q, using stub model client", cfg.LLMProvider)
		modelClient = &engine.StubModelClient{}
	} else {
		log.Printf("using %s model client", cfg.LLMProvider)
		switch cfg.LLMProvider {
		case "claude":
			modelClient = engine.NewClaudeClient(cfg.AnthropicKey, engine.WithClaudeModel(cfg.AnthropicModel))
		case "ollama":
			modelClient = engine.NewOllamaClient(cfg.OllamaURL, engine.WithOllamaModel(cfg.OllamaModel))
		default:
			modelClient = engine.NewOpenAIClient(cfg.OpenAIKey, engine.WithModel(cfg.OpenAIModel))
		}
	}

	pipeline := engine.NewPipeline(
		engine.NewCollaborator(modelClient),
		engine.Config{MaxRetries: cfg.MaxRetries},
	)

	// Start worker in background.
	w := worker.New(s, s, pipeline, cfg.WorkerInterval)
	go w.Start(ctx)

	// Start API server.
	srv := api.New(s, cfg.CORSOrigin)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
		httpServer.Shutdown(context.Background())
	}()

	fmt.Printf("prodpage server listening on http://localhost:%s\n", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
