package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"samvad/internal/auth"
	"samvad/internal/chat"
	"samvad/internal/config"
	"samvad/internal/llm"
	"samvad/internal/logger"
	"samvad/internal/server"
	"samvad/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Samvad HTTP API",
	Long: `Start the HTTP server exposing document processing, chat sessions,
and user accounts.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key
  MONGO_URI      - MongoDB connection string
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Serve on the configured address (default :8080)
  samvad serve

  # Serve on a custom port
  HTTP_ADDR=:9090 samvad serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required to run the server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	built, err := buildPipelines(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	chatService := chat.NewService(
		llm.NewOpenAIChatServiceWithClient(openai.NewClient(cfg.OpenAIAPIKey)),
		cfg.OpenAIModel,
		0,
	)
	authService := auth.NewService(mongoStore)

	processors := server.Processors{Default: built.standard}
	if built.llmOnly != nil {
		processors.LLMOnly = built.llmOnly
	}
	handler := server.NewServer(processors, chatService, authService, mongoStore, cfg.Production).Handler()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
			return err
		}
	}

	log.Info().Msg("Server stopped")
	return nil
}
