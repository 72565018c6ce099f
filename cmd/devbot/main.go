package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"devbot/internal/analysis"
	"devbot/internal/api"
	"devbot/internal/attachments"
	"devbot/internal/bot"
	"devbot/internal/common"
	"devbot/internal/config"
	"devbot/internal/gitops"
	"devbot/internal/llm"
	"devbot/internal/moderation"
	"devbot/internal/project"
	"devbot/internal/review"
	"devbot/internal/websearch"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("devbot: .env file not loaded", "error", err)
	} else {
		logger.Info("devbot: environment loaded from .env")
	}

	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "listen address")
	projectRoot := flag.String("project-root", cfg.ProjectRoot, "working-tree root inspected by project commands")
	flag.Parse()

	cfg.Addr = *addr
	if trimmed := strings.TrimSpace(*projectRoot); trimmed != "" {
		cfg.ProjectRoot = trimmed
	}

	logger.Info("devbot: startup initiated",
		"addr", cfg.Addr,
		"project_root", cfg.ProjectRoot,
		"model_configured", cfg.ModelConfigured(),
		"search_configured", cfg.SearchConfigured(),
		"moderation_enabled", cfg.ModerationEnabled,
	)

	provider := llm.NewProvider(cfg)
	git := gitops.NewClient(cfg)
	dispatcher := bot.NewDispatcher(cfg, bot.Deps{
		Gate:      moderation.NewGate(cfg),
		Extractor: attachments.NewExtractor(cfg),
		Provider:  provider,
		Search:    websearch.NewClient(cfg),
		Reviewer:  review.NewService(provider, cfg.CodeReviewEnabled && cfg.ModelConfigured()),
		Analyzer:  analysis.NewService(cfg),
		Git:       git,
		Project:   project.NewService(cfg, git),
	})

	srv, err := api.NewServer(dispatcher)
	if err != nil {
		logger.Error("devbot: server initialization failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("devbot: listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("devbot: shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("devbot: shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("devbot: server stopped", "error", err)
			fmt.Println("server error:", err)
			os.Exit(1)
		}
	}
	logger.Info("devbot: stopped")
}
