// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/go-a2a/tutor-agent/a2a"
	"github.com/go-a2a/tutor-agent/internal/config"
	"github.com/go-a2a/tutor-agent/server"
	"github.com/go-a2a/tutor-agent/server/task"
	"github.com/go-a2a/tutor-agent/tutor"
	"github.com/go-a2a/tutor-agent/tutor/provider/anthropic"
	"github.com/go-a2a/tutor-agent/tutor/provider/gemini"
)

var (
	flagHost       string
	flagPort       int
	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "tutor-agent",
	Short: "A2A tutor agent server",
	Long: `tutor-agent serves an agent that helps students understand their
learning gaps and designs personalized learning materials for topics of
their choice, over the A2A protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagHost, "host", "localhost", "Host to bind the server to")
	rootCmd.Flags().IntVar(&flagPort, "port", 10012, "Port to bind the server to")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "Path to config file")
}

func run(cmd *cobra.Command) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flagPort
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	agent := tutor.NewAgent(provider).
		WithLogger(logger).
		WithStageTimeout(cfg.Provider.StageTimeout)

	manager := server.NewTutorTaskManager(store, agent).WithLogger(logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	card := buildAgentCard(addr)

	srv, err := server.NewServer(card, manager)
	if err != nil {
		return err
	}
	srv = srv.WithLogger(logger)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// buildProvider constructs the configured language model provider.
func buildProvider(cfg *config.Config) (tutor.Provider, error) {
	switch cfg.Provider.Name {
	case config.ProviderGemini:
		return gemini.New(gemini.Config{
			APIKey: cfg.Provider.GoogleAPIKey,
			Model:  cfg.Provider.Model,
		})
	case config.ProviderAnthropic:
		return anthropic.New(anthropic.Config{
			APIKey: cfg.Provider.AnthropicAPIKey,
			Model:  cfg.Provider.Model,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider.Name)
	}
}

// buildStore constructs the task store: sqlite-backed when a DSN is
// configured, in-memory otherwise.
func buildStore(ctx context.Context, cfg *config.Config) (task.TaskStore, error) {
	if cfg.Storage.DSN == "" {
		return task.NewInMemoryTaskStore(), nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.Storage.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := task.NewDatabaseTaskStore(task.DatabaseTaskStoreConfig{
		DB:          db,
		CreateTable: true,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// buildAgentCard assembles the public agent card.
func buildAgentCard(addr string) a2a.AgentCard {
	return a2a.AgentCard{
		Name: "AI Tutor Agent",
		Description: "An intelligent tutor that helps students understand their learning gaps " +
			"and designs personalized learning materials based on topics of their choice.",
		URL:     fmt.Sprintf("http://%s/", addr),
		Version: "1.0.0",
		Capabilities: a2a.AgentCapabilities{
			Streaming: false,
		},
		DefaultInputModes:  tutor.SupportedContentTypes,
		DefaultOutputModes: tutor.SupportedContentTypes,
		Skills: []a2a.AgentSkill{
			{
				ID:   "learning_gap_assessment",
				Name: "Learning Gap Assessment",
				Description: "Assesses a student's current knowledge level and identifies " +
					"specific learning gaps based on their background and goals. " +
					"Creates personalized learning plans with tailored resources.",
				Tags: []string{"education", "learning assessment", "personalized learning"},
				Examples: []string{
					"Topic: Machine Learning, Background: Basic Python knowledge, Goals: Build ML models",
					"Topic: Spanish Language, Background: No prior experience, Goals: Basic conversation",
				},
			},
		},
	}
}
