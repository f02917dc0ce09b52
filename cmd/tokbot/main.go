package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tokbot/internal/bus"
	"tokbot/internal/channel"
	"tokbot/internal/config"
	"tokbot/internal/domain"
	"tokbot/internal/mention"
	"tokbot/internal/metrics"
	"tokbot/internal/provider"
	"tokbot/internal/responder"
	"tokbot/internal/router"
	"tokbot/internal/store"
	"tokbot/internal/trivial"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	// Local .env files carry bot tokens and API keys in development.
	_ = godotenv.Load()

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "tokbot",
		Short: "Tok Ayah: Islamic Q&A assistant for Telegram groups",
		Long:  "Tok Ayah answers religious questions in Malay group chats by routing them to topic-specialized responders.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.tokbot/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(gatewayCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(configCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(daemonCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

// loadConfig loads and validates the config file, falling back to defaults
// when it is missing.
func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		return config.Defaults()
	}
	return cfg
}

// buildResponders constructs the specialist set and the synthesizer from the
// configured profiles.
func buildResponders(cfg *config.Config, completer domain.Completer) ([]responder.Responder, responder.Responder, error) {
	profiles, err := responder.LoadProfiles(cfg.Responders.ProfilesPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load responder profiles: %w", err)
	}

	specialists := make([]responder.Responder, 0, len(profiles))
	for _, p := range profiles {
		specialists = append(specialists, responder.NewSpecialist(p, completer, logger))
	}
	synth := responder.NewSynthesizer(specialists, completer, logger)
	return specialists, synth, nil
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat (CLI)",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.General.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provFactory := provider.NewFactory(cfg, logger)
	completer, err := provFactory.Default()
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	specialists, synth, err := buildResponders(cfg, completer)
	if err != nil {
		return err
	}

	messageBus := bus.New(100, logger)
	defer messageBus.Close()

	// The CLI has no resolvable bot username; the colloquial aliases still
	// apply and RouteDirect skips the gate anyway.
	rt := router.New(mention.New("tokbot"), trivial.New(), specialists, synth, cfg.Routing.Mode, logger)
	loop := router.NewLoop(router.LoopConfig{
		Router:      rt,
		Bus:         messageBus,
		Logger:      logger,
		Concurrency: cfg.General.MaxConcurrentMessages,
		Timeout:     time.Duration(cfg.Routing.GenerationTimeoutSeconds) * time.Second,
		ChunkBudget: cfg.Routing.ChunkBudget,
	})

	cli := channel.NewCLI(channel.CLIConfig{Handler: loop, Logger: logger})
	return cli.Start(ctx)
}

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Start gateway (Telegram + router loop)",
		Long:  "Connects to Telegram, starts the router loop and the metrics endpoint. Press Ctrl+C to stop.",
		RunE:  runGateway,
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.General.LogLevel)}))

	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Telegram.Token == "" {
		return fmt.Errorf("telegram channel is not configured; set channels.telegram.token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(100, logger)

	provFactory := provider.NewFactory(cfg, logger)
	completer, err := provFactory.Default()
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := completer.Healthy(ctx); err != nil {
		logger.Warn("provider unhealthy at startup", "provider", completer.Name(), "err", err)
	} else {
		logger.Info("provider healthy", "provider", completer.Name())
	}

	specialists, synth, err := buildResponders(cfg, completer)
	if err != nil {
		return err
	}

	// Connect before the loop starts so the bot identity is resolved once.
	telegramCh := channel.NewTelegram(channel.TelegramConfig{
		Token:      cfg.Channels.Telegram.Token,
		AllowChats: cfg.Channels.Telegram.AllowChats,
		Logger:     logger,
	})
	botUsername, err := telegramCh.Connect()
	if err != nil {
		return err
	}

	var recorder router.DecisionRecorder
	if cfg.Store.Enabled {
		st, err := store.NewSQLiteStore(config.ExpandPath(cfg.Store.DBPath), logger)
		if err != nil {
			return fmt.Errorf("decision store: %w", err)
		}
		defer st.Close()
		recorder = st
	}

	rt := router.New(mention.New(botUsername), trivial.New(), specialists, synth, cfg.Routing.Mode, logger)
	loop := router.NewLoop(router.LoopConfig{
		Router:      rt,
		Bus:         messageBus,
		Recorder:    recorder,
		Metrics:     metrics.NewRecorder(),
		Logger:      logger,
		Concurrency: cfg.General.MaxConcurrentMessages,
		Timeout:     time.Duration(cfg.Routing.GenerationTimeoutSeconds) * time.Second,
		ChunkBudget: cfg.Routing.ChunkBudget,
	})

	// Run returns only after every in-flight handler has finished; the
	// shutdown path below waits on this channel.
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	go func() {
		if err := telegramCh.Start(ctx, messageBus); err != nil {
			logger.Error("telegram channel error", "err", err)
		}
	}()

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, loop.Ready, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("metrics server error", "err", err)
			}
		}()
	}

	logger.Info("gateway started. Press Ctrl+C to stop.", "bot", "@"+botUsername, "mode", cfg.Routing.Mode)

	<-ctx.Done()
	logger.Info("shutting down gateway...")

	// Stop accepting new messages, give in-flight handlers a bounded grace
	// period, then exit.
	const shutdownTimeout = 10 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-loopDone
		messageBus.Close()
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, forcing exit")
		return fmt.Errorf("shutdown timed out")
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Info("config", "path", cfgPath, "loaded", false)
				cfg = config.Defaults()
			} else {
				logger.Info("config", "path", cfgPath, "loaded", true)
			}
			ctx := context.Background()
			factory := provider.NewFactory(cfg, logger)
			if c := factory.FirstHealthy(ctx); c != nil {
				logger.Info("provider", "name", c.Name(), "healthy", true)
			} else {
				logger.Info("provider", "healthy", false)
			}
			logger.Info("routing", "mode", cfg.Routing.Mode, "chunkBudget", cfg.Routing.ChunkBudget)
			if cfg.Store.Enabled {
				st, err := store.NewSQLiteStore(config.ExpandPath(cfg.Store.DBPath), logger)
				if err != nil {
					logger.Warn("decision store unavailable", "err", err)
					return nil
				}
				defer st.Close()
				if n, err := st.Count(ctx); err == nil {
					logger.Info("decision store", "path", cfg.Store.DBPath, "decisions", n)
				}
				if recent, err := st.RecentDecisions(ctx, 5); err == nil {
					for _, d := range recent {
						logger.Info("recent decision",
							"kind", d.Kind,
							"responder", d.Responder,
							"latency_ms", d.LatencyMs,
							"at", d.CreatedAt.Format(time.RFC3339),
						)
					}
				}
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. routing.mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. routing.mode synthesize)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "value", args[1], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, _ := json.MarshalIndent(config.Sanitize(cfg), "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}
