// Command bot polls the homework statuses API and reports status changes to
// a Telegram chat.
//
// Usage:
//
//	bot                 # run the poller
//	bot check           # validate configuration and exit
//	bot version         # show version info
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"homework-bot/api/internal/config"
	"homework-bot/api/internal/homework"
	"homework-bot/api/internal/httpserver"
	"homework-bot/api/internal/logging"
	"homework-bot/api/internal/poller"
	"homework-bot/api/internal/practicum"
	"homework-bot/api/internal/telegram"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "bot",
	Short:         "Homework status Telegram bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()
		if _, err := homework.LoadVerdicts(cfg.VerdictsFile); err != nil {
			return err
		}
		logger.Info("configuration ok",
			"endpoint", cfg.Endpoint,
			"retry_period", cfg.RetryPeriod,
			"chat_id", cfg.TelegramChatID,
		)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bot %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(checkCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// startupOut receives records logged before the configured logger exists.
var startupOut io.Writer = os.Stdout

// setup loads .env and the environment, builds the logger and checks the
// required values. Every startup failure is logged at CRITICAL.
func setup() (*config.Config, *slog.Logger, func(), error) {
	fallback := logging.New(startupOut, slog.LevelDebug)
	critical := func(logger *slog.Logger, msg string, args ...any) {
		logger.Log(context.Background(), logging.LevelCritical, msg, args...)
	}

	dotenvErr := godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		critical(fallback, "invalid configuration", "error", err)
		return nil, nil, nil, err
	}
	logger, closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		critical(fallback, "cannot set up logging", "error", err)
		return nil, nil, nil, err
	}
	closeLog := func() { _ = closer.Close() }

	if dotenvErr != nil {
		logger.Debug("no .env file loaded, using environment variables", "path", envFile, "error", dotenvErr)
	}

	if err := cfg.Validate(); err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			critical(logger, "required environment variables are missing", "missing", missing.Names)
		} else {
			critical(logger, "invalid configuration", "error", err)
		}
		closeLog()
		return nil, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

func run(parent context.Context) error {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	verdicts, err := homework.LoadVerdicts(cfg.VerdictsFile)
	if err != nil {
		logger.Log(context.Background(), logging.LevelCritical, "cannot load verdicts", "error", err)
		return err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		logger.Log(context.Background(), logging.LevelCritical, "telegram bot init failed", "error", err)
		return err
	}
	bot.Debug = false
	logger.Info("telegram bot authorized", "username", bot.Self.UserName)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := practicum.New(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout)
	notifier := telegram.NewNotifier(bot, cfg.TelegramChatID, logger)
	loop := poller.New(client, notifier, verdicts, cfg.RetryPeriod, logger)

	if cfg.HealthAddr != "" {
		maxAge := 3*cfg.RetryPeriod + cfg.RequestTimeout
		h := httpserver.Handler(loop.LastSuccess, maxAge)
		go func() {
			if err := httpserver.Serve(ctx, cfg.HealthAddr, h, logger); err != nil {
				logger.Error("health server failed", "error", err)
			}
		}()
	}

	start := time.Now()
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete", "uptime", time.Since(start).Truncate(time.Second))
	return nil
}
