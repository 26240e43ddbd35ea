// Package cmd implements the kaios command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/internal/config"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/assistant"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/client"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kaios",
	Short: "K-AI OS game catalog",
	Long: `kaios browses the K-AI OS game catalog from the terminal.

The catalog is served by RAWG (set RAWG_API_KEY or [rawg] api_key in
~/.kaios/config.toml). Responses are cached in Redis when [redis] addr or
REDIS_URL is set. The assistant panel uses Gemini (GEMINI_API_KEY).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := logging.LogLevel(cfg.Log.Level)
		if verbose {
			level = logging.LevelDebug
		}
		logCfg := logging.DefaultConfig()
		logCfg.Level = level
		logger = logging.Setup(logCfg)
		return nil
	},
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.kaios/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// connectRedis returns a client for the configured cache, or nil when none
// is configured or it does not answer.
func connectRedis(ctx context.Context) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, continuing without cache")
		rdb.Close()
		return nil
	}
	return rdb
}

// newRAWGClient builds the catalog client from the loaded configuration.
func newRAWGClient(rdb *redis.Client) (*client.Client, error) {
	if cfg.RAWG.APIKey == "" {
		return nil, errRAWGKeyMissing
	}
	clientCfg := client.DefaultConfig(rdb, cfg.RAWG.APIKey, cfg.RAWG.UserAgent)
	if cfg.RAWG.BaseURL != "" {
		clientCfg.BaseURL = cfg.RAWG.BaseURL
	}
	clientCfg.RateLimit = cfg.RAWG.RateLimit
	clientCfg.PageSize = cfg.RAWG.PageSize
	return client.New(clientCfg)
}

var errRAWGKeyMissing = errors.New("RAWG API key not configured: set RAWG_API_KEY or [rawg] api_key in config.toml")

// newAssistant returns an assistant backed by Gemini when a key is
// configured. Without a key it answers with the missing-key reply.
func newAssistant(ctx context.Context) *assistant.Assistant {
	if cfg.Assistant.APIKey == "" {
		return assistant.New(nil)
	}
	gen, err := assistant.NewGemini(ctx, assistant.Config{
		APIKey:      cfg.Assistant.APIKey,
		Model:       assistant.Model(cfg.Assistant.Model),
		Temperature: cfg.Assistant.Temperature,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Assistant unavailable")
		return assistant.New(nil)
	}
	return assistant.New(gen)
}

// logToFile redirects logging to path so it does not draw over the TUI.
// The returned function closes the file.
func logToFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	level := logging.LogLevel(cfg.Log.Level)
	if verbose {
		level = logging.LevelDebug
	}
	logger = logging.Setup(logging.Config{Level: level, Output: f})
	return func() { f.Close() }, nil
}
