// Command kaios-proxy serves Play Store listings, search results and app
// details as JSON for the K-AI OS front-end.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/playstore"
)

func main() {
	// Configuration from environment
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "3000")
	userAgent := getEnv("USER_AGENT", "kaios-proxy/1.0")
	playBaseURL := getEnv("PLAY_BASE_URL", playstore.DefaultBaseURL)

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	if pretty := os.Getenv("LOG_PRETTY"); pretty != "" {
		logCfg.Pretty = pretty == "1" || pretty == "true"
	}
	logger := logging.Setup(logCfg).With().Str("component", "proxy").Logger()

	// Redis is optional: without it results are scraped on every request.
	var redisClient *redis.Client
	if redisURL != "" && redisURL != "none" {
		redisClient = connectRedis(redisURL)
		if redisClient == nil {
			logger.Warn().Str("addr", redisURL).Msg("Redis unreachable, serving without cache")
		} else {
			logger.Info().Str("addr", redisURL).Msg("Connected to Redis")
			defer redisClient.Close()
		}
	}

	scraperCfg := playstore.DefaultConfig()
	scraperCfg.BaseURL = playBaseURL
	scraperCfg.UserAgent = userAgent
	scraper := playstore.New(scraperCfg)

	srv := NewServer(scraper, redisClient, DefaultServerConfig())

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("user_agent", userAgent).Msg("Starting proxy server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Close()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// connectRedis returns a client for addr, or nil when the server does not
// answer a ping.
func connectRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}
	return client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
