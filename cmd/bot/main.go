// Package main is the entry point for the Telegram token assistant, a
// conversational bot answering cryptocurrency questions from live market
// data and model-generated insight.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/ai"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/bot"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/cache"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/config"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/facade"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/logstore"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/market"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/memory"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/otel"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/telegram"
)

func main() {
	setupLogging()

	cfg := config.Load()

	shutdownTracer := otel.InitTracer(cfg.OtelEndpoint)
	defer shutdownTracer()

	logs, err := logstore.Open(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to open query log store: %v", err)
	}
	defer logs.Close()

	model, err := ai.NewOpenAIModel(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ModelName)
	if err != nil {
		logrus.Fatalf("Failed to create model client: %v", err)
	}

	transport, err := telegram.NewClient(cfg.TelegramURL, cfg.TelegramToken, cfg.SendRateLimit, cfg.SendBurst)
	if err != nil {
		logrus.Fatalf("Failed to create Telegram client: %v", err)
	}

	transcripts := memory.NewStore(cfg.MaxChats)
	analyzer := ai.NewAnalyzer(model, transcripts, logs)

	venue := market.NewDexScreenerClient(cfg.DexScreenerURL)
	aggregator := market.NewCoinGeckoClient(cfg.CoinGeckoURL)

	metrics := bot.RegisterMetrics()
	cached := facade.New(cache.NewWithTTL(cfg.CacheTTL), venue, aggregator, analyzer).
		WithCacheMetrics(metrics.CacheOps()).
		WithFetchMetrics(metrics.FetchErrors())

	router := bot.NewRouter(cached, logs, transport, metrics)

	admin := newAdminServer(cfg.Port, logs, transcripts)
	admin.Start()

	logrus.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"model":     cfg.ModelName,
		"cache_ttl": cfg.CacheTTL,
		"max_chats": cfg.MaxChats,
	}).Info("Assistant initialized")

	ctx, cancel := context.WithCancel(context.Background())
	go transport.Poll(ctx, router)

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")
	cancel()
	admin.Stop()
	logrus.Info("Stopped")
}

// setupLogging configures the logging for the application.
func setupLogging() {
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging configured")
}
