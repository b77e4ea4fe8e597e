package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/config"
	dbRedis "github.com/kailas-cloud/helpdesk/internal/db/redis"
	"github.com/kailas-cloud/helpdesk/internal/domain/analyzer"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/lexicon"
	logpkg "github.com/kailas-cloud/helpdesk/internal/logger"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
	"github.com/kailas-cloud/helpdesk/internal/repository/kbsource"
	"github.com/kailas-cloud/helpdesk/internal/repository/rankcache"
	sessionrepo "github.com/kailas-cloud/helpdesk/internal/repository/session"
	chiTransport "github.com/kailas-cloud/helpdesk/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/helpdesk/internal/transport/openai"
	"github.com/kailas-cloud/helpdesk/internal/usecase/answer"
	"github.com/kailas-cloud/helpdesk/internal/usecase/dialogue"
	healthuc "github.com/kailas-cloud/helpdesk/internal/usecase/health"
	"github.com/kailas-cloud/helpdesk/internal/usecase/knowledge"
	"github.com/kailas-cloud/helpdesk/internal/usecase/ranking"
	"github.com/kailas-cloud/helpdesk/internal/version"
)

// kbRetryInterval paces reload attempts when the startup load failed and no refresh is configured.
const kbRetryInterval = time.Minute

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err.Error())
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting helpdesk API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("completion_model", cfg.Completion.Model),
	)

	lex, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}

	// Register domain metrics explicitly (HTTP metrics self-register)
	metrics.RegisterDomainMetrics()

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	// Ranking cache. Pass nil interfaces (not typed nil pointers) when disabled.
	var (
		cache  ranking.Cache
		pinger healthuc.DBPinger
	)
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		cache = rankcache.NewMemory(config.Seconds(cfg.Cache.TTLSec))
	case config.CacheDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(bgCtx, config.Seconds(cfg.Database.ReadinessTimeout)); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Database.Addrs))

		cache = rankcache.NewShared(store, config.Seconds(cfg.Cache.TTLSec), logger)
		pinger = store
	}

	// Knowledge base
	holder := kb.NewHolder()
	source := kbsource.New(kbsource.Config{
		Location: cfg.KnowledgeBase.Source,
		Timeout:  config.Seconds(cfg.KnowledgeBase.FetchTimeoutSec),
		Logger:   logger,
	})
	loader := knowledge.New(source, holder, logger)

	loadErr := loader.Load(bgCtx)
	if loadErr != nil {
		// Serve degraded; /health reports it until a snapshot loads.
		logger.Error("Initial knowledge base load failed", zap.Error(loadErr))
	}
	if refresh := cfg.KnowledgeBase.RefreshIntervalSec; refresh > 0 {
		go loader.Run(bgCtx, config.Seconds(refresh))
	} else if loadErr != nil {
		go loader.Retry(bgCtx, kbRetryInterval)
	}

	// Matching pipeline
	an := analyzer.New(lex)
	ranker := ranking.New(an, holder, cache, ranking.Config{
		MinScore: cfg.Matching.MinScore,
		TopK:     cfg.Matching.TopK,
	})
	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:      cfg.Completion.APIKey,
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
		Logger:      logger,
	})
	composer := answer.New(completer, lex, answer.Config{
		DirectMatch: cfg.Matching.DirectMatch,
		Fallback:    cfg.Matching.Fallback,
		ContextSize: cfg.Matching.ContextSize,
		Timeout:     config.Seconds(cfg.Completion.TimeoutSec),
	}, logger)

	// Sessions
	sessions := sessionrepo.New(config.Seconds(cfg.Session.IdleTimeoutSec), logger)
	go sessions.Run(bgCtx, config.Seconds(cfg.Session.SweepIntervalSec))

	dialogueSvc := dialogue.New(an, ranker, composer, sessions, lex, logger)
	healthSvc := healthuc.New(holder, dialogueSvc, pinger)

	server := chiTransport.NewServer(dialogueSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.Seconds(cfg.HTTP.ReadTimeoutSec),
		WriteTimeout: config.Seconds(cfg.HTTP.WriteTimeoutSec),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.HTTP.ShutdownSec))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	cancelBg()

	logger.Info("Server stopped gracefully")
}
