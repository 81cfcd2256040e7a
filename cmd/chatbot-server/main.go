// cmd/chatbot-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wozo-chatbot/internal/chatbot/conversation"
	"wozo-chatbot/internal/chatbot/escalation"
	"wozo-chatbot/internal/chatbot/faq"
	"wozo-chatbot/internal/chatbot/respond"
	"wozo-chatbot/internal/common/aws"
	"wozo-chatbot/internal/common/config"
	"wozo-chatbot/internal/common/database"
	commonhttp "wozo-chatbot/internal/common/http"
	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/common/observability"
	"wozo-chatbot/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chatbot server...",
		zap.String("faqSource", cfg.FAQ.Source),
		zap.String("addr", cfg.Server.Addr()),
	)

	obs := observability.New("chatbot-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL when the FAQ source or conversation logging needs it ---
	var pgClient *database.PostgresClient
	if cfg.FAQ.Source == "postgres" || cfg.Conversation.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pgClient, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return pgClient.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres unavailable", zap.Error(err))
		}
		defer pgClient.Close()
	}

	// --- Init Redis when fallback tracking is enabled ---
	var redisClient *database.RedisClient
	if cfg.Conversation.Tracking.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis unavailable", zap.Error(err))
		}
		defer redisClient.Close()
	}

	// --- Knowledge base source ---
	var source faq.Source
	switch cfg.FAQ.Source {
	case "postgres":
		source = faq.NewPostgresSource(pgClient.GetDB(), cfg.FAQ.Table, log)
	case "supabase":
		httpClient := commonhttp.NewClient(config.GetDuration(cfg.FAQ.Supabase.Timeout))
		source = faq.NewSupabaseSource(
			httpClient,
			cfg.FAQ.Supabase.URL,
			cfg.FAQ.Supabase.ServiceRoleKey,
			cfg.FAQ.Table,
			cfg.FAQ.Supabase.MaxRetries,
			log,
		)
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch unavailable", zap.Error(err))
		}
		source = faq.NewElasticsearchSource(esClient.Client, cfg.FAQ.Index, log)
	case "file":
		source = faq.NewFileSource(cfg.FAQ.File, log)
	default:
		zapLog.Fatal("unknown faq source", zap.String("source", cfg.FAQ.Source))
	}

	// --- Response builder ---
	responder := respond.NewHandler(&respond.Config{
		MatchThreshold: cfg.Matching.Threshold,
		MaxSuggestions: cfg.Matching.MaxSuggestions,
	}, log)

	// --- Conversation logging ---
	var recorder *conversation.Recorder
	if cfg.Conversation.Enabled {
		store := conversation.NewStore(pgClient.GetDB(), cfg.Conversation.Table, log)
		recorder = conversation.NewRecorder(store, config.GetDuration(cfg.Conversation.Timeout), log)
	}

	// --- Fallback tracking ---
	var tracker *conversation.Tracker
	if cfg.Conversation.Tracking.Enabled {
		tracker = conversation.NewTracker(redisClient.GetClient(), cfg.Conversation.Tracking.Key, log)
	}

	// --- Support escalation ---
	var notifier *escalation.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SNS.Enabled {
		var sesClient escalation.SESService
		var snsClient escalation.SNSService

		if cfg.Notifications.Email.Enabled {
			client, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			sesClient = client
		}
		if cfg.Notifications.SNS.Enabled {
			client, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			snsClient = client
		}

		notifier = escalation.NewNotifier(&escalation.Config{
			EmailEnabled: cfg.Notifications.Email.Enabled,
			FromEmail:    cfg.Notifications.Email.FromEmail,
			SupportEmail: cfg.Notifications.Email.SupportEmail,
			SNSEnabled:   cfg.Notifications.SNS.Enabled,
			TopicARN:     cfg.Notifications.SNS.TopicARN,
		}, sesClient, snsClient, log)
	}

	handler := server.NewHandler(cfg, source, responder, recorder, tracker, notifier, obs, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Wait for shutdown signal ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	// Drain in-flight background writes before closing connections.
	if recorder != nil {
		recorder.Wait()
	}
	if tracker != nil {
		tracker.Wait()
	}
	if notifier != nil {
		notifier.Wait()
	}

	zapLog.Info("Chatbot server stopped")
}
