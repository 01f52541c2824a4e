package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/audit"
	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/scheduler"
	"github.com/aminekone/ticketbridge/internal/server/handlers"
	"github.com/aminekone/ticketbridge/internal/server/router"
	intakesvc "github.com/aminekone/ticketbridge/internal/service/intake"
	ticketsvc "github.com/aminekone/ticketbridge/internal/service/tickets"
	"github.com/aminekone/ticketbridge/pkg/clients/inference"
	twilioclient "github.com/aminekone/ticketbridge/pkg/clients/twilio"
	zendeskclient "github.com/aminekone/ticketbridge/pkg/clients/zendesk"
	"github.com/aminekone/ticketbridge/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	journal := audit.NewJournal(cfg.Audit)
	defer func() { _ = journal.Sync() }()

	// Vendor clients are constructed eagerly so configuration errors surface at
	// startup, but a missing integration only disables its pathway.
	var zd zendeskclient.Client
	if client, err := zendeskclient.NewClient(cfg.Zendesk, baseLogger.Named("client.zendesk")); err != nil {
		baseLogger.Warn("zendesk client disabled", zap.Error(err))
	} else {
		zd = client
	}

	// The classifier backend is a deployment decision: Azure OpenAI when its
	// key is present, HuggingFace zero-shot otherwise.
	var classifier inference.Classifier
	var analyzer inference.Analyzer
	if azure, err := inference.NewAzureOpenAIClient(cfg.AzureOpenAI, baseLogger.Named("client.azureopenai")); err == nil {
		classifier = azure
		analyzer = azure
		baseLogger.Info("azure openai backend enabled", zap.String("deployment", cfg.AzureOpenAI.Deployment))
	} else if hf, hfErr := inference.NewHuggingFaceClient(cfg.HuggingFace, baseLogger.Named("client.huggingface")); hfErr == nil {
		classifier = hf
		baseLogger.Info("huggingface zero-shot backend enabled")
		baseLogger.Warn("comment analysis requires azure openai, analyzer disabled", zap.Error(err))
	} else {
		baseLogger.Warn("no classifier backend configured", zap.NamedError("azure", err), zap.NamedError("huggingface", hfErr))
	}

	var messenger twilioclient.Messenger
	if client, err := twilioclient.NewClient(cfg.Twilio, baseLogger.Named("client.twilio")); err != nil {
		baseLogger.Warn("twilio client disabled", zap.Error(err))
	} else {
		messenger = client
	}

	ticketSvc := ticketsvc.NewService(classifier, analyzer, zd, journal, baseLogger.Named("svc.tickets"))
	intakeSvc := intakesvc.NewService(zd, baseLogger.Named("svc.intake"))

	zendeskHandler := handlers.NewZendeskWebhookHandler(ticketSvc, journal, baseLogger.Named("handlers.zendesk"))
	whatsappHandler := handlers.NewWhatsAppHandler(intakeSvc, messenger, cfg.Twilio.AllowUnsigned, journal, baseLogger.Named("handlers.whatsapp"))
	engine := router.New(zendeskHandler, whatsappHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, journal, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
