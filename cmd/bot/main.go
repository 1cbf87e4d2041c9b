package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/bot"
	"github.com/ledgermate/ledgermate/internal/config"
	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/logger"
	"github.com/ledgermate/ledgermate/internal/mailer"
	"github.com/ledgermate/ledgermate/internal/media"
	"github.com/ledgermate/ledgermate/internal/onboarding"
	"github.com/ledgermate/ledgermate/internal/quote"
	"github.com/ledgermate/ledgermate/internal/reports"
	"github.com/ledgermate/ledgermate/internal/state"
	"github.com/ledgermate/ledgermate/internal/transport"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supa, err := ledger.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatal("failed to create ledger client", zap.Error(err))
	}

	states := state.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword)

	aic, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("failed to create completion client", zap.Error(err))
	}
	meter := ai.NewMeter(supa)

	mail, err := mailer.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFrom)
	if err != nil {
		log.Fatal("failed to create mailer", zap.Error(err))
	}

	sender := transport.NewHTTPClient(cfg.TransportBaseURL, cfg.TransportAccountSID,
		cfg.TransportAuthToken, cfg.TransportFromNumber)

	b := bot.New(bot.Deps{
		Profiles:    supa,
		Ledgers:     supa,
		States:      states,
		Onboard:     onboarding.NewMachine(states, supa, supa, log),
		Quotes:      quote.NewEngine(supa, cfg.PricingLedgerID),
		AI:          aic,
		Meter:       meter,
		Reports:     reports.NewInterpreter(supa, aic, meter, states, log),
		Sender:      sender,
		Fetcher:     sender,
		OCR:         media.NewHTTPOCR(cfg.OCRBaseURL),
		STT:         media.NewHTTPTranscriber(cfg.TranscribeBaseURL),
		Mail:        mail,
		ChiefHandle: cfg.ChiefHandle,
		Log:         log,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	// Replies go out through the messaging API, not the webhook response,
	// so the webhook always answers 200 with an empty body.
	r.Post("/webhook", func(w http.ResponseWriter, req *http.Request) {
		msg, err := transport.ParseInbound(req)
		if err != nil {
			log.Warn("bad webhook payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.HandleMessage(req.Context(), msg)
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
