package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/application"
	"telegram-group-guardian/internal/config"
	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	aiAdapters "telegram-group-guardian/internal/infra/adapters/ai"
	tele "telegram-group-guardian/internal/infra/adapters/telegram"
	pg "telegram-group-guardian/internal/infra/db/postgres"
	"telegram-group-guardian/internal/infra/i18n"
	"telegram-group-guardian/internal/infra/logging"
	"telegram-group-guardian/internal/infra/metrics"
	"telegram-group-guardian/internal/infra/web"
	"telegram-group-guardian/internal/usecase"
)

// Set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from the env too, so config failures go
		// straight to stderr.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config load failed")
	}

	log := logging.New(cfg.Log, cfg.Dev())
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
	log.Info().
		Str("env", cfg.Env).
		Str("version", version).
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Dev())).
		Msg("starting group guardian")

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	usageRepo := pg.NewPostgresUsageRepo(pool)

	// ---- i18n ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Lang)
	if err != nil {
		log.Fatal().Err(err).Msg("translator init failed")
	}

	// ---- AI adapter (Gemini -> OpenAI -> noop in dev) ----
	ai, err := buildAI(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("ai adapter init failed")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.Concurrency)
	ai = aiAdapters.NewMeteredAI(ai)

	// ---- Moderation wordlist ----
	words, err := model.LoadWordlist(cfg.Moderation.WordlistFile)
	if err != nil {
		log.Fatal().Err(err).Msg("wordlist load failed")
	}

	// ---- Telegram ----
	chatAPI, err := tele.NewChatAPI(cfg.Bot.Token, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}

	// ---- Use cases ----
	usageUC := usecase.NewUsageUseCase(usageRepo, log)
	moderationUC := usecase.NewModerationUseCase(words, chatAPI, usageUC, translator, cfg.Moderation.BanDuration, log)
	rewriteUC := usecase.NewRewriteUseCase(ai, translator, cfg.AI.Model, log)

	// ---- Facade + polling ----
	facade := application.NewBotFacade(moderationUC, rewriteUC, usageUC, chatAPI, translator)
	bot, err := tele.NewBotAdapter(chatAPI, facade, translator, &cfg.Bot, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram adapter init failed")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("polling stopped")
		}
	}()

	// ---- Ops HTTP server ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, cfg.Web.AdminAPIToken, !cfg.Dev(), cfg.Web.SessionTTL)
	ops := web.NewServer(usageUC, auth, pool, log)
	server := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           ops.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("ops server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server failed")
		}
	}()

	go samplePoolStats(ctx, pool)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")

	bot.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown failed")
	}
	cancel()
}

// buildAI picks the first configured provider. Dev runs without a key fall
// back to the echoing noop adapter so the bot stays usable offline.
func buildAI(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (adapter.AIServiceAdapter, error) {
	switch {
	case cfg.AI.GeminiAPIKey != "":
		log.Info().Str("model", cfg.AI.Model).Msg("ai adapter: gemini")
		return aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model, cfg.AI.MaxOutputTokens)
	case cfg.AI.OpenAIAPIKey != "":
		log.Info().Str("model", cfg.AI.Model).Msg("ai adapter: openai")
		return aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIAPIKey, cfg.AI.Model, cfg.AI.MaxOutputTokens)
	case cfg.Dev():
		log.Warn().Msg("no AI key configured; using noop adapter")
		return aiAdapters.NewNoopAIAdapter(), nil
	default:
		return nil, domain.ErrNoAIProvider
	}
}

// samplePoolStats exports pgx pool gauges on a fixed cadence.
func samplePoolStats(ctx context.Context, pool *pgxpool.Pool) {
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
