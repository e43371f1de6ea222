package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-automod-bot/internal/config"
	"discord-automod-bot/internal/handler"
	"discord-automod-bot/internal/metrics"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/service"
	"discord-automod-bot/internal/sink"
	"discord-automod-bot/internal/tracker"
)

type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *discordgo.Session
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	return &App{
		cfg:     cfg,
		logger:  logger,
		session: session,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("Starting auto-moderation bot")

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	defer func() {
		if err := a.session.Close(); err != nil {
			a.logger.Error("Failed to close session", "error", err)
		}
	}()

	botUser, err := a.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to resolve bot identity: %w", err)
	}
	a.logger.Info("Bot connected", "username", botUser.Username, "id", botUser.ID)

	warningRepo := repository.NewWarningRepository(a.logger, a.cfg.DataDir)
	noteRepo := repository.NewNoteRepository(a.logger, a.cfg.DataDir)
	wordRepo := repository.NewWordListRepository(a.logger, a.cfg.DataDir)
	settingsRepo := repository.NewSettingsRepository(a.logger, a.cfg.DataDir)

	windows := tracker.New()
	discordSink := sink.NewDiscordSink(a.logger, a.session)

	svc := service.NewModerationService(a.logger, warningRepo, noteRepo, wordRepo, settingsRepo, windows, discordSink, botUser.ID)

	h := handler.NewHandler(a.logger, svc, a.session, discordSink, a.cfg)
	h.Register()

	metricsSrv := metrics.NewServer(a.logger, a.cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.Listen(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down...")

	svc.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Metrics server shutdown failed", "error", err)
	}

	for name, store := range map[string]interface{ Flush() error }{
		"warnings":       warningRepo,
		"notes":          noteRepo,
		"filtered_words": wordRepo,
		"automod_config": settingsRepo,
	} {
		if err := store.Flush(); err != nil {
			a.logger.Error("Failed to flush store", "store", name, "error", err)
		}
	}

	return nil
}
