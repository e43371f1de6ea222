package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"discord-automod-bot/internal/config"
	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/service"
	"discord-automod-bot/internal/sink"
)

type Handler struct {
	logger  *slog.Logger
	svc     service.Service
	session *discordgo.Session
	sink    *sink.DiscordSink
	cfg     *config.Config
	tracer  trace.Tracer
}

func NewHandler(logger *slog.Logger, svc service.Service, session *discordgo.Session, discordSink *sink.DiscordSink, cfg *config.Config) *Handler {
	return &Handler{
		logger:  logger,
		svc:     svc,
		session: session,
		sink:    discordSink,
		cfg:     cfg,
		tracer:  otel.Tracer("handler"),
	}
}

// Register attaches the gateway event handlers. discordgo dispatches each
// event on its own goroutine, so unrelated users' messages are never
// serialized here.
func (h *Handler) Register() {
	h.session.AddHandler(h.onMessageCreate)
	h.session.AddHandler(h.onGuildMemberAdd)
	h.session.AddHandler(h.onGuildCreate)
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, span := h.tracer.Start(context.Background(), "onMessageCreate")
	defer span.End()

	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	span.SetAttributes(attribute.String("guild_id", m.GuildID))

	if strings.HasPrefix(m.Content, h.cfg.CommandPrefix) {
		h.handleCommand(ctx, s, m)
		return
	}

	payload := pipeline.Payload{
		EventID:       uuid.NewString(),
		GuildID:       m.GuildID,
		ChannelID:     m.ChannelID,
		MessageID:     m.ID,
		SenderID:      m.Author.ID,
		SenderIsBot:   m.Author.Bot,
		SenderIsAdmin: h.isAdministrator(s, m.Message),
		Text:          m.Content,
		MentionCount:  len(m.Mentions),
	}
	if err := h.svc.HandleMessage(ctx, payload); err != nil {
		h.logger.Error("Message handling failed", "event_id", payload.EventID, "error", err)
	}
}

func (h *Handler) onGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	ctx, span := h.tracer.Start(context.Background(), "onGuildMemberAdd")
	defer span.End()

	if e.User == nil || e.User.Bot {
		return
	}
	if err := h.svc.HandleMemberJoin(ctx, e.GuildID, e.User.ID); err != nil {
		h.logger.Error("Join handling failed", "guild_id", e.GuildID, "error", err)
	}
}

func (h *Handler) onGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if _, err := h.sink.EnsureMutedRole(e.ID); err != nil {
		h.logger.Error("Failed to ensure muted role", "guild_id", e.ID, "error", err)
	}
}

func (h *Handler) isAdministrator(s *discordgo.Session, m *discordgo.Message) bool {
	perms, err := s.State.MessagePermissions(m)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

// topRolePosition resolves a member's rank as the highest position among its
// roles. Rank comparison is numeric, never by role name.
func (h *Handler) topRolePosition(s *discordgo.Session, guildID string, member *discordgo.Member) int {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return 0
	}
	pos := 0
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > pos {
				pos = role.Position
			}
		}
	}
	return pos
}

func (h *Handler) member(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	return s.GuildMember(guildID, userID)
}

func (h *Handler) reply(channelID, text string) {
	if _, err := h.session.ChannelMessageSend(channelID, text); err != nil {
		h.logger.Warn("Failed to send reply", "channel_id", channelID, "error", err)
	}
}
