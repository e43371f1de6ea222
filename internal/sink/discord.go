package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-automod-bot/internal/moderr"
)

const mutedRoleName = "Muted"

// DiscordSink adapts the ActionSink contract onto the Discord REST API.
type DiscordSink struct {
	logger  *slog.Logger
	session *discordgo.Session
}

func NewDiscordSink(logger *slog.Logger, session *discordgo.Session) *DiscordSink {
	return &DiscordSink{
		logger:  logger,
		session: session,
	}
}

func (s *DiscordSink) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := s.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	return s.wrap("delete message", err)
}

func (s *DiscordSink) Timeout(ctx context.Context, guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	err := s.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return s.wrap("timeout", err)
}

func (s *DiscordSink) Ban(ctx context.Context, guildID, userID, reason string) error {
	err := s.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
	return s.wrap("ban", err)
}

func (s *DiscordSink) Notify(ctx context.Context, channelID, text string) error {
	_, err := s.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return s.wrap("notify", err)
}

// EnsureMutedRole looks the guild's Muted role up by name and creates it only
// when absent, denying send permission in every channel. Safe to call on
// every guild attach.
func (s *DiscordSink) EnsureMutedRole(guildID string) (string, error) {
	roles, err := s.session.GuildRoles(guildID)
	if err != nil {
		return "", s.wrap("list roles", err)
	}
	for _, role := range roles {
		if role.Name == mutedRoleName {
			return role.ID, nil
		}
	}

	role, err := s.session.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: mutedRoleName})
	if err != nil {
		return "", s.wrap("create muted role", err)
	}

	channels, err := s.session.GuildChannels(guildID)
	if err != nil {
		return role.ID, s.wrap("list channels", err)
	}
	for _, ch := range channels {
		err := s.session.ChannelPermissionSet(ch.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, discordgo.PermissionSendMessages)
		if err != nil {
			s.logger.Warn("Failed to restrict channel for muted role", "channel_id", ch.ID, "error", err)
		}
	}
	return role.ID, nil
}

func (s *DiscordSink) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w: %v", op, moderr.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
