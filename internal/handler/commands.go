package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-automod-bot/internal/messages"
	"discord-automod-bot/internal/moderr"
	"discord-automod-bot/internal/service"
)

func serviceWarnRequest(m *discordgo.MessageCreate, targetID, reason string, modRank, targetRank int) service.WarnRequest {
	return service.WarnRequest{
		GuildID:       m.GuildID,
		ChannelID:     m.ChannelID,
		TargetID:      targetID,
		ModeratorID:   m.Author.ID,
		ModeratorRank: modRank,
		TargetRank:    targetRank,
		Reason:        reason,
	}
}

// parseCommand splits a prefixed message into the command name and its
// arguments. ok is false when the message is only the prefix.
func parseCommand(content, prefix string) (string, []string, bool) {
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (h *Handler) handleCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	name, args, ok := parseCommand(m.Content, h.cfg.CommandPrefix)
	if !ok {
		return
	}

	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		h.logger.Warn("Failed to resolve permissions", "user_id", m.Author.ID, "error", err)
		return
	}

	switch name {
	case "automod":
		if perms&discordgo.PermissionAdministrator == 0 {
			h.reply(m.ChannelID, messages.MsgPermissionDenied)
			return
		}
		h.cmdAutoMod(ctx, m, args)
	case "addfilter", "removefilter":
		if perms&discordgo.PermissionAdministrator == 0 {
			h.reply(m.ChannelID, messages.MsgPermissionDenied)
			return
		}
		h.cmdFilter(ctx, m, name, args)
	case "warn", "warnings", "clearwarnings", "note", "notes":
		if perms&discordgo.PermissionManageMessages == 0 {
			h.reply(m.ChannelID, messages.MsgPermissionDenied)
			return
		}
		h.cmdModeration(ctx, s, m, name, args)
	}
}

func (h *Handler) cmdAutoMod(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		cfg := h.svc.AutoModSettings(ctx)
		var b strings.Builder
		b.WriteString("Auto-moderation settings:\n")
		fmt.Fprintf(&b, "spam_threshold: %d\n", cfg.SpamThreshold)
		fmt.Fprintf(&b, "spam_interval: %d\n", cfg.SpamInterval)
		fmt.Fprintf(&b, "raid_threshold: %d\n", cfg.RaidThreshold)
		fmt.Fprintf(&b, "raid_interval: %d\n", cfg.RaidInterval)
		fmt.Fprintf(&b, "max_mentions: %d\n", cfg.MaxMentions)
		fmt.Fprintf(&b, "max_links: %d\n", cfg.MaxLinks)
		fmt.Fprintf(&b, "mute_duration: %d\n", cfg.MuteDuration)
		fmt.Fprintf(&b, "warn_expire_days: %d\n", cfg.WarnExpireDays)
		fmt.Fprintf(&b, "max_warnings: %d\n", cfg.MaxWarnings)
		fmt.Fprintf(&b, "auto_ban_threshold: %d", cfg.AutoBanThreshold)
		h.reply(m.ChannelID, b.String())
		return
	}
	if len(args) < 2 {
		h.reply(m.ChannelID, messages.MsgInvalidValue)
		return
	}

	if err := h.svc.SetAutoModSetting(ctx, args[0], args[1]); err != nil {
		var cfgErr *moderr.ConfigError
		if errors.As(err, &cfgErr) {
			if cfgErr.Reason == "unknown setting" {
				h.reply(m.ChannelID, messages.MsgInvalidSetting)
			} else {
				h.reply(m.ChannelID, messages.MsgInvalidValue)
			}
			return
		}
		h.logger.Error("Failed to update setting", "setting", args[0], "error", err)
		return
	}
	h.reply(m.ChannelID, fmt.Sprintf(messages.MsgSettingUpdated, args[0], args[1]))
}

func (h *Handler) cmdFilter(ctx context.Context, m *discordgo.MessageCreate, name string, args []string) {
	if len(args) == 0 {
		h.reply(m.ChannelID, messages.MsgInvalidValue)
		return
	}
	word := args[0]

	switch name {
	case "addfilter":
		if err := h.svc.AddFilterWord(ctx, word); err != nil {
			h.logger.Error("Failed to add filter word", "error", err)
			return
		}
		h.reply(m.ChannelID, fmt.Sprintf(messages.MsgFilterAdded, word))
	case "removefilter":
		err := h.svc.RemoveFilterWord(ctx, word)
		if err != nil && !errors.Is(err, moderr.ErrNotFound) {
			h.logger.Error("Failed to remove filter word", "error", err)
			return
		}
		if err == nil {
			h.reply(m.ChannelID, fmt.Sprintf(messages.MsgFilterRemoved, word))
		}
	}

	// The invoking message echoes the word; remove it like the command reply
	// surface always has.
	if err := h.session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		h.logger.Debug("Failed to delete filter command message", "error", err)
	}
}

func (h *Handler) cmdModeration(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, name string, args []string) {
	if len(m.Mentions) == 0 {
		h.reply(m.ChannelID, "Mention the member to operate on.")
		return
	}
	target := m.Mentions[0]

	switch name {
	case "warn":
		reason := strings.TrimSpace(trailingArg(args, 1))
		if reason == "" {
			h.reply(m.ChannelID, "A reason is required.")
			return
		}
		h.cmdWarn(ctx, s, m, target, reason)
	case "warnings":
		h.cmdWarnings(ctx, s, m, target)
	case "clearwarnings":
		err := h.svc.ClearWarnings(ctx, target.ID)
		if errors.Is(err, moderr.ErrNotFound) {
			h.reply(m.ChannelID, fmt.Sprintf(messages.MsgNoWarningsClear, target.Mention()))
			return
		}
		if err != nil {
			h.logger.Error("Failed to clear warnings", "user_id", target.ID, "error", err)
			return
		}
		h.reply(m.ChannelID, fmt.Sprintf(messages.MsgWarningsCleared, target.Mention()))
	case "note":
		content := strings.TrimSpace(trailingArg(args, 1))
		if content == "" {
			h.reply(m.ChannelID, "Note content is required.")
			return
		}
		if err := h.svc.AddNote(ctx, target.ID, m.Author.ID, content); err != nil {
			h.logger.Error("Failed to add note", "user_id", target.ID, "error", err)
			return
		}
		h.reply(m.ChannelID, fmt.Sprintf(messages.MsgNoteAdded, target.Mention()))
	case "notes":
		h.cmdNotes(ctx, s, m, target)
	}
}

func (h *Handler) cmdWarn(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, target *discordgo.User, reason string) {
	modMember, err := h.member(s, m.GuildID, m.Author.ID)
	if err != nil {
		h.logger.Warn("Failed to resolve moderator member", "user_id", m.Author.ID, "error", err)
		return
	}
	targetMember, err := h.member(s, m.GuildID, target.ID)
	if err != nil {
		h.logger.Warn("Failed to resolve target member", "user_id", target.ID, "error", err)
		return
	}

	count, _, err := h.svc.WarnUser(ctx, serviceWarnRequest(m, target.ID, reason,
		h.topRolePosition(s, m.GuildID, modMember),
		h.topRolePosition(s, m.GuildID, targetMember)))
	if errors.Is(err, moderr.ErrPermissionDenied) {
		h.reply(m.ChannelID, messages.MsgCannotWarnRank)
		return
	}
	if err != nil {
		h.logger.Error("Failed to warn user", "user_id", target.ID, "error", err)
		return
	}
	h.reply(m.ChannelID, fmt.Sprintf(messages.MsgMemberWarned, target.Mention(), count, reason))
}

func (h *Handler) cmdWarnings(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, target *discordgo.User) {
	list, err := h.svc.Warnings(ctx, target.ID)
	if errors.Is(err, moderr.ErrNotFound) {
		h.reply(m.ChannelID, fmt.Sprintf(messages.MsgNoWarnings, target.Mention()))
		return
	}
	if err != nil {
		h.logger.Error("Failed to list warnings", "user_id", target.ID, "error", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Warnings for %s:\n", target.Username)
	for i, w := range list {
		fmt.Fprintf(&b, "%d. %s - by %s at %s\n", i+1, w.Reason, h.moderatorName(s, m.GuildID, w.Moderator), w.Timestamp.Format(time.DateTime))
	}
	h.reply(m.ChannelID, b.String())
}

func (h *Handler) cmdNotes(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, target *discordgo.User) {
	list, err := h.svc.Notes(ctx, target.ID)
	if errors.Is(err, moderr.ErrNotFound) {
		h.reply(m.ChannelID, fmt.Sprintf(messages.MsgNoNotes, target.Mention()))
		return
	}
	if err != nil {
		h.logger.Error("Failed to list notes", "user_id", target.ID, "error", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notes for %s:\n", target.Username)
	for i, n := range list {
		fmt.Fprintf(&b, "%d. %s - by %s at %s\n", i+1, n.Content, h.moderatorName(s, m.GuildID, n.Moderator), n.Timestamp.Format(time.DateTime))
	}
	h.reply(m.ChannelID, b.String())
}

func (h *Handler) moderatorName(s *discordgo.Session, guildID, userID string) string {
	member, err := h.member(s, guildID, userID)
	if err != nil || member.User == nil {
		return "Unknown Moderator"
	}
	return member.User.Username
}

// trailingArg rejoins args[skip:], so multi-word reasons and note contents
// survive the whitespace split. skip counts the mention token.
func trailingArg(args []string, skip int) string {
	if len(args) <= skip {
		return ""
	}
	return strings.Join(args[skip:], " ")
}
