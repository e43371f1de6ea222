package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"discord-automod-bot/internal/messages"
	"discord-automod-bot/internal/metrics"
	"discord-automod-bot/internal/moderr"
	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/pipeline/detectors"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/sink"
	"discord-automod-bot/internal/tracker"
)

type Service interface {
	HandleMessage(ctx context.Context, payload pipeline.Payload) error
	HandleMemberJoin(ctx context.Context, guildID, userID string) error
	WarnUser(ctx context.Context, req WarnRequest) (int, Action, error)
	Warnings(ctx context.Context, userID string) ([]repository.Warning, error)
	ClearWarnings(ctx context.Context, userID string) error
	AddNote(ctx context.Context, userID, moderatorID, content string) error
	Notes(ctx context.Context, userID string) ([]repository.Note, error)
	AddFilterWord(ctx context.Context, word string) error
	RemoveFilterWord(ctx context.Context, word string) error
	AutoModSettings(ctx context.Context) repository.AutoModSettings
	SetAutoModSetting(ctx context.Context, name, value string) error
	Wait()
}

// WarnRequest is a manual moderator warning. Ranks are the numeric role
// positions obtained from the platform, compared numerically.
type WarnRequest struct {
	GuildID       string
	ChannelID     string
	TargetID      string
	ModeratorID   string
	ModeratorRank int
	TargetRank    int
	Reason        string
}

type ModerationService struct {
	logger       *slog.Logger
	warningRepo  repository.WarningRepository
	noteRepo     repository.NoteRepository
	wordRepo     repository.WordListRepository
	settingsRepo repository.SettingsRepository
	pipeline     *pipeline.Manager
	raidDetector *detectors.RaidDetector
	sink         sink.ActionSink
	tracer       trace.Tracer
	botUserID    string

	// In-flight sink calls and persistence writes; waited on at shutdown.
	actions sync.WaitGroup

	mu        sync.Mutex
	raidAt    map[string]time.Time
	tempBans  map[string]time.Time // reserved, never populated
}

func NewModerationService(
	logger *slog.Logger,
	warningRepo repository.WarningRepository,
	noteRepo repository.NoteRepository,
	wordRepo repository.WordListRepository,
	settingsRepo repository.SettingsRepository,
	windows *tracker.SlidingWindow,
	actionSink sink.ActionSink,
	botUserID string,
) Service {

	spam := detectors.NewSpamDetector(settingsRepo, windows)
	content := detectors.NewContentFilterDetector(wordRepo)
	mention := detectors.NewMentionDetector(settingsRepo)
	link := detectors.NewLinkDetector(settingsRepo)

	pm := pipeline.NewManager(spam, content, mention, link)

	return &ModerationService{
		logger:       logger,
		warningRepo:  warningRepo,
		noteRepo:     noteRepo,
		wordRepo:     wordRepo,
		settingsRepo: settingsRepo,
		pipeline:     pm,
		raidDetector: detectors.NewRaidDetector(settingsRepo, windows),
		sink:         actionSink,
		tracer:       otel.Tracer("service"),
		botUserID:    botUserID,
		raidAt:       make(map[string]time.Time),
		tempBans:     make(map[string]time.Time),
	}
}

// HandleMessage is the event ingest: one message runs through the detectors
// in fixed order and at most the first violation is acted on.
func (s *ModerationService) HandleMessage(ctx context.Context, payload pipeline.Payload) error {
	ctx, span := s.tracer.Start(ctx, "HandleMessage")
	defer span.End()

	start := time.Now()
	var procErr error
	defer func() {
		metrics.ObserveEventProcessing("message", time.Since(start).Seconds(), procErr)
	}()

	if payload.SenderIsBot || payload.SenderIsAdmin || payload.GuildID == "" {
		return nil
	}

	violation, err := s.pipeline.Process(ctx, payload)
	if err != nil {
		// Detector failures are isolated; the event keeps being processed.
		s.logger.Error("Detector failure", "event_id", payload.EventID, "error", err)
	}
	if violation == nil {
		return nil
	}

	s.logger.Info("Violation detected",
		"event_id", payload.EventID,
		"guild_id", payload.GuildID,
		"user_id", payload.SenderID,
		"kind", violation.Kind,
		"detector", violation.DetectorName)
	metrics.IncViolation(string(violation.Kind))

	if violation.Direct {
		s.handleFilteredContent(payload)
		return nil
	}
	s.handleViolation(ctx, payload, violation)
	return nil
}

// handleFilteredContent deletes the message and posts a short notice. It must
// not fall through to the generic handler, which would delete a second time.
func (s *ModerationService) handleFilteredContent(payload pipeline.Payload) {
	s.runAction(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sink.DeleteMessage(ctx, payload.ChannelID, payload.MessageID); err != nil {
			s.logger.Warn("Failed to delete filtered message", "event_id", payload.EventID, "error", err)
			return
		}
		metrics.IncDeletedMessages("filtered_content")
		text := fmt.Sprintf(messages.MsgFilteredContent, mention(payload.SenderID))
		if err := s.sink.Notify(ctx, payload.ChannelID, text); err != nil {
			s.logger.Warn("Failed to send filter notice", "event_id", payload.EventID, "error", err)
		}
	})
}

// handleViolation is the generic path: best-effort delete, automatic warning
// with the bot as moderator, an immediate timeout for this violation, then an
// escalation check on the new count.
func (s *ModerationService) handleViolation(ctx context.Context, payload pipeline.Payload, v *pipeline.Violation) {
	cfg := s.settingsRepo.Get()

	s.runAction(func() {
		dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sink.DeleteMessage(dctx, payload.ChannelID, payload.MessageID); err != nil {
			s.logger.Warn("Failed to delete message", "event_id", payload.EventID, "error", err)
			return
		}
		metrics.IncDeletedMessages(string(v.Kind))
	})

	warning := repository.Warning{
		Reason:    fmt.Sprintf("Automatic warning: %s", v.Kind),
		Moderator: s.botUserID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.warningRepo.Append(payload.SenderID, warning); err != nil {
		s.logger.Error("Failed to append automatic warning", "user_id", payload.SenderID, "error", err)
	} else {
		metrics.IncWarningsIssued("auto")
	}

	muteDuration := time.Duration(cfg.MuteDuration) * time.Minute
	reason := fmt.Sprintf("Auto-mod: %s", v.Kind)
	s.runAction(func() {
		tctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sink.Timeout(tctx, payload.GuildID, payload.SenderID, muteDuration, reason); err != nil {
			s.logger.Warn("Failed to timeout user", "user_id", payload.SenderID, "error", err)
			return
		}
		text := fmt.Sprintf(messages.MsgAutoModAction, mention(payload.SenderID), v.Kind)
		if err := s.sink.Notify(tctx, payload.ChannelID, text); err != nil {
			s.logger.Warn("Failed to send action notice", "event_id", payload.EventID, "error", err)
		}
	})

	count := s.warningRepo.Count(payload.SenderID)
	s.escalate(payload.GuildID, payload.ChannelID, payload.SenderID, count, cfg)
}

// escalate applies the escalation decision for the user's new warning count.
// Runs after every append, manual or automatic.
func (s *ModerationService) escalate(guildID, channelID, userID string, count int, cfg repository.AutoModSettings) Action {
	action := Escalate(count, cfg.MaxWarnings, cfg.AutoBanThreshold)
	metrics.IncEscalation(string(action))
	if action == ActionNone {
		return action
	}

	s.logger.Info("Escalation triggered", "guild_id", guildID, "user_id", userID, "count", count, "action", action)
	s.runAction(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		var verb string
		switch action {
		case ActionBan:
			err = s.sink.Ban(ctx, guildID, userID, fmt.Sprintf("Exceeded maximum warnings (%d)", count))
			verb = messages.ActionBanned
		case ActionTimeout24h:
			err = s.sink.Timeout(ctx, guildID, userID, escalationTimeout, fmt.Sprintf("Exceeded warning threshold (%d)", count))
			verb = messages.ActionTimedOut
		}
		if err != nil {
			s.logger.Warn("Failed to apply escalation action", "user_id", userID, "action", action, "error", err)
			return
		}
		if channelID != "" {
			text := fmt.Sprintf(messages.MsgAutoPunishment, mention(userID), verb)
			if err := s.sink.Notify(ctx, channelID, text); err != nil {
				s.logger.Warn("Failed to send punishment notice", "user_id", userID, "error", err)
			}
		}
	})
	return action
}

// HandleMemberJoin feeds the guild-wide raid window. Detection is recorded
// and reported; no punitive action is taken against individual joiners.
func (s *ModerationService) HandleMemberJoin(ctx context.Context, guildID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "HandleMemberJoin")
	defer span.End()

	violation, err := s.raidDetector.Inspect(ctx, pipeline.Payload{GuildID: guildID, SenderID: userID})
	if err != nil {
		s.logger.Error("Raid detector failure", "guild_id", guildID, "error", err)
		return nil
	}
	if violation == nil {
		return nil
	}

	s.mu.Lock()
	s.raidAt[guildID] = time.Now().UTC()
	s.mu.Unlock()

	metrics.IncViolation(string(violation.Kind))
	metrics.RaidAlerts.Inc()
	s.logger.Warn("Raid burst detected", "guild_id", guildID, "reason", violation.Reason)
	return nil
}

// WarnUser appends a manual warning after the rank guard. A moderator may not
// warn a member whose rank is greater than or equal to their own; the check
// runs before any mutation.
func (s *ModerationService) WarnUser(ctx context.Context, req WarnRequest) (int, Action, error) {
	_, span := s.tracer.Start(ctx, "WarnUser")
	defer span.End()

	if req.TargetRank >= req.ModeratorRank {
		return 0, ActionNone, fmt.Errorf("target outranks moderator: %w", moderr.ErrPermissionDenied)
	}

	warning := repository.Warning{
		Reason:    req.Reason,
		Moderator: req.ModeratorID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.warningRepo.Append(req.TargetID, warning); err != nil {
		return 0, ActionNone, fmt.Errorf("append warning: %w", err)
	}
	metrics.IncWarningsIssued("manual")

	count := s.warningRepo.Count(req.TargetID)
	action := s.escalate(req.GuildID, req.ChannelID, req.TargetID, count, s.settingsRepo.Get())
	return count, action, nil
}

func (s *ModerationService) Warnings(ctx context.Context, userID string) ([]repository.Warning, error) {
	_, span := s.tracer.Start(ctx, "Warnings")
	defer span.End()
	return s.warningRepo.List(userID)
}

func (s *ModerationService) ClearWarnings(ctx context.Context, userID string) error {
	_, span := s.tracer.Start(ctx, "ClearWarnings")
	defer span.End()
	return s.warningRepo.Clear(userID)
}

func (s *ModerationService) AddNote(ctx context.Context, userID, moderatorID, content string) error {
	_, span := s.tracer.Start(ctx, "AddNote")
	defer span.End()
	return s.noteRepo.Append(userID, repository.Note{
		Content:   content,
		Moderator: moderatorID,
		Timestamp: time.Now().UTC(),
	})
}

func (s *ModerationService) Notes(ctx context.Context, userID string) ([]repository.Note, error) {
	_, span := s.tracer.Start(ctx, "Notes")
	defer span.End()
	return s.noteRepo.List(userID)
}

func (s *ModerationService) AddFilterWord(ctx context.Context, word string) error {
	_, span := s.tracer.Start(ctx, "AddFilterWord")
	defer span.End()
	return s.wordRepo.Add(word)
}

func (s *ModerationService) RemoveFilterWord(ctx context.Context, word string) error {
	_, span := s.tracer.Start(ctx, "RemoveFilterWord")
	defer span.End()
	return s.wordRepo.Remove(word)
}

func (s *ModerationService) AutoModSettings(ctx context.Context) repository.AutoModSettings {
	_, span := s.tracer.Start(ctx, "AutoModSettings")
	defer span.End()
	return s.settingsRepo.Get()
}

var settingSetters = map[string]func(*repository.AutoModSettings, int){
	"spam_threshold":     func(c *repository.AutoModSettings, v int) { c.SpamThreshold = v },
	"spam_interval":      func(c *repository.AutoModSettings, v int) { c.SpamInterval = v },
	"raid_threshold":     func(c *repository.AutoModSettings, v int) { c.RaidThreshold = v },
	"raid_interval":      func(c *repository.AutoModSettings, v int) { c.RaidInterval = v },
	"max_mentions":       func(c *repository.AutoModSettings, v int) { c.MaxMentions = v },
	"max_links":          func(c *repository.AutoModSettings, v int) { c.MaxLinks = v },
	"mute_duration":      func(c *repository.AutoModSettings, v int) { c.MuteDuration = v },
	"warn_expire_days":   func(c *repository.AutoModSettings, v int) { c.WarnExpireDays = v },
	"max_warnings":       func(c *repository.AutoModSettings, v int) { c.MaxWarnings = v },
	"auto_ban_threshold": func(c *repository.AutoModSettings, v int) { c.AutoBanThreshold = v },
}

// SetAutoModSetting mutates one named field. Unknown names and non-integer
// values are rejected before any mutation.
func (s *ModerationService) SetAutoModSetting(ctx context.Context, name, value string) error {
	_, span := s.tracer.Start(ctx, "SetAutoModSetting")
	defer span.End()

	setter, ok := settingSetters[name]
	if !ok {
		return &moderr.ConfigError{Setting: name, Value: value, Reason: "unknown setting"}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return &moderr.ConfigError{Setting: name, Value: value, Reason: "value must be an integer"}
	}

	cfg := s.settingsRepo.Get()
	setter(&cfg, n)
	return s.settingsRepo.Update(cfg)
}

// Wait blocks until all in-flight sink calls have finished.
func (s *ModerationService) Wait() {
	s.actions.Wait()
}

func (s *ModerationService) runAction(fn func()) {
	s.actions.Add(1)
	go func() {
		defer s.actions.Done()
		fn()
	}()
}

func mention(userID string) string {
	return "<@" + userID + ">"
}
