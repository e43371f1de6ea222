package detectors

import (
	"context"
	"fmt"
	"time"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/tracker"
)

// RaidDetector is the guild-wide analogue of the spam detector, fed by
// member-join events instead of messages.
type RaidDetector struct {
	settings repository.SettingsRepository
	windows  *tracker.SlidingWindow
}

func NewRaidDetector(settings repository.SettingsRepository, windows *tracker.SlidingWindow) *RaidDetector {
	return &RaidDetector{
		settings: settings,
		windows:  windows,
	}
}

func (d *RaidDetector) Name() string {
	return "raid_detector"
}

func (d *RaidDetector) Inspect(_ context.Context, payload pipeline.Payload) (*pipeline.Violation, error) {
	cfg := d.settings.Get()
	interval := time.Duration(cfg.RaidInterval) * time.Second
	now := time.Now().UTC()

	count := d.windows.RecordAndCount("raid:"+payload.GuildID, interval, now)
	if count > cfg.RaidThreshold {
		return &pipeline.Violation{
			Kind:         pipeline.KindRaid,
			Reason:       fmt.Sprintf("%d joins within %ds", count, cfg.RaidInterval),
			DetectorName: d.Name(),
		}, nil
	}
	return nil, nil
}
