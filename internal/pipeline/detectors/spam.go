package detectors

import (
	"context"
	"fmt"
	"time"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/tracker"
)

// SpamDetector records every message timestamp in the sender's sliding window
// and fires once the window exceeds the configured threshold.
type SpamDetector struct {
	settings repository.SettingsRepository
	windows  *tracker.SlidingWindow
}

func NewSpamDetector(settings repository.SettingsRepository, windows *tracker.SlidingWindow) *SpamDetector {
	return &SpamDetector{
		settings: settings,
		windows:  windows,
	}
}

func (d *SpamDetector) Name() string {
	return "spam_detector"
}

func (d *SpamDetector) Inspect(_ context.Context, payload pipeline.Payload) (*pipeline.Violation, error) {
	cfg := d.settings.Get()
	interval := time.Duration(cfg.SpamInterval) * time.Second
	now := time.Now().UTC()

	count := d.windows.RecordAndCount("spam:"+payload.SenderKey(), interval, now)
	if count > cfg.SpamThreshold {
		return &pipeline.Violation{
			Kind:         pipeline.KindSpam,
			Reason:       fmt.Sprintf("%d messages within %ds", count, cfg.SpamInterval),
			DetectorName: d.Name(),
		}, nil
	}
	return nil, nil
}
