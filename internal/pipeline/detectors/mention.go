package detectors

import (
	"context"
	"fmt"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
)

// MentionDetector is a stateless single-event check on the mention count.
type MentionDetector struct {
	settings repository.SettingsRepository
}

func NewMentionDetector(settings repository.SettingsRepository) *MentionDetector {
	return &MentionDetector{settings: settings}
}

func (d *MentionDetector) Name() string {
	return "mention_detector"
}

func (d *MentionDetector) Inspect(_ context.Context, payload pipeline.Payload) (*pipeline.Violation, error) {
	cfg := d.settings.Get()
	if payload.MentionCount > cfg.MaxMentions {
		return &pipeline.Violation{
			Kind:         pipeline.KindMentionSpam,
			Reason:       fmt.Sprintf("%d mentions in one message", payload.MentionCount),
			DetectorName: d.Name(),
		}, nil
	}
	return nil, nil
}
