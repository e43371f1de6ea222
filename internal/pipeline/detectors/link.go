package detectors

import (
	"context"
	"fmt"
	"regexp"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
)

var urlRegex = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*(),]|%[0-9a-fA-F][0-9a-fA-F])+`)

// LinkDetector counts URL-shaped substrings in the message text.
type LinkDetector struct {
	settings repository.SettingsRepository
}

func NewLinkDetector(settings repository.SettingsRepository) *LinkDetector {
	return &LinkDetector{settings: settings}
}

func (d *LinkDetector) Name() string {
	return "link_detector"
}

func (d *LinkDetector) Inspect(_ context.Context, payload pipeline.Payload) (*pipeline.Violation, error) {
	cfg := d.settings.Get()
	links := urlRegex.FindAllString(payload.Text, -1)
	if len(links) > cfg.MaxLinks {
		return &pipeline.Violation{
			Kind:         pipeline.KindLinkSpam,
			Reason:       fmt.Sprintf("%d links in one message", len(links)),
			DetectorName: d.Name(),
		}, nil
	}
	return nil, nil
}
