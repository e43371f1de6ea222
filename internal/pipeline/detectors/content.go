package detectors

import (
	"context"
	"fmt"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
)

// ContentFilterDetector checks message text against the banned word set.
// Its violations are Direct: the ingest deletes the message and posts an
// ephemeral notice, and the generic warn-and-timeout path never runs.
type ContentFilterDetector struct {
	words repository.WordListRepository
}

func NewContentFilterDetector(words repository.WordListRepository) *ContentFilterDetector {
	return &ContentFilterDetector{words: words}
}

func (d *ContentFilterDetector) Name() string {
	return "content_filter"
}

func (d *ContentFilterDetector) Inspect(_ context.Context, payload pipeline.Payload) (*pipeline.Violation, error) {
	word, ok := d.words.Match(payload.Text)
	if !ok {
		return nil, nil
	}
	return &pipeline.Violation{
		Kind:         pipeline.KindFilteredContent,
		Reason:       fmt.Sprintf("message contains %q", word),
		DetectorName: d.Name(),
		Direct:       true,
	}, nil
}
