package detectors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/tracker"
)

func TestSpamDetector_FiresAboveThreshold(t *testing.T) {
	settings := &mockSettingsRepo{settings: repository.AutoModSettings{
		SpamThreshold: 5,
		SpamInterval:  5,
	}}
	d := NewSpamDetector(settings, tracker.New())

	ctx := context.Background()
	payload := pipeline.Payload{GuildID: "g", SenderID: "u"}

	for i := 0; i < 5; i++ {
		v, err := d.Inspect(ctx, payload)
		assert.NoError(t, err)
		assert.Nil(t, v, "message %d should not fire", i+1)
	}

	v, err := d.Inspect(ctx, payload)
	assert.NoError(t, err)
	assert.NotNil(t, v, "6th message should fire")
	assert.Equal(t, pipeline.KindSpam, v.Kind)

	other := pipeline.Payload{GuildID: "g", SenderID: "other"}
	v, err = d.Inspect(ctx, other)
	assert.NoError(t, err)
	assert.Nil(t, v, "different user should be unaffected")
}

func TestSpamDetector_WindowExpires(t *testing.T) {
	settings := &mockSettingsRepo{settings: repository.AutoModSettings{
		SpamThreshold: 2,
		SpamInterval:  1,
	}}
	windows := tracker.New()
	d := NewSpamDetector(settings, windows)

	ctx := context.Background()
	payload := pipeline.Payload{GuildID: "g", SenderID: "u"}

	for i := 0; i < 2; i++ {
		v, _ := d.Inspect(ctx, payload)
		assert.Nil(t, v)
	}

	time.Sleep(1100 * time.Millisecond)

	v, err := d.Inspect(ctx, payload)
	assert.NoError(t, err)
	assert.Nil(t, v, "message after the window should not fire")
}

func TestSpamDetector_ThresholdChangeAppliesToNextEvent(t *testing.T) {
	settings := &mockSettingsRepo{settings: repository.AutoModSettings{
		SpamThreshold: 2,
		SpamInterval:  60,
	}}
	d := NewSpamDetector(settings, tracker.New())

	ctx := context.Background()
	payload := pipeline.Payload{GuildID: "g", SenderID: "u"}

	for i := 0; i < 2; i++ {
		v, _ := d.Inspect(ctx, payload)
		assert.Nil(t, v)
	}

	settings.settings.SpamThreshold = 10

	v, err := d.Inspect(ctx, payload)
	assert.NoError(t, err)
	assert.Nil(t, v, "raised threshold must apply to subsequent detection")
}
