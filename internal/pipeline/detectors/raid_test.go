package detectors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
	"discord-automod-bot/internal/tracker"
)

func TestRaidDetector_FiresOnJoinBurst(t *testing.T) {
	settings := &mockSettingsRepo{settings: repository.AutoModSettings{
		RaidThreshold: 3,
		RaidInterval:  30,
	}}
	d := NewRaidDetector(settings, tracker.New())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		v, err := d.Inspect(ctx, pipeline.Payload{GuildID: "g", SenderID: fmt.Sprintf("joiner-%d", i)})
		assert.NoError(t, err)
		assert.Nil(t, v, "join %d should not fire", i+1)
	}

	v, err := d.Inspect(ctx, pipeline.Payload{GuildID: "g", SenderID: "joiner-3"})
	assert.NoError(t, err)
	assert.NotNil(t, v, "4th join within the window should fire")
	assert.Equal(t, pipeline.KindRaid, v.Kind)

	// The window is guild-scoped; another guild is unaffected.
	v, err = d.Inspect(ctx, pipeline.Payload{GuildID: "other", SenderID: "joiner-0"})
	assert.NoError(t, err)
	assert.Nil(t, v)
}
