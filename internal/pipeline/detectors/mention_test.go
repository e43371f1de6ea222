package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"discord-automod-bot/internal/pipeline"
	"discord-automod-bot/internal/repository"
)

func TestMentionDetector_Inspect(t *testing.T) {
	settings := &mockSettingsRepo{settings: repository.AutoModSettings{MaxMentions: 5}}
	d := NewMentionDetector(settings)

	tests := []struct {
		name     string
		mentions int
		wantFire bool
	}{
		{name: "no mentions", mentions: 0, wantFire: false},
		{name: "at limit", mentions: 5, wantFire: false},
		{name: "above limit", mentions: 6, wantFire: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Inspect(context.Background(), pipeline.Payload{MentionCount: tt.mentions})
			assert.NoError(t, err)
			if tt.wantFire {
				assert.NotNil(t, v)
				assert.Equal(t, pipeline.KindMentionSpam, v.Kind)
			} else {
				assert.Nil(t, v)
			}
		})
	}
}
