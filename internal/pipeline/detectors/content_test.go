package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"discord-automod-bot/internal/pipeline"
)

func TestContentFilterDetector_Inspect(t *testing.T) {
	d := NewContentFilterDetector(&mockWordRepo{words: []string{"bad", "spam"}})

	tests := []struct {
		name     string
		message  string
		wantFire bool
	}{
		{name: "clean message", message: "Hello world", wantFire: false},
		{name: "exact match", message: "bad", wantFire: true},
		{name: "case insensitive", message: "Some BAD word", wantFire: true},
		{name: "contains word", message: "this is very bad", wantFire: true},
		{name: "substring inside word", message: "badword", wantFire: true},
		{name: "safe word", message: "good", wantFire: false},
		{name: "empty message", message: "", wantFire: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Inspect(context.Background(), pipeline.Payload{Text: tt.message})
			assert.NoError(t, err)
			if !tt.wantFire {
				assert.Nil(t, v)
				return
			}
			assert.NotNil(t, v)
			assert.Equal(t, pipeline.KindFilteredContent, v.Kind)
			assert.True(t, v.Direct, "content filter violations are handled directly")
		})
	}
}
