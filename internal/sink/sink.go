package sink

import (
	"context"
	"time"
)

// ActionSink is the platform capability the moderation core drives: deleting
// content, timing users out, banning. The core never implements these itself.
type ActionSink interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Timeout(ctx context.Context, guildID, userID string, duration time.Duration, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Notify(ctx context.Context, channelID, text string) error
}
