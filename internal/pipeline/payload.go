package pipeline

// Payload is one inbound guild event as seen by the detectors.
type Payload struct {
	EventID       string
	GuildID       string
	ChannelID     string
	MessageID     string
	SenderID      string
	SenderIsBot   bool
	SenderIsAdmin bool
	Text          string
	MentionCount  int
}

// SenderKey scopes per-user detector state to the guild.
func (p Payload) SenderKey() string {
	return p.GuildID + ":" + p.SenderID
}
