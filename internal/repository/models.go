package repository

import "time"

// Warning is immutable once created; its position in a user's sequence is its
// identity, and insertion order is chronological order.
type Warning struct {
	Reason    string    `json:"reason"`
	Moderator string    `json:"moderator"`
	Timestamp time.Time `json:"timestamp"`
}

// Note has the same shape and ownership pattern as Warning but never drives
// escalation.
type Note struct {
	Content   string    `json:"content"`
	Moderator string    `json:"moderator"`
	Timestamp time.Time `json:"timestamp"`
}

// AutoModSettings is the flat record of tunable thresholds read by every
// detector and by the escalation engine. WarnExpireDays is stored but drives
// nothing: warnings are permanent until explicitly cleared.
type AutoModSettings struct {
	SpamThreshold    int `json:"spam_threshold"`
	SpamInterval     int `json:"spam_interval"`
	RaidThreshold    int `json:"raid_threshold"`
	RaidInterval     int `json:"raid_interval"`
	MaxMentions      int `json:"max_mentions"`
	MaxLinks         int `json:"max_links"`
	MuteDuration     int `json:"mute_duration"`
	WarnExpireDays   int `json:"warn_expire_days"`
	MaxWarnings      int `json:"max_warnings"`
	AutoBanThreshold int `json:"auto_ban_threshold"`
}

func DefaultAutoModSettings() AutoModSettings {
	return AutoModSettings{
		SpamThreshold:    5,
		SpamInterval:     5,
		RaidThreshold:    10,
		RaidInterval:     30,
		MaxMentions:      5,
		MaxLinks:         3,
		MuteDuration:     5,
		WarnExpireDays:   30,
		MaxWarnings:      3,
		AutoBanThreshold: 5,
	}
}
