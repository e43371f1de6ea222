package service

import "time"

// Action is the punitive outcome of one escalation decision.
type Action string

const (
	ActionNone       Action = "none"
	ActionTimeout24h Action = "timeout_24h"
	ActionBan        Action = "ban"
)

const escalationTimeout = 24 * time.Hour

// Escalate maps a user's cumulative warning count to an action. The ban
// threshold is checked first: reaching both thresholds at once yields a ban,
// never a timeout.
func Escalate(count, maxWarnings, autoBanThreshold int) Action {
	if count >= autoBanThreshold {
		return ActionBan
	}
	if count >= maxWarnings {
		return ActionTimeout24h
	}
	return ActionNone
}
