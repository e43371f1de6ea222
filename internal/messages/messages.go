package messages

const (
	MsgFilteredContent  = "%s your message was removed for containing prohibited content."
	MsgAutoModAction    = "%s has been timed out for %s."
	MsgAutoPunishment   = "%s has been %s for exceeding the warning threshold."
	MsgCannotWarnRank   = "You cannot warn members with higher or equal roles."
	MsgMemberWarned     = "Warned %s (warning #%d): %s"
	MsgNoWarnings       = "%s has no warnings."
	MsgWarningsCleared  = "Cleared all warnings for %s."
	MsgNoWarningsClear  = "%s has no warnings to clear."
	MsgFilterAdded      = "Added %q to filter."
	MsgFilterRemoved    = "Removed %q from filter."
	MsgNoteAdded        = "Added note for %s."
	MsgNoNotes          = "No notes found for %s."
	MsgSettingUpdated   = "Updated %s to %s."
	MsgInvalidSetting   = "Invalid setting."
	MsgInvalidValue     = "Invalid value."
	MsgPermissionDenied = "You do not have permission to use this command."

	ActionBanned   = "banned"
	ActionTimedOut = "timed out for 24 hours"
)
