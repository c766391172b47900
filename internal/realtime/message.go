package realtime

// SSEEvent names a change the app fans out to connected clients.
type SSEEvent string

const (
	SSEEventReminderSettingChanged SSEEvent = "ReminderSettingChanged"
	SSEEventReminderDue            SSEEvent = "ReminderDue"
	SSEEventRoutineUpdated         SSEEvent = "RoutineUpdated"
	SSEEventShelfUpdated           SSEEvent = "ShelfUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the per-user channel name messages are addressed to.
func UserChannel(userID string) string {
	return "user:" + userID
}
