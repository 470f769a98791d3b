package domain

// WaitingEntry is one pending participant in a meeting's waiting room.
// Keyed by ConnectionID inside the meeting's bucket; json shape is shared
// between the redis store and the realtime protocol.
type WaitingEntry struct {
	MeetingID     string `json:"meetingId"`
	ConnectionID  string `json:"connectionId"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	RequestedAt   int64  `json:"requestedAt"` // ms since epoch
}
