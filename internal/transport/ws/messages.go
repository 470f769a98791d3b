package ws

import "github.com/meetsync/meeting-service/internal/domain"

// Event types carried over the realtime connection
const (
	// client -> server
	TypeJoinRequest = "join-request"     // participant asks to join a meeting
	TypeHostJoin    = "host-join"        // host attaches to a meeting's waiting room
	TypeAdmit       = "admit-participant"
	TypeDeny        = "deny-participant"

	// server -> client
	TypeJoinRequestAck  = "join-request-ack"
	TypeWaitingUpdate   = "waiting-room-update"
	TypeWaitingSnapshot = "waiting-room-snapshot"
	TypeJoinApproved    = "join-approved"
	TypeJoinDenied      = "join-denied"
	TypeError           = "error"
)

// join-request-ack statuses
const (
	StatusWaiting        = "waiting"
	StatusAlreadyWaiting = "already-waiting"
)

// waiting-room-update kinds
const (
	UpdateNewRequest = "new-request"
	UpdateAdmitted   = "admitted"
	UpdateDenied     = "denied"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Broadcast group keys. The meeting room holds everyone attached to the
// meeting (host included); the host room only moderator connections.
func MeetingRoom(meetingID string) string { return "meeting:" + meetingID }
func HostRoom(meetingID string) string    { return "host:" + meetingID }

type JoinRequestPayload struct {
	MeetingID     string `json:"meetingId"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type HostJoinPayload struct {
	MeetingID string `json:"meetingId"`
}

// DecisionPayload is shared by admit-participant and deny-participant.
type DecisionPayload struct {
	MeetingID    string `json:"meetingId"`
	ConnectionID string `json:"connectionId"`
}

type JoinRequestAckPayload struct {
	Status string `json:"status"` // waiting|already-waiting
}

type WaitingUpdatePayload struct {
	Type          string `json:"type"` // new-request|admitted|denied
	ConnectionID  string `json:"connectionId"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName,omitempty"`
	RequestedAt   int64  `json:"requestedAt,omitempty"`
}

type SnapshotPayload struct {
	MeetingID string                `json:"meetingId"`
	Entries   []domain.WaitingEntry `json:"entries"`
}

type JoinApprovedPayload struct {
	ConnectionID  string `json:"connectionId"`
	ParticipantID string `json:"participantId"`
}

type JoinDeniedPayload struct {
	ConnectionID  string `json:"connectionId"`
	ParticipantID string `json:"participantId"`
	Reason        string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
