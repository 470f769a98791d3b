package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/monitoring"
	"github.com/meetsync/meeting-service/internal/waitingroom"
	"github.com/meetsync/meeting-service/pkg/logger"
)

// Server runs the admission protocol on top of the hub and the shared
// waiting-room store. Meeting existence is the caller's responsibility; the
// engine trusts the meetingId it is handed.
type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	store    waitingroom.Store

	pingEvery time.Duration
	now       func() time.Time
}

func NewServer(hub *Hub, store waitingroom.Store) *Server {
	return &Server{
		hub:   hub,
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
		now:       time.Now,
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	c := newWsConn(conn, uuid.NewString())
	s.hub.Add(c)
	monitoring.ConnOpened()
	attrs := append(logger.AttrsFromCtx(r.Context()), slog.String("connection", c.ID()))
	slog.LogAttrs(r.Context(), slog.LevelInfo, "ws connected", attrs...)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// Waiting-room entries are intentionally NOT removed here; the bucket TTL
	// is the cleanup path for participants that vanish mid-wait.
	s.hub.Remove(c.ID())
	monitoring.ConnClosed()
	slog.LogAttrs(r.Context(), slog.LevelInfo, "ws disconnected", attrs...)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "connection", c.ID(), "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(c, "invalid message format")
			continue
		}

		s.dispatch(ctx, c, msg.Type, msg.Payload)
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// dispatch routes one inbound event. Every handler is connection-scoped:
// failures turn into an error event to the sender, never a dropped process.
func (s *Server) dispatch(ctx context.Context, c Conn, eventType string, payload []byte) {
	switch eventType {
	case TypeJoinRequest:
		s.handleJoinRequest(ctx, c, payload)
	case TypeHostJoin:
		s.handleHostJoin(ctx, c, payload)
	case TypeAdmit:
		s.handleAdmit(ctx, c, payload)
	case TypeDeny:
		s.handleDeny(ctx, c, payload)
	default:
		s.sendError(c, "unknown event type")
	}
}

func (s *Server) handleJoinRequest(ctx context.Context, c Conn, payload []byte) {
	var p JoinRequestPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.MeetingID == "" || p.ParticipantID == "" || p.DisplayName == "" {
		s.sendError(c, "meetingId, participantId and displayName are required")
		monitoring.AdmissionEvent(TypeJoinRequest, "malformed")
		return
	}

	// Scan-then-insert: the duplicate check is advisory, not atomic. Racing
	// duplicates resolve through the store keying entries by connectionId.
	for _, e := range s.store.List(ctx, p.MeetingID) {
		if e.ConnectionID == c.ID() || e.ParticipantID == p.ParticipantID {
			_ = c.Send(Message{Type: TypeJoinRequestAck, Payload: JoinRequestAckPayload{Status: StatusAlreadyWaiting}})
			monitoring.AdmissionEvent(TypeJoinRequest, StatusAlreadyWaiting)
			return
		}
	}

	entry := domain.WaitingEntry{
		MeetingID:     p.MeetingID,
		ConnectionID:  c.ID(),
		ParticipantID: p.ParticipantID,
		DisplayName:   p.DisplayName,
		RequestedAt:   s.now().UnixMilli(),
	}
	if !s.store.Insert(ctx, p.MeetingID, entry) {
		s.sendError(c, "failed to add to waiting room")
		monitoring.AdmissionEvent(TypeJoinRequest, "store-error")
		return
	}

	s.hub.Join(c.ID(), MeetingRoom(p.MeetingID))

	_ = c.Send(Message{Type: TypeJoinRequestAck, Payload: JoinRequestAckPayload{Status: StatusWaiting}})
	s.hub.Broadcast(HostRoom(p.MeetingID), Message{
		Type: TypeWaitingUpdate,
		Payload: WaitingUpdatePayload{
			Type:          UpdateNewRequest,
			ConnectionID:  entry.ConnectionID,
			ParticipantID: entry.ParticipantID,
			DisplayName:   entry.DisplayName,
			RequestedAt:   entry.RequestedAt,
		},
	})
	monitoring.AdmissionEvent(TypeJoinRequest, StatusWaiting)
	slog.Info("join request queued", "meeting", p.MeetingID, "connection", c.ID(), "participant", p.ParticipantID)
}

func (s *Server) handleHostJoin(ctx context.Context, c Conn, payload []byte) {
	var p HostJoinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.MeetingID == "" {
		s.sendError(c, "meetingId is required")
		monitoring.AdmissionEvent(TypeHostJoin, "malformed")
		return
	}

	s.hub.Join(c.ID(), HostRoom(p.MeetingID))
	s.hub.Join(c.ID(), MeetingRoom(p.MeetingID))

	entries := s.store.List(ctx, p.MeetingID)
	if entries == nil {
		entries = []domain.WaitingEntry{}
	}
	_ = c.Send(Message{Type: TypeWaitingSnapshot, Payload: SnapshotPayload{MeetingID: p.MeetingID, Entries: entries}})
	monitoring.AdmissionEvent(TypeHostJoin, "ok")
	slog.Info("host joined", "meeting", p.MeetingID, "connection", c.ID(), "pending", len(entries))
}

func (s *Server) handleAdmit(ctx context.Context, c Conn, payload []byte) {
	var p DecisionPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.MeetingID == "" || p.ConnectionID == "" {
		s.sendError(c, "meetingId and connectionId are required")
		monitoring.AdmissionEvent(TypeAdmit, "malformed")
		return
	}

	entry := s.store.Remove(ctx, p.MeetingID, p.ConnectionID)
	if entry == nil {
		s.sendError(c, "participant not found in waiting room")
		monitoring.AdmissionEvent(TypeAdmit, "not-found")
		return
	}

	approved := Message{
		Type:    TypeJoinApproved,
		Payload: JoinApprovedPayload{ConnectionID: entry.ConnectionID, ParticipantID: entry.ParticipantID},
	}
	if err := s.hub.Send(entry.ConnectionID, approved); err != nil {
		slog.Debug("admit direct send failed", "meeting", p.MeetingID, "connection", entry.ConnectionID, "err", err)
	}
	// Fallback delivery path; clients filter on connectionId.
	s.hub.Broadcast(MeetingRoom(p.MeetingID), approved)

	s.hub.Broadcast(HostRoom(p.MeetingID), Message{
		Type: TypeWaitingUpdate,
		Payload: WaitingUpdatePayload{
			Type:          UpdateAdmitted,
			ConnectionID:  entry.ConnectionID,
			ParticipantID: entry.ParticipantID,
			DisplayName:   entry.DisplayName,
		},
	})
	monitoring.AdmissionEvent(TypeAdmit, "admitted")
	slog.Info("participant admitted", "meeting", p.MeetingID, "connection", entry.ConnectionID)
}

func (s *Server) handleDeny(ctx context.Context, c Conn, payload []byte) {
	var p DecisionPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.MeetingID == "" || p.ConnectionID == "" {
		s.sendError(c, "meetingId and connectionId are required")
		monitoring.AdmissionEvent(TypeDeny, "malformed")
		return
	}

	entry := s.store.Remove(ctx, p.MeetingID, p.ConnectionID)
	if entry == nil {
		// Already denied, already admitted or never there: notify the host,
		// don't treat as an error.
		s.hub.Broadcast(HostRoom(p.MeetingID), Message{
			Type: TypeWaitingUpdate,
			Payload: WaitingUpdatePayload{
				Type:          UpdateDenied,
				ConnectionID:  p.ConnectionID,
				ParticipantID: "unknown",
			},
		})
		monitoring.AdmissionEvent(TypeDeny, "not-found")
		return
	}

	if err := s.hub.Send(entry.ConnectionID, Message{
		Type: TypeJoinDenied,
		Payload: JoinDeniedPayload{
			ConnectionID:  entry.ConnectionID,
			ParticipantID: entry.ParticipantID,
			Reason:        "denied by host",
		},
	}); err != nil {
		slog.Debug("deny send failed", "meeting", p.MeetingID, "connection", entry.ConnectionID, "err", err)
	}
	s.hub.Disconnect(entry.ConnectionID)

	s.hub.Broadcast(HostRoom(p.MeetingID), Message{
		Type: TypeWaitingUpdate,
		Payload: WaitingUpdatePayload{
			Type:          UpdateDenied,
			ConnectionID:  entry.ConnectionID,
			ParticipantID: entry.ParticipantID,
			DisplayName:   entry.DisplayName,
		},
	})
	monitoring.AdmissionEvent(TypeDeny, "denied")
	slog.Info("participant denied", "meeting", p.MeetingID, "connection", entry.ConnectionID)
}

func (s *Server) sendError(c Conn, message string) {
	_ = c.Send(Message{Type: TypeError, Payload: ErrorPayload{Message: message}})
}

// --- gorilla connection ---

type wsConn struct {
	conn      *websocket.Conn
	id        string
	sendMu    chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newWsConn(c *websocket.Conn, id string) *wsConn {
	return &wsConn{
		conn:   c,
		id:     id,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

// Close is safe to call from multiple goroutines: the deny path closes a
// victim conn from the host's goroutine while the victim's read loop may be
// closing it too.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}
