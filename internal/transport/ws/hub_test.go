package ws

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	id       string
	sent     []Message
	closed   bool
	failSend bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.failSend {
		return errors.New("send on closed connection")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *fakeConn) messages(eventType string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Message
	for _, m := range f.sent {
		if m.Type == eventType {
			out = append(out, m)
		}
	}
	return out
}

func TestHub_JoinAndBroadcast(t *testing.T) {
	hub := NewHub()
	a := newFakeConn("a")
	b := newFakeConn("b")
	outside := newFakeConn("outside")

	hub.Add(a)
	hub.Add(b)
	hub.Add(outside)

	hub.Join("a", "meeting:m1")
	hub.Join("a", "meeting:m1") // idempotent
	hub.Join("b", "meeting:m1")

	hub.Broadcast("meeting:m1", Message{Type: "ping"})

	assert.Len(t, a.messages("ping"), 1)
	assert.Len(t, b.messages("ping"), 1)
	assert.Empty(t, outside.messages("ping"))
	assert.Equal(t, 2, hub.RoomSize("meeting:m1"))
}

func TestHub_JoinUnknownConnection(t *testing.T) {
	hub := NewHub()
	hub.Join("ghost", "meeting:m1")

	assert.Equal(t, 0, hub.RoomSize("meeting:m1"))
}

func TestHub_SendSoftFailures(t *testing.T) {
	hub := NewHub()
	a := newFakeConn("a")
	a.failSend = true
	hub.Add(a)

	assert.Error(t, hub.Send("a", Message{Type: "ping"}))
	assert.Error(t, hub.Send("missing", Message{Type: "ping"}))
}

func TestHub_BroadcastSkipsDeadConnections(t *testing.T) {
	hub := NewHub()
	a := newFakeConn("a")
	b := newFakeConn("b")
	b.failSend = true

	hub.Add(a)
	hub.Add(b)
	hub.Join("a", "host:m1")
	hub.Join("b", "host:m1")

	hub.Broadcast("host:m1", Message{Type: "ping"})

	// the dead member does not block delivery to the rest
	require.Len(t, a.messages("ping"), 1)
}

func TestHub_RemoveClearsAllMemberships(t *testing.T) {
	hub := NewHub()
	a := newFakeConn("a")
	hub.Add(a)
	hub.Join("a", "meeting:m1")
	hub.Join("a", "host:m1")

	hub.Remove("a")

	assert.Equal(t, 0, hub.RoomSize("meeting:m1"))
	assert.Equal(t, 0, hub.RoomSize("host:m1"))
	assert.Error(t, hub.Send("a", Message{Type: "ping"}))

	hub.Broadcast("meeting:m1", Message{Type: "ping"})
	assert.Empty(t, a.messages("ping"))
}

func TestHub_DisconnectClosesConnection(t *testing.T) {
	hub := NewHub()
	a := newFakeConn("a")
	hub.Add(a)

	hub.Disconnect("a")

	assert.True(t, a.isClosed())
}
