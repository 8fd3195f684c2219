package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/proto"
	"github.com/roomcast/roomcast-server/internal/store"
)

// fakeTransport records everything sent through it. With fail set,
// every Send errors, to exercise fan-out containment.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []string
	fail   bool
	closed bool
	reason string
}

func (f *fakeTransport) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send refused")
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) Close(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.reason = reason
}

// wireEvent is a decoded outbound frame.
type wireEvent struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// received decodes every frame the transport has seen so far.
func (f *fakeTransport) received(t *testing.T) []wireEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	events := make([]wireEvent, 0, len(f.sent))
	for _, text := range f.sent {
		var ev wireEvent
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			t.Fatalf("undecodable frame %q: %v", text, err)
		}
		events = append(events, ev)
	}
	return events
}

// ofKind filters received frames down to one event kind.
func (f *fakeTransport) ofKind(t *testing.T, kind string) []wireEvent {
	t.Helper()
	var out []wireEvent
	for _, ev := range f.received(t) {
		if ev.Event == kind {
			out = append(out, ev)
		}
	}
	return out
}

func decodeSystem(t *testing.T, ev wireEvent) proto.SystemData {
	t.Helper()
	var data proto.SystemData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("decode system data: %v", err)
	}
	return data
}

func decodeMessage(t *testing.T, ev wireEvent) proto.MessageData {
	t.Helper()
	var data proto.MessageData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("decode message data: %v", err)
	}
	return data
}

func decodeRoster(t *testing.T, ev wireEvent) proto.RosterData {
	t.Helper()
	var data proto.RosterData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("decode roster data: %v", err)
	}
	return data
}

func decodeGame(t *testing.T, ev wireEvent) proto.GameData {
	t.Helper()
	var data proto.GameData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("decode game data: %v", err)
	}
	return data
}

// memStore is an in-memory store.SessionStore for dispatcher tests.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*store.Session)}
}

func (s *memStore) Touch(_ context.Context, id string) (*store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &store.Session{ID: id, CreatedAt: time.Now()}
		s.sessions[id] = sess
	}
	sess.LastSeenAt = time.Now()
	copied := *sess
	return &copied, nil
}

func (s *memStore) SetDisplayName(_ context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return errors.New("unknown session")
	}
	sess.DisplayName = name
	return nil
}

func (s *memStore) Close() error { return nil }

func newTestServer(sessions store.SessionStore) *GameServer {
	logger := zerolog.Nop()
	return NewGameServer(NewRegistry(), sessions, &logger)
}
