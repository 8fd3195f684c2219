package core

import "sync"

// Member is one connected participant. A member exists while at least
// one transport is open for its identity; the registry removes it as
// soon as the last transport leaves.
type Member struct {
	identity string

	mu         sync.Mutex
	name       string
	transports map[Transport]struct{}
	rooms      map[string]struct{}
}

func newMember(identity string) *Member {
	return &Member{
		identity:   identity,
		name:       identity,
		transports: make(map[Transport]struct{}),
		rooms:      make(map[string]struct{}),
	}
}

// Identity returns the opaque session key. Immutable.
func (m *Member) Identity() string {
	return m.identity
}

// Name returns the current display name. Defaults to the identity
// until a rename succeeds.
func (m *Member) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// InRoom reports whether the member currently belongs to room.
func (m *Member) InRoom(room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[room]
	return ok
}

// Rooms returns a snapshot of the member's room names.
func (m *Member) Rooms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]string, 0, len(m.rooms))
	for room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Transports returns a snapshot of the open transports. Callers fan
// out over the snapshot; a transport that left in the meantime just
// fails its Send.
func (m *Member) Transports() []Transport {
	m.mu.Lock()
	defer m.mu.Unlock()
	handles := make([]Transport, 0, len(m.transports))
	for t := range m.transports {
		handles = append(handles, t)
	}
	return handles
}
