package core

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Registry is the single owner of all Member records. The registry
// mutex guards only the identity and room maps; each Member carries
// its own lock, so record mutations for different identities do not
// contend. Lock order is always registry before member.
type Registry struct {
	mu      sync.RWMutex
	members map[string]*Member
	rooms   map[string]map[string]struct{} // room name -> identities
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[string]*Member),
		rooms:   make(map[string]map[string]struct{}),
	}
}

// Join adds transport to the identity's transport set, creating the
// Member on first join. Adding the same transport twice is a no-op.
// Returns the member and whether it was just created.
func (r *Registry) Join(identity string, t Transport) (*Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[identity]
	created := !ok
	if created {
		m = newMember(identity)
		r.members[identity] = m
	}

	m.mu.Lock()
	m.transports[t] = struct{}{}
	m.mu.Unlock()
	return m, created
}

// Leave removes transport from the identity's set. When the set
// becomes empty the Member is removed entirely, along with its room
// memberships. Unknown identities and transports are a no-op; the
// connection layer may race teardown calls.
// Returns the member and whether it was removed.
func (r *Registry) Leave(identity string, t Transport) (*Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[identity]
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	delete(m.transports, t)
	empty := len(m.transports) == 0
	var rooms []string
	if empty {
		for room := range m.rooms {
			rooms = append(rooms, room)
		}
	}
	m.mu.Unlock()

	if !empty {
		return m, false
	}

	delete(r.members, identity)
	for _, room := range rooms {
		r.dropFromRoom(room, identity)
	}
	return m, true
}

// Rename validates newName and updates the member's display name in
// place. The previous name is returned so callers can announce the
// change. Validation: non-empty after trimming, at most
// MaxDisplayNameLen runes.
func (r *Registry) Rename(identity, newName string) (string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(newName) > MaxDisplayNameLen {
		return "", ErrNameTooLong
	}

	r.mu.RLock()
	m, ok := r.members[identity]
	r.mu.RUnlock()
	if !ok {
		return "", ErrNotJoined
	}

	m.mu.Lock()
	old := m.name
	m.name = newName
	m.mu.Unlock()
	return old, nil
}

// Lookup returns the member for identity, if joined.
func (r *Registry) Lookup(identity string) (*Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[identity]
	return m, ok
}

// Members returns a snapshot of all current members. Enumeration
// order is unspecified.
func (r *Registry) Members() []*Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	return members
}

// MembersInRoom returns a snapshot of the members whose room set
// contains room. Unknown rooms yield an empty slice.
func (r *Registry) MembersInRoom(room string) []*Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identities, ok := r.rooms[room]
	if !ok {
		return nil
	}
	members := make([]*Member, 0, len(identities))
	for identity := range identities {
		if m, ok := r.members[identity]; ok {
			members = append(members, m)
		}
	}
	return members
}

// JoinRoom subscribes identity to room, creating the room lazily.
// Returns false if the identity is not joined or already in the room.
func (r *Registry) JoinRoom(identity, room string) bool {
	if room == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[identity]
	if !ok {
		return false
	}

	identities, ok := r.rooms[room]
	if !ok {
		identities = make(map[string]struct{})
		r.rooms[room] = identities
	}
	if _, ok := identities[identity]; ok {
		return false
	}
	identities[identity] = struct{}{}

	m.mu.Lock()
	m.rooms[room] = struct{}{}
	m.mu.Unlock()
	return true
}

// LeaveRoom unsubscribes identity from room. Empty rooms are deleted.
// Returns false if the identity was not in the room.
func (r *Registry) LeaveRoom(identity, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[identity]
	if !ok {
		return false
	}

	identities, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := identities[identity]; !ok {
		return false
	}
	r.dropFromRoom(room, identity)

	m.mu.Lock()
	delete(m.rooms, room)
	m.mu.Unlock()
	return true
}

// dropFromRoom removes identity from the room index and deletes the
// room once empty. Caller holds r.mu.
func (r *Registry) dropFromRoom(room, identity string) {
	identities, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(identities, identity)
	if len(identities) == 0 {
		delete(r.rooms, room)
	}
}
