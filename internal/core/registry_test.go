package core

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestJoinIsIdempotentPerTransport(t *testing.T) {
	r := NewRegistry()
	tr := &fakeTransport{}

	m1, created := r.Join("a", tr)
	assert.True(t, created)

	m2, created := r.Join("a", tr)
	assert.False(t, created)
	assert.Same(t, m1, m2)
	assert.Len(t, m1.Transports(), 1)
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	tr := &fakeTransport{}
	r.Join("a", tr)

	_, removed := r.Leave("a", tr)
	assert.True(t, removed)

	_, removed = r.Leave("a", tr)
	assert.False(t, removed)

	_, ok := r.Lookup("a")
	assert.False(t, ok)
}

func TestLeaveUnknownIsNoOp(t *testing.T) {
	r := NewRegistry()

	_, removed := r.Leave("ghost", &fakeTransport{})
	assert.False(t, removed)

	// Unknown transport for a known identity is a no-op too.
	tr := &fakeTransport{}
	r.Join("a", tr)
	_, removed = r.Leave("a", &fakeTransport{})
	assert.False(t, removed)
	_, ok := r.Lookup("a")
	assert.True(t, ok)
}

func TestNoOrphanMembers(t *testing.T) {
	r := NewRegistry()
	tr1, tr2 := &fakeTransport{}, &fakeTransport{}

	r.Join("a", tr1)
	r.Join("a", tr2)
	r.JoinRoom("a", "hall")

	_, removed := r.Leave("a", tr1)
	assert.False(t, removed, "member must survive while a transport remains")

	_, removed = r.Leave("a", tr2)
	assert.True(t, removed)

	_, ok := r.Lookup("a")
	assert.False(t, ok)
	assert.Empty(t, r.MembersInRoom("hall"), "room index must not keep departed members")
}

func TestRenameValidation(t *testing.T) {
	r := NewRegistry()
	r.Join("a", &fakeTransport{})

	_, err := r.Rename("a", "")
	assert.ErrorIs(t, err, ErrNameEmpty)

	_, err = r.Rename("a", "   ")
	assert.ErrorIs(t, err, ErrNameEmpty)

	_, err = r.Rename("a", strings.Repeat("x", 51))
	assert.ErrorIs(t, err, ErrNameTooLong)

	old, err := r.Rename("a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a", old, "default display name is the identity")

	m, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Alice", m.Name())

	_, err = r.Rename("ghost", "Bob")
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestRoomMembership(t *testing.T) {
	r := NewRegistry()
	r.Join("a", &fakeTransport{})
	r.Join("b", &fakeTransport{})

	assert.False(t, r.JoinRoom("ghost", "hall"), "unknown identity cannot join")
	assert.False(t, r.JoinRoom("a", ""), "empty room name is rejected")

	assert.True(t, r.JoinRoom("a", "hall"))
	assert.False(t, r.JoinRoom("a", "hall"), "double join is a no-op")
	assert.True(t, r.JoinRoom("b", "hall"))

	members := r.MembersInRoom("hall")
	assert.Len(t, members, 2)

	assert.False(t, r.LeaveRoom("a", "lobby"), "not in that room")
	assert.True(t, r.LeaveRoom("a", "hall"))
	assert.False(t, r.LeaveRoom("a", "hall"), "double leave is a no-op")

	m, _ := r.Lookup("a")
	assert.False(t, m.InRoom("hall"))

	assert.True(t, r.LeaveRoom("b", "hall"))
	assert.Empty(t, r.MembersInRoom("hall"), "empty room is deleted")
}

// Randomized join/leave/rename sequences must never leave an orphan
// member or a stale room index entry.
func TestRegistryInvariantsRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		identities := []string{"a", "b", "c", "d"}
		rooms := []string{"r1", "r2", "r3"}

		// A fixed pool of transports per identity so joins and leaves
		// can hit the same handle.
		pool := make(map[string][]*fakeTransport)
		live := make(map[string]map[*fakeTransport]struct{})
		for _, id := range identities {
			pool[id] = []*fakeTransport{{}, {}, {}}
			live[id] = make(map[*fakeTransport]struct{})
		}

		numOps := rapid.IntRange(1, 60).Draw(t, "num_ops")
		for i := 0; i < numOps; i++ {
			id := identities[rapid.IntRange(0, len(identities)-1).Draw(t, "identity")]
			tr := pool[id][rapid.IntRange(0, 2).Draw(t, "transport")]

			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				r.Join(id, tr)
				live[id][tr] = struct{}{}
			case 1:
				r.Leave(id, tr)
				delete(live[id], tr)
			case 2:
				_, _ = r.Rename(id, fmt.Sprintf("name-%d", i))
			case 3:
				r.JoinRoom(id, rooms[rapid.IntRange(0, 2).Draw(t, "room")])
			case 4:
				r.LeaveRoom(id, rooms[rapid.IntRange(0, 2).Draw(t, "room")])
			}
		}

		for _, id := range identities {
			m, ok := r.Lookup(id)
			if len(live[id]) == 0 {
				if ok {
					t.Fatalf("orphan member %q with no transports", id)
				}
				continue
			}
			if !ok {
				t.Fatalf("member %q missing despite %d live transports", id, len(live[id]))
			}
			if got := len(m.Transports()); got != len(live[id]) {
				t.Fatalf("member %q has %d transports, want %d", id, got, len(live[id]))
			}
		}

		// The room index and the members' own room sets must agree.
		for _, room := range rooms {
			for _, m := range r.MembersInRoom(room) {
				if !m.InRoom(room) {
					t.Fatalf("room index lists %q for %q but member disagrees", m.Identity(), room)
				}
			}
		}
	})
}

// Concurrent operations on distinct identities must not deadlock or
// corrupt each other's records.
func TestRegistryConcurrentIdentities(t *testing.T) {
	r := NewRegistry()
	identities := []string{"a", "b", "c", "d", "e"}

	var wg sync.WaitGroup
	for _, id := range identities {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr := &fakeTransport{}
				r.Join(id, tr)
				_, _ = r.Rename(id, fmt.Sprintf("%s-%d", id, i))
				r.JoinRoom(id, "shared")
				r.LeaveRoom(id, "shared")
				r.Leave(id, tr)
			}
			// Leave one transport joined with a final name.
			r.Join(id, &fakeTransport{})
			_, _ = r.Rename(id, "final-"+id)
		}(id)
	}
	wg.Wait()

	for _, id := range identities {
		m, ok := r.Lookup(id)
		require.True(t, ok, "identity %q lost", id)
		assert.Equal(t, "final-"+id, m.Name())
		assert.Len(t, m.Transports(), 1)
	}
	assert.Len(t, r.Members(), len(identities))
	assert.Empty(t, r.MembersInRoom("shared"))
}
