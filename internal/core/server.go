package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/proto"
	"github.com/roomcast/roomcast-server/internal/store"
)

const helpText = "Available commands: /who, /user [newName], /help"

// Reserved game-action verbs that mutate room membership.
const (
	actionJoinRoom  = "join"
	actionLeaveRoom = "leave"
)

// GameServer interprets parsed commands in the context of the sending
// identity and fans results out through transport handles. Dispatch
// calls for different identities run concurrently; all shared state
// lives in the registry, which provides the required atomicity.
type GameServer struct {
	registry *Registry
	sessions store.SessionStore // optional, may be nil
	log      *zerolog.Logger
}

// NewGameServer wires the dispatcher to its registry. sessions may be
// nil for memory-only operation.
func NewGameServer(registry *Registry, sessions store.SessionStore, logger *zerolog.Logger) *GameServer {
	return &GameServer{
		registry: registry,
		sessions: sessions,
		log:      logger,
	}
}

// Registry exposes the member registry, mainly for tests and status
// endpoints.
func (g *GameServer) Registry() *Registry {
	return g.registry
}

// Join registers a transport for identity. On the identity's first
// transport the stored display name (if any) is restored and the
// arrival is announced to everyone.
func (g *GameServer) Join(ctx context.Context, identity string, t Transport) {
	m, created := g.registry.Join(identity, t)
	if !created {
		return
	}

	if g.sessions != nil {
		sess, err := g.sessions.Touch(ctx, identity)
		switch {
		case err != nil:
			g.log.Warn().Err(err).Str("identity", identity).Msg("touch session")
		case sess.DisplayName != "":
			if _, err := g.registry.Rename(identity, sess.DisplayName); err != nil {
				g.log.Warn().Err(err).Str("identity", identity).Msg("restore display name")
			}
		}
	}

	g.broadcast(systemNotice(fmt.Sprintf("%s joined", m.Name())))
	g.log.Info().Str("identity", identity).Msg("member joined")
}

// Leave unregisters a transport for identity. When the last transport
// is gone the member is removed and the departure announced.
func (g *GameServer) Leave(ctx context.Context, identity string, t Transport) {
	m, removed := g.registry.Leave(identity, t)
	if !removed {
		return
	}

	g.broadcast(systemNotice(fmt.Sprintf("%s left", m.Name())))
	g.log.Info().Str("identity", identity).Msg("member left")
}

// Handle parses one inbound line from identity and dispatches it.
// Nothing a line can contain terminates the connection; every error
// path degrades to a message back to the sender.
func (g *GameServer) Handle(ctx context.Context, identity, line string) {
	m, ok := g.registry.Lookup(identity)
	if !ok {
		// Teardown race: the last transport left while this frame was
		// in flight. Drop the line.
		g.log.Debug().Str("identity", identity).Msg("line from departed member")
		return
	}

	cmd := Parse(line)
	switch cmd.Kind {
	case CommandWho:
		g.handleWho(m)
	case CommandRename:
		g.handleRename(ctx, m, cmd.Name)
	case CommandHelp:
		g.sendTo(m, systemNotice(helpText))
	case CommandUnknown:
		g.sendTo(m, systemNotice(fmt.Sprintf("Unknown command %s", cmd.Verb)))
	case CommandGameAction:
		g.handleGameAction(m, cmd)
	case CommandMessage:
		g.broadcast(proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data: proto.MessageData{
				User: m.Name(),
				Text: cmd.Text,
				TS:   time.Now().Unix(),
			},
		})
	}
}

// handleWho answers with all display names, sorted lexicographically
// (ties broken by identity so the order stays deterministic).
func (g *GameServer) handleWho(m *Member) {
	members := g.registry.Members()
	sort.Slice(members, func(i, j int) bool {
		ni, nj := members[i].Name(), members[j].Name()
		if ni != nj {
			return ni < nj
		}
		return members[i].Identity() < members[j].Identity()
	})

	names := make([]string, 0, len(members))
	for _, mm := range members {
		names = append(names, mm.Name())
	}
	g.sendTo(m, proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventRoster,
		Data:  proto.RosterData{Users: names},
	})
}

func (g *GameServer) handleRename(ctx context.Context, m *Member, name string) {
	old, err := g.registry.Rename(m.Identity(), name)
	switch err {
	case nil:
	case ErrNameEmpty:
		g.sendTo(m, systemNotice("/user [newName]"))
		return
	case ErrNameTooLong:
		g.sendTo(m, systemNotice(fmt.Sprintf("Display names are limited to %d characters", MaxDisplayNameLen)))
		return
	default:
		g.log.Warn().Err(err).Str("identity", m.Identity()).Msg("rename")
		return
	}

	if g.sessions != nil {
		if err := g.sessions.SetDisplayName(ctx, m.Identity(), m.Name()); err != nil {
			g.log.Warn().Err(err).Str("identity", m.Identity()).Msg("persist display name")
		}
	}
	g.broadcast(systemNotice(fmt.Sprintf("%s is now known as %s", old, m.Name())))
}

// handleGameAction routes a structured action to its room. The
// reserved verbs "join" and "leave" mutate the sender's room
// membership; everything else fans out to current room members.
// Actions addressed to empty or unknown rooms are dropped silently.
func (g *GameServer) handleGameAction(m *Member, cmd Command) {
	out := proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventGame,
		Data: proto.GameData{
			Room:    cmd.Room,
			Sender:  cmd.Sender,
			Action:  cmd.Action,
			Payload: cmd.Payload,
		},
	}

	switch cmd.Action {
	case actionJoinRoom:
		if g.registry.JoinRoom(m.Identity(), cmd.Room) {
			g.broadcastRoom(cmd.Room, out)
		}
	case actionLeaveRoom:
		if g.registry.LeaveRoom(m.Identity(), cmd.Room) {
			g.broadcastRoom(cmd.Room, out)
		}
	default:
		g.broadcastRoom(cmd.Room, out)
	}
}

// sendTo delivers one envelope to every transport of one member. A
// failing transport is logged and skipped, never fatal.
func (g *GameServer) sendTo(m *Member, out proto.Outbound) {
	text, err := encode(out)
	if err != nil {
		g.log.Error().Err(err).Msg("encode outbound")
		return
	}
	g.deliver(m, text)
}

// broadcast fans one envelope out to every connected member.
func (g *GameServer) broadcast(out proto.Outbound) {
	text, err := encode(out)
	if err != nil {
		g.log.Error().Err(err).Msg("encode outbound")
		return
	}
	for _, m := range g.registry.Members() {
		g.deliver(m, text)
	}
}

// broadcastRoom fans one envelope out to every member of room.
func (g *GameServer) broadcastRoom(room string, out proto.Outbound) {
	text, err := encode(out)
	if err != nil {
		g.log.Error().Err(err).Msg("encode outbound")
		return
	}
	for _, m := range g.registry.MembersInRoom(room) {
		g.deliver(m, text)
	}
}

func (g *GameServer) deliver(m *Member, text string) {
	for _, t := range m.Transports() {
		if err := t.Send(text); err != nil {
			g.log.Warn().Err(err).Str("identity", m.Identity()).Msg("send to transport")
		}
	}
}

func encode(out proto.Outbound) (string, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func systemNotice(text string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventSystem,
		Data:  proto.SystemData{Text: text},
	}
}
