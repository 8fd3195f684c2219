// Package proto defines the JSON envelope the server writes to
// clients. Every outbound frame is one Outbound value:
//
//	{"type":"event","event":"<kind>","data":{...}}
//
// Event kinds and their data payloads:
//
//	message -> MessageData   broadcast chat line
//	system  -> SystemData    server notices and help text
//	roster  -> RosterData    reply to /who
//	game    -> GameData      room-scoped game action
//
// Inbound frames are raw text lines, not JSON; see the core parser.
package proto

const (
	// OutboundTypeEvent tags every server-initiated frame.
	OutboundTypeEvent = "event"

	EventMessage = "message"
	EventSystem  = "system"
	EventRoster  = "roster"
	EventGame    = "game"
)

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// MessageData is a chat line attributed to its sender.
type MessageData struct {
	User string `json:"user"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// SystemData is a server notice addressed to one or all members.
type SystemData struct {
	Text string `json:"text"`
}

// RosterData lists the display names of all connected members.
type RosterData struct {
	Users []string `json:"users"`
}

// GameData is a structured game action fanned out to one room.
type GameData struct {
	Room    string `json:"room"`
	Sender  string `json:"sender"`
	Action  string `json:"action"`
	Payload string `json:"payload"`
}
