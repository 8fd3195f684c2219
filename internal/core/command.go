package core

// CommandKind describes what an inbound line asks the server to do.
type CommandKind int

const (
	// CommandWho asks for the list of connected display names.
	CommandWho CommandKind = iota
	// CommandRename changes the sender's display name.
	CommandRename
	// CommandHelp asks for the list of supported commands.
	CommandHelp
	// CommandUnknown is any other slash-prefixed line.
	CommandUnknown
	// CommandGameAction is a room-scoped structured action.
	CommandGameAction
	// CommandMessage is a plain chat line broadcast to everyone.
	CommandMessage
)

// Command is the parsed form of one inbound text line. It is produced
// fresh per line and never mutated after parsing.
type Command struct {
	Kind CommandKind

	// Name is the requested display name for CommandRename. It may
	// still be invalid; validation happens in the registry.
	Name string

	// Verb is the leading token of a CommandUnknown line.
	Verb string

	// Room, Sender, Action and Payload are the fields of a
	// CommandGameAction. Missing delimiters leave them empty.
	Room    string
	Sender  string
	Action  string
	Payload string

	// Text is the verbatim line for CommandMessage.
	Text string
}
