package core

import (
	"strings"
	"unicode"
)

// Parse maps one raw inbound line to a Command. It is pure and total:
// any input yields a Command, never an error.
//
// Grammar, matched against the leading characters (case-sensitive):
//
//	/who                     -> CommandWho
//	/user <name>             -> CommandRename (name trimmed)
//	/help                    -> CommandHelp
//	/<anything else>         -> CommandUnknown
//	@room#sender->/action:payload -> CommandGameAction
//	<anything else>          -> CommandMessage (verbatim)
func Parse(raw string) Command {
	switch {
	case strings.HasPrefix(raw, "/who"):
		return Command{Kind: CommandWho}
	case strings.HasPrefix(raw, "/user"):
		return Command{
			Kind: CommandRename,
			Name: strings.TrimSpace(strings.TrimPrefix(raw, "/user")),
		}
	case strings.HasPrefix(raw, "/help"):
		return Command{Kind: CommandHelp}
	case strings.HasPrefix(raw, "/"):
		verb := raw
		if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
			verb = raw[:i]
		}
		return Command{Kind: CommandUnknown, Verb: verb}
	case strings.HasPrefix(raw, "@"):
		return parseGameAction(raw)
	default:
		return Command{Kind: CommandMessage, Text: raw}
	}
}

// parseGameAction scans the literal grammar
// @<room>#<sender>->/<action>:<payload>, locating the delimiters in
// that order. A missing delimiter leaves its field (and every later
// field) empty; malformed lines never fail.
func parseGameAction(raw string) Command {
	cmd := Command{Kind: CommandGameAction}

	rest := strings.TrimPrefix(raw, "@")
	room, rest, ok := strings.Cut(rest, "#")
	if !ok {
		return cmd
	}
	cmd.Room = room

	sender, rest, ok := strings.Cut(rest, "->/")
	if !ok {
		return cmd
	}
	cmd.Sender = sender

	action, payload, ok := strings.Cut(rest, ":")
	if !ok {
		return cmd
	}
	cmd.Action = action
	cmd.Payload = payload
	return cmd
}
