package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{"who", "/who", Command{Kind: CommandWho}},
		{"rename trims whitespace", "/user  Bob ", Command{Kind: CommandRename, Name: "Bob"}},
		{"rename empty stays empty", "/user   ", Command{Kind: CommandRename, Name: ""}},
		{"help", "/help", Command{Kind: CommandHelp}},
		{"unknown verb stops at whitespace", "/xyz foo", Command{Kind: CommandUnknown, Verb: "/xyz"}},
		{"unknown without args", "/teleport", Command{Kind: CommandUnknown, Verb: "/teleport"}},
		{"plain message", "hello", Command{Kind: CommandMessage, Text: "hello"}},
		{"plain message keeps whitespace", "  hello  ", Command{Kind: CommandMessage, Text: "  hello  "}},
		{"empty line", "", Command{Kind: CommandMessage, Text: ""}},
		{
			"game action",
			"@hall#p1->/move:north",
			Command{Kind: CommandGameAction, Room: "hall", Sender: "p1", Action: "move", Payload: "north"},
		},
		{
			"game action empty payload",
			"@hall#p1->/look:",
			Command{Kind: CommandGameAction, Room: "hall", Sender: "p1", Action: "look", Payload: ""},
		},
		{
			"game action payload keeps colons",
			"@hall#p1->/say:it is 10:30",
			Command{Kind: CommandGameAction, Room: "hall", Sender: "p1", Action: "say", Payload: "it is 10:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

// Malformed game actions degrade to empty fields, never to an error.
func TestParseMalformedGameActions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{"bare at", "@", Command{Kind: CommandGameAction}},
		{"room without hash", "@hall", Command{Kind: CommandGameAction}},
		{"missing arrow", "@hall#p1", Command{Kind: CommandGameAction, Room: "hall"}},
		{"missing colon", "@hall#p1->/move", Command{Kind: CommandGameAction, Room: "hall", Sender: "p1"}},
		{"all delimiters empty fields", "@#->/:", Command{Kind: CommandGameAction, Room: "", Sender: "", Action: "", Payload: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

// /who and /help are prefix matches, per the wire grammar.
func TestParsePrefixMatch(t *testing.T) {
	assert.Equal(t, CommandWho, Parse("/whoami").Kind)
	assert.Equal(t, CommandHelp, Parse("/help me").Kind)
}
