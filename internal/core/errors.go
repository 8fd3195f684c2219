package core

import "errors"

// MaxDisplayNameLen bounds display names, counted in runes.
const MaxDisplayNameLen = 50

var (
	// ErrNameEmpty rejects a display name that is empty after trimming.
	ErrNameEmpty = errors.New("display name is empty")
	// ErrNameTooLong rejects a display name over MaxDisplayNameLen runes.
	ErrNameTooLong = errors.New("display name too long")
	// ErrNotJoined means the identity has no live member record.
	ErrNotJoined = errors.New("identity not joined")
)
