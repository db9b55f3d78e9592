package players

import "errors"

var (
	// ErrDuplicateName is returned when a custom player's full name
	// collides, case-insensitively, with any catalog or custom player.
	ErrDuplicateName = errors.New("players: player name already exists")

	// ErrPlayerNotFound is returned when a lookup misses both the catalog
	// and the custom player set.
	ErrPlayerNotFound = errors.New("players: player not found")
)
