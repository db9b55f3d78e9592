package roster

import "errors"

var (
	// ErrDuplicateTeamName is returned when a create or update would reuse a
	// name already held by any visible, hidden, or local team.
	ErrDuplicateTeamName = errors.New("roster: team name already in use")

	// ErrTeamNotFound is returned when a command targets an unknown team.
	ErrTeamNotFound = errors.New("roster: team not found")

	// ErrNotLocalTeam is returned when a transfer destination is not a
	// locally-created team.
	ErrNotLocalTeam = errors.New("roster: destination must be a local team")

	// ErrPlayerOwned is returned when adding a player who already appears on
	// another team's effective roster.
	ErrPlayerOwned = errors.New("roster: player already belongs to a team")

	// ErrPlayerAlreadyOnTeam is returned when the target team already holds
	// the player.
	ErrPlayerAlreadyOnTeam = errors.New("roster: player already on this team")

	// ErrPlayerNotOnTeam is returned when a transfer names a player absent
	// from the source team's effective roster.
	ErrPlayerNotOnTeam = errors.New("roster: player not on source team")
)
