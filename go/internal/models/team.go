package models

import "strconv"

// RemoteTeam represents a team sourced from the remote catalog. Its Players
// field is absent until lazily fetched; transfers never mutate it.
type RemoteTeam struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	City       string   `json:"city"`
	Conference string   `json:"conference"`
	Division   string   `json:"division"`
	Stadium    string   `json:"stadium,omitempty"`
	Players    []Player `json:"players,omitempty"`
}

// Ref returns the team's identity in the string form shared with local teams.
func (t RemoteTeam) Ref() string {
	return strconv.Itoa(t.ID)
}

// LocalTeam represents a user-created team. PlayerCount is derived and kept
// equal to len(Players) by every mutation.
type LocalTeam struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Region          string           `json:"region"`
	Country         string           `json:"country"`
	PlayerCount     int              `json:"player_count"`
	Players         []RosterPlayer   `json:"players"`
	TransferHistory []TransferRecord `json:"transfer_history,omitempty"`
}

// Ref returns the team's identity.
func (t LocalTeam) Ref() string {
	return t.ID
}

// TeamKind discriminates the two team variants.
type TeamKind string

const (
	TeamKindRemote TeamKind = "remote"
	TeamKindLocal  TeamKind = "local"
)

// Team is the tagged union of the remote and local team variants.
type Team struct {
	Kind   TeamKind
	Remote *RemoteTeam
	Local  *LocalTeam
}

// RemoteTeamEntry wraps a remote team as a Team.
func RemoteTeamEntry(t RemoteTeam) Team {
	return Team{Kind: TeamKindRemote, Remote: &t}
}

// LocalTeamEntry wraps a local team as a Team.
func LocalTeamEntry(t LocalTeam) Team {
	return Team{Kind: TeamKindLocal, Local: &t}
}

// Ref returns the team's identity regardless of variant.
func (t Team) Ref() string {
	switch t.Kind {
	case TeamKindRemote:
		return t.Remote.Ref()
	case TeamKindLocal:
		return t.Local.Ref()
	}
	return ""
}

// Name returns the team's name regardless of variant.
func (t Team) Name() string {
	switch t.Kind {
	case TeamKindRemote:
		return t.Remote.Name
	case TeamKindLocal:
		return t.Local.Name
	}
	return ""
}
