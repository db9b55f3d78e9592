package roster

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/models"
)

// CreateLocalTeamRequest carries the user-supplied fields of a new local
// team. Field-level validation happens upstream; the name uniqueness
// invariant is enforced here.
type CreateLocalTeamRequest struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// CreateLocalTeam creates a local team with a fresh unique id and an empty
// roster.
func (a *App) CreateLocalTeam(req CreateLocalTeamRequest) (*models.LocalTeam, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.nameTakenLocked(req.Name, "") {
		return nil, ErrDuplicateTeamName
	}

	team := models.LocalTeam{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Region:  req.Region,
		Country: req.Country,
		Players: []models.RosterPlayer{},
	}
	a.localTeams = append(a.localTeams, team)
	log.Info().Str("team_id", team.ID).Str("name", team.Name).Msg("local team created")

	if err := a.persistLocalTeams(); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateLocalTeam replaces a local team by id. The derived player count is
// recomputed from the player list.
func (a *App) UpdateLocalTeam(team models.LocalTeam) (*models.LocalTeam, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	existing := a.findLocalLocked(team.ID)
	if existing == nil {
		return nil, ErrTeamNotFound
	}
	if a.nameTakenLocked(team.Name, team.ID) {
		return nil, ErrDuplicateTeamName
	}

	if team.Players == nil {
		team.Players = []models.RosterPlayer{}
	}
	team.PlayerCount = len(team.Players)
	*existing = team

	if err := a.persistLocalTeams(); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteLocalTeam permanently removes a local team. Its player memberships
// are lost; custom players remain retrievable from the player catalog.
func (a *App) DeleteLocalTeam(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := -1
	for i := range a.localTeams {
		if a.localTeams[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrTeamNotFound
	}

	name := a.localTeams[idx].Name
	a.localTeams = append(a.localTeams[:idx], a.localTeams[idx+1:]...)
	log.Info().Str("team_id", id).Str("name", name).Msg("local team deleted")

	return a.persistLocalTeams()
}

// AddPlayerToLocalTeam appends a player to a local team's roster. The
// player must not already belong to any team's effective roster. On any
// violation the state is untouched and a typed error reports the outcome.
func (a *App) AddPlayerToLocalTeam(teamID string, player models.RosterPlayer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	team := a.findLocalLocked(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	ref := player.Ref()
	for _, p := range team.Players {
		if p.Ref() == ref {
			return ErrPlayerAlreadyOnTeam
		}
	}
	if a.playerOwnedLocked(ref, teamID) {
		return ErrPlayerOwned
	}

	team.Players = append(team.Players, player)
	team.PlayerCount = len(team.Players)

	return a.persistLocalTeams()
}

// RemovePlayerFromLocalTeam removes a player from a local team's roster by
// id. Removing an absent player is a genuine no-op.
func (a *App) RemovePlayerFromLocalTeam(teamID, playerRef string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	team := a.findLocalLocked(teamID)
	if team == nil {
		return ErrTeamNotFound
	}

	idx := -1
	for i, p := range team.Players {
		if p.Ref() == playerRef {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	team.Players = append(team.Players[:idx], team.Players[idx+1:]...)
	team.PlayerCount = len(team.Players)

	return a.persistLocalTeams()
}
