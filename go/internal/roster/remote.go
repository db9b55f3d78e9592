package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/storage"
)

// FetchTeams refreshes the remote team collection through the TTL gate.
// Returns fresh=true when the cached copy was still valid and no network
// call was made. Hidden teams are filtered out of the ingest so a refresh
// never resurrects them.
func (a *App) FetchTeams(ctx context.Context) (bool, error) {
	fresh, err := a.teams.EnsureFresh(ctx, func(ctx context.Context) ([]models.RemoteTeam, error) {
		teams, err := a.client.ListTeams(ctx)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		hidden := make(map[int]struct{}, len(a.hiddenTeams))
		for _, t := range a.hiddenTeams {
			hidden[t.ID] = struct{}{}
		}
		a.mu.Unlock()

		visible := teams[:0]
		for _, t := range teams {
			if _, ok := hidden[t.ID]; ok {
				continue
			}
			visible = append(visible, t)
		}
		return visible, nil
	})
	if err != nil {
		return false, err
	}
	if fresh {
		return true, nil
	}
	return false, a.persistRemoteTeams()
}

// FetchTeamPlayers lazily fetches the roster of one remote team. A cached
// roster short-circuits; a fetch already in flight for the same team is
// not duplicated.
func (a *App) FetchTeamPlayers(ctx context.Context, teamID int) error {
	found, cached := false, false
	for _, t := range a.teams.Items() {
		if t.ID == teamID {
			found = true
			cached = t.Players != nil
			break
		}
	}
	if !found {
		return ErrTeamNotFound
	}
	if cached {
		return nil
	}

	a.mu.Lock()
	if a.playersLoading[teamID] {
		a.mu.Unlock()
		return nil
	}
	a.playersLoading[teamID] = true
	a.playersErr[teamID] = ""
	a.mu.Unlock()

	players, err := a.client.TeamPlayers(ctx, teamID)

	a.mu.Lock()
	a.playersLoading[teamID] = false
	if err != nil {
		a.playersErr[teamID] = err.Error()
		a.mu.Unlock()
		return fmt.Errorf("failed to fetch roster for team %d: %w", teamID, err)
	}
	a.mu.Unlock()

	attached := false
	a.teams.Mutate(func(items []models.RemoteTeam) []models.RemoteTeam {
		for i := range items {
			if items[i].ID == teamID {
				items[i].Players = dedupePlayers(players)
				attached = true
			}
		}
		return items
	})
	if !attached {
		// Team vanished while fetching (cache cleared); drop the result.
		log.Warn().Int("team_id", teamID).Msg("discarding roster for cleared team")
		return nil
	}
	return a.persistRemoteTeams()
}

// HideRemoteTeam moves a remote team from the visible collection to the
// hidden set. Hiding an already-hidden team is a no-op. No roster or
// history data is lost.
func (a *App) HideRemoteTeam(teamID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, t := range a.hiddenTeams {
		if t.ID == teamID {
			return nil
		}
	}

	var hidden *models.RemoteTeam
	a.teams.Mutate(func(items []models.RemoteTeam) []models.RemoteTeam {
		out := items[:0]
		for _, t := range items {
			if t.ID == teamID {
				team := t
				hidden = &team
				continue
			}
			out = append(out, t)
		}
		return out
	})
	if hidden == nil {
		return ErrTeamNotFound
	}

	a.hiddenTeams = append(a.hiddenTeams, *hidden)
	log.Info().Int("team_id", teamID).Str("name", hidden.Name).Msg("remote team hidden")

	if err := a.persistHiddenTeams(); err != nil {
		return err
	}
	return a.persistRemoteTeams()
}

// RestoreRemoteTeam reverses HideRemoteTeam exactly. Restoring an
// already-visible team is a no-op.
func (a *App) RestoreRemoteTeam(teamID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, t := range a.teams.Items() {
		if t.ID == teamID {
			return nil
		}
	}

	idx := -1
	for i, t := range a.hiddenTeams {
		if t.ID == teamID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrTeamNotFound
	}

	team := a.hiddenTeams[idx]
	a.hiddenTeams = append(a.hiddenTeams[:idx], a.hiddenTeams[idx+1:]...)
	a.teams.Mutate(func(items []models.RemoteTeam) []models.RemoteTeam {
		return append(items, team)
	})
	log.Info().Int("team_id", teamID).Str("name", team.Name).Msg("remote team restored")

	if err := a.persistHiddenTeams(); err != nil {
		return err
	}
	return a.persistRemoteTeams()
}

// EffectiveRoster returns a team's effective player list: for a remote
// team, the fetched roster minus its exclusion set; for a local team, its
// player list directly. Hidden remote teams remain addressable so their
// data survives hide/restore untouched.
func (a *App) EffectiveRoster(teamRef string) ([]models.RosterPlayer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if lt := a.findLocalLocked(teamRef); lt != nil {
		out := make([]models.RosterPlayer, len(lt.Players))
		copy(out, lt.Players)
		return out, nil
	}
	for _, t := range a.teams.Items() {
		if t.Ref() == teamRef {
			return catalogEntries(effectiveRemoteRoster(t, a.excluded[t.ID])), nil
		}
	}
	for _, t := range a.hiddenTeams {
		if t.Ref() == teamRef {
			return catalogEntries(effectiveRemoteRoster(t, a.excluded[t.ID])), nil
		}
	}
	return nil, ErrTeamNotFound
}

// ClearCache unconditionally empties the remote collection and its
// hidden/exclusion side-tables, guaranteeing the next FetchTeams is a hard
// miss. Local teams are untouched.
func (a *App) ClearCache() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.teams.Clear()
	a.hiddenTeams = nil
	a.excluded = make(map[int][]int)
	a.playersErr = make(map[int]string)

	return errors.Join(
		a.store.Remove(storage.KeyRemoteTeams),
		a.store.Remove(storage.KeyHiddenTeams),
		a.store.Remove(storage.KeyExclusions),
		a.store.Remove(storage.KeyTeamsLastFetch),
	)
}

func effectiveRemoteRoster(t models.RemoteTeam, excluded []int) []models.Player {
	if len(excluded) == 0 {
		return t.Players
	}
	gone := make(map[int]struct{}, len(excluded))
	for _, id := range excluded {
		gone[id] = struct{}{}
	}
	out := make([]models.Player, 0, len(t.Players))
	for _, p := range t.Players {
		if _, ok := gone[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func catalogEntries(players []models.Player) []models.RosterPlayer {
	out := make([]models.RosterPlayer, len(players))
	for i, p := range players {
		out[i] = models.CatalogEntry(p)
	}
	return out
}

func dedupePlayers(players []models.Player) []models.Player {
	seen := make(map[int]struct{}, len(players))
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
