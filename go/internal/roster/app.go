package roster

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/cache"
	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/storage"
)

// CatalogClient defines what the roster app needs from the remote catalog.
type CatalogClient interface {
	ListTeams(ctx context.Context) ([]models.RemoteTeam, error)
	TeamPlayers(ctx context.Context, teamID int) ([]models.Player, error)
}

// App owns the team graph: the cached remote team collection, the hidden
// set, locally-created teams, and per-remote-team transfer exclusions.
// Command methods either fully apply or leave state intact.
type App struct {
	client CatalogClient
	store  storage.Store
	clock  clockwork.Clock
	teams  *cache.Collection[models.RemoteTeam]

	mu             sync.Mutex
	localTeams     []models.LocalTeam
	hiddenTeams    []models.RemoteTeam
	excluded       map[int][]int
	playersLoading map[int]bool
	playersErr     map[int]string
}

// NewApp creates a roster App with an empty graph.
func NewApp(client CatalogClient, store storage.Store, clock clockwork.Clock, ttl time.Duration) *App {
	return &App{
		client:         client,
		store:          store,
		clock:          clock,
		teams:          cache.New("teams", ttl, clock, models.RemoteTeam.Ref),
		excluded:       make(map[int][]int),
		playersLoading: make(map[int]bool),
		playersErr:     make(map[int]string),
	}
}

// Hydrate restores the persisted partitions from the durable store.
func (a *App) Hydrate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var remote []models.RemoteTeam
	if _, err := storage.GetJSON(a.store, storage.KeyRemoteTeams, &remote); err != nil {
		return fmt.Errorf("failed to hydrate remote teams: %w", err)
	}
	a.teams.Replace(remote, a.loadLastFetch())

	if _, err := storage.GetJSON(a.store, storage.KeyLocalTeams, &a.localTeams); err != nil {
		return fmt.Errorf("failed to hydrate local teams: %w", err)
	}
	if _, err := storage.GetJSON(a.store, storage.KeyHiddenTeams, &a.hiddenTeams); err != nil {
		return fmt.Errorf("failed to hydrate hidden teams: %w", err)
	}
	excluded := make(map[int][]int)
	if _, err := storage.GetJSON(a.store, storage.KeyExclusions, &excluded); err != nil {
		return fmt.Errorf("failed to hydrate exclusions: %w", err)
	}
	a.excluded = excluded

	log.Info().
		Int("remote_teams", a.teams.Len()).
		Int("local_teams", len(a.localTeams)).
		Int("hidden_teams", len(a.hiddenTeams)).
		Msg("roster hydrated")
	return nil
}

func (a *App) loadLastFetch() time.Time {
	raw, ok, err := a.store.Get(storage.KeyTeamsLastFetch)
	if err != nil || !ok {
		return time.Time{}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

// VisibleTeams returns the union of visible remote teams and local teams.
func (a *App) VisibleTeams() []models.Team {
	remote := a.teams.Items()
	a.mu.Lock()
	local := make([]models.LocalTeam, len(a.localTeams))
	copy(local, a.localTeams)
	a.mu.Unlock()

	out := make([]models.Team, 0, len(remote)+len(local))
	for _, t := range remote {
		out = append(out, models.RemoteTeamEntry(t))
	}
	for _, t := range local {
		out = append(out, models.LocalTeamEntry(t))
	}
	return out
}

// RemoteTeams returns the visible remote teams.
func (a *App) RemoteTeams() []models.RemoteTeam {
	return a.teams.Items()
}

// HiddenTeams returns the hidden remote teams.
func (a *App) HiddenTeams() []models.RemoteTeam {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.RemoteTeam, len(a.hiddenTeams))
	copy(out, a.hiddenTeams)
	return out
}

// LocalTeams returns the locally-created teams.
func (a *App) LocalTeams() []models.LocalTeam {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.LocalTeam, len(a.localTeams))
	copy(out, a.localTeams)
	return out
}

// LocalTeamIDs returns the ids of all locally-created teams.
func (a *App) LocalTeamIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, len(a.localTeams))
	for i, t := range a.localTeams {
		ids[i] = t.ID
	}
	return ids
}

// IsLocalTeam reports whether id names a locally-created team.
func (a *App) IsLocalTeam(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.findLocalLocked(id) != nil
}

// TeamsLoading reports whether a remote team fetch is in flight.
func (a *App) TeamsLoading() bool {
	return a.teams.Loading()
}

// TeamPlayersLoading reports whether a roster fetch for the given remote
// team is in flight.
func (a *App) TeamPlayersLoading(teamID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playersLoading[teamID]
}

// TeamPlayersError returns the last roster fetch error for the given
// remote team, if any.
func (a *App) TeamPlayersError(teamID int) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	msg, ok := a.playersErr[teamID]
	return msg, ok && msg != ""
}

func (a *App) findLocalLocked(id string) *models.LocalTeam {
	for i := range a.localTeams {
		if a.localTeams[i].ID == id {
			return &a.localTeams[i]
		}
	}
	return nil
}

// nameTakenLocked checks name uniqueness case-insensitively across the
// union of visible remote, hidden remote, and local teams. Hidden teams
// stay reserved because they can be restored.
func (a *App) nameTakenLocked(name, excludeRef string) bool {
	for _, t := range a.teams.Items() {
		if t.Ref() != excludeRef && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	for _, t := range a.hiddenTeams {
		if t.Ref() != excludeRef && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	for i := range a.localTeams {
		if a.localTeams[i].ID != excludeRef && strings.EqualFold(a.localTeams[i].Name, name) {
			return true
		}
	}
	return false
}

// playerOwnedLocked reports whether the player appears on any team's
// effective roster, skipping skipTeamRef. Ownership across remote teams is
// judged on (fetched roster − exclusions).
func (a *App) playerOwnedLocked(playerRef, skipTeamRef string) bool {
	for i := range a.localTeams {
		t := &a.localTeams[i]
		if t.ID == skipTeamRef {
			continue
		}
		for _, p := range t.Players {
			if p.Ref() == playerRef {
				return true
			}
		}
	}
	for _, t := range a.teams.Items() {
		if t.Ref() == skipTeamRef {
			continue
		}
		for _, p := range effectiveRemoteRoster(t, a.excluded[t.ID]) {
			if p.Ref() == playerRef {
				return true
			}
		}
	}
	return false
}

func (a *App) persistLocalTeams() error {
	return storage.SetJSON(a.store, storage.KeyLocalTeams, a.localTeams)
}

func (a *App) persistHiddenTeams() error {
	return storage.SetJSON(a.store, storage.KeyHiddenTeams, a.hiddenTeams)
}

func (a *App) persistExclusions() error {
	return storage.SetJSON(a.store, storage.KeyExclusions, a.excluded)
}

func (a *App) persistRemoteTeams() error {
	if err := storage.SetJSON(a.store, storage.KeyRemoteTeams, a.teams.Items()); err != nil {
		return err
	}
	last := a.teams.LastFetch()
	if last.IsZero() {
		return a.store.Remove(storage.KeyTeamsLastFetch)
	}
	return a.store.Set(storage.KeyTeamsLastFetch, strconv.FormatInt(last.UnixMilli(), 10))
}
