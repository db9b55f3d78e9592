package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/storage"
)

type fakeCatalog struct {
	teams         []models.RemoteTeam
	playersByTeam map[int][]models.Player
	teamsErr      error
	playersErr    error
	listCalls     int
	playerCalls   int
}

func (f *fakeCatalog) ListTeams(ctx context.Context) ([]models.RemoteTeam, error) {
	f.listCalls++
	if f.teamsErr != nil {
		return nil, f.teamsErr
	}
	out := make([]models.RemoteTeam, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

func (f *fakeCatalog) TeamPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	f.playerCalls++
	if f.playersErr != nil {
		return nil, f.playersErr
	}
	return f.playersByTeam[teamID], nil
}

func catalogPlayer(id int, first, last string) models.Player {
	return models.Player{ID: id, FirstName: first, LastName: last, Position: "Forward"}
}

func newTestApp(t *testing.T) (*App, *fakeCatalog, *storage.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	client := &fakeCatalog{
		teams: []models.RemoteTeam{
			{ID: 1, Name: "Arsenal", City: "London"},
			{ID: 2, Name: "Chelsea", City: "London"},
		},
		playersByTeam: map[int][]models.Player{
			1: {catalogPlayer(10, "Bukayo", "Saka"), catalogPlayer(11, "Declan", "Rice")},
			2: {catalogPlayer(20, "Cole", "Palmer")},
		},
	}
	store := storage.NewMemoryStore()
	clock := clockwork.NewFakeClock()
	return NewApp(client, store, clock, 10*time.Minute), client, store, clock
}

func TestFetchTeamsPopulatesAndCaches(t *testing.T) {
	app, client, _, clock := newTestApp(t)

	fresh, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Len(t, app.RemoteTeams(), 2)

	clock.Advance(9 * time.Minute)
	fresh, err = app.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 1, client.listCalls)

	clock.Advance(2 * time.Minute)
	_, err = app.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.listCalls)
}

func TestFetchTeamsErrorLeavesCollectionIntact(t *testing.T) {
	app, client, _, clock := newTestApp(t)

	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	client.teamsErr = errors.New("upstream down")
	_, err = app.FetchTeams(context.Background())
	require.Error(t, err)
	assert.Len(t, app.RemoteTeams(), 2)
}

func TestHideAndRestoreRemoteTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.HideRemoteTeam(1))
	assert.Len(t, app.RemoteTeams(), 1)
	require.Len(t, app.HiddenTeams(), 1)
	assert.Equal(t, "Arsenal", app.HiddenTeams()[0].Name)

	// Hiding again is a no-op.
	require.NoError(t, app.HideRemoteTeam(1))
	assert.Len(t, app.HiddenTeams(), 1)

	require.NoError(t, app.RestoreRemoteTeam(1))
	assert.Len(t, app.RemoteTeams(), 2)
	assert.Empty(t, app.HiddenTeams())

	// Restoring a visible team is a no-op.
	require.NoError(t, app.RestoreRemoteTeam(1))
	assert.Len(t, app.RemoteTeams(), 2)
}

func TestHideUnknownTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, app.HideRemoteTeam(99), ErrTeamNotFound)
	assert.ErrorIs(t, app.RestoreRemoteTeam(99), ErrTeamNotFound)
}

func TestRefetchDoesNotResurrectHiddenTeams(t *testing.T) {
	app, _, _, clock := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.HideRemoteTeam(1))

	clock.Advance(time.Hour)
	_, err = app.FetchTeams(context.Background())
	require.NoError(t, err)

	assert.Len(t, app.RemoteTeams(), 1)
	assert.Len(t, app.HiddenTeams(), 1)
}

func TestHiddenTeamDataSurvivesRoundTrip(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	require.NoError(t, app.HideRemoteTeam(1))
	roster, err := app.EffectiveRoster("1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	require.NoError(t, app.RestoreRemoteTeam(1))
	roster, err = app.EffectiveRoster("1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestCreateLocalTeamRejectsDuplicateNames(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "My Team"})
	require.NoError(t, err)

	// Case-insensitive against another local team.
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "my team"})
	assert.ErrorIs(t, err, ErrDuplicateTeamName)

	// Against a visible remote team.
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "arsenal"})
	assert.ErrorIs(t, err, ErrDuplicateTeamName)

	// Hidden teams keep their names reserved.
	require.NoError(t, app.HideRemoteTeam(2))
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Chelsea"})
	assert.ErrorIs(t, err, ErrDuplicateTeamName)
}

func TestUpdateLocalTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	team, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Originals", Region: "North"})
	require.NoError(t, err)

	team.Name = "Renamed"
	updated, err := app.UpdateLocalTeam(*team)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Renamed", app.LocalTeams()[0].Name)

	// Keeping its own name is not a collision.
	_, err = app.UpdateLocalTeam(*updated)
	require.NoError(t, err)

	_, err = app.UpdateLocalTeam(models.LocalTeam{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestDeleteLocalTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	team, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, app.DeleteLocalTeam(team.ID))
	assert.Empty(t, app.LocalTeams())
	assert.ErrorIs(t, app.DeleteLocalTeam(team.ID), ErrTeamNotFound)
}

func TestAddPlayerOwnershipRules(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	teamA, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Alpha"})
	require.NoError(t, err)
	teamB, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Beta"})
	require.NoError(t, err)

	free := models.CustomEntry(models.CustomPlayer{ID: "custom_1", FirstName: "New", LastName: "Signing", IsCustom: true})
	require.NoError(t, app.AddPlayerToLocalTeam(teamA.ID, free))
	assert.Equal(t, 1, app.LocalTeams()[0].PlayerCount)

	// Already on the same team.
	assert.ErrorIs(t, app.AddPlayerToLocalTeam(teamA.ID, free), ErrPlayerAlreadyOnTeam)

	// Owned by another local team.
	assert.ErrorIs(t, app.AddPlayerToLocalTeam(teamB.ID, free), ErrPlayerOwned)

	// Owned by a remote team's effective roster.
	saka := models.CatalogEntry(catalogPlayer(10, "Bukayo", "Saka"))
	assert.ErrorIs(t, app.AddPlayerToLocalTeam(teamB.ID, saka), ErrPlayerOwned)

	assert.ErrorIs(t, app.AddPlayerToLocalTeam("nope", free), ErrTeamNotFound)
}

func TestRemovePlayerFromLocalTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	team, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Alpha"})
	require.NoError(t, err)
	p := models.CustomEntry(models.CustomPlayer{ID: "custom_1", IsCustom: true})
	require.NoError(t, app.AddPlayerToLocalTeam(team.ID, p))

	require.NoError(t, app.RemovePlayerFromLocalTeam(team.ID, "custom_1"))
	assert.Equal(t, 0, app.LocalTeams()[0].PlayerCount)

	// Removing an absent player is a genuine no-op.
	require.NoError(t, app.RemovePlayerFromLocalTeam(team.ID, "custom_1"))

	assert.ErrorIs(t, app.RemovePlayerFromLocalTeam("nope", "custom_1"), ErrTeamNotFound)
}

func TestFetchTeamPlayersCachesRoster(t *testing.T) {
	app, client, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))
	assert.Equal(t, 1, client.playerCalls)

	// Cached roster short-circuits.
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))
	assert.Equal(t, 1, client.playerCalls)

	assert.ErrorIs(t, app.FetchTeamPlayers(context.Background(), 99), ErrTeamNotFound)
}

func TestFetchTeamPlayersRecordsError(t *testing.T) {
	app, client, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	client.playersErr = errors.New("upstream down")
	err = app.FetchTeamPlayers(context.Background(), 1)
	require.Error(t, err)

	msg, ok := app.TeamPlayersError(1)
	assert.True(t, ok)
	assert.Contains(t, msg, "upstream down")

	// A later successful fetch clears the recorded error.
	client.playersErr = nil
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))
	_, ok = app.TeamPlayersError(1)
	assert.False(t, ok)
}

func TestEffectiveRosterUnknownTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.EffectiveRoster("nope")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestHydrateRestoresPartitions(t *testing.T) {
	app, _, store, clock := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.HideRemoteTeam(2))
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Mine"})
	require.NoError(t, err)

	restored := NewApp(&fakeCatalog{}, store, clock, 10*time.Minute)
	require.NoError(t, restored.Hydrate())

	assert.Len(t, restored.RemoteTeams(), 1)
	assert.Len(t, restored.HiddenTeams(), 1)
	assert.Len(t, restored.LocalTeams(), 1)

	// Hydrated fetch timestamp keeps the TTL gate closed.
	fresh, err := restored.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestClearCacheKeepsLocalTeams(t *testing.T) {
	app, client, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.HideRemoteTeam(1))
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Mine"})
	require.NoError(t, err)

	require.NoError(t, app.ClearCache())
	assert.Empty(t, app.RemoteTeams())
	assert.Empty(t, app.HiddenTeams())
	assert.Len(t, app.LocalTeams(), 1)

	// Next fetch is a hard miss.
	_, err = app.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.listCalls)
}

func TestVisibleTeamsUnionsRemoteAndLocal(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	_, err = app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Mine"})
	require.NoError(t, err)

	teams := app.VisibleTeams()
	require.Len(t, teams, 3)
	assert.Equal(t, models.TeamKindRemote, teams[0].Kind)
	assert.Equal(t, models.TeamKindLocal, teams[2].Kind)
}
