package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopstack/courtside/go/internal/models"
)

func TestTransferBetweenLocalTeams(t *testing.T) {
	app, _, _, clock := newTestApp(t)

	from, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Sellers"})
	require.NoError(t, err)
	to, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Buyers"})
	require.NoError(t, err)

	player := models.CustomEntry(models.CustomPlayer{ID: "custom_1", FirstName: "Star", LastName: "Player", IsCustom: true})
	require.NoError(t, app.AddPlayerToLocalTeam(from.ID, player))

	record, err := app.TransferPlayer(TransferRequest{
		FromTeamID: from.ID,
		ToTeamID:   to.ID,
		PlayerRef:  "custom_1",
		Price:      5_000_000,
	})
	require.NoError(t, err)

	assert.Equal(t, "Star Player", record.PlayerName)
	assert.Equal(t, "Sellers", record.FromTeamName)
	assert.Equal(t, "Buyers", record.ToTeamName)
	assert.Equal(t, 5_000_000.0, record.Price)
	assert.Equal(t, clock.Now(), record.Date)

	teams := app.LocalTeams()
	assert.Equal(t, 0, teams[0].PlayerCount)
	assert.Empty(t, teams[0].Players)
	assert.Equal(t, 1, teams[1].PlayerCount)
	assert.Equal(t, "custom_1", teams[1].Players[0].Ref())

	// Both sides keep the history entry.
	require.Len(t, teams[0].TransferHistory, 1)
	require.Len(t, teams[1].TransferHistory, 1)
}

func TestTransferFromRemoteTeamUsesExclusions(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	to, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Buyers"})
	require.NoError(t, err)

	record, err := app.TransferPlayer(TransferRequest{
		FromTeamID: "1",
		ToTeamID:   to.ID,
		PlayerRef:  "10",
		Price:      100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", record.FromTeamName)

	// The fetched roster itself is untouched.
	for _, rt := range app.RemoteTeams() {
		if rt.ID == 1 {
			assert.Len(t, rt.Players, 2)
		}
	}

	// The effective roster no longer shows the player.
	roster, err := app.EffectiveRoster("1")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "11", roster[0].Ref())

	// Destination gained the player and the only history entry.
	local := app.LocalTeams()[0]
	require.Len(t, local.Players, 1)
	assert.Equal(t, "10", local.Players[0].Ref())
	assert.Len(t, local.TransferHistory, 1)
}

func TestTransferDestinationMustBeLocal(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "1", ToTeamID: "2", PlayerRef: "10"})
	assert.ErrorIs(t, err, ErrNotLocalTeam)
}

func TestTransferPlayerNotOnSourceLeavesStateIntact(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	to, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Buyers"})
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "1", ToTeamID: to.ID, PlayerRef: "999"})
	assert.ErrorIs(t, err, ErrPlayerNotOnTeam)

	local := app.LocalTeams()[0]
	assert.Empty(t, local.Players)
	assert.Empty(t, local.TransferHistory)
	roster, err := app.EffectiveRoster("1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestTransferUnknownSourceTeam(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	to, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Buyers"})
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "404", ToTeamID: to.ID, PlayerRef: "10"})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTransferPlayerAlreadyOnDestination(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	to, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Buyers"})
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "1", ToTeamID: to.ID, PlayerRef: "10", Price: 1})
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "1", ToTeamID: to.ID, PlayerRef: "10", Price: 1})
	assert.ErrorIs(t, err, ErrPlayerAlreadyOnTeam)
}

func TestTransferredPlayerCanMoveOnward(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.FetchTeams(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.FetchTeamPlayers(context.Background(), 1))

	first, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "First"})
	require.NoError(t, err)
	second, err := app.CreateLocalTeam(CreateLocalTeamRequest{Name: "Second"})
	require.NoError(t, err)

	_, err = app.TransferPlayer(TransferRequest{FromTeamID: "1", ToTeamID: first.ID, PlayerRef: "10", Price: 1})
	require.NoError(t, err)
	_, err = app.TransferPlayer(TransferRequest{FromTeamID: first.ID, ToTeamID: second.ID, PlayerRef: "10", Price: 2})
	require.NoError(t, err)

	teams := app.LocalTeams()
	assert.Equal(t, 0, teams[0].PlayerCount)
	assert.Equal(t, 1, teams[1].PlayerCount)

	// First team has both its inbound and outbound records.
	assert.Len(t, teams[0].TransferHistory, 2)
	assert.Len(t, teams[1].TransferHistory, 1)
}
