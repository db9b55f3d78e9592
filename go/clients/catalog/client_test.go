package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopstack/courtside/go/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, perPage int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		PerPage: perPage,
	})
}

func writePage[T any](w http.ResponseWriter, data []T) {
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestListTeamsWithoutCredential(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, 2)
	client.SetAPIKey("")

	_, err := client.ListTeams(context.Background())
	require.ErrorIs(t, err, ErrCredentialMissing)
	assert.False(t, called, "no request may be sent without a credential")
}

func TestListTeamsInvalidCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, 2)

	_, err := client.ListTeams(context.Background())
	require.ErrorIs(t, err, ErrCredentialInvalid)
}

func TestListTeamsWalksUntilShortPage(t *testing.T) {
	pages := [][]models.RemoteTeam{
		{{ID: 1, Name: "Arsenal"}, {ID: 2, Name: "Chelsea"}},
		{{ID: 3, Name: "Everton"}, {ID: 4, Name: "Fulham"}},
		{{ID: 5, Name: "Brentford"}},
	}
	var requested []int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get(AuthorizationHeader))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		requested = append(requested, page)
		writePage(w, pages[page-1])
	}, 2)

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 5)
	assert.Equal(t, []int{1, 2, 3}, requested)
	assert.Equal(t, "Brentford", teams[4].Name)
}

func TestListTeamsSinglePartialPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []models.RemoteTeam{{ID: 1}})
	}, 100)

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestListTeamsMidWalkFailureAborts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writePage(w, []models.RemoteTeam{{ID: 1}, {ID: 2}})
	}, 2)

	teams, err := client.ListTeams(context.Background())
	require.Error(t, err)
	assert.Nil(t, teams, "no partial collection on failure")

	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestTeamPlayersHitsTeamScopedEndpoint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/7/players", r.URL.Path)
		writePage(w, []models.Player{{ID: 10, FirstName: "Bukayo", LastName: "Saka"}})
	}, 100)

	players, err := client.TeamPlayers(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Bukayo Saka", players[0].FullName())
}

func TestAllPlayersWalksPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players", r.URL.Path)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 3 {
			writePage(w, []models.Player{{ID: page * 2}, {ID: page*2 + 1}})
			return
		}
		writePage(w, []models.Player{})
	}, 2)

	players, err := client.AllPlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 4)
}

func TestSetAPIKeySwapsCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(AuthorizationHeader) != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writePage(w, []models.RemoteTeam{})
	}, 100)

	_, err := client.ListTeams(context.Background())
	require.ErrorIs(t, err, ErrCredentialInvalid)

	client.SetAPIKey("good")
	assert.True(t, client.HasCredential())
	_, err = client.ListTeams(context.Background())
	require.NoError(t, err)
}

func TestFetchErrorMessageIncludesStatus(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &FetchError{Status: 503, Detail: "unavailable"})
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Contains(t, fe.Error(), "503")
}
