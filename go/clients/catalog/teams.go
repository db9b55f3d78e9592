package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hoopstack/courtside/go/internal/models"
)

type teamsResponse struct {
	Data []models.RemoteTeam `json:"data"`
}

type playersResponse struct {
	Data []models.Player `json:"data"`
}

// ListTeams walks the paged teams collection for the configured season
// until a short page signals exhaustion. Any page failure aborts the whole
// fetch; no partial collection is ever returned.
func (c *Client) ListTeams(ctx context.Context) ([]models.RemoteTeam, error) {
	var all []models.RemoteTeam
	page := 1
	for {
		q := url.Values{
			"season":   {strconv.Itoa(c.season)},
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(c.perPage)},
		}
		body, err := c.getPage(ctx, TeamsEndpoint, q)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams (page %d): %w", page, err)
		}

		var resp teamsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode teams page %d: %w", page, err)
		}

		all = append(all, resp.Data...)
		if len(resp.Data) < c.perPage {
			return all, nil
		}
		page++
	}
}

// TeamPlayers walks the paged roster of a single remote team.
func (c *Client) TeamPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	endpoint := fmt.Sprintf("%s/%d/players", TeamsEndpoint, teamID)

	var all []models.Player
	page := 1
	for {
		q := url.Values{
			"season":   {strconv.Itoa(c.season)},
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(c.perPage)},
		}
		body, err := c.getPage(ctx, endpoint, q)
		if err != nil {
			return nil, fmt.Errorf("failed to list players for team %d (page %d): %w", teamID, page, err)
		}

		var resp playersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode players page %d for team %d: %w", page, teamID, err)
		}

		all = append(all, resp.Data...)
		if len(resp.Data) < c.perPage {
			return all, nil
		}
		page++
	}
}
