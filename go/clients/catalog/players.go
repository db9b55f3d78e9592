package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hoopstack/courtside/go/internal/models"
)

// AllPlayers walks the global paged player catalog until a short page
// signals exhaustion. Any page failure aborts the whole fetch.
func (c *Client) AllPlayers(ctx context.Context) ([]models.Player, error) {
	var all []models.Player
	page := 1
	for {
		q := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(c.perPage)},
		}
		body, err := c.getPage(ctx, PlayersEndpoint, q)
		if err != nil {
			return nil, fmt.Errorf("failed to list players (page %d): %w", page, err)
		}

		var resp playersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode players page %d: %w", page, err)
		}

		all = append(all, resp.Data...)
		if len(resp.Data) < c.perPage {
			return all, nil
		}
		page++
	}
}
