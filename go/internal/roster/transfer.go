package roster

import (
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/models"
)

// TransferRequest names the player relocation an accepted offer triggers.
type TransferRequest struct {
	FromTeamID string
	ToTeamID   string
	PlayerRef  string
	Price      float64
}

// TransferPlayer atomically relocates a player between teams. The
// destination must be a local team. A local source has the player removed
// from its list; a remote source keeps its fetched roster intact and gains
// an exclusion entry instead. The transfer record is appended to the
// destination's history and, for a local source, to the source's history.
// All validation happens before any mutation: on error the graph is
// byte-identical to before the call.
func (a *App) TransferPlayer(req TransferRequest) (*models.TransferRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	to := a.findLocalLocked(req.ToTeamID)
	if to == nil {
		return nil, ErrNotLocalTeam
	}
	for _, p := range to.Players {
		if p.Ref() == req.PlayerRef {
			return nil, ErrPlayerAlreadyOnTeam
		}
	}

	if from := a.findLocalLocked(req.FromTeamID); from != nil {
		return a.transferFromLocalLocked(from, to, req)
	}
	return a.transferFromRemoteLocked(to, req)
}

func (a *App) transferFromLocalLocked(from, to *models.LocalTeam, req TransferRequest) (*models.TransferRecord, error) {
	idx := -1
	for i, p := range from.Players {
		if p.Ref() == req.PlayerRef {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrPlayerNotOnTeam
	}

	player := from.Players[idx]
	from.Players = append(from.Players[:idx], from.Players[idx+1:]...)
	from.PlayerCount = len(from.Players)

	to.Players = append(to.Players, player)
	to.PlayerCount = len(to.Players)

	record := models.TransferRecord{
		PlayerID:     player.Ref(),
		PlayerName:   player.FullName(),
		FromTeamName: from.Name,
		ToTeamName:   to.Name,
		Price:        req.Price,
		Date:         a.clock.Now(),
	}
	to.TransferHistory = append(to.TransferHistory, record)
	from.TransferHistory = append(from.TransferHistory, record)

	log.Info().
		Str("player", record.PlayerName).
		Str("from", record.FromTeamName).
		Str("to", record.ToTeamName).
		Float64("price", record.Price).
		Msg("player transferred")

	if err := a.persistLocalTeams(); err != nil {
		return nil, err
	}
	return &record, nil
}

func (a *App) transferFromRemoteLocked(to *models.LocalTeam, req TransferRequest) (*models.TransferRecord, error) {
	var src *models.RemoteTeam
	for _, t := range a.teams.Items() {
		if t.Ref() == req.FromTeamID {
			team := t
			src = &team
			break
		}
	}
	if src == nil {
		return nil, ErrTeamNotFound
	}

	var player *models.Player
	for _, p := range effectiveRemoteRoster(*src, a.excluded[src.ID]) {
		if p.Ref() == req.PlayerRef {
			found := p
			player = &found
			break
		}
	}
	if player == nil {
		return nil, ErrPlayerNotOnTeam
	}

	// The fetched roster is never mutated; the exclusion set makes the
	// player invisible to effective-roster reads.
	a.excluded[src.ID] = append(a.excluded[src.ID], player.ID)

	to.Players = append(to.Players, models.CatalogEntry(*player))
	to.PlayerCount = len(to.Players)

	record := models.TransferRecord{
		PlayerID:     player.Ref(),
		PlayerName:   player.FullName(),
		FromTeamName: src.Name,
		ToTeamName:   to.Name,
		Price:        req.Price,
		Date:         a.clock.Now(),
	}
	to.TransferHistory = append(to.TransferHistory, record)

	log.Info().
		Str("player", record.PlayerName).
		Str("from", record.FromTeamName).
		Str("to", record.ToTeamName).
		Float64("price", record.Price).
		Msg("player transferred from remote roster")

	if err := a.persistLocalTeams(); err != nil {
		return nil, err
	}
	if err := a.persistExclusions(); err != nil {
		return nil, err
	}
	return &record, nil
}
