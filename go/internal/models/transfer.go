package models

import "time"

// TransferRecord captures a completed player transfer. Player and team
// names are denormalized at transfer time. Append-only.
type TransferRecord struct {
	PlayerID     string    `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	FromTeamName string    `json:"from_team_name"`
	ToTeamName   string    `json:"to_team_name"`
	Price        float64   `json:"price"`
	Date         time.Time `json:"date"`
}
