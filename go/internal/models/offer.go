package models

// OfferStatus represents the lifecycle state of a transfer offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Final reports whether the status is terminal.
func (s OfferStatus) Final() bool {
	return s == OfferAccepted || s == OfferRejected
}

// Offer proposes relocating a player from a source team to a destination
// team for a price. Created pending; transitions to a terminal state
// exactly once.
type Offer struct {
	ID         string      `json:"id"`
	FromTeamID string      `json:"from_team_id"`
	ToTeamID   string      `json:"to_team_id"`
	PlayerID   string      `json:"player_id"`
	PlayerName string      `json:"player_name"`
	Price      float64     `json:"price"`
	Status     OfferStatus `json:"status"`
}
