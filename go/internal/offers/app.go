package offers

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/roster"
	"github.com/hoopstack/courtside/go/internal/storage"
)

// RosterOps defines what the offer engine needs from the roster store.
type RosterOps interface {
	TransferPlayer(req roster.TransferRequest) (*models.TransferRecord, error)
}

// Publisher receives completed transfers for downstream consumers. A nil
// publisher disables publishing.
type Publisher interface {
	PublishTransfer(ctx context.Context, offerID string, record models.TransferRecord) error
}

// App owns the offer list and drives the transfer protocol on acceptance.
type App struct {
	rosters RosterOps
	store   storage.Store
	pub     Publisher

	mu     sync.Mutex
	offers []models.Offer
}

// NewApp creates an offer App. pub may be nil.
func NewApp(rosters RosterOps, store storage.Store, pub Publisher) *App {
	return &App{rosters: rosters, store: store, pub: pub}
}

// Hydrate restores the persisted offer list from the durable store.
func (a *App) Hydrate() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := storage.GetJSON(a.store, storage.KeyOffers, &a.offers); err != nil {
		return fmt.Errorf("failed to hydrate offers: %w", err)
	}
	log.Info().Int("offers", len(a.offers)).Msg("offers hydrated")
	return nil
}

// CreateOfferRequest carries the fields of a new transfer offer.
type CreateOfferRequest struct {
	FromTeamID string  `json:"from_team_id"`
	ToTeamID   string  `json:"to_team_id"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Price      float64 `json:"price"`
}

// CreateOffer constructs a pending offer with a fresh unique id.
func (a *App) CreateOffer(req CreateOfferRequest) (*models.Offer, error) {
	if req.Price <= 0 || math.IsInf(req.Price, 0) || math.IsNaN(req.Price) {
		return nil, ErrInvalidPrice
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	offer := models.Offer{
		ID:         "offer_" + uuid.NewString(),
		FromTeamID: req.FromTeamID,
		ToTeamID:   req.ToTeamID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Price:      req.Price,
		Status:     models.OfferPending,
	}
	a.offers = append(a.offers, offer)
	log.Info().Str("offer_id", offer.ID).Str("player", offer.PlayerName).Msg("offer created")

	if err := a.persistOffers(); err != nil {
		return nil, err
	}
	return &offer, nil
}

// AcceptOffer finalizes a pending offer by running the transfer protocol
// as a single logical step. Accepting an already-final offer returns
// ErrAlreadyFinal without re-applying any side effect; a transfer failure
// (player not locatable on the source team, destination not local) leaves
// both the offer and the roster graph untouched.
func (a *App) AcceptOffer(ctx context.Context, offerID string) (*models.TransferRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	offer := a.findLocked(offerID)
	if offer == nil {
		return nil, ErrOfferNotFound
	}
	if offer.Status.Final() {
		return nil, ErrAlreadyFinal
	}

	record, err := a.rosters.TransferPlayer(roster.TransferRequest{
		FromTeamID: offer.FromTeamID,
		ToTeamID:   offer.ToTeamID,
		PlayerRef:  offer.PlayerID,
		Price:      offer.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept offer %s: %w", offerID, err)
	}

	offer.Status = models.OfferAccepted
	log.Info().Str("offer_id", offerID).Str("player", offer.PlayerName).Msg("offer accepted")

	if err := a.persistOffers(); err != nil {
		return nil, err
	}
	if a.pub != nil {
		if err := a.pub.PublishTransfer(ctx, offerID, *record); err != nil {
			log.Error().Err(err).Str("offer_id", offerID).Msg("failed to publish transfer event")
		}
	}
	return record, nil
}

// RejectOffer finalizes a pending offer as rejected. No other state is
// touched. Rejecting an already-final offer returns ErrAlreadyFinal.
func (a *App) RejectOffer(offerID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	offer := a.findLocked(offerID)
	if offer == nil {
		return ErrOfferNotFound
	}
	if offer.Status.Final() {
		return ErrAlreadyFinal
	}

	offer.Status = models.OfferRejected
	log.Info().Str("offer_id", offerID).Msg("offer rejected")

	return a.persistOffers()
}

// Offers returns all offers.
func (a *App) Offers() []models.Offer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Offer, len(a.offers))
	copy(out, a.offers)
	return out
}

// IncomingOffersFor returns the pending offers whose destination is the
// given team.
func (a *App) IncomingOffersFor(teamID string) []models.Offer {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.Offer
	for _, o := range a.offers {
		if o.Status == models.OfferPending && o.ToTeamID == teamID {
			out = append(out, o)
		}
	}
	return out
}

// CanAccept reports whether the acting party may accept the offer: the
// offer's source team must be among the acting party's own team ids, so
// accepting always relinquishes a player the party controls.
func (a *App) CanAccept(offer models.Offer, actingTeamIDs []string) bool {
	for _, id := range actingTeamIDs {
		if id == offer.FromTeamID {
			return true
		}
	}
	return false
}

func (a *App) findLocked(offerID string) *models.Offer {
	for i := range a.offers {
		if a.offers[i].ID == offerID {
			return &a.offers[i]
		}
	}
	return nil
}

func (a *App) persistOffers() error {
	return storage.SetJSON(a.store, storage.KeyOffers, a.offers)
}
