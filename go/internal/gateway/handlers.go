// Package gateway exposes the engine over a JSON HTTP surface plus a
// websocket stream of completed transfers.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/clients/catalog"
	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/offers"
	"github.com/hoopstack/courtside/go/internal/players"
	"github.com/hoopstack/courtside/go/internal/roster"
)

// Handler routes JSON commands to the engine apps.
type Handler struct {
	catalog *catalog.Client
	rosters *roster.App
	players *players.App
	offers  *offers.App
	hub     *TransferHub
}

// NewHandler wires the gateway to the engine apps. hub may be nil when no
// websocket stream is wanted.
func NewHandler(client *catalog.Client, rosters *roster.App, playerApp *players.App, offerApp *offers.App, hub *TransferHub) *Handler {
	return &Handler{
		catalog: client,
		rosters: rosters,
		players: playerApp,
		offers:  offerApp,
		hub:     hub,
	}
}

// Mux builds the route table.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("PUT /settings/credential", h.handleSetCredential)

	mux.HandleFunc("GET /teams", h.handleListTeams)
	mux.HandleFunc("POST /teams/fetch", h.handleFetchTeams)
	mux.HandleFunc("POST /teams", h.handleCreateTeam)
	mux.HandleFunc("PUT /teams/{id}", h.handleUpdateTeam)
	mux.HandleFunc("DELETE /teams/{id}", h.handleDeleteTeam)
	mux.HandleFunc("POST /teams/{id}/hide", h.handleHideTeam)
	mux.HandleFunc("POST /teams/{id}/restore", h.handleRestoreTeam)
	mux.HandleFunc("POST /teams/{id}/roster/fetch", h.handleFetchTeamRoster)
	mux.HandleFunc("GET /teams/{id}/roster", h.handleTeamRoster)
	mux.HandleFunc("POST /teams/{id}/players", h.handleAddPlayer)
	mux.HandleFunc("DELETE /teams/{id}/players/{playerRef}", h.handleRemovePlayer)

	mux.HandleFunc("GET /players", h.handleListPlayers)
	mux.HandleFunc("POST /players/fetch", h.handleFetchPlayers)
	mux.HandleFunc("POST /players/load-more", h.handleLoadMorePlayers)
	mux.HandleFunc("GET /players/custom", h.handleListCustomPlayers)
	mux.HandleFunc("POST /players/custom", h.handleCreateCustomPlayer)
	mux.HandleFunc("GET /players/{ref}", h.handleLookupPlayer)

	mux.HandleFunc("GET /offers", h.handleListOffers)
	mux.HandleFunc("POST /offers", h.handleCreateOffer)
	mux.HandleFunc("POST /offers/{id}/accept", h.handleAcceptOffer)
	mux.HandleFunc("POST /offers/{id}/reject", h.handleRejectOffer)

	mux.HandleFunc("POST /cache/clear", h.handleClearCache)

	if h.hub != nil {
		mux.HandleFunc("GET /ws/transfers", h.hub.HandleTransfers)
	}
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"has_credential": h.catalog.HasCredential(),
	})
}

func (h *Handler) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.catalog.SetAPIKey(req.APIKey)
	writeJSON(w, http.StatusOK, map[string]any{"has_credential": h.catalog.HasCredential()})
}

func (h *Handler) handleListTeams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"teams":   h.rosters.VisibleTeams(),
		"hidden":  h.rosters.HiddenTeams(),
		"loading": h.rosters.TeamsLoading(),
	})
}

func (h *Handler) handleFetchTeams(w http.ResponseWriter, r *http.Request) {
	fresh, err := h.rosters.FetchTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fresh": fresh,
		"teams": h.rosters.VisibleTeams(),
	})
}

func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req roster.CreateLocalTeamRequest
	if !decode(w, r, &req) {
		return
	}
	team, err := h.rosters.CreateLocalTeam(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *Handler) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var team models.LocalTeam
	if !decode(w, r, &team) {
		return
	}
	team.ID = r.PathValue("id")
	updated, err := h.rosters.UpdateLocalTeam(team)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.rosters.DeleteLocalTeam(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHideTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := remoteTeamID(w, r)
	if !ok {
		return
	}
	if err := h.rosters.HideRemoteTeam(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestoreTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := remoteTeamID(w, r)
	if !ok {
		return
	}
	if err := h.rosters.RestoreRemoteTeam(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFetchTeamRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := remoteTeamID(w, r)
	if !ok {
		return
	}
	if err := h.rosters.FetchTeamPlayers(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.handleTeamRoster(w, r)
}

func (h *Handler) handleTeamRoster(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("id")
	players, err := h.rosters.EffectiveRoster(ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (h *Handler) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerRef string `json:"player_ref"`
	}
	if !decode(w, r, &req) {
		return
	}
	player, err := h.players.Lookup(req.PlayerRef)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rosters.AddPlayerToLocalTeam(r.PathValue("id"), player); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.rosters.RemovePlayerFromLocalTeam(r.PathValue("id"), r.PathValue("playerRef")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListPlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"players":      h.players.Displayed(),
		"total":        h.players.CatalogSize(),
		"has_more":     h.players.HasMore(),
		"loading":      h.players.Loading(),
		"loading_more": h.players.LoadingMore(),
	})
}

func (h *Handler) handleFetchPlayers(w http.ResponseWriter, r *http.Request) {
	fresh, err := h.players.FetchAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fresh":   fresh,
		"players": h.players.Displayed(),
		"total":   h.players.CatalogSize(),
	})
}

func (h *Handler) handleLoadMorePlayers(w http.ResponseWriter, _ *http.Request) {
	loaded := h.players.LoadMore()
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":   loaded,
		"players":  h.players.Displayed(),
		"has_more": h.players.HasMore(),
	})
}

func (h *Handler) handleListCustomPlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"players": h.players.CustomPlayers()})
}

func (h *Handler) handleCreateCustomPlayer(w http.ResponseWriter, r *http.Request) {
	var req players.CreateCustomPlayerRequest
	if !decode(w, r, &req) {
		return
	}
	player, err := h.players.CreateCustomPlayer(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (h *Handler) handleLookupPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.Lookup(r.PathValue("ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *Handler) handleListOffers(w http.ResponseWriter, r *http.Request) {
	if teamID := r.URL.Query().Get("team"); teamID != "" {
		writeJSON(w, http.StatusOK, map[string]any{"offers": h.offers.IncomingOffersFor(teamID)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": h.offers.Offers()})
}

func (h *Handler) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offers.CreateOfferRequest
	if !decode(w, r, &req) {
		return
	}
	offer, err := h.offers.CreateOffer(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *Handler) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	record, err := h.offers.AcceptOffer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfer": record})
}

func (h *Handler) handleRejectOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.RejectOffer(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	if err := errors.Join(h.rosters.ClearCache(), h.players.ClearCache()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func remoteTeamID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "team id must be numeric"))
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return false
	}
	return true
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) map[string]apiError {
	return map[string]apiError{"error": {Code: code, Message: message}}
}

// writeError maps engine errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	_, isFetch := catalog.AsFetchError(err)
	switch {
	case errors.Is(err, catalog.ErrCredentialMissing):
		writeJSON(w, http.StatusUnauthorized, errorBody("credential_missing", err.Error()))
	case errors.Is(err, catalog.ErrCredentialInvalid):
		writeJSON(w, http.StatusUnauthorized, errorBody("credential_invalid", err.Error()))
	case isFetch:
		writeJSON(w, http.StatusBadGateway, errorBody("upstream_failure", err.Error()))
	case errors.Is(err, roster.ErrTeamNotFound),
		errors.Is(err, players.ErrPlayerNotFound),
		errors.Is(err, offers.ErrOfferNotFound),
		errors.Is(err, roster.ErrPlayerNotOnTeam):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", err.Error()))
	case errors.Is(err, roster.ErrDuplicateTeamName),
		errors.Is(err, players.ErrDuplicateName),
		errors.Is(err, roster.ErrPlayerOwned),
		errors.Is(err, roster.ErrPlayerAlreadyOnTeam),
		errors.Is(err, roster.ErrNotLocalTeam),
		errors.Is(err, offers.ErrAlreadyFinal):
		writeJSON(w, http.StatusConflict, errorBody("conflict", err.Error()))
	case errors.Is(err, offers.ErrInvalidPrice):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid_price", err.Error()))
	default:
		log.Error().Err(err).Msg("unhandled gateway error")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal", "internal error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}
