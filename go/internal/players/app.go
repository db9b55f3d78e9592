package players

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/cache"
	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/storage"
)

// CatalogClient defines what the players app needs from the remote catalog.
type CatalogClient interface {
	AllPlayers(ctx context.Context) ([]models.Player, error)
}

// App owns the player catalog: the TTL-cached remote collection, the
// pagination window over it, and locally-created custom players.
type App struct {
	client  CatalogClient
	store   storage.Store
	clock   clockwork.Clock
	catalog *cache.Collection[models.Player]
	window  *cache.Window

	mu     sync.Mutex
	custom []models.CustomPlayer
}

// NewApp creates a players App with an empty catalog.
func NewApp(client CatalogClient, store storage.Store, clock clockwork.Clock, ttl time.Duration, displayLimit int) *App {
	return &App{
		client:  client,
		store:   store,
		clock:   clock,
		catalog: cache.New("players", ttl, clock, models.Player.Ref),
		window:  cache.NewWindow(displayLimit),
	}
}

// Hydrate restores the persisted partitions from the durable store.
func (a *App) Hydrate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var catalog []models.Player
	if _, err := storage.GetJSON(a.store, storage.KeyPlayers, &catalog); err != nil {
		return fmt.Errorf("failed to hydrate player catalog: %w", err)
	}
	a.catalog.Replace(catalog, a.loadLastFetch())

	if raw, ok, err := a.store.Get(storage.KeyPlayersPage); err == nil && ok {
		if page, err := strconv.Atoi(raw); err == nil {
			a.window.SetPage(page)
		}
	}
	if _, err := storage.GetJSON(a.store, storage.KeyCustomPlayers, &a.custom); err != nil {
		return fmt.Errorf("failed to hydrate custom players: %w", err)
	}

	log.Info().
		Int("catalog", a.catalog.Len()).
		Int("custom", len(a.custom)).
		Int("page", a.window.Page()).
		Msg("player catalog hydrated")
	return nil
}

func (a *App) loadLastFetch() time.Time {
	raw, ok, err := a.store.Get(storage.KeyPlayersLastFetch)
	if err != nil || !ok {
		return time.Time{}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

// FetchAll refreshes the full player catalog through the TTL gate, walking
// every remote page. A refresh resets the pagination window to the top of
// the freshly deduplicated collection.
func (a *App) FetchAll(ctx context.Context) (bool, error) {
	fresh, err := a.catalog.EnsureFresh(ctx, func(ctx context.Context) ([]models.Player, error) {
		return a.client.AllPlayers(ctx)
	})
	if err != nil {
		return false, err
	}
	if fresh {
		return true, nil
	}

	a.window.Reset()
	if err := a.persistCatalog(); err != nil {
		return false, err
	}
	return false, a.persistPage()
}

// Displayed returns the visible slice of the deduplicated catalog.
func (a *App) Displayed() []models.Player {
	items := a.catalog.Items()
	return items[:a.window.Visible(len(items))]
}

// LoadMore grows the visible slice by one page. Returns false when
// everything is already visible or a load is in progress.
func (a *App) LoadMore() bool {
	if !a.window.LoadMore(a.catalog.Len()) {
		return false
	}
	if err := a.persistPage(); err != nil {
		log.Error().Err(err).Msg("failed to persist pagination page")
	}
	return true
}

// HasMore reports whether catalog entries beyond the visible slice remain.
func (a *App) HasMore() bool {
	return a.window.HasMore(a.catalog.Len())
}

// Loading reports whether a catalog fetch is in flight.
func (a *App) Loading() bool {
	return a.catalog.Loading()
}

// LoadingMore reports whether a window load is in progress.
func (a *App) LoadingMore() bool {
	return a.window.LoadingMore()
}

// CatalogSize reports the deduplicated catalog size.
func (a *App) CatalogSize() int {
	return a.catalog.Len()
}

// CreateCustomPlayerRequest carries the user-supplied fields of a new
// custom player.
type CreateCustomPlayerRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	NationalTeam string `json:"national_team"`
	Height       int    `json:"height"`
	Weight       int    `json:"weight"`
	BirthDate    string `json:"birth_date"`
}

// CreateCustomPlayer creates a custom player. The duplicate-name invariant
// is enforced here, centrally, as a hard error.
func (a *App) CreateCustomPlayer(req CreateCustomPlayerRequest) (*models.CustomPlayer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fullName := req.FirstName + " " + req.LastName
	for _, p := range a.catalog.Items() {
		if strings.EqualFold(p.FullName(), fullName) {
			return nil, ErrDuplicateName
		}
	}
	for _, p := range a.custom {
		if strings.EqualFold(p.FullName(), fullName) {
			return nil, ErrDuplicateName
		}
	}

	player := models.CustomPlayer{
		ID:           "custom_" + uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		NationalTeam: req.NationalTeam,
		Height:       req.Height,
		Weight:       req.Weight,
		BirthDate:    req.BirthDate,
		IsCustom:     true,
	}
	a.custom = append(a.custom, player)
	log.Info().Str("player_id", player.ID).Str("name", player.FullName()).Msg("custom player created")

	if err := storage.SetJSON(a.store, storage.KeyCustomPlayers, a.custom); err != nil {
		return nil, err
	}
	return &player, nil
}

// CustomPlayers returns the locally-created players.
func (a *App) CustomPlayers() []models.CustomPlayer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.CustomPlayer, len(a.custom))
	copy(out, a.custom)
	return out
}

// Lookup resolves a player reference against the catalog and the custom
// set. Custom players orphaned by a team deletion stay retrievable here.
func (a *App) Lookup(ref string) (models.RosterPlayer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.custom {
		if p.ID == ref {
			return models.CustomEntry(p), nil
		}
	}
	if id, err := strconv.Atoi(ref); err == nil {
		for _, p := range a.catalog.Items() {
			if p.ID == id {
				return models.CatalogEntry(p), nil
			}
		}
	}
	return models.RosterPlayer{}, ErrPlayerNotFound
}

// ClearCache empties the catalog, the custom player set, and the window,
// guaranteeing the next FetchAll is a hard miss.
func (a *App) ClearCache() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.catalog.Clear()
	a.custom = nil
	a.window.Reset()

	return errors.Join(
		a.store.Remove(storage.KeyPlayers),
		a.store.Remove(storage.KeyPlayersLastFetch),
		a.store.Remove(storage.KeyPlayersPage),
		a.store.Remove(storage.KeyCustomPlayers),
	)
}

func (a *App) persistCatalog() error {
	if err := storage.SetJSON(a.store, storage.KeyPlayers, a.catalog.Items()); err != nil {
		return err
	}
	last := a.catalog.LastFetch()
	if last.IsZero() {
		return a.store.Remove(storage.KeyPlayersLastFetch)
	}
	return a.store.Set(storage.KeyPlayersLastFetch, strconv.FormatInt(last.UnixMilli(), 10))
}

func (a *App) persistPage() error {
	return a.store.Set(storage.KeyPlayersPage, strconv.Itoa(a.window.Page()))
}
