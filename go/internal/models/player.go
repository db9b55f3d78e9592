package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Player represents a player sourced from the remote catalog. Records are
// immutable once fetched; transfer bookkeeping lives outside the record.
type Player struct {
	ID        int         `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Position  string      `json:"position"`
	Team      TeamSummary `json:"team"`
}

// TeamSummary is the back-reference a catalog player carries to its
// originating team.
type TeamSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// Ref returns the player's identity in the string form used across the
// mixed local/remote roster graph.
func (p Player) Ref() string {
	return strconv.Itoa(p.ID)
}

// FullName returns the player's display name.
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// CustomPlayer represents a locally-created player. It never originates
// from the remote catalog.
type CustomPlayer struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	NationalTeam string `json:"national_team"`
	Height       int    `json:"height"`
	Weight       int    `json:"weight"`
	BirthDate    string `json:"birth_date"`
	IsCustom     bool   `json:"is_custom"`
}

// Ref returns the custom player's identity.
func (p CustomPlayer) Ref() string {
	return p.ID
}

// FullName returns the custom player's display name.
func (p CustomPlayer) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PlayerKind discriminates the two roster player variants.
type PlayerKind string

const (
	PlayerKindCatalog PlayerKind = "catalog"
	PlayerKindCustom  PlayerKind = "custom"
)

// RosterPlayer is the tagged union of catalog and custom players. A local
// team's roster mixes both; the discriminant is checked once here instead
// of shape-sniffed at every use site.
type RosterPlayer struct {
	Kind    PlayerKind
	Catalog *Player
	Custom  *CustomPlayer
}

// CatalogEntry wraps a catalog player as a roster entry.
func CatalogEntry(p Player) RosterPlayer {
	return RosterPlayer{Kind: PlayerKindCatalog, Catalog: &p}
}

// CustomEntry wraps a custom player as a roster entry.
func CustomEntry(p CustomPlayer) RosterPlayer {
	return RosterPlayer{Kind: PlayerKindCustom, Custom: &p}
}

// Ref returns the entry's identity regardless of variant.
func (rp RosterPlayer) Ref() string {
	switch rp.Kind {
	case PlayerKindCatalog:
		return rp.Catalog.Ref()
	case PlayerKindCustom:
		return rp.Custom.Ref()
	}
	return ""
}

// FullName returns the entry's display name regardless of variant.
func (rp RosterPlayer) FullName() string {
	switch rp.Kind {
	case PlayerKindCatalog:
		return rp.Catalog.FullName()
	case PlayerKindCustom:
		return rp.Custom.FullName()
	}
	return ""
}

// Position returns the entry's position regardless of variant.
func (rp RosterPlayer) Position() string {
	switch rp.Kind {
	case PlayerKindCatalog:
		return rp.Catalog.Position
	case PlayerKindCustom:
		return rp.Custom.Position
	}
	return ""
}

// MarshalJSON emits the underlying variant directly; the is_custom field
// on custom players doubles as the wire discriminant.
func (rp RosterPlayer) MarshalJSON() ([]byte, error) {
	switch rp.Kind {
	case PlayerKindCatalog:
		return json.Marshal(rp.Catalog)
	case PlayerKindCustom:
		return json.Marshal(rp.Custom)
	}
	return nil, fmt.Errorf("roster player has no variant")
}

// UnmarshalJSON probes the is_custom discriminant once and decodes the
// matching variant.
func (rp *RosterPlayer) UnmarshalJSON(data []byte) error {
	var probe struct {
		IsCustom bool `json:"is_custom"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.IsCustom {
		var p CustomPlayer
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*rp = RosterPlayer{Kind: PlayerKindCustom, Custom: &p}
		return nil
	}
	var p Player
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*rp = RosterPlayer{Kind: PlayerKindCatalog, Catalog: &p}
	return nil
}
