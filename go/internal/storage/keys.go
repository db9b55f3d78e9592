package storage

// Partition keys. One durable value per logical state partition.
const (
	KeyRemoteTeams    = "teams/remote"
	KeyHiddenTeams    = "teams/hidden"
	KeyLocalTeams     = "teams/local"
	KeyExclusions     = "teams/exclusions"
	KeyTeamsLastFetch = "teams/last_fetch"

	KeyPlayers          = "players/catalog"
	KeyPlayersLastFetch = "players/last_fetch"
	KeyPlayersPage      = "players/page"
	KeyCustomPlayers    = "players/custom"

	KeyOffers = "offers"
)
