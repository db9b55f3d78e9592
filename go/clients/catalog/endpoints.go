package catalog

const (
	// Base URL
	DefaultBaseURL = "https://api.balldontlie.io/epl/v1"

	// API Endpoints
	TeamsEndpoint   = "/teams"
	PlayersEndpoint = "/players"

	// Defaults
	DefaultSeason  = 2024
	DefaultPerPage = 100

	// Headers
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
)
