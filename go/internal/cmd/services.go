package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/clients/catalog"
	"github.com/hoopstack/courtside/go/internal/events"
	"github.com/hoopstack/courtside/go/internal/gateway"
	"github.com/hoopstack/courtside/go/internal/models"
	"github.com/hoopstack/courtside/go/internal/offers"
	"github.com/hoopstack/courtside/go/internal/players"
	"github.com/hoopstack/courtside/go/internal/roster"
	"github.com/hoopstack/courtside/go/internal/storage"
)

type Services struct {
	Catalog *catalog.Client
	Rosters *roster.App
	Players *players.App
	Offers  *offers.App
	Hub     *gateway.TransferHub
	Stream  *events.JetStreamPublisher
}

// setupServices wires the dependency chain: catalog client → roster and
// player apps → offer engine → event fanout.
func setupServices(config *Config, store storage.Store, apiKey string) (*Services, error) {
	client := catalog.NewClient(catalog.Config{
		BaseURL: config.Catalog.BaseURL,
		APIKey:  apiKey,
		Season:  config.Catalog.Season,
		PerPage: config.Catalog.PerPage,
	})

	clock := clockwork.NewRealClock()
	rosterApp := roster.NewApp(client, store, clock, config.Cache.TTL)
	playerApp := players.NewApp(client, store, clock, config.Cache.TTL, config.Cache.DisplayLimit)

	hub := gateway.NewTransferHub()
	fanout := fanoutPublisher{hub}

	var stream *events.JetStreamPublisher
	if config.Events.NATSURL != "" {
		streamCfg := events.DefaultJetStreamConfig()
		streamCfg.URL = config.Events.NATSURL
		if config.Events.Stream != "" {
			streamCfg.StreamName = config.Events.Stream
		}
		var err error
		stream, err = events.NewJetStreamPublisher(streamCfg)
		if err != nil {
			return nil, err
		}
		fanout = append(fanout, stream)
	}

	offerApp := offers.NewApp(rosterApp, store, fanout)

	return &Services{
		Catalog: client,
		Rosters: rosterApp,
		Players: playerApp,
		Offers:  offerApp,
		Hub:     hub,
		Stream:  stream,
	}, nil
}

// hydrate restores every app's persisted state from the durable store.
func (s *Services) hydrate() error {
	if err := s.Rosters.Hydrate(); err != nil {
		return err
	}
	if err := s.Players.Hydrate(); err != nil {
		return err
	}
	return s.Offers.Hydrate()
}

// fanoutPublisher delivers each transfer to every downstream publisher.
// A failing sink does not block the others.
type fanoutPublisher []offers.Publisher

func (f fanoutPublisher) PublishTransfer(ctx context.Context, offerID string, record models.TransferRecord) error {
	for _, p := range f {
		if err := p.PublishTransfer(ctx, offerID, record); err != nil {
			log.Error().Err(err).Str("offer_id", offerID).Msg("transfer publish sink failed")
		}
	}
	return nil
}
