package gateway

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/models"
)

// TransferHub fans completed transfers out to connected websocket clients.
// It implements the offer engine's Publisher interface.
type TransferHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewTransferHub creates an empty hub.
func NewTransferHub() *TransferHub {
	return &TransferHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser UIs connect from arbitrary dev origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// HandleTransfers upgrades the request and keeps the connection registered
// until the peer goes away.
func (h *TransferHub) HandleTransfers(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()
	log.Info().Int("connections", total).Msg("transfer stream client connected")

	// Reader loop exists only to observe the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *TransferHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

type transferEvent struct {
	OfferID  string                `json:"offer_id"`
	Transfer models.TransferRecord `json:"transfer"`
}

// PublishTransfer broadcasts one completed transfer to every connected
// client. Clients that fail to receive are dropped.
func (h *TransferHub) PublishTransfer(_ context.Context, offerID string, record models.TransferRecord) error {
	event := transferEvent{OfferID: offerID, Transfer: record}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Warn().Err(err).Msg("dropping unresponsive transfer stream client")
			h.drop(conn)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *TransferHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
