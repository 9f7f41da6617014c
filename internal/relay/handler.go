package relay

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coinche-live/tablesync/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler upgrades GET /coinche/ws/{gameID} and bridges the connection to the
// game's fan-out loop. Games created by an earlier server run are revived
// from the store.
func Handler(h *Hub, st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		reply := make(chan *Game, 1)
		h.Inbox() <- GetGame{ID: gameID, Reply: reply}
		g := <-reply
		if g == nil && st != nil {
			if _, err := st.LoadGame(gameID); err == nil {
				h.Inbox() <- EnsureGame{ID: gameID, Reply: reply}
				g = <-reply
			}
		}
		if g == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan []byte, 8)
		clientID := strings.Split(uuid.NewString(), "-")[0]

		g.Inbox() <- Join{ClientID: clientID, Outbox: out}
		defer func() { g.Inbox() <- Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop. No read deadline: seats idle for minutes between tricks.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
			g.Inbox() <- FromClient{Payload: data}
			log.Debug("relayed payload",
				zap.String("game", gameID),
				zap.String("client", clientID),
				zap.Int("bytes", len(data)))
		}
	}
}
