package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coinche-live/tablesync/internal/deck"
	"github.com/coinche-live/tablesync/internal/relay"
	"github.com/coinche-live/tablesync/internal/store"
	"github.com/coinche-live/tablesync/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newID keeps the short uuid-prefix identifiers the rest of the data model
// was built on.
func newID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SaveGame creates or updates a game and its four seated players. Missing ids
// are generated.
func SaveGame(h *relay.Hub, st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := &store.Game{
			ID:        r.FormValue("gameId"),
			Name:      r.FormValue("gameName"),
			NordID:    r.FormValue("nordId"),
			NordName:  r.FormValue("nordName"),
			SudID:     r.FormValue("sudId"),
			SudName:   r.FormValue("sudName"),
			EstID:     r.FormValue("estId"),
			EstName:   r.FormValue("estName"),
			OuestID:   r.FormValue("ouestId"),
			OuestName: r.FormValue("ouestName"),
		}
		if g.ID == "" {
			g.ID = newID()
		}
		if g.NordID == "" {
			g.NordID = newID()
		}
		if g.SudID == "" {
			g.SudID = newID()
		}
		if g.EstID == "" {
			g.EstID = newID()
		}
		if g.OuestID == "" {
			g.OuestID = newID()
		}

		if err := st.SaveGame(g); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		players := []store.Player{
			{ID: g.NordID, Name: g.NordName, Alias: string(table.Nord), Team: table.Team(table.Nord), GameID: g.ID},
			{ID: g.SudID, Name: g.SudName, Alias: string(table.Sud), Team: table.Team(table.Sud), GameID: g.ID},
			{ID: g.EstID, Name: g.EstName, Alias: string(table.Est), Team: table.Team(table.Est), GameID: g.ID},
			{ID: g.OuestID, Name: g.OuestName, Alias: string(table.Ouest), Team: table.Team(table.Ouest), GameID: g.ID},
		}
		for i := range players {
			if err := st.SavePlayer(&players[i]); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}

		reply := make(chan *relay.Game, 1)
		h.Inbox() <- relay.EnsureGame{ID: g.ID, Reply: reply}
		<-reply

		log.Info("game saved", zap.String("game", g.ID))
		writeJSON(w, http.StatusCreated, g)
	}
}

// DistributeGame shuffles the deck, deals eight cards to each seat and bumps
// the distribution number.
func DistributeGame(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.FormValue("gameId")
		g, err := st.LoadGame(gameID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		hands := deck.Deal(deck.Shuffle(deck.Cards()))
		g.DistribNb++
		if err := st.SaveGame(g); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for _, seat := range table.Seats {
			if err := st.SaveHand(g.SeatPlayerID(seat), hands[seat]); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}

		log.Info("cards distributed", zap.String("game", g.ID), zap.Int("distrib", g.DistribNb))
		writeJSON(w, http.StatusOK, struct {
			GameID    string `json:"game_id"`
			DistribNb int    `json:"distrib_nb"`
		}{GameID: g.ID, DistribNb: g.DistribNb})
	}
}

func GetGame(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := st.LoadGame(chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// GetPlayer returns a player together with their current hand.
func GetPlayer(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := st.LoadPlayer(id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		cards, err := st.LoadHand(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			*store.Player
			Cards map[string]string `json:"cards"`
		}{Player: p, Cards: cards})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
