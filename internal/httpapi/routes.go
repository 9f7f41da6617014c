package httpapi

import (
	"net/http"

	"github.com/coinche-live/tablesync/internal/relay"
	"github.com/coinche-live/tablesync/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(h *relay.Hub, st *store.Store, assetsDir string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Route("/coinche", func(r chi.Router) {
		r.Post("/game/save", SaveGame(h, st, log))
		r.Post("/game/distribute", DistributeGame(st, log))
		r.Get("/game/{id}", GetGame(st))
		r.Get("/player/{id}", GetPlayer(st))
		r.Get("/ws/{gameID}", relay.Handler(h, st, log))
		if assetsDir != "" {
			fs := http.FileServer(http.Dir(assetsDir))
			r.Handle("/assets/*", http.StripPrefix("/coinche/assets/", fs))
		}
	})
	return r
}
