package main

import (
	"context"
	"net/http"

	"github.com/coinche-live/tablesync/internal/config"
	"github.com/coinche-live/tablesync/internal/httpapi"
	"github.com/coinche-live/tablesync/internal/relay"
	"github.com/coinche-live/tablesync/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	st := store.New(cfg.RedisAddr)
	defer st.Close()

	h := relay.NewHub(context.Background(), log)

	// Build the router *with* the hub and store injected
	handler := httpapi.SetupRoutes(h, st, cfg.AssetsDir, log)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
