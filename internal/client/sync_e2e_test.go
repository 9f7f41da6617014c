package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coinche-live/tablesync/internal/relay"
	"github.com/coinche-live/tablesync/internal/session"
	"github.com/coinche-live/tablesync/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitForClients(t *testing.T, g *relay.Game, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		reply := make(chan relay.Stats, 1)
		g.Inbox() <- relay.GetStats{Reply: reply}
		if (<-reply).NumClients == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d relay clients", want)
}

func waitForSlot(t *testing.T, tbl *table.Table, seat table.Seat, check func(table.Slot) bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if slot, ok := tbl.Slot(seat); ok && check(slot) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for seat %s", seat)
}

// Two full client stacks against a real relay: a play by one seat shows up on
// both tables (the author's via self-echo), and a pickup clears both.
func TestTwoClientsConvergeThroughRelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := relay.NewHub(ctx, zap.NewNop())
	reply := make(chan *relay.Game, 1)
	h.Inbox() <- relay.CreateGame{ID: "4f2a91bc", Reply: reply}
	game := <-reply

	r := chi.NewRouter()
	r.Get("/coinche/ws/{gameID}", relay.Handler(h, nil, zap.NewNop()))
	server := httptest.NewServer(r)
	defer server.Close()

	tableEst := table.New()
	tableNord := table.New()

	sessEst, err := session.Connect(ctx, server.URL, "4f2a91bc", Events(tableEst, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	defer sessEst.Close()

	sessNord, err := session.Connect(ctx, server.URL, "4f2a91bc", Events(tableNord, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	defer sessNord.Close()

	waitForClients(t, game, 2)

	prodEst := NewProducer(sessEst,
		Identity{PlayerID: "9d01e3aa", PlayerName: "Marie", Alias: "Est", Team: "EO"},
		GameInfo{ID: "4f2a91bc", Name: "table du vendredi", DistribNb: "1"},
		testHand(8), zap.NewNop())

	require.True(t, prodEst.HandleDrop(ctx, DragEvent{
		Item: CardRef{Name: "7-trefle", Src: "/coinche/assets/img/7trefle.png"},
		From: HandContainer,
		To:   PlayMatContainer,
	}))

	wantFaceUp := func(s table.Slot) bool { return s.FaceUp && s.Card == "7-trefle" }
	waitForSlot(t, tableNord, table.Est, wantFaceUp)
	waitForSlot(t, tableEst, table.Est, wantFaceUp) // self-echo applied

	require.Equal(t, tableEst.Slots(), tableNord.Slots())

	require.True(t, prodEst.Pickup(ctx))

	wantFaceDown := func(s table.Slot) bool { return !s.FaceUp }
	waitForSlot(t, tableNord, table.Est, wantFaceDown)
	waitForSlot(t, tableEst, table.Est, wantFaceDown)
	require.Zero(t, tableNord.TrickCount())
	require.Equal(t, tableEst.Slots(), tableNord.Slots())
}
