// Package relay is the per-game fan-out channel connecting up to four table
// clients. It never interprets payloads: every message a client sends is
// broadcast to every joined client, the sender included.
package relay

import (
	"context"

	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

type CreateGame struct {
	ID    string
	Reply chan *Game
}

type GetGame struct {
	ID    string
	Reply chan *Game
}

type EnsureGame struct {
	ID    string
	Reply chan *Game
}

type RemoveGame struct {
	ID string
}

type ShutdownHub struct{}

func (CreateGame) isHubMsg()  {}
func (GetGame) isHubMsg()     {}
func (EnsureGame) isHubMsg()  {}
func (RemoveGame) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	games  map[string]*Game
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		games:  make(map[string]*Game),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateGame:
				if g := h.games[msg.ID]; g != nil {
					msg.Reply <- g
					break
				}
				g := NewGame(h.ctx, h.log.With(zap.String("game", msg.ID)))
				h.games[msg.ID] = g
				msg.Reply <- g

			case GetGame:
				msg.Reply <- h.games[msg.ID] // may be nil

			case EnsureGame:
				if g := h.games[msg.ID]; g != nil {
					msg.Reply <- g
					break
				}
				g := NewGame(h.ctx, h.log.With(zap.String("game", msg.ID)))
				h.games[msg.ID] = g
				msg.Reply <- g

			case RemoveGame:
				delete(h.games, msg.ID)

			case ShutdownHub:
				for _, g := range h.games {
					g.Inbox() <- Shutdown{}
				}
				clear(h.games)
				h.cancel()
			}
		}
	}
}
