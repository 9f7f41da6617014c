package relay

import (
	"context"

	"go.uber.org/zap"
)

type Msg interface{ isGameMsg() }

type Join struct {
	ClientID string
	Outbox   chan []byte // where this client receives relayed payloads
}

func (Join) isGameMsg() {}

type Leave struct{ ClientID string }

func (Leave) isGameMsg() {}

// FromClient carries one raw action payload to fan out verbatim.
type FromClient struct{ Payload []byte }

func (FromClient) isGameMsg() {}

type Shutdown struct{}

func (Shutdown) isGameMsg() {}

type GetStats struct {
	Reply chan Stats
}

func (GetStats) isGameMsg() {}

type Stats struct {
	NumClients int
	Relayed    int
}

// Game is one fan-out channel. It holds no game state; all state lives on the
// clients' tables.
type Game struct {
	inbox   chan Msg
	clients map[string]chan []byte
	relayed int
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func NewGame(parent context.Context, log *zap.Logger) *Game {
	ctx, cancel := context.WithCancel(parent)
	g := &Game{
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan []byte),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	go g.loop()
	return g
}

func (g *Game) Inbox() chan<- Msg { return g.inbox }

func (g *Game) loop() {
	for {
		select {
		case <-g.ctx.Done():
			g.shutdown()
			return

		case m := <-g.inbox:
			switch msg := m.(type) {
			case Join:
				g.clients[msg.ClientID] = msg.Outbox
				g.log.Info("client joined", zap.String("client", msg.ClientID), zap.Int("clients", len(g.clients)))

			case Leave:
				if ch, ok := g.clients[msg.ClientID]; ok {
					close(ch)
					delete(g.clients, msg.ClientID)
				}
				g.log.Info("client left", zap.String("client", msg.ClientID), zap.Int("clients", len(g.clients)))

			case FromClient:
				g.broadcast(msg.Payload)
				g.relayed++

			case GetStats:
				msg.Reply <- Stats{NumClients: len(g.clients), Relayed: g.relayed}

			case Shutdown:
				g.shutdown()
				return
			}
		}
	}
}

func (g *Game) shutdown() {
	for id, ch := range g.clients {
		close(ch)
		delete(g.clients, id)
	}
	g.cancel()
}

// broadcast delivers to every client, the sender included; that self-echo is
// part of the deployment contract the client reconciler tolerates. Slow or
// full clients are dropped.
func (g *Game) broadcast(payload []byte) {
	for id, ch := range g.clients {
		select {
		case ch <- payload:
		default:
			g.log.Warn("dropping slow client", zap.String("client", id))
			close(ch)
			delete(g.clients, id)
		}
	}
}
