// Package client turns local gestures into outbound action messages and binds
// inbound messages to the reconciler.
package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coinche-live/tablesync/internal/session"
	"github.com/coinche-live/tablesync/internal/table"
	"github.com/coinche-live/tablesync/pkg/protocol"
	"go.uber.org/zap"
)

// Container identifiers raised by the drag library.
const (
	PlayMatContainer = "playMat"
	HandContainer    = "myCards"
)

// CardRef identifies a physical card by token and image locator.
type CardRef struct {
	Name string
	Src  string
}

// DragEvent is the contract of the gesture source: an item landed in a
// container.
type DragEvent struct {
	Item CardRef
	From string
	To   string
}

// Hand is the local player's held cards. Capacity is fixed at deal time;
// trick position derives from hand depletion, so it stays consistent with the
// visible hand even if messages are lost.
type Hand struct {
	capacity int
	cards    []CardRef
}

func NewHand(cards []CardRef) *Hand {
	h := &Hand{capacity: len(cards), cards: make([]CardRef, len(cards))}
	copy(h.cards, cards)
	return h
}

func (h *Hand) Size() int     { return len(h.cards) }
func (h *Hand) Capacity() int { return h.capacity }

func (h *Hand) Cards() []CardRef {
	out := make([]CardRef, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Remove(name string) (CardRef, bool) {
	for i, c := range h.cards {
		if c.Name == name {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return c, true
		}
	}
	return CardRef{}, false
}

func (h *Hand) Add(c CardRef) {
	h.cards = append(h.cards, c)
}

// Sender is the outbound half of the channel session.
type Sender interface {
	Send(ctx context.Context, payload []byte) bool
}

// Identity is the acting participant, fixed for the session.
type Identity struct {
	PlayerID   string
	PlayerName string
	Alias      string
	Team       string
}

// GameInfo is the ambient table/round context stamped on every message.
type GameInfo struct {
	ID        string
	Name      string
	DistribNb string
}

// Producer emits exactly one message per gesture, with no acknowledgement and
// no retry. A failed send leaves the gesture's local visual effect standing;
// it just never reaches the other seats.
type Producer struct {
	sender Sender
	id     Identity
	game   GameInfo
	hand   *Hand
	log    *zap.Logger
}

func NewProducer(sender Sender, id Identity, game GameInfo, hand *Hand, log *zap.Logger) *Producer {
	return &Producer{sender: sender, id: id, game: game, hand: hand, log: log}
}

// HandleDrop consumes one gesture event. Drops into unknown containers are
// ignored.
func (p *Producer) HandleDrop(ctx context.Context, ev DragEvent) bool {
	switch ev.To {
	case PlayMatContainer:
		return p.playCard(ctx, ev.Item)
	case HandContainer:
		return p.cancelCard(ctx, ev.Item)
	default:
		return false
	}
}

func (p *Producer) playCard(ctx context.Context, item CardRef) bool {
	p.hand.Remove(item.Name)
	nb := p.hand.Capacity() - p.hand.Size()

	msg := p.base(protocol.KindPlayCard)
	msg.Text = fmt.Sprintf("%s/%s a joué la carte %s", p.id.PlayerName, p.id.Alias, item.Name)
	msg.PlayerCard = item.Name
	msg.PlayerCardSrc = item.Src
	msg.CardNb = strconv.Itoa(nb)
	return p.send(ctx, msg)
}

// cancelCard signals "clear this seat's slot", not "what was there": the card
// fields stay empty.
func (p *Producer) cancelCard(ctx context.Context, item CardRef) bool {
	p.hand.Add(item)

	msg := p.base(protocol.KindCancelCard)
	msg.Text = fmt.Sprintf("%s/%s a annulé la carte %s", p.id.PlayerName, p.id.Alias, item.Name)
	msg.CardNb = strconv.Itoa(p.hand.Capacity() - p.hand.Size())
	return p.send(ctx, msg)
}

// Pickup is fired by the explicit collect control, not a drag gesture. It
// instructs every client to reset the whole mat.
func (p *Producer) Pickup(ctx context.Context) bool {
	msg := p.base(protocol.KindPickupCards)
	msg.Text = fmt.Sprintf("%s/%s a ramassé le pli", p.id.PlayerName, p.id.Alias)
	msg.CardNb = "0"
	return p.send(ctx, msg)
}

func (p *Producer) base(kind protocol.Kind) protocol.Message {
	return protocol.Message{
		Action:        kind,
		GameID:        p.game.ID,
		GameName:      p.game.Name,
		GameDistribNb: p.game.DistribNb,
		PlayerID:      p.id.PlayerID,
		PlayerName:    p.id.PlayerName,
		PlayerAlias:   p.id.Alias,
		PlayerTeam:    p.id.Team,
	}
}

func (p *Producer) send(ctx context.Context, msg protocol.Message) bool {
	payload, err := protocol.Encode(msg)
	if err != nil {
		p.log.Error("encode failed", zap.Error(err))
		return false
	}
	if !p.sender.Send(ctx, payload) {
		p.log.Debug("send dropped, channel not open", zap.String("action", string(msg.Action)))
		return false
	}
	p.log.Info("action sent", zap.String("action", string(msg.Action)), zap.String("message", msg.Text))
	return true
}

// Events binds the channel lifecycle to the reconciler. Malformed payloads
// are logged and dropped; the channel stays open.
func Events(t *table.Table, log *zap.Logger) session.Events {
	return session.Events{
		Open: func() {
			log.Info("table channel open")
		},
		Closed: func() {
			log.Info("table channel closed, further actions stay local")
		},
		Error: func(err error) {
			log.Warn("table channel error", zap.Error(err))
		},
		Message: func(data []byte) {
			msg, err := protocol.Decode(data)
			if err != nil {
				log.Warn("dropping malformed payload", zap.Error(err))
				return
			}
			t.Apply(msg)
		},
	}
}
