// Package table holds the shared play-mat state: one slot per seat, each
// either a face-down placeholder or the card that seat currently has in play.
package table

import (
	"strconv"
	"sync"

	"github.com/coinche-live/tablesync/pkg/protocol"
)

type Seat string

const (
	Nord  Seat = "Nord"
	Sud   Seat = "Sud"
	Est   Seat = "Est"
	Ouest Seat = "Ouest"
)

// Seats in dealing order.
var Seats = []Seat{Nord, Sud, Est, Ouest}

const BackImage = "/coinche/assets/img/back.png"

func Team(s Seat) string {
	switch s {
	case Nord, Sud:
		return "NS"
	default:
		return "EO"
	}
}

// Slot is the value a seat's mat position renders from. The zero value is the
// face-down placeholder.
type Slot struct {
	FaceUp   bool
	Card     string
	ImageSrc string
}

// Name returns the composite element name, e.g. "Est-7-trefle". Face-down
// slots have no name.
func (s Slot) Name(seat Seat) string {
	if !s.FaceUp {
		return ""
	}
	return string(seat) + "-" + s.Card
}

func (s Slot) Image() string {
	if !s.FaceUp {
		return BackImage
	}
	return s.ImageSrc
}

// Table is the reconciler. Apply rewrites whole slots from inbound messages,
// so applying the same message twice lands on the same state; that is what
// makes the relay's self-echo harmless.
type Table struct {
	mu    sync.Mutex
	slots map[Seat]Slot
	trick int
}

// New registers the given seats, or all four when none are given. Messages
// targeting an unregistered seat are ignored.
func New(seats ...Seat) *Table {
	if len(seats) == 0 {
		seats = Seats
	}
	t := &Table{slots: make(map[Seat]Slot, len(seats))}
	for _, s := range seats {
		t.slots[s] = Slot{}
	}
	return t
}

// Apply mutates the table from one decoded message, whoever originated it.
// There is no reject transition: legality lives in the external rule engine.
func (t *Table) Apply(msg protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch msg.Action {
	case protocol.KindPlayCard:
		seat := Seat(msg.PlayerAlias)
		if _, ok := t.slots[seat]; !ok {
			return
		}
		t.slots[seat] = Slot{FaceUp: true, Card: msg.PlayerCard, ImageSrc: msg.PlayerCardSrc}
		if n, err := strconv.Atoi(msg.CardNb); err == nil {
			t.trick = n
		}
	case protocol.KindCancelCard:
		seat := Seat(msg.PlayerAlias)
		if _, ok := t.slots[seat]; !ok {
			return
		}
		t.slots[seat] = Slot{}
	case protocol.KindPickupCards:
		for seat := range t.slots {
			t.slots[seat] = Slot{}
		}
		t.trick = 0
	}
}

func (t *Table) Slot(seat Seat) (Slot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[seat]
	return s, ok
}

// Slots returns a copy of every registered slot.
func (t *Table) Slots() map[Seat]Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Seat]Slot, len(t.slots))
	for seat, s := range t.slots {
		out[seat] = s
	}
	return out
}

// TrickCount is the running number of cards played in the current trick, as
// carried by the last PLAY_CARD message and cleared by PICKUP_CARDS.
func (t *Table) TrickCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trick
}
