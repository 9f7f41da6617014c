package client

import (
	"context"
	"fmt"
	"testing"

	"github.com/coinche-live/tablesync/internal/table"
	"github.com/coinche-live/tablesync/pkg/protocol"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	payloads [][]byte
	ok       bool
}

func (f *fakeSender) Send(_ context.Context, payload []byte) bool {
	if !f.ok {
		return false
	}
	f.payloads = append(f.payloads, payload)
	return true
}

func testHand(n int) *Hand {
	cards := make([]CardRef, n)
	for i := range cards {
		cards[i] = CardRef{
			Name: fmt.Sprintf("card-%d", i),
			Src:  fmt.Sprintf("/coinche/assets/img/card%d.png", i),
		}
	}
	return NewHand(cards)
}

func newTestProducer(sender Sender, hand *Hand) *Producer {
	return NewProducer(sender,
		Identity{PlayerID: "9d01e3aa", PlayerName: "Marie", Alias: "Est", Team: "EO"},
		GameInfo{ID: "4f2a91bc", Name: "table du vendredi", DistribNb: "2"},
		hand, zap.NewNop())
}

func lastMessage(t *testing.T, f *fakeSender) protocol.Message {
	t.Helper()
	require.NotEmpty(t, f.payloads)
	msg, err := protocol.Decode(f.payloads[len(f.payloads)-1])
	require.NoError(t, err)
	return msg
}

func TestPlayCarriesTrickPosition(t *testing.T) {
	sender := &fakeSender{ok: true}
	hand := testHand(8)
	p := newTestProducer(sender, hand)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		ref := CardRef{
			Name: fmt.Sprintf("card-%d", i),
			Src:  fmt.Sprintf("/coinche/assets/img/card%d.png", i),
		}
		require.True(t, p.HandleDrop(ctx, DragEvent{Item: ref, From: HandContainer, To: PlayMatContainer}))
	}

	msg := lastMessage(t, sender)
	require.Equal(t, protocol.KindPlayCard, msg.Action)
	require.Equal(t, "4", msg.CardNb)
	require.Equal(t, 4, hand.Size())
}

func TestPlayCarriesCardAndContext(t *testing.T) {
	sender := &fakeSender{ok: true}
	p := newTestProducer(sender, testHand(8))

	ok := p.HandleDrop(context.Background(), DragEvent{
		Item: CardRef{Name: "7-trefle", Src: "/coinche/assets/img/7trefle.png"},
		From: HandContainer,
		To:   PlayMatContainer,
	})
	require.True(t, ok)

	msg := lastMessage(t, sender)
	require.Equal(t, "7-trefle", msg.PlayerCard)
	require.Equal(t, "/coinche/assets/img/7trefle.png", msg.PlayerCardSrc)
	require.Equal(t, "Est", msg.PlayerAlias)
	require.Equal(t, "EO", msg.PlayerTeam)
	require.Equal(t, "4f2a91bc", msg.GameID)
	require.Equal(t, "2", msg.GameDistribNb)
	require.Equal(t, "Marie/Est a joué la carte 7-trefle", msg.Text)
}

func TestCancelEmptiesCardFieldsAndRestoresHand(t *testing.T) {
	sender := &fakeSender{ok: true}
	hand := testHand(8)
	p := newTestProducer(sender, hand)
	ctx := context.Background()

	ref := CardRef{Name: "card-0", Src: "/coinche/assets/img/card0.png"}
	require.True(t, p.HandleDrop(ctx, DragEvent{Item: ref, From: HandContainer, To: PlayMatContainer}))
	require.Equal(t, 7, hand.Size())

	require.True(t, p.HandleDrop(ctx, DragEvent{Item: ref, From: PlayMatContainer, To: HandContainer}))
	require.Equal(t, 8, hand.Size())

	msg := lastMessage(t, sender)
	require.Equal(t, protocol.KindCancelCard, msg.Action)
	require.Empty(t, msg.PlayerCard)
	require.Empty(t, msg.PlayerCardSrc)
}

func TestPickupMessage(t *testing.T) {
	sender := &fakeSender{ok: true}
	p := newTestProducer(sender, testHand(8))

	require.True(t, p.Pickup(context.Background()))

	msg := lastMessage(t, sender)
	require.Equal(t, protocol.KindPickupCards, msg.Action)
	require.Empty(t, msg.PlayerCard)
	require.Empty(t, msg.PlayerCardSrc)
	require.Equal(t, "0", msg.CardNb)
}

func TestFailedSendIsReportedAndSilent(t *testing.T) {
	sender := &fakeSender{ok: false}
	p := newTestProducer(sender, testHand(8))

	ok := p.HandleDrop(context.Background(), DragEvent{
		Item: CardRef{Name: "card-0"},
		From: HandContainer,
		To:   PlayMatContainer,
	})
	require.False(t, ok)
	require.Empty(t, sender.payloads)
}

func TestDropIntoUnknownContainerIgnored(t *testing.T) {
	sender := &fakeSender{ok: true}
	p := newTestProducer(sender, testHand(8))

	ok := p.HandleDrop(context.Background(), DragEvent{
		Item: CardRef{Name: "card-0"},
		From: HandContainer,
		To:   "scorePad",
	})
	require.False(t, ok)
	require.Empty(t, sender.payloads)
}

func TestEventsAppliesDecodedMessages(t *testing.T) {
	tbl := table.New()
	ev := Events(tbl, zap.NewNop())

	payload, err := protocol.Encode(protocol.Message{
		Action:        protocol.KindPlayCard,
		PlayerAlias:   "Est",
		PlayerCard:    "7-trefle",
		PlayerCardSrc: "/coinche/assets/img/7trefle.png",
		CardNb:        "1",
	})
	require.NoError(t, err)

	ev.Message(payload)
	slot, _ := tbl.Slot(table.Est)
	require.True(t, slot.FaceUp)
	require.Equal(t, "Est-7-trefle", slot.Name(table.Est))
}

func TestEventsDropsMalformedPayload(t *testing.T) {
	tbl := table.New()
	ev := Events(tbl, zap.NewNop())
	before := tbl.Slots()

	ev.Message([]byte("garbage"))
	require.Equal(t, before, tbl.Slots())
}

// A produced payload echoed back by the relay must reconcile to the same
// state it produced the first time.
func TestSelfEchoOfProducedActionIsHarmless(t *testing.T) {
	sender := &fakeSender{ok: true}
	p := newTestProducer(sender, testHand(8))
	require.True(t, p.HandleDrop(context.Background(), DragEvent{
		Item: CardRef{Name: "A-coeur", Src: "/coinche/assets/img/Acoeur.png"},
		From: HandContainer,
		To:   PlayMatContainer,
	}))

	tbl := table.New()
	ev := Events(tbl, zap.NewNop())
	ev.Message(sender.payloads[0])
	once := tbl.Slots()
	ev.Message(sender.payloads[0])
	require.Equal(t, once, tbl.Slots())
}
