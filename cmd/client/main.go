// Terminal table client: joins a game's relay channel, mirrors the play mat
// and turns typed commands into the gestures a browser client would raise.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/coinche-live/tablesync/internal/client"
	"github.com/coinche-live/tablesync/internal/session"
	"github.com/coinche-live/tablesync/internal/table"
	"go.uber.org/zap"
)

type playerInfo struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Alias  string            `json:"alias"`
	Team   string            `json:"team"`
	GameID string            `json:"game_id"`
	Cards  map[string]string `json:"cards"`
}

type gameInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DistribNb int    `json:"distrib_nb"`
}

func fetchJSON(base, path string, v any) error {
	resp, err := http.Get(base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func render(t *table.Table) {
	fmt.Println("--- play mat ---")
	for _, seat := range table.Seats {
		slot, _ := t.Slot(seat)
		if slot.FaceUp {
			fmt.Printf("%-6s %s\n", seat, slot.Name(seat))
		} else {
			fmt.Printf("%-6s [face down]\n", seat)
		}
	}
	fmt.Printf("trick cards: %d\n", t.TrickCount())
}

func printHand(h *client.Hand) {
	cards := h.Cards()
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	sort.Strings(names)
	fmt.Printf("hand (%d/%d): %s\n", h.Size(), h.Capacity(), strings.Join(names, " "))
}

func main() {
	server := flag.String("server", "http://localhost:8080", "game server base URL")
	playerID := flag.String("player", "", "player id (required)")
	flag.Parse()
	if *playerID == "" {
		fmt.Fprintln(os.Stderr, "missing -player")
		os.Exit(1)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var p playerInfo
	if err := fetchJSON(*server, "/coinche/player/"+*playerID, &p); err != nil {
		log.Fatal("loading player failed", zap.Error(err))
	}
	var g gameInfo
	if err := fetchJSON(*server, "/coinche/game/"+p.GameID, &g); err != nil {
		log.Fatal("loading game failed", zap.Error(err))
	}

	cards := make([]client.CardRef, 0, len(p.Cards))
	for name, src := range p.Cards {
		cards = append(cards, client.CardRef{Name: name, Src: src})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
	hand := client.NewHand(cards)

	t := table.New()
	events := client.Events(t, log)
	inner := events.Message
	events.Message = func(data []byte) {
		inner(data)
		render(t)
	}

	ctx := context.Background()
	sess, err := session.Connect(ctx, *server, p.GameID, events, log)
	if err != nil {
		log.Fatal("connect failed", zap.Error(err))
	}
	defer sess.Close()

	prod := client.NewProducer(sess, client.Identity{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Alias:      p.Alias,
		Team:       p.Team,
	}, client.GameInfo{
		ID:        g.ID,
		Name:      g.Name,
		DistribNb: strconv.Itoa(g.DistribNb),
	}, hand, log)

	// Cards moved to the mat, so cancel can hand them back with their image.
	inPlay := make(map[string]client.CardRef)

	fmt.Printf("joined %s as %s (%s)\n", g.Name, p.Name, p.Alias)
	printHand(hand)
	fmt.Println("commands: play <card> | cancel <card> | pickup | hand | mat | quit")

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "play":
			if len(fields) < 2 {
				fmt.Println("usage: play <card>")
				continue
			}
			ref, ok := findCard(hand, fields[1])
			if !ok {
				fmt.Printf("%s is not in your hand\n", fields[1])
				continue
			}
			if prod.HandleDrop(ctx, client.DragEvent{Item: ref, From: client.HandContainer, To: client.PlayMatContainer}) {
				inPlay[ref.Name] = ref
			}
		case "cancel":
			if len(fields) < 2 {
				fmt.Println("usage: cancel <card>")
				continue
			}
			ref, ok := inPlay[fields[1]]
			if !ok {
				fmt.Printf("%s is not on the mat\n", fields[1])
				continue
			}
			if prod.HandleDrop(ctx, client.DragEvent{Item: ref, From: client.PlayMatContainer, To: client.HandContainer}) {
				delete(inPlay, ref.Name)
			}
		case "pickup":
			if prod.Pickup(ctx) {
				clear(inPlay)
			}
		case "hand":
			printHand(hand)
		case "mat":
			render(t)
		case "quit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func findCard(h *client.Hand, name string) (client.CardRef, bool) {
	for _, c := range h.Cards() {
		if c.Name == name {
			return c, true
		}
	}
	return client.CardRef{}, false
}
