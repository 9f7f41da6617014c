// Package store persists games and players as redis hashes.
package store

import (
	"errors"

	"github.com/coinche-live/tablesync/internal/deck"
	"github.com/coinche-live/tablesync/internal/table"
	"github.com/gomodule/redigo/redis"
)

var ErrNotFound = errors.New("store: not found")

type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DistribNb int    `json:"distrib_nb"`
	NordID    string `json:"nord_id"`
	NordName  string `json:"nord_name"`
	SudID     string `json:"sud_id"`
	SudName   string `json:"sud_name"`
	EstID     string `json:"est_id"`
	EstName   string `json:"est_name"`
	OuestID   string `json:"ouest_id"`
	OuestName string `json:"ouest_name"`
}

// SeatPlayerID resolves which player occupies a seat.
func (g *Game) SeatPlayerID(seat table.Seat) string {
	switch seat {
	case table.Nord:
		return g.NordID
	case table.Sud:
		return g.SudID
	case table.Est:
		return g.EstID
	case table.Ouest:
		return g.OuestID
	}
	return ""
}

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Alias  string `json:"alias"`
	Team   string `json:"team"`
	GameID string `json:"game_id"`
}

type Store struct {
	pool *redis.Pool
}

func New(addr string) *Store {
	return &Store{pool: &redis.Pool{
		MaxIdle: 3,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}}
}

func (s *Store) Close() error {
	return s.pool.Close()
}

func gameKey(id string) string   { return "g:" + id }
func playerKey(id string) string { return "p:" + id }
func cardsKey(id string) string  { return playerKey(id) + ":cards" }

func (s *Store) SaveGame(g *Game) error {
	conn := s.pool.Get()
	defer conn.Close()
	_, err := conn.Do("HMSET", redis.Args{}.Add(gameKey(g.ID)).AddFlat(*g)...)
	return err
}

func (s *Store) LoadGame(id string) (*Game, error) {
	conn := s.pool.Get()
	defer conn.Close()
	v, err := redis.Values(conn.Do("HGETALL", gameKey(id)))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrNotFound
	}
	var g Game
	if err := redis.ScanStruct(v, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) SavePlayer(p *Player) error {
	conn := s.pool.Get()
	defer conn.Close()
	_, err := conn.Do("HMSET", redis.Args{}.Add(playerKey(p.ID)).AddFlat(*p)...)
	return err
}

func (s *Store) LoadPlayer(id string) (*Player, error) {
	conn := s.pool.Get()
	defer conn.Close()
	v, err := redis.Values(conn.Do("HGETALL", playerKey(id)))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrNotFound
	}
	var p Player
	if err := redis.ScanStruct(v, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveHand replaces a player's dealt cards with a token-to-image hash.
func (s *Store) SaveHand(playerID string, cards []deck.Card) error {
	conn := s.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("DEL", cardsKey(playerID)); err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	hand := make(map[string]string, len(cards))
	for _, c := range cards {
		hand[c.Name] = c.Src
	}
	_, err := conn.Do("HMSET", redis.Args{}.Add(cardsKey(playerID)).AddFlat(hand)...)
	return err
}

func (s *Store) LoadHand(playerID string) (map[string]string, error) {
	conn := s.pool.Get()
	defer conn.Close()
	return redis.StringMap(conn.Do("HGETALL", cardsKey(playerID)))
}
