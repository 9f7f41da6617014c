// Package session owns the duplex connection to the per-game relay channel.
// No retry, no backoff, no reconnection: a closed or errored channel degrades
// the client to locally interactive but unsynchronized.
package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Events maps channel lifecycle events to handler calls. Tests can drive the
// mapping directly with synthetic events, without a transport. Nil hooks are
// skipped.
type Events struct {
	Open    func()
	Closed  func()
	Error   func(err error)
	Message func(data []byte)
}

// ChannelURL derives the channel endpoint from the server base URL: the
// scheme is upgraded in kind (https becomes wss, http becomes ws) and the
// path embeds the game identity.
func ChannelURL(base, gameID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("session: unsupported scheme %q", u.Scheme)
	}
	u.Path = "/coinche/ws/" + gameID
	u.RawQuery = ""
	return u.String(), nil
}

// Session wraps one connection. Once the handle is cleared every further Send
// is a reported no-op until a new session is dialed.
type Session struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	events Events
	log    *zap.Logger
}

// Connect dials the relay channel for gameID and starts the read loop. The
// Open hook fires before the first message can arrive.
func Connect(ctx context.Context, base, gameID string, events Events, log *zap.Logger) (*Session, error) {
	addr, err := ChannelURL(base, gameID)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, err
	}

	s := &Session{conn: conn, events: events, log: log}
	log.Info("channel opened", zap.String("url", addr))
	if events.Open != nil {
		events.Open()
	}
	go s.readLoop(ctx)
	return s, nil
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send reports false when the session is closed or the write fails. A write
// failure does not tear the session down; only a close event clears the
// handle.
func (s *Session) Send(ctx context.Context, payload []byte) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return false
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		s.log.Warn("channel write failed", zap.Error(err))
		if s.events.Error != nil {
			s.events.Error(err)
		}
		return false
	}
	return true
}

// Close ends the session cleanly. Safe to call more than once; the Closed
// hook fires at most once, whether closure came from here or from the peer.
func (s *Session) Close() {
	if conn := s.clear(); conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
		s.log.Info("channel closed")
		if s.events.Closed != nil {
			s.events.Closed()
		}
	}
}

func (s *Session) clear() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn := s.conn
	s.conn = nil
	return conn
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				// clean close from the peer
			default:
				s.log.Warn("channel error", zap.Error(err))
				if s.events.Error != nil {
					s.events.Error(err)
				}
			}
			if c := s.clear(); c != nil {
				s.log.Info("channel closed")
				if s.events.Closed != nil {
					s.events.Closed()
				}
			}
			return
		}
		if s.events.Message != nil {
			s.events.Message(data)
		}
	}
}
