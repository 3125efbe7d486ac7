package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chatwire/internal/logger"
	"chatwire/internal/middleware"
	"chatwire/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrSendBufferFull = errors.New("gateway: send buffer full")
	ErrSessionClosed  = errors.New("gateway: session closed")
)

const (
	rateLimitedReason = "rate limited"
	warningInterval   = 3 * time.Second
)

// Session is one WebSocket connection. Frames read from it are always
// validated as client messages.
type Session struct {
	ID uuid.UUID

	conn    *websocket.Conn
	server  *Server
	send    chan []byte
	limiter *middleware.RateLimiter
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	lastWarning time.Time
	closeOnce   sync.Once
	done        chan struct{}
}

func newSession(srv *Server, conn *websocket.Conn, id uuid.UUID) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:      id,
		conn:    conn,
		server:  srv,
		send:    make(chan []byte, srv.opts.SendBuffer),
		limiter: middleware.NewRatelimiter(srv.opts.RateBurst, srv.opts.RateInterval),
		log:     srv.log.WithField("session", id.String()),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Send encodes msg and queues it for the writer. It never blocks.
func (s *Session) Send(msg protocol.ServerMessage) error {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %q message: %w", msg.Type(), err)
	}

	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- payload:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		return ErrSendBufferFull
	}
}

// Close stops both pumps and removes the session from its server. Safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		s.server.unregister(s)
		s.log.Infof("session closed")
	})
}

func (s *Session) reject(reason string) {
	if err := s.Send(protocol.ErrorMessage{Error: reason}); err != nil {
		s.log.WithError(err).Warnf("could not deliver rejection")
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(s.server.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.log.WithError(err).Debugf("write failed")
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.opts.WriteWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(s.server.opts.ReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(s.server.opts.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.server.opts.PongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Warnf("unexpected close")
			}
			return
		}

		if !s.limiter.Allow() {
			if time.Since(s.lastWarning) > warningInterval {
				s.lastWarning = time.Now()
				s.reject(rateLimitedReason)
			}
			continue
		}

		msg, err := protocol.ValidateClientMessage(frame)
		if err != nil {
			s.log.WithError(err).Debugf("rejected frame")
			s.reject(err.Error())
			continue
		}

		s.server.handler.HandleClientMessage(s.ctx, s, msg)
	}
}
