package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"chatwire/internal/config"
	"chatwire/internal/logger"
	"chatwire/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler receives every client message that passed validation. It runs on
// the session's read goroutine.
type Handler interface {
	HandleClientMessage(ctx context.Context, s *Session, msg protocol.ClientMessage)
}

type HandlerFunc func(ctx context.Context, s *Session, msg protocol.ClientMessage)

func (f HandlerFunc) HandleClientMessage(ctx context.Context, s *Session, msg protocol.ClientMessage) {
	f(ctx, s, msg)
}

// LogHandler accepts every message and only records it.
type LogHandler struct {
	Log *logger.Logger
}

func (h LogHandler) HandleClientMessage(_ context.Context, s *Session, msg protocol.ClientMessage) {
	h.Log.WithField("session", s.ID.String()).Debugf("accepted %s message", msg.Type())
}

type Options struct {
	ReadLimit    int64
	PongWait     time.Duration
	PingPeriod   time.Duration
	WriteWait    time.Duration
	SendBuffer   int
	RateBurst    int
	RateInterval time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReadLimit:    cfg.ReadLimit,
		PongWait:     cfg.PongWait,
		PingPeriod:   cfg.PingPeriod(),
		WriteWait:    cfg.WriteWait,
		SendBuffer:   cfg.SendBuffer,
		RateBurst:    cfg.RateBurst,
		RateInterval: cfg.RateInterval,
	}
}

// Server upgrades HTTP requests to sessions and keeps track of them until
// they close.
type Server struct {
	opts     Options
	handler  Handler
	upgrader websocket.Upgrader
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

func NewServer(opts Options, handler Handler) *Server {
	log := logger.New("gateway")
	if handler == nil {
		handler = LogHandler{Log: log}
	}
	return &Server{
		opts:    opts,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:      log,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Routes mounts the WebSocket endpoint next to the schema and health probes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s)
	mux.HandleFunc("GET /schema", serveSchema)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warnf("upgrade failed")
		return
	}

	sess := newSession(s, conn, sessionID(r))
	if !s.register(sess) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go sess.writePump()
	if err := sess.Send(protocol.ConnectedEvent{UserID: sess.ID}); err != nil {
		sess.log.WithError(err).Errorf("could not greet session")
	}
	go sess.readPump()
}

// SessionCount is the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session and refuses new ones.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	s.log.Infof("closing %d sessions", len(open))
	for _, sess := range open {
		sess.Close()
	}
}

func (s *Server) register(sess *Session) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	old := s.sessions[sess.ID]
	s.sessions[sess.ID] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	if old != nil {
		s.log.Infof("replacing existing session %s", sess.ID)
		old.Close()
	}
	sess.log.Infof("session registered (active: %d)", total)
	return true
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[sess.ID]; ok && current == sess {
		delete(s.sessions, sess.ID)
	}
}

// sessionID honours a well-formed userId query parameter and otherwise
// assigns a fresh id.
func sessionID(r *http.Request) uuid.UUID {
	if id, err := uuid.Parse(r.URL.Query().Get("userId")); err == nil {
		return id
	}
	return uuid.New()
}

func serveSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(protocol.Describe())
}
