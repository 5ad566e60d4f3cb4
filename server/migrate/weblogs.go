package servermigrate

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/darrancebeh/ischedulr/logging"
)

// logging is designed so a user who opens the history page mid migration
// still sees the rest of the run stream in; logs are OK to be lost while no
// websocket is attached because the outcome lands in the stored record

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type wsConnection struct {
	conn *websocket.Conn
	send chan []byte
}

// logStream fans migration job logs out to every attached websocket. It is
// both an io.Writer (raw logrus lines from job loggers) and a slog.Handler
// (structured records from the server logger).
type logStream struct {
	mu          sync.Mutex
	connections map[string]*wsConnection
}

func newLogStream() *logStream {
	return &logStream{connections: map[string]*wsConnection{}}
}

func (s *logStream) register(id string, c *wsConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[id] = c
}

func (s *logStream) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.connections[id]; ok {
		close(c.send)
		delete(s.connections, id)
	}
}

// it is completely fine if a log silently does not get sent
func (s *logStream) broadcast(message []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.connections {
		select {
		case c.send <- message:
		default:
		}
	}
}

func (s *logStream) Write(b []byte) (int, error) {
	// logrus reuses its buffer so the line must be copied before it is
	// handed to the send channels
	s.broadcast(slices.Clone(b))
	return len(b), nil
}

type streamedRecord struct {
	Time    string            `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

func (s *logStream) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= logging.LevelRemoteIO
}

func (s *logStream) Handle(ctx context.Context, r slog.Record) error {
	streamed := streamedRecord{
		Time:    r.Time.Format("15:04:05.000"),
		Level:   r.Level.String(),
		Message: r.Message,
	}
	r.Attrs(func(attr slog.Attr) bool {
		if streamed.Attrs == nil {
			streamed.Attrs = map[string]string{}
		}
		streamed.Attrs[attr.Key] = attr.Value.String()
		return true
	})
	message, err := json.Marshal(streamed)
	if err != nil {
		return err
	}
	s.broadcast(message)
	return nil
}

func (s *logStream) WithAttrs(attrs []slog.Attr) slog.Handler {
	// attrs are flattened into each record instead of being pre bound
	return s
}

func (s *logStream) WithGroup(name string) slog.Handler {
	return s
}

func (h *migrationHandler) loggingWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Info("Could not upgrade", "err", err)
		return
	}

	c := &wsConnection{
		conn: conn,
		send: make(chan []byte, 64),
	}
	id := uuid.New().String()
	h.stream.register(id, c)
	h.logger.Info("Log websocket attached", "client", id)

	go func() {
		for message := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
	}()

	// the read loop only exists to notice the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.stream.unregister(id)
	conn.Close()
	h.logger.Info("Log websocket detached", "client", id)
}
