package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"

	"pull_request_notifier/internal/domain/entity"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// frame is the wire envelope of every socket message, both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SocketServer upgrades client connections and feeds their messages
// into the hub.
type SocketServer struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

func NewSocketServer(hub *Hub, writeTimeout time.Duration) *SocketServer {
	return &SocketServer{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		writeTimeout: writeTimeout,
	}
}

func (s *SocketServer) RegisterRoutes(router chi.Router) {
	router.Get("/", s.handleConnection)
}

func (s *SocketServer) handleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger(ctx).Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sess := &wsSession{
		id:           xid.New(),
		ws:           ws,
		out:          make(chan frame, sendQueueSize),
		writeTimeout: s.writeTimeout,
	}

	logger(ctx).Info("client connected", slog.String("session_id", sess.id.String()))

	go sess.writeLoop(ctx)
	s.readLoop(ctx, sess)
}

func (s *SocketServer) readLoop(ctx context.Context, sess *wsSession) {
	defer func() {
		s.hub.leave(sess)
		sess.close()
		logger(ctx).Info("client disconnected", slog.String("session_id", sess.id.String()))
	}()

	for {
		_, message, err := sess.ws.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := jsonCodec.Unmarshal(message, &f); err != nil {
			logger(ctx).Warn("discarding malformed frame",
				slog.String("session_id", sess.id.String()),
				slog.Any("error", err))
			continue
		}

		s.dispatchFrame(ctx, sess, f)
	}
}

func (s *SocketServer) dispatchFrame(ctx context.Context, sess session, f frame) {
	switch f.Event {
	case clientIntroduce:
		var username string
		if err := jsonCodec.Unmarshal(f.Data, &username); err != nil {
			logger(ctx).Warn("discarding introduce with malformed username", slog.Any("error", err))
			return
		}
		s.hub.Introduce(ctx, username, sess)

	case clientRemind:
		var pr entity.PullRequest
		if err := jsonCodec.Unmarshal(f.Data, &pr); err != nil {
			logger(ctx).Warn("discarding remind with malformed pull request", slog.Any("error", err))
			return
		}
		s.hub.Remind(ctx, pr)

	default:
		logger(ctx).Info("unhandled client event", slog.String("event", f.Event))
	}
}

const sendQueueSize = 64

// wsSession wraps one WebSocket connection. Outbound frames go
// through a buffered queue drained by writeLoop, so pushes from the
// hub never block on network I/O while the hub lock is held.
type wsSession struct {
	id           xid.ID
	ws           *websocket.Conn
	out          chan frame
	writeTimeout time.Duration

	closeOnce sync.Once
}

func (s *wsSession) send(event string, payload any) {
	data, err := jsonCodec.Marshal(payload)
	if err != nil {
		return
	}

	// Best effort: a session with a full queue loses the frame
	// rather than stalling delivery to everyone else.
	select {
	case s.out <- frame{Event: event, Data: data}:
	default:
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}

func (s *wsSession) writeLoop(ctx context.Context) {
	for f := range s.out {
		message, err := jsonCodec.Marshal(f)
		if err != nil {
			continue
		}

		_ = s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err := s.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			logger(ctx).Warn("write to client failed",
				slog.String("session_id", s.id.String()),
				slog.Any("error", err))
			break
		}
	}

	_ = s.ws.Close()
}
