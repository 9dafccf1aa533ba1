package notification

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// Streamer pushes a board's unread badges over a websocket: once on connect and
// again after every mutation, until either side goes away or the board closes.
type Streamer struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamer(logger *zap.Logger) *Streamer {
	return &Streamer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The portal is served from the same origin; cross-origin access is governed by CORS.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve upgrades the request and blocks until the stream ends. onActivity, when set,
// runs for every frame the client sends (pongs included) and once when the stream ends.
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, board *Board, onActivity func()) {
	if onActivity == nil {
		onActivity = func() {}
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Badge stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := board.Subscribe()
	defer onActivity()
	defer unsubscribe()

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return s.readLoop(conn, onActivity) })
	g.Go(func() error {
		// Unblock the reader once writing stops.
		defer conn.Close()
		return s.writeLoop(ctx, conn, board.Badges(), updates)
	})

	if err := g.Wait(); err != nil && !isExpectedClose(err) {
		s.logger.Debug("Badge stream ended", zap.Error(err))
	}
}

// readLoop discards client frames; it exists to process control frames and notice disconnects.
func (s *Streamer) readLoop(conn *websocket.Conn, onActivity func()) error {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		onActivity()
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
		onActivity()
	}
}

func (s *Streamer) writeLoop(ctx context.Context, conn *websocket.Conn, initial Badges, updates <-chan Badges) error {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	if err := writeBadges(conn, initial); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"))
				return nil
			}
			if err := writeBadges(conn, b); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func writeBadges(conn *websocket.Conn, b Badges) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(b)
}

func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
