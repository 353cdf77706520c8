package controller

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/studyroom/lesson-server/internal/player"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// outputSender is the write side of a watch connection as the handlers and
// session callbacks see it.
type outputSender interface {
	send(out *Output) error
}

// connSender serializes writes to a websocket connection. Session timers and
// message handlers emit concurrently and gorilla permits a single writer.
type connSender struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnSender(conn *websocket.Conn) *connSender {
	return &connSender{conn: conn}
}

func (s *connSender) send(out *Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteJSON(out)
}

// connSurface adapts the remote browser media element to player.Surface by
// forwarding commands over the websocket. Outcomes the element can only
// report asynchronously (autoplay rejection, media errors) come back as
// separate messages.
type connSurface struct {
	sender outputSender
}

func (s connSurface) command(command string, args map[string]any) error {
	payload := map[string]any{"command": command}
	for k, v := range args {
		payload[k] = v
	}

	return s.sender.send(&Output{Type: "PLAYER_COMMAND", Payload: payload})
}

func (s connSurface) Play(ctx context.Context) error {
	return s.command("play", nil)
}

func (s connSurface) Pause(ctx context.Context) error {
	return s.command("pause", nil)
}

func (s connSurface) Seek(ctx context.Context, seconds float64) error {
	return s.command("seek", map[string]any{"seconds": seconds})
}

func (s connSurface) SetVolume(ctx context.Context, volume float64) error {
	return s.command("set_volume", map[string]any{"volume": volume})
}

func (s connSurface) SetMuted(ctx context.Context, muted bool) error {
	return s.command("set_muted", map[string]any{"muted": muted})
}

func (s connSurface) SetRate(ctx context.Context, rate float64) error {
	return s.command("set_rate", map[string]any{"rate": rate})
}

func (s connSurface) SetFullscreen(ctx context.Context, on bool) error {
	return s.command("set_fullscreen", map[string]any{"on": on})
}

func (s connSurface) SetPictureInPicture(ctx context.Context, on bool) error {
	return s.command("set_pip", map[string]any{"on": on})
}

var _ player.Surface = connSurface{}
