package controller

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/studyroom/lesson-server/pkg/ctxlogger"
	"github.com/studyroom/lesson-server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsLoggingMw)

	mux.Handle("ALIVE", c.handleAlive)

	// playback intent
	mux.Handle("TOGGLE_PLAY", c.handleTogglePlay)
	mux.Handle("SEEK_TO_RATIO", c.handleSeekToRatio)
	mux.Handle("SEEK_BY", c.handleSeekBy)
	mux.Handle("SET_VOLUME", c.handleSetVolume)
	mux.Handle("TOGGLE_MUTE", c.handleToggleMute)
	mux.Handle("SET_RATE", c.handleSetRate)
	mux.Handle("TOGGLE_FULLSCREEN", c.handleToggleFullscreen)
	mux.Handle("TOGGLE_THEATER", c.handleToggleTheater)
	mux.Handle("TOGGLE_PIP", c.handleTogglePiP)
	mux.Handle("SHOW_CONTROLS", c.handleShowControls)
	mux.Handle("DISMISS_WARNING", c.handleDismissWarning)
	mux.Handle("NAVIGATE", c.handleNavigate)

	// element events
	mux.Handle("TIME_UPDATE", c.handleTimeUpdate)
	mux.Handle("MEDIA_PLAY", c.handleMediaPlay)
	mux.Handle("MEDIA_PAUSE", c.handleMediaPause)
	mux.Handle("ENDED", c.handleEnded)
	mux.Handle("MEDIA_ERROR", c.handleMediaError)
	mux.Handle("AUTOPLAY_BLOCKED", c.handleAutoplayBlocked)

	// soft security signals
	mux.Handle("VISIBILITY", c.handleVisibility)
	mux.Handle("WINDOW_BLUR", c.handleWindowBlur)
	mux.Handle("PRINT_SCREEN", c.handlePrintScreen)
	mux.Handle("VIEWPORT_METRICS", c.handleViewportMetrics)

	return mux
}

func (c *controller) wsLoggingMw(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
		c.logger.DebugContext(ctx, "ws message")

		return next(ctx, conn, payload)
	}
}
