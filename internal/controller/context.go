package controller

import (
	"context"

	"github.com/studyroom/lesson-server/internal/player"
)

type contextKey int

const (
	watchCtxKey contextKey = iota
)

// watchContext is the per-connection state shared by the ws handlers.
type watchContext struct {
	session  *player.Session
	sender   outputSender
	viewerId string
	courseId string
	levelId  string
}

func (c *controller) getWatchFromCtx(ctx context.Context) *watchContext {
	watch, ok := ctx.Value(watchCtxKey).(*watchContext)
	if !ok {
		return nil
	}

	return watch
}
