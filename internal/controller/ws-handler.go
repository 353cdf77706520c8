package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/studyroom/lesson-server/internal/player"
	"github.com/studyroom/lesson-server/internal/service/lesson"
)

var errNoSession = errors.New("no active watch session")

func decode[T any](payload json.RawMessage) (T, error) {
	var input T
	if len(payload) == 0 {
		return input, nil
	}

	if err := json.Unmarshal(payload, &input); err != nil {
		return input, fmt.Errorf("failed to decode payload: %w", err)
	}

	return input, nil
}

func (c *controller) handleAlive(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	return nil
}

func (c *controller) handleTogglePlay(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.TogglePlay(ctx)

	return nil
}

type seekToRatioInput struct {
	Ratio float64 `json:"ratio"`
}

func (c *controller) handleSeekToRatio(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[seekToRatioInput](payload)
	if err != nil {
		return err
	}

	watch.session.SeekToRatio(ctx, input.Ratio)

	return nil
}

type seekByInput struct {
	DeltaSeconds float64 `json:"delta_seconds"`
}

func (c *controller) handleSeekBy(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[seekByInput](payload)
	if err != nil {
		return err
	}

	watch.session.SeekBy(ctx, input.DeltaSeconds)

	return nil
}

type setVolumeInput struct {
	Volume float64 `json:"volume"`
}

func (c *controller) handleSetVolume(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[setVolumeInput](payload)
	if err != nil {
		return err
	}

	watch.session.SetVolume(ctx, input.Volume)

	return nil
}

func (c *controller) handleToggleMute(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.ToggleMute(ctx)

	return nil
}

type setRateInput struct {
	Rate float64 `json:"rate"`
}

func (c *controller) handleSetRate(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[setRateInput](payload)
	if err != nil {
		return err
	}

	watch.session.SetRate(ctx, input.Rate)

	return nil
}

func (c *controller) handleToggleFullscreen(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.ToggleFullscreen(ctx)

	return nil
}

func (c *controller) handleToggleTheater(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.ToggleTheaterMode()

	return nil
}

func (c *controller) handleTogglePiP(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.TogglePictureInPicture(ctx)

	return nil
}

func (c *controller) handleShowControls(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.ShowControls()

	return nil
}

func (c *controller) handleDismissWarning(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.DismissWarning()

	return nil
}

type navigateInput struct {
	Direction string `json:"direction"`
}

func (c *controller) handleNavigate(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[navigateInput](payload)
	if err != nil {
		return err
	}
	if input.Direction != "next" && input.Direction != "prev" {
		return fmt.Errorf("invalid direction %q", input.Direction)
	}

	navigateResp, err := c.lessonService.NavigateToLevel(ctx, &lesson.NavigateToLevelParams{
		ViewerId:       watch.viewerId,
		CourseId:       watch.courseId,
		CurrentLevelId: watch.levelId,
		Direction:      input.Direction,
	})
	if err != nil {
		switch {
		case errors.Is(err, lesson.ErrLevelLocked):
			watch.session.RaiseWarning(player.Warning{
				Kind:    player.WarningLevelLocked,
				Message: "complete the current level to unlock the next one",
			})
			return nil
		case errors.Is(err, lesson.ErrNoAdjacentLevel):
			return nil
		default:
			return fmt.Errorf("failed to navigate: %w", err)
		}
	}

	return watch.sender.send(&Output{
		Type: "NAVIGATE",
		Payload: map[string]any{
			"level": navigateResp.Level,
		},
	})
}

type timeUpdateInput struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	BufferedEnd float64 `json:"buffered_end"`
}

func (c *controller) handleTimeUpdate(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[timeUpdateInput](payload)
	if err != nil {
		return err
	}

	watch.session.OnTimeUpdate(input.CurrentTime, input.Duration, input.BufferedEnd)

	return nil
}

func (c *controller) handleMediaPlay(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnPlay()

	return nil
}

func (c *controller) handleMediaPause(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnPause()

	return nil
}

func (c *controller) handleEnded(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnEnded(ctx)

	return nil
}

type mediaErrorInput struct {
	Reason string `json:"reason"`
}

func (c *controller) handleMediaError(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[mediaErrorInput](payload)
	if err != nil {
		return err
	}
	if input.Reason == "" {
		input.Reason = "failed to load video"
	}

	watch.session.OnMediaError(input.Reason)

	return watch.sender.send(&Output{
		Type: "SESSION_FAILED",
		Payload: map[string]any{
			"reason": input.Reason,
		},
	})
}

func (c *controller) handleAutoplayBlocked(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnAutoplayBlocked()

	return nil
}

type visibilityInput struct {
	Hidden bool `json:"hidden"`
}

func (c *controller) handleVisibility(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[visibilityInput](payload)
	if err != nil {
		return err
	}

	if input.Hidden {
		watch.session.OnVisibilityHidden(ctx)
	}

	return nil
}

func (c *controller) handleWindowBlur(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnWindowBlur(ctx)

	return nil
}

func (c *controller) handlePrintScreen(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	watch.session.OnPrintScreen()

	return nil
}

type viewportMetricsInput struct {
	OuterWidth  int `json:"outer_width"`
	InnerWidth  int `json:"inner_width"`
	OuterHeight int `json:"outer_height"`
	InnerHeight int `json:"inner_height"`
}

func (c *controller) handleViewportMetrics(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	watch := c.getWatchFromCtx(ctx)
	if watch == nil {
		return errNoSession
	}

	input, err := decode[viewportMetricsInput](payload)
	if err != nil {
		return err
	}

	watch.session.OnViewportMetrics(input.OuterWidth, input.InnerWidth, input.OuterHeight, input.InnerHeight)

	return nil
}
