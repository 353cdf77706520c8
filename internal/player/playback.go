package player

import (
	"context"
	"errors"
	"math"
	"time"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// TogglePlay pauses when playing and plays when paused. A platform autoplay
// rejection surfaces as a dismissible warning instead of an error.
func (s *Session) TogglePlay(ctx context.Context) {
	s.mu.Lock()
	if s.state.Status == StatusFailed || s.state.Status == StatusLoading {
		s.mu.Unlock()
		return
	}

	if s.state.IsPlaying {
		s.state.IsPlaying = false
		s.mu.Unlock()

		if err := s.surface.Pause(ctx); err != nil {
			s.logger.DebugContext(ctx, "failed to pause", "error", err)
		}
		s.emitState()
		return
	}
	s.mu.Unlock()

	if err := s.surface.Play(ctx); err != nil {
		if errors.Is(err, ErrAutoplayBlocked) {
			s.RaiseWarning(Warning{Kind: WarningAutoplay, Message: "autoplay was blocked, press play to start"})
		} else {
			s.logger.DebugContext(ctx, "failed to play", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.state.IsPlaying = true
	if s.state.Status == StatusEnded {
		s.state.Status = StatusReady
	}
	s.scheduleControlsHideLocked()
	s.mu.Unlock()

	s.emitState()
}

// OnPlay reconciles a play event originating from the element itself.
func (s *Session) OnPlay() {
	s.mu.Lock()
	if s.state.Status == StatusFailed {
		s.mu.Unlock()
		return
	}
	s.state.IsPlaying = true
	s.scheduleControlsHideLocked()
	s.mu.Unlock()

	s.emitState()
}

// OnPause reconciles a pause event originating from the element itself.
func (s *Session) OnPause() {
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()

	s.emitState()
}

// SeekToRatio seeks to ratio*duration, clamped to [0, duration]. No-op while
// the duration is unknown.
func (s *Session) SeekToRatio(ctx context.Context, ratio float64) {
	s.mu.Lock()
	d := s.state.Duration
	if d <= 0 || math.IsInf(d, 1) || math.IsNaN(d) {
		s.mu.Unlock()
		return
	}

	target := clamp(ratio*d, 0, d)
	s.state.CurrentTime = target
	s.state.ProgressPercent = target / d * 100
	s.mu.Unlock()

	if err := s.surface.Seek(ctx, target); err != nil {
		s.logger.DebugContext(ctx, "failed to seek", "error", err)
	}
	s.emitState()
}

// SeekBy seeks relative to the current time, clamped to [0, duration].
func (s *Session) SeekBy(ctx context.Context, deltaSeconds float64) {
	s.mu.Lock()
	d := s.state.Duration
	if d <= 0 || math.IsInf(d, 1) || math.IsNaN(d) {
		s.mu.Unlock()
		return
	}

	target := clamp(s.state.CurrentTime+deltaSeconds, 0, d)
	s.state.CurrentTime = target
	s.state.ProgressPercent = target / d * 100
	s.mu.Unlock()

	if err := s.surface.Seek(ctx, target); err != nil {
		s.logger.DebugContext(ctx, "failed to seek", "error", err)
	}
	s.emitState()
}

// SetVolume clamps the volume to [0, 1]. Volume is independent of mute.
func (s *Session) SetVolume(ctx context.Context, volume float64) {
	v := clamp(volume, 0, 1)

	s.mu.Lock()
	s.state.Volume = v
	s.mu.Unlock()

	if err := s.surface.SetVolume(ctx, v); err != nil {
		s.logger.DebugContext(ctx, "failed to set volume", "error", err)
	}
	s.emitState()
}

// ToggleMute flips mute without touching the stored volume, so unmuting
// restores the previous level.
func (s *Session) ToggleMute(ctx context.Context) {
	s.mu.Lock()
	s.state.IsMuted = !s.state.IsMuted
	muted := s.state.IsMuted
	s.mu.Unlock()

	if err := s.surface.SetMuted(ctx, muted); err != nil {
		s.logger.DebugContext(ctx, "failed to set muted", "error", err)
	}
	s.emitState()
}

func (s *Session) SetRate(ctx context.Context, rate float64) {
	if rate <= 0 {
		return
	}

	s.mu.Lock()
	s.state.PlaybackRate = rate
	s.mu.Unlock()

	if err := s.surface.SetRate(ctx, rate); err != nil {
		s.logger.DebugContext(ctx, "failed to set rate", "error", err)
	}
	s.emitState()
}

func (s *Session) ToggleFullscreen(ctx context.Context) {
	s.mu.Lock()
	target := !s.state.IsFullscreen
	s.mu.Unlock()

	if err := s.surface.SetFullscreen(ctx, target); err != nil {
		s.logger.DebugContext(ctx, "failed to toggle fullscreen", "error", err)
		return
	}

	s.mu.Lock()
	s.state.IsFullscreen = target
	s.mu.Unlock()

	s.emitState()
}

// ToggleTheaterMode is a layout-only flag; the surface is not involved.
func (s *Session) ToggleTheaterMode() {
	s.mu.Lock()
	s.state.IsTheater = !s.state.IsTheater
	s.mu.Unlock()

	s.emitState()
}

// TogglePictureInPicture delegates to the platform API and silently ignores
// rejection.
func (s *Session) TogglePictureInPicture(ctx context.Context) {
	s.mu.Lock()
	target := !s.state.IsPiP
	s.mu.Unlock()

	if err := s.surface.SetPictureInPicture(ctx, target); err != nil {
		s.logger.DebugContext(ctx, "picture-in-picture rejected", "error", err)
		return
	}

	s.mu.Lock()
	s.state.IsPiP = target
	s.mu.Unlock()

	s.emitState()
}

// ShowControls makes the control surface visible and restarts the auto-hide
// timer.
func (s *Session) ShowControls() {
	s.mu.Lock()
	s.state.ControlsVisible = true
	s.scheduleControlsHideLocked()
	s.mu.Unlock()

	s.emitState()
}

func (s *Session) scheduleControlsHideLocked() {
	if s.controlsTimer != nil {
		s.controlsTimer.Stop()
	}
	s.controlsTimer = time.AfterFunc(s.cfg.ControlsHideDelay, s.hideControls)
}

func (s *Session) hideControls() {
	s.mu.Lock()
	if !s.state.IsPlaying {
		s.mu.Unlock()
		return
	}
	s.state.ControlsVisible = false
	s.mu.Unlock()

	s.emitState()
}

// OnTimeUpdate records the element's position and recomputes the progress
// and buffered percentages. bufferedEnd is the end of the last buffered
// range in seconds.
func (s *Session) OnTimeUpdate(currentTime, duration, bufferedEnd float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if duration > 0 && !math.IsInf(duration, 1) && !math.IsNaN(duration) {
		s.state.Duration = duration
		if s.state.Status == StatusLoading {
			s.state.Status = StatusReady
		}
	}

	if s.state.Duration <= 0 {
		return
	}

	s.state.CurrentTime = clamp(currentTime, 0, s.state.Duration)
	s.state.ProgressPercent = s.state.CurrentTime / s.state.Duration * 100
	s.state.BufferedPercent = clamp(bufferedEnd/s.state.Duration*100, 0, 100)
}

// OnEnded runs the completion flow once: pause, report 100%, then hand off
// to the OnEnded event for the level-list refresh and quiz prompt.
func (s *Session) OnEnded(ctx context.Context) {
	s.mu.Lock()
	if s.state.Status == StatusFailed || s.endedReported {
		s.mu.Unlock()
		return
	}
	s.endedReported = true
	s.state.IsPlaying = false
	s.state.Status = StatusEnded
	s.state.CurrentTime = s.state.Duration
	if s.state.Duration > 0 {
		s.state.ProgressPercent = 100
	}
	report := Report{
		ViewerId:            s.viewerId,
		CourseId:            s.courseId,
		LevelId:             s.levelId,
		VideoWatchedPercent: 100,
	}
	s.mu.Unlock()

	if err := s.surface.Pause(ctx); err != nil {
		s.logger.DebugContext(ctx, "failed to pause", "error", err)
	}

	if err := s.reporter.ReportProgress(ctx, &report); err != nil {
		s.logger.DebugContext(ctx, "failed to report completion", "error", err)
	}

	s.emitState()

	if s.events.OnEnded != nil {
		s.events.OnEnded()
	}
}

// OnMediaError is terminal for the session: the custom control surface is
// disabled and a fallback message is shown. No retry is performed.
func (s *Session) OnMediaError(reason string) {
	s.mu.Lock()
	s.state.Status = StatusFailed
	s.state.IsPlaying = false
	s.state.FailureReason = reason
	s.mu.Unlock()

	s.emitState()
}
