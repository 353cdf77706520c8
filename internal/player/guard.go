package player

import (
	"context"
	"math"
	"time"
)

const (
	watermarkMinPercent = 5
	watermarkMaxPercent = 85
)

// ForcePause is the single funnel through which every monitor pauses
// playback. Monitors never touch the surface directly, so overlapping
// triggers cannot issue conflicting pause calls.
func (s *Session) ForcePause(ctx context.Context, reason PauseReason) {
	s.mu.Lock()
	if !s.state.IsPlaying {
		s.mu.Unlock()
		return
	}
	s.state.IsPlaying = false
	if reason == ReasonVisibility || reason == ReasonWindowBlur {
		s.state.TabSwitchWarning = true
	}
	s.mu.Unlock()

	if err := s.surface.Pause(ctx); err != nil {
		s.logger.DebugContext(ctx, "failed to pause", "error", err)
	}

	switch reason {
	case ReasonVisibility, ReasonWindowBlur:
		s.RaiseWarning(Warning{Kind: WarningTabSwitch, Message: "playback paused because the lesson lost focus"})
	case ReasonDevtools:
		s.RaiseWarning(Warning{Kind: WarningDevtools, Message: "playback paused: developer tools appear to be open"})
	}
}

// OnVisibilityHidden handles the document becoming hidden while playing.
func (s *Session) OnVisibilityHidden(ctx context.Context) {
	s.ForcePause(ctx, ReasonVisibility)
}

// OnWindowBlur handles the window losing focus while playing.
func (s *Session) OnWindowBlur(ctx context.Context) {
	s.ForcePause(ctx, ReasonWindowBlur)
}

// OnPrintScreen shows a self-clearing warning. It has no capture-prevention
// effect.
func (s *Session) OnPrintScreen() {
	s.RaiseWarning(Warning{Kind: WarningPrintScreen, Message: "screen capture of lessons is not permitted"})
}

// OnAutoplayBlocked handles an asynchronous autoplay rejection reported by
// the element after a play command.
func (s *Session) OnAutoplayBlocked() {
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()

	s.RaiseWarning(Warning{Kind: WarningAutoplay, Message: "autoplay was blocked, press play to start"})
}

// OnViewportMetrics records the latest window dimensions reported by the
// client; probeViewport evaluates them on its own cadence.
func (s *Session) OnViewportMetrics(outerW, innerW, outerH, innerH int) {
	s.mu.Lock()
	s.outerW, s.innerW = outerW, innerW
	s.outerH, s.innerH = outerH, innerH
	s.mu.Unlock()
}

// probeViewport compares outer and inner window dimensions as a heuristic
// for an open devtools panel. It false-positives on resized or zoomed
// browsers and is a deterrent, not a security boundary.
func (s *Session) probeViewport(ctx context.Context) {
	s.mu.Lock()
	tracked := s.outerW > 0 && s.innerW > 0
	deltaW := s.outerW - s.innerW
	deltaH := s.outerH - s.innerH
	s.mu.Unlock()

	if !tracked {
		return
	}

	if deltaW > s.cfg.ViewportThresholdPx || deltaH > s.cfg.ViewportThresholdPx {
		s.ForcePause(ctx, ReasonDevtools)
	}
}

func (s *Session) randomWatermarkPosition() WatermarkPosition {
	span := float64(watermarkMaxPercent - watermarkMinPercent)

	return WatermarkPosition{
		X: watermarkMinPercent + s.rand.Float64()*span,
		Y: watermarkMinPercent + s.rand.Float64()*span,
	}
}

// rotateWatermark relocates the viewer-identity overlay within safe bounds.
// Purely cosmetic deterrent.
func (s *Session) rotateWatermark() {
	s.mu.Lock()
	pos := s.randomWatermarkPosition()
	s.state.Watermark = pos
	cb := s.events.OnWatermarkMoved
	s.mu.Unlock()

	if cb != nil {
		cb(pos)
	}
}

// syncProgress reports the watched percent when it exceeds the minimum
// threshold. Errors are logged only; the next tick retries naturally.
func (s *Session) syncProgress(ctx context.Context) {
	s.mu.Lock()
	if s.state.Status != StatusReady || s.state.Duration <= 0 {
		s.mu.Unlock()
		return
	}

	percent := int(math.Round(s.state.ProgressPercent))
	if percent <= s.cfg.MinReportPercent {
		s.mu.Unlock()
		return
	}

	report := Report{
		ViewerId:            s.viewerId,
		CourseId:            s.courseId,
		LevelId:             s.levelId,
		VideoWatchedPercent: percent,
	}
	s.mu.Unlock()

	if err := s.reporter.ReportProgress(ctx, &report); err != nil {
		s.logger.DebugContext(ctx, "failed to report progress", "error", err)
	}
}

// RaiseWarning surfaces a transient warning that clears itself after the
// configured TTL or on explicit dismissal.
func (s *Session) RaiseWarning(w Warning) {
	s.mu.Lock()
	s.state.Warning = &w
	if s.warningTimer != nil {
		s.warningTimer.Stop()
	}
	s.warningTimer = time.AfterFunc(s.cfg.WarningTTL, func() {
		s.clearWarning(w.Kind)
	})
	cb := s.events.OnWarning
	s.mu.Unlock()

	if cb != nil {
		cb(w)
	}
	s.emitState()
}

// DismissWarning clears the active warning on explicit user action.
func (s *Session) DismissWarning() {
	s.mu.Lock()
	var kind WarningKind
	if s.state.Warning != nil {
		kind = s.state.Warning.Kind
	}
	s.mu.Unlock()

	if kind != "" {
		s.clearWarning(kind)
	}
}

func (s *Session) clearWarning(kind WarningKind) {
	s.mu.Lock()
	if s.state.Warning == nil || s.state.Warning.Kind != kind {
		s.mu.Unlock()
		return
	}
	s.state.Warning = nil
	s.state.TabSwitchWarning = false
	cb := s.events.OnWarningCleared
	s.mu.Unlock()

	if cb != nil {
		cb(kind)
	}
	s.emitState()
}
