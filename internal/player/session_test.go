package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	mu        sync.Mutex
	playErr   error
	calls     []string
	lastSeek  float64
	lastVol   float64
	lastMuted bool
	lastRate  float64
}

func (f *fakeSurface) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSurface) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeSurface) Play(ctx context.Context) error {
	f.record("play")
	return f.playErr
}

func (f *fakeSurface) Pause(ctx context.Context) error {
	f.record("pause")
	return nil
}

func (f *fakeSurface) Seek(ctx context.Context, seconds float64) error {
	f.record("seek")
	f.mu.Lock()
	f.lastSeek = seconds
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) SetVolume(ctx context.Context, volume float64) error {
	f.record("set_volume")
	f.mu.Lock()
	f.lastVol = volume
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) SetMuted(ctx context.Context, muted bool) error {
	f.record("set_muted")
	f.mu.Lock()
	f.lastMuted = muted
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) SetRate(ctx context.Context, rate float64) error {
	f.record("set_rate")
	f.mu.Lock()
	f.lastRate = rate
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) SetFullscreen(ctx context.Context, on bool) error {
	f.record("set_fullscreen")
	return nil
}

func (f *fakeSurface) SetPictureInPicture(ctx context.Context, on bool) error {
	f.record("set_pip")
	return nil
}

type fakeReporter struct {
	mu      sync.Mutex
	reports []Report
}

func (f *fakeReporter) ReportProgress(ctx context.Context, report *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

func newTestSession(t *testing.T, surface *fakeSurface, reporter *fakeReporter, cfg Config, events Events) *Session {
	t.Helper()

	s := NewSession(&NewSessionParams{
		ViewerId: "viewer1",
		CourseId: "course1",
		LevelId:  "level1",
		Surface:  surface,
		Reporter: reporter,
		Events:   events,
	}, cfg)
	t.Cleanup(s.Close)

	return s
}

// makeReady drives the session out of the loading state with a known
// duration.
func makeReady(s *Session, duration float64) {
	s.OnTimeUpdate(0, duration, 0)
}

func TestTogglePlay(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	// no-op while metadata is still loading
	s.TogglePlay(ctx)
	assert.False(t, s.Snapshot().IsPlaying)
	assert.Equal(t, 0, surface.callCount("play"))

	makeReady(s, 120)
	require.Equal(t, StatusReady, s.Snapshot().Status)

	s.TogglePlay(ctx)
	assert.True(t, s.Snapshot().IsPlaying)
	assert.Equal(t, 1, surface.callCount("play"))

	s.TogglePlay(ctx)
	assert.False(t, s.Snapshot().IsPlaying)
	assert.Equal(t, 1, surface.callCount("pause"))
}

func TestTogglePlayAutoplayBlocked(t *testing.T) {
	surface := &fakeSurface{playErr: ErrAutoplayBlocked}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})

	makeReady(s, 120)
	s.TogglePlay(context.Background())

	state := s.Snapshot()
	assert.False(t, state.IsPlaying, "playback must not start when autoplay is blocked")
	require.NotNil(t, state.Warning)
	assert.Equal(t, WarningAutoplay, state.Warning.Kind)
}

func TestSeekClamping(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	// seeks are ignored until the duration is known
	s.SeekToRatio(ctx, 0.5)
	assert.Equal(t, 0, surface.callCount("seek"))

	makeReady(s, 100)

	s.SeekToRatio(ctx, 1.5)
	assert.Equal(t, 100.0, s.Snapshot().CurrentTime, "seek past the end must clamp to duration")
	surface.mu.Lock()
	assert.Equal(t, 100.0, surface.lastSeek, "the clamped target is what reaches the element")
	surface.mu.Unlock()

	s.SeekToRatio(ctx, -0.5)
	assert.Equal(t, 0.0, s.Snapshot().CurrentTime, "seek before the start must clamp to zero")

	s.SeekToRatio(ctx, 0.3)
	assert.Equal(t, 30.0, s.Snapshot().CurrentTime)
	assert.InDelta(t, 30.0, s.Snapshot().ProgressPercent, 0.001)

	s.SeekBy(ctx, -45)
	assert.Equal(t, 0.0, s.Snapshot().CurrentTime, "relative seek must clamp to zero")

	s.SeekBy(ctx, 250)
	assert.Equal(t, 100.0, s.Snapshot().CurrentTime, "relative seek must clamp to duration")
}

func TestVolumeClamping(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	s.SetVolume(ctx, 1.3)
	assert.Equal(t, 1.0, s.Snapshot().Volume)
	surface.mu.Lock()
	assert.Equal(t, 1.0, surface.lastVol, "the clamped volume is what reaches the element")
	surface.mu.Unlock()

	s.SetVolume(ctx, -0.2)
	assert.Equal(t, 0.0, s.Snapshot().Volume)

	s.SetVolume(ctx, 0.7)
	assert.Equal(t, 0.7, s.Snapshot().Volume)
}

func TestToggleMuteKeepsVolume(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	s.SetVolume(ctx, 0.6)
	s.ToggleMute(ctx)

	state := s.Snapshot()
	assert.True(t, state.IsMuted)
	assert.Equal(t, 0.6, state.Volume, "mute must not touch the stored volume")
	surface.mu.Lock()
	assert.True(t, surface.lastMuted)
	surface.mu.Unlock()

	s.ToggleMute(ctx)
	state = s.Snapshot()
	assert.False(t, state.IsMuted)
	assert.Equal(t, 0.6, state.Volume)
}

func TestSetRateRejectsNonPositive(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	s.SetRate(ctx, 0)
	assert.Equal(t, 1.0, s.Snapshot().PlaybackRate)

	s.SetRate(ctx, 1.5)
	assert.Equal(t, 1.5, s.Snapshot().PlaybackRate)
	surface.mu.Lock()
	assert.Equal(t, 1.5, surface.lastRate)
	surface.mu.Unlock()
}

func TestForcePauseOnVisibilityHidden(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	makeReady(s, 120)
	s.OnPlay()
	require.True(t, s.Snapshot().IsPlaying)

	s.OnVisibilityHidden(ctx)

	state := s.Snapshot()
	assert.False(t, state.IsPlaying)
	assert.True(t, state.TabSwitchWarning)
	require.NotNil(t, state.Warning)
	assert.Equal(t, WarningTabSwitch, state.Warning.Kind)
	assert.Equal(t, 1, surface.callCount("pause"))

	// a second trigger while already paused does nothing
	s.OnWindowBlur(ctx)
	assert.Equal(t, 1, surface.callCount("pause"))
}

func TestEndedFlowReportsOnce(t *testing.T) {
	surface := &fakeSurface{}
	reporter := &fakeReporter{}

	var mu sync.Mutex
	var sequence []string
	events := Events{
		OnEnded: func() {
			mu.Lock()
			sequence = append(sequence, "ended-event")
			mu.Unlock()
		},
	}

	s := newTestSession(t, surface, reporter, Config{}, events)
	ctx := context.Background()

	makeReady(s, 120)
	s.OnPlay()

	s.OnEnded(ctx)
	s.OnEnded(ctx)

	state := s.Snapshot()
	assert.Equal(t, StatusEnded, state.Status)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 100.0, state.ProgressPercent)

	require.Equal(t, 1, reporter.count(), "completion must be reported exactly once")
	reporter.mu.Lock()
	assert.Equal(t, 100, reporter.reports[0].VideoWatchedPercent)
	reporter.mu.Unlock()

	mu.Lock()
	assert.Equal(t, []string{"ended-event"}, sequence, "ended event must fire exactly once, after the report")
	mu.Unlock()
}

func TestReplayAfterEnded(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	makeReady(s, 120)
	s.OnPlay()
	s.OnEnded(ctx)
	require.Equal(t, StatusEnded, s.Snapshot().Status)

	s.TogglePlay(ctx)

	state := s.Snapshot()
	assert.Equal(t, StatusReady, state.Status)
	assert.True(t, state.IsPlaying)
}

func TestMediaErrorIsTerminal(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	makeReady(s, 120)
	s.OnMediaError("failed to load video")

	state := s.Snapshot()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "failed to load video", state.FailureReason)

	s.TogglePlay(ctx)
	assert.False(t, s.Snapshot().IsPlaying, "a failed session must refuse playback")
	assert.Equal(t, 0, surface.callCount("play"))
}

func TestSyncProgressThreshold(t *testing.T) {
	surface := &fakeSurface{}
	reporter := &fakeReporter{}
	s := newTestSession(t, surface, reporter, Config{MinReportPercent: 10}, Events{})
	ctx := context.Background()

	// nothing to report while loading
	s.syncProgress(ctx)
	assert.Equal(t, 0, reporter.count())

	makeReady(s, 200)

	// at the threshold, not above it
	s.OnTimeUpdate(20, 200, 20)
	s.syncProgress(ctx)
	assert.Equal(t, 0, reporter.count(), "progress at the threshold must not be reported")

	s.OnTimeUpdate(51, 200, 60)
	s.syncProgress(ctx)
	require.Equal(t, 1, reporter.count())
	reporter.mu.Lock()
	assert.Equal(t, 26, reporter.reports[0].VideoWatchedPercent, "percent must be rounded")
	assert.Equal(t, "viewer1", reporter.reports[0].ViewerId)
	assert.Equal(t, "level1", reporter.reports[0].LevelId)
	reporter.mu.Unlock()
}

func TestBufferedPercentClamped(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})

	s.OnTimeUpdate(10, 100, 350)
	assert.Equal(t, 100.0, s.Snapshot().BufferedPercent, "buffered percent must not exceed 100")

	s.OnTimeUpdate(10, 100, 45)
	assert.Equal(t, 45.0, s.Snapshot().BufferedPercent)
}

func TestWatermarkStaysWithinBounds(t *testing.T) {
	surface := &fakeSurface{}
	var mu sync.Mutex
	moves := 0
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{
		OnWatermarkMoved: func(pos WatermarkPosition) {
			mu.Lock()
			moves++
			mu.Unlock()
		},
	})

	for i := 0; i < 50; i++ {
		s.rotateWatermark()
		pos := s.Snapshot().Watermark
		assert.GreaterOrEqual(t, pos.X, 5.0)
		assert.LessOrEqual(t, pos.X, 85.0)
		assert.GreaterOrEqual(t, pos.Y, 5.0)
		assert.LessOrEqual(t, pos.Y, 85.0)
	}

	mu.Lock()
	assert.Equal(t, 50, moves)
	mu.Unlock()
}

func TestViewportProbe(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{ViewportThresholdPx: 160}, Events{})
	ctx := context.Background()

	makeReady(s, 120)
	s.OnPlay()

	// no metrics reported yet
	s.probeViewport(ctx)
	assert.True(t, s.Snapshot().IsPlaying)

	// ordinary chrome takes less than the threshold
	s.OnViewportMetrics(1920, 1904, 1080, 960)
	s.probeViewport(ctx)
	assert.True(t, s.Snapshot().IsPlaying)

	// a docked panel eats several hundred pixels
	s.OnViewportMetrics(1920, 1400, 1080, 960)
	s.probeViewport(ctx)

	state := s.Snapshot()
	assert.False(t, state.IsPlaying)
	require.NotNil(t, state.Warning)
	assert.Equal(t, WarningDevtools, state.Warning.Kind)
}

func TestWarningSelfClears(t *testing.T) {
	surface := &fakeSurface{}
	var mu sync.Mutex
	var cleared []WarningKind
	s := newTestSession(t, surface, &fakeReporter{}, Config{WarningTTL: 30 * time.Millisecond}, Events{
		OnWarningCleared: func(kind WarningKind) {
			mu.Lock()
			cleared = append(cleared, kind)
			mu.Unlock()
		},
	})

	s.OnPrintScreen()
	require.NotNil(t, s.Snapshot().Warning)

	assert.Eventually(t, func() bool {
		return s.Snapshot().Warning == nil
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []WarningKind{WarningPrintScreen}, cleared)
	mu.Unlock()
}

func TestDismissWarning(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{}, Events{})
	ctx := context.Background()

	makeReady(s, 120)
	s.OnPlay()
	s.OnVisibilityHidden(ctx)
	require.NotNil(t, s.Snapshot().Warning)

	s.DismissWarning()

	state := s.Snapshot()
	assert.Nil(t, state.Warning)
	assert.False(t, state.TabSwitchWarning, "dismissing the warning clears the tab switch flag")

	// dismissing with no active warning is a no-op
	s.DismissWarning()
	assert.Nil(t, s.Snapshot().Warning)
}

func TestControlsAutoHide(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{ControlsHideDelay: 20 * time.Millisecond}, Events{})

	makeReady(s, 120)
	s.OnPlay()
	require.True(t, s.Snapshot().ControlsVisible)

	assert.Eventually(t, func() bool {
		return !s.Snapshot().ControlsVisible
	}, time.Second, 5*time.Millisecond)

	s.ShowControls()
	assert.True(t, s.Snapshot().ControlsVisible)
}

func TestControlsStayVisibleWhilePaused(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestSession(t, surface, &fakeReporter{}, Config{ControlsHideDelay: 20 * time.Millisecond}, Events{})

	makeReady(s, 120)
	s.OnPlay()
	s.OnPause()

	time.Sleep(60 * time.Millisecond)
	assert.True(t, s.Snapshot().ControlsVisible, "controls must not hide while paused")
}

func TestCloseIsIdempotent(t *testing.T) {
	surface := &fakeSurface{}
	s := NewSession(&NewSessionParams{
		ViewerId: "viewer1",
		CourseId: "course1",
		LevelId:  "level1",
		Surface:  surface,
		Reporter: &fakeReporter{},
	}, Config{})

	s.Close()
	s.Close()
}
