package player

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Session binds one viewer to one level's media surface and reconciles user
// intent with element state. It owns every timer and subscription it
// creates; Close tears all of them down so no callback outlives the session.
// A new level means a new session.
type Session struct {
	mu sync.Mutex

	viewerId string
	courseId string
	levelId  string
	hasQuiz  bool

	cfg      Config
	surface  Surface
	reporter Reporter
	events   Events
	logger   *slog.Logger

	state State

	// last viewport metrics reported by the client
	outerW, innerW, outerH, innerH int

	endedReported bool

	rand *rand.Rand

	warningTimer  *time.Timer
	controlsTimer *time.Timer

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type NewSessionParams struct {
	ViewerId string
	CourseId string
	LevelId  string
	HasQuiz  bool
	Surface  Surface
	Reporter Reporter
	Events   Events
	Logger   *slog.Logger
}

func NewSession(params *NewSessionParams, cfg Config) *Session {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		viewerId: params.ViewerId,
		courseId: params.CourseId,
		levelId:  params.LevelId,
		hasQuiz:  params.HasQuiz,
		cfg:      cfg.withDefaults(),
		surface:  params.Surface,
		reporter: params.Reporter,
		events:   params.Events,
		logger:   logger,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		done:     make(chan struct{}),
		state: State{
			Status:          StatusLoading,
			Volume:          1,
			PlaybackRate:    1,
			ControlsVisible: true,
		},
	}
	s.state.Watermark = s.randomWatermarkPosition()

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Session) LevelId() string {
	return s.levelId
}

func (s *Session) HasQuiz() bool {
	return s.hasQuiz
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Close stops the periodic monitors and pending warning timers. It is
// idempotent and must be called when the viewer navigates away so that no
// timer keeps operating on a stale surface.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()

		s.mu.Lock()
		if s.warningTimer != nil {
			s.warningTimer.Stop()
		}
		if s.controlsTimer != nil {
			s.controlsTimer.Stop()
		}
		s.mu.Unlock()
	})
}

func (s *Session) run() {
	defer s.wg.Done()

	syncTicker := time.NewTicker(s.cfg.SyncInterval)
	defer syncTicker.Stop()
	watermarkTicker := time.NewTicker(s.cfg.WatermarkInterval)
	defer watermarkTicker.Stop()
	viewportTicker := time.NewTicker(s.cfg.ViewportInterval)
	defer viewportTicker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-syncTicker.C:
			s.syncProgress(context.Background())
		case <-watermarkTicker.C:
			s.rotateWatermark()
		case <-viewportTicker.C:
			s.probeViewport(context.Background())
		}
	}
}

func (s *Session) emitState() {
	if s.events.OnStateChanged == nil {
		return
	}

	s.events.OnStateChanged(s.Snapshot())
}
