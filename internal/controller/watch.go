package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/studyroom/lesson-server/internal/player"
	"github.com/studyroom/lesson-server/internal/service/lesson"
)

// serviceReporter adapts the lesson service to player.Reporter. The unlock
// information a report may produce is pushed to the client by the ended
// flow's level-list refresh, not here.
type serviceReporter struct {
	lessonService iLessonService
}

func (r serviceReporter) ReportProgress(ctx context.Context, report *player.Report) error {
	_, err := r.lessonService.ReportProgress(ctx, &lesson.ReportProgressParams{
		ViewerId:            report.ViewerId,
		CourseId:            report.CourseId,
		LevelId:             report.LevelId,
		VideoWatchedPercent: report.VideoWatchedPercent,
	})

	return err
}

// watchLevel owns a viewer's playback session for one level: it loads the
// level data, upgrades to websocket, binds the session to the connection and
// serves messages until the viewer navigates away or disconnects.
func (c *controller) watchLevel(w http.ResponseWriter, r *http.Request) {
	levelId := chi.URLParam(r, "level-id")
	if levelId == "" {
		c.logger.DebugContext(r.Context(), "empty level id")
		return
	}

	viewerId, err := c.getViewerId(r)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to get viewer id", "error", err)
		return
	}

	// Fails soft: on fetch error the player stays in its "no data" state and
	// the client gets no session. No retry is performed.
	data, err := c.lessonService.LoadWatchSession(r.Context(), &lesson.LoadWatchSessionParams{
		ViewerId: viewerId,
		LevelId:  levelId,
	})
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to load watch session", "error", err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	// The session exclusively owns the media surface; a newer connection
	// from the same viewer displaces the old one.
	prev, err := c.connRepo.Add(conn, viewerId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		return
	}
	if prev != nil {
		prev.Close()
	}
	defer c.connRepo.RemoveByConn(conn)

	sender := newConnSender(conn)
	watch := &watchContext{
		sender:   sender,
		viewerId: viewerId,
		courseId: data.Detail.CourseId,
		levelId:  levelId,
	}

	session := player.NewSession(&player.NewSessionParams{
		ViewerId: viewerId,
		CourseId: data.Detail.CourseId,
		LevelId:  levelId,
		HasQuiz:  data.Quiz != nil,
		Surface:  connSurface{sender: sender},
		Reporter: serviceReporter{lessonService: c.lessonService},
		Events: player.Events{
			OnStateChanged: func(state player.State) {
				sender.send(&Output{Type: "SESSION_STATE", Payload: state})
			},
			OnWarning: func(warning player.Warning) {
				sender.send(&Output{Type: "WARNING", Payload: warning})
			},
			OnWarningCleared: func(kind player.WarningKind) {
				sender.send(&Output{Type: "WARNING_CLEARED", Payload: map[string]any{"kind": kind}})
			},
			OnWatermarkMoved: func(pos player.WatermarkPosition) {
				// the overlay renders the viewer identity and a timestamp at
				// the new position
				sender.send(&Output{Type: "WATERMARK_MOVED", Payload: map[string]any{
					"position":  pos,
					"viewer_id": viewerId,
					"timestamp": time.Now().Unix(),
				}})
			},
			OnEnded: func() {
				c.finishLevel(watch)
			},
		},
		Logger: c.logger,
	}, c.playerCfg)
	defer session.Close()
	watch.session = session

	if err := sender.send(&Output{
		Type: "SESSION_STARTED",
		Payload: map[string]any{
			"level":    data.Detail,
			"levels":   data.Levels,
			"has_quiz": data.Quiz != nil,
			"state":    session.Snapshot(),
		},
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write session started", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), watchCtxKey, watch)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "connection closed", "error", err)
	}
}

// finishLevel runs after the completion report: refresh the level list to
// pick up newly unlocked levels, then prompt the quiz if one is available.
// A failed refresh is tolerated; the client keeps its stale lock state until
// the next successful fetch.
func (c *controller) finishLevel(watch *watchContext) {
	ctx := context.Background()

	levels, err := c.lessonService.GetLevelList(ctx, &lesson.GetLevelListParams{
		ViewerId: watch.viewerId,
		CourseId: watch.courseId,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "failed to refresh level list", "error", err)
	} else {
		watch.sender.send(&Output{
			Type:    "LEVEL_LIST",
			Payload: map[string]any{"levels": levels},
		})
	}

	if watch.session.HasQuiz() {
		watch.sender.send(&Output{
			Type:    "QUIZ_PROMPT",
			Payload: map[string]any{"level_id": watch.levelId},
		})
	}
}
