package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/studyroom/lesson-server/internal/player"
	"github.com/studyroom/lesson-server/internal/service/lesson"
	"github.com/studyroom/lesson-server/pkg/randstr"
	"github.com/studyroom/lesson-server/pkg/validator"
	"github.com/studyroom/lesson-server/pkg/wsrouter"
)

type iLessonService interface {
	CreateCourse(context.Context, *lesson.CreateCourseParams) (lesson.CreateCourseResponse, error)
	GetLevelList(context.Context, *lesson.GetLevelListParams) ([]lesson.Level, error)
	GetLevelDetail(context.Context, *lesson.GetLevelDetailParams) (lesson.LevelDetail, error)
	GetQuiz(ctx context.Context, levelId string) (lesson.Quiz, error)
	ReportProgress(context.Context, *lesson.ReportProgressParams) (lesson.ReportProgressResponse, error)
	NavigateToLevel(context.Context, *lesson.NavigateToLevelParams) (lesson.NavigateToLevelResponse, error)
	LoadWatchSession(context.Context, *lesson.LoadWatchSessionParams) (lesson.WatchSessionData, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, viewerId string) (*websocket.Conn, error)
	RemoveByConn(conn *websocket.Conn) error
}

type controller struct {
	lessonService iLessonService
	connRepo      iConnRepo
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	generator     *randstr.Generator
	wsmux         *wsrouter.WSRouter
	playerCfg     player.Config
	logger        *slog.Logger
}

func NewController(lessonService iLessonService, connRepo iConnRepo, playerCfg player.Config, logger *slog.Logger) *controller {
	c := &controller{
		lessonService: lessonService,
		connRepo:      connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:  validator.NewValidator(),
		generator: randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
		playerCfg: playerCfg,
		logger:    logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
