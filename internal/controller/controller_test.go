package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyroom/lesson-server/internal/player"
	"github.com/studyroom/lesson-server/internal/repository/connection/inmemory"
	"github.com/studyroom/lesson-server/internal/service/lesson"
)

type recordingSender struct {
	mu      sync.Mutex
	outputs []Output
}

func (s *recordingSender) send(out *Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs = append(s.outputs, *out)
	return nil
}

func (s *recordingSender) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.outputs))
	for _, out := range s.outputs {
		types = append(types, out.Type)
	}
	return types
}

type fakeLessonService struct {
	levels       []lesson.Level
	levelListErr error
	navigateResp lesson.NavigateToLevelResponse
	navigateErr  error
}

func (f *fakeLessonService) CreateCourse(ctx context.Context, params *lesson.CreateCourseParams) (lesson.CreateCourseResponse, error) {
	return lesson.CreateCourseResponse{}, nil
}

func (f *fakeLessonService) GetLevelList(ctx context.Context, params *lesson.GetLevelListParams) ([]lesson.Level, error) {
	return f.levels, f.levelListErr
}

func (f *fakeLessonService) GetLevelDetail(ctx context.Context, params *lesson.GetLevelDetailParams) (lesson.LevelDetail, error) {
	return lesson.LevelDetail{}, nil
}

func (f *fakeLessonService) GetQuiz(ctx context.Context, levelId string) (lesson.Quiz, error) {
	return lesson.Quiz{}, nil
}

func (f *fakeLessonService) ReportProgress(ctx context.Context, params *lesson.ReportProgressParams) (lesson.ReportProgressResponse, error) {
	return lesson.ReportProgressResponse{}, nil
}

func (f *fakeLessonService) NavigateToLevel(ctx context.Context, params *lesson.NavigateToLevelParams) (lesson.NavigateToLevelResponse, error) {
	return f.navigateResp, f.navigateErr
}

func (f *fakeLessonService) LoadWatchSession(ctx context.Context, params *lesson.LoadWatchSessionParams) (lesson.WatchSessionData, error) {
	return lesson.WatchSessionData{}, nil
}

type nopReporter struct{}

func (nopReporter) ReportProgress(ctx context.Context, report *player.Report) error {
	return nil
}

func newTestWatch(t *testing.T, sender *recordingSender, hasQuiz bool) *watchContext {
	t.Helper()

	watch := &watchContext{
		sender:   sender,
		viewerId: "viewer1",
		courseId: "course1",
		levelId:  "level1",
	}
	watch.session = player.NewSession(&player.NewSessionParams{
		ViewerId: "viewer1",
		CourseId: "course1",
		LevelId:  "level1",
		HasQuiz:  hasQuiz,
		Surface:  connSurface{sender: sender},
		Reporter: nopReporter{},
	}, player.Config{})
	t.Cleanup(watch.session.Close)

	return watch
}

func TestFinishLevelRefreshesThenPrompts(t *testing.T) {
	svc := &fakeLessonService{
		levels: []lesson.Level{
			{Id: "level1", LevelNumber: 1, HasQuiz: true},
			{Id: "level2", LevelNumber: 2},
		},
	}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, true)

	c.finishLevel(watch)

	assert.Equal(t, []string{"LEVEL_LIST", "QUIZ_PROMPT"}, sender.types(),
		"the refreshed list must arrive before the quiz prompt")
}

func TestFinishLevelWithoutQuiz(t *testing.T) {
	svc := &fakeLessonService{
		levels: []lesson.Level{{Id: "level1", LevelNumber: 1}},
	}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, false)

	c.finishLevel(watch)

	assert.Equal(t, []string{"LEVEL_LIST"}, sender.types(),
		"no prompt when the level has no quiz")
}

func TestFinishLevelRefreshFailureStillPrompts(t *testing.T) {
	svc := &fakeLessonService{levelListErr: errors.New("store unavailable")}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, true)

	c.finishLevel(watch)

	assert.Equal(t, []string{"QUIZ_PROMPT"}, sender.types(),
		"a failed list refresh must not swallow the quiz prompt")
}

func TestHandleNavigateLockedRaisesWarning(t *testing.T) {
	svc := &fakeLessonService{navigateErr: lesson.ErrLevelLocked}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, false)
	ctx := context.WithValue(context.Background(), watchCtxKey, watch)

	err := c.handleNavigate(ctx, nil, json.RawMessage(`{"direction":"next"}`))
	require.NoError(t, err)

	assert.Empty(t, sender.types(), "a locked target must not produce a navigate frame")
	warning := watch.session.Snapshot().Warning
	require.NotNil(t, warning)
	assert.Equal(t, player.WarningLevelLocked, warning.Kind)
}

func TestHandleNavigateNoAdjacentLevel(t *testing.T) {
	svc := &fakeLessonService{navigateErr: lesson.ErrNoAdjacentLevel}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, false)
	ctx := context.WithValue(context.Background(), watchCtxKey, watch)

	err := c.handleNavigate(ctx, nil, json.RawMessage(`{"direction":"prev"}`))
	require.NoError(t, err)

	assert.Empty(t, sender.types())
	assert.Nil(t, watch.session.Snapshot().Warning)
}

func TestHandleNavigateSuccess(t *testing.T) {
	svc := &fakeLessonService{
		navigateResp: lesson.NavigateToLevelResponse{
			Level: lesson.Level{Id: "level2", LevelNumber: 2},
		},
	}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, false)
	ctx := context.WithValue(context.Background(), watchCtxKey, watch)

	err := c.handleNavigate(ctx, nil, json.RawMessage(`{"direction":"next"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"NAVIGATE"}, sender.types())
}

func TestHandleNavigateInvalidDirection(t *testing.T) {
	svc := &fakeLessonService{}
	c := NewController(svc, inmemory.NewRepo(), player.Config{}, slog.Default())
	sender := &recordingSender{}
	watch := newTestWatch(t, sender, false)
	ctx := context.WithValue(context.Background(), watchCtxKey, watch)

	err := c.handleNavigate(ctx, nil, json.RawMessage(`{"direction":"sideways"}`))
	assert.Error(t, err)
}
