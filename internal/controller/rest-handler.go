package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studyroom/lesson-server/internal/service/lesson"
	"github.com/studyroom/lesson-server/pkg/rest"
)

type createQuizRequest struct {
	Title         string `json:"title" validate:"required,max=128"`
	QuestionCount int    `json:"question_count" validate:"required,gte=1"`
	PassPercent   int    `json:"pass_percent" validate:"gte=0,lte=100"`
}

type createLevelRequest struct {
	Title       string             `json:"title" validate:"required,max=128"`
	Description string             `json:"description" validate:"max=2048"`
	HasVideo    bool               `json:"has_video"`
	VideoPath   string             `json:"video_path" validate:"max=512"`
	Quiz        *createQuizRequest `json:"quiz"`
}

type createCourseRequest struct {
	Title       string               `json:"title" validate:"required,max=128"`
	Description string               `json:"description" validate:"max=2048"`
	Levels      []createLevelRequest `json:"levels" validate:"required,min=1,dive"`
}

func (c *controller) createCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.DebugContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	levels := make([]lesson.CreateLevelParams, 0, len(req.Levels))
	for _, level := range req.Levels {
		levelParams := lesson.CreateLevelParams{
			Title:       level.Title,
			Description: level.Description,
			HasVideo:    level.HasVideo,
			VideoPath:   level.VideoPath,
		}
		if level.Quiz != nil {
			levelParams.Quiz = &lesson.CreateQuizParams{
				Title:         level.Quiz.Title,
				QuestionCount: level.Quiz.QuestionCount,
				PassPercent:   level.Quiz.PassPercent,
			}
		}
		levels = append(levels, levelParams)
	}

	createCourseResp, err := c.lessonService.CreateCourse(r.Context(), &lesson.CreateCourseParams{
		Title:       req.Title,
		Description: req.Description,
		Levels:      levels,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create course", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create course"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": map[string]any{
		"course_id": createCourseResp.CourseId,
		"level_ids": createCourseResp.LevelIds,
	}})
}

func (c *controller) getLevelList(w http.ResponseWriter, r *http.Request) {
	courseId := chi.URLParam(r, "course-id")
	if courseId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "course not found"})
		return
	}

	viewerId, err := c.getViewerId(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	levels, err := c.lessonService.GetLevelList(r.Context(), &lesson.GetLevelListParams{
		ViewerId: viewerId,
		CourseId: courseId,
	})
	if err != nil {
		if errors.Is(err, lesson.ErrCourseNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "course not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get level list", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get level list"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": levels})
}

func (c *controller) getLevelDetail(w http.ResponseWriter, r *http.Request) {
	levelId := chi.URLParam(r, "level-id")
	if levelId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "level not found"})
		return
	}

	viewerId, err := c.getViewerId(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	detail, err := c.lessonService.GetLevelDetail(r.Context(), &lesson.GetLevelDetailParams{
		ViewerId: viewerId,
		LevelId:  levelId,
	})
	if err != nil {
		switch {
		case errors.Is(err, lesson.ErrLevelNotFound):
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "level not found"})
		case errors.Is(err, lesson.ErrLevelLocked):
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "level is locked"})
		default:
			c.logger.WarnContext(r.Context(), "failed to get level detail", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get level detail"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": detail})
}

func (c *controller) getQuiz(w http.ResponseWriter, r *http.Request) {
	levelId := chi.URLParam(r, "level-id")
	if levelId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "quiz not found"})
		return
	}

	quiz, err := c.lessonService.GetQuiz(r.Context(), levelId)
	if err != nil {
		if errors.Is(err, lesson.ErrQuizNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "quiz not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get quiz", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get quiz"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": quiz})
}

type reportProgressRequest struct {
	CourseId            string `json:"course_id" validate:"required"`
	LevelId             string `json:"level_id" validate:"required"`
	VideoWatchedPercent int    `json:"video_watched_percent" validate:"gte=0,lte=100"`
}

func (c *controller) reportProgress(w http.ResponseWriter, r *http.Request) {
	viewerId, err := c.getViewerId(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	var req reportProgressRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.DebugContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	reportResp, err := c.lessonService.ReportProgress(r.Context(), &lesson.ReportProgressParams{
		ViewerId:            viewerId,
		CourseId:            req.CourseId,
		LevelId:             req.LevelId,
		VideoWatchedPercent: req.VideoWatchedPercent,
	})
	if err != nil {
		if errors.Is(err, lesson.ErrLevelNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "level not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to report progress", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to report progress"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"stored_percent":    reportResp.StoredPercent,
		"completed":         reportResp.Completed,
		"unlocked_level_id": reportResp.UnlockedLevelId,
	}})
}
