package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Route("/api", func(r chi.Router) {
		r.Post("/courses", c.createCourse)
		r.Get("/courses/{course-id}/levels", c.getLevelList)
		r.Get("/levels/{level-id}", c.getLevelDetail)
		r.Get("/levels/{level-id}/quiz", c.getQuiz)
		r.Post("/progress", c.reportProgress)
	})

	r.HandleFunc("/ws/watch/{level-id}", c.watchLevel)

	return r
}
