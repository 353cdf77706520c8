package controller

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/studyroom/lesson-server/pkg/ctxlogger"
)

func (c *controller) generateTimeBasedId() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), c.generator.GenerateRandomString(8))
}

func (c *controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", c.generateTimeBasedId()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}
