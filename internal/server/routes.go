package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(s.limiter))

		// 表单流程
		r.Get("/", s.handleIndex)
		r.Post("/", s.handleStart)
		r.Get("/round", s.handleRound)
		r.Post("/round", s.handleSubmitRound)
		r.Get("/result", s.handleResult)
		r.Get("/gameover", s.handleGameOver)
		r.Get("/reset", s.handleReset)

		// 导出
		r.Get("/export.xlsx", s.handleExport)
		r.Get("/chart.png", s.handleChart)

		r.Route("/api/games", func(r chi.Router) {
			r.Get("/{gameID}", s.handleAPIGame)
		})
		r.Get("/live/{gameID}", s.handleLive)
	})

	return r
}
