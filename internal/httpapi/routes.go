package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/hub"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/results"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/ws"
	"github.com/DoyleJ11/sudoku-rooms-backend/pkg/metrics"
)

func SetupRoutes(h *hub.Hub, src *puzzle.Source, store results.Store, log *zap.Logger, allowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/puzzle/{difficulty}", GetPuzzle(src))
	r.Post("/api/result", PostResult(store, log))
	r.Get("/api/leaderboard", GetLeaderboard(store, log))
	r.Post("/api/validate-puzzle", ValidatePuzzle())
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/ws", ws.Handler(h, log))

	c := cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}
