package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/results"
)

type puzzleResponse struct {
	Grid       string `json:"grid"`
	Difficulty string `json:"difficulty"`
}

// GetPuzzle serves a random puzzle from the difficulty's pool. Unknown
// difficulties fall back to easy rather than erroring; the response
// carries the difficulty actually served.
func GetPuzzle(src *puzzle.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		difficulty := puzzle.Normalize(puzzle.Difficulty(chi.URLParam(r, "difficulty")))
		pz := src.Random(difficulty)
		writeJSON(w, http.StatusOK, puzzleResponse{
			Grid:       string(pz),
			Difficulty: string(difficulty),
		})
	}
}

type resultRequest struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
	Time     *int64 `json:"time"`
	Mistakes int    `json:"mistakes"`
	Date     string `json:"date"`
}

// PostResult appends a finished-game record.
func PostResult(store results.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		if req.RoomID == "" || req.UserName == "" || req.Time == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing fields"})
			return
		}
		rec := results.Result{
			RoomID:   req.RoomID,
			UserName: req.UserName,
			TimeMs:   *req.Time,
			Mistakes: req.Mistakes,
			Date:     req.Date,
		}
		if err := store.Append(r.Context(), rec); err != nil {
			log.Error("append result", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetLeaderboard returns top records ascending by time, optionally scoped
// to one room.
func GetLeaderboard(store results.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("roomId")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := store.Leaderboard(r.Context(), roomID, limit)
		if err != nil {
			log.Error("leaderboard query", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "query failed"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type validateRequest struct {
	Puzzle string `json:"puzzle"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidatePuzzle runs the solver over a submitted 81-cell grid.
func ValidatePuzzle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, validateResponse{Valid: false, Error: "bad json"})
			return
		}
		g := puzzle.Grid(req.Puzzle)
		if !g.Valid() {
			writeJSON(w, http.StatusBadRequest, validateResponse{Valid: false, Error: "invalid puzzle format"})
			return
		}
		writeJSON(w, http.StatusOK, validateResponse{Valid: puzzle.Solve(g)})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
