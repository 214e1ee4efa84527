package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sudoku_rooms_created_total",
		Help: "Rooms created by first join.",
	})
	EventsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sudoku_events_broadcast_total",
		Help: "Events fanned out to room members.",
	})
	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sudoku_games_finished_total",
		Help: "Individual finishes and forfeits recorded.",
	})
	ClientsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sudoku_clients_dropped_total",
		Help: "Clients dropped for a full outbox.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
