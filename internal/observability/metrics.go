// Package observability provides the Prometheus metrics of the game service.
package observability

import "github.com/prometheus/client_golang/prometheus"

const (
	MoveApplied       = "applied"
	MoveNotYourTile   = "not_your_tile"
	MoveOutOfBounds   = "out_of_bounds"
	MoveGameFinished  = "game_finished"
	MoveInternalError = "error"
)

var (
	// MovesTotal counts moves by result.
	MovesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conquest_moves_total",
			Help: "Moves by result",
		},
		[]string{"result"},
	)

	// ExpansionsTotal counts tile expansions, cascades included.
	ExpansionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conquest_expansions_total",
			Help: "Tile expansions",
		},
	)

	// GamesFinishedTotal counts finished games by outcome.
	GamesFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conquest_games_finished_total",
			Help: "Finished games",
		},
		[]string{"outcome"},
	)

	// ActiveConnections tracks open websocket connections.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "conquest_websocket_connections_active",
			Help: "Active websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		MovesTotal,
		ExpansionsTotal,
		GamesFinishedTotal,
		ActiveConnections,
	)
}
