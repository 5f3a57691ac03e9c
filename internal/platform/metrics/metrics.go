package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	EncountersGenerated prometheus.Counter
	CaptureAttempts     prometheus.Counter
	CaptureSuccesses    prometheus.Counter
	BattleTurns         prometheus.Counter
	BattleVictories     *prometheus.CounterVec
	LevelUps            prometheus.Counter
	Purchases           prometheus.Counter
	BadgesAwarded       prometheus.Counter
	RequestLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EncountersGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_encounters_generated_total",
			Help: "Total number of wild encounters generated",
		}),
		CaptureAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_capture_attempts_total",
			Help: "Total number of capture attempts, successful or not",
		}),
		CaptureSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_capture_successes_total",
			Help: "Total number of successful captures",
		}),
		BattleTurns: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_battle_turns_total",
			Help: "Total number of combat turns resolved",
		}),
		BattleVictories: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pokegame_battle_victories_total",
			Help: "Total number of battles won, by opponent kind",
		}, []string{"kind"}),
		LevelUps: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_level_ups_total",
			Help: "Total number of levels gained across all creatures",
		}),
		Purchases: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_purchases_total",
			Help: "Total number of completed shop purchases",
		}),
		BadgesAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokegame_badges_awarded_total",
			Help: "Total number of gym badges awarded (first-time only)",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pokegame_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
