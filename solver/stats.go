package solver

import "github.com/prometheus/client_golang/prometheus"

// Stats holds the CDNL solver counters of spec.md §4.3 "Statistics"
// (assignments, guesses, backtracks, resolution steps, detected
// conflicts), exported as prometheus counters so a host process can
// register them alongside its own metrics the way a production service
// would.
type Stats struct {
	Assignments       prometheus.Counter
	Guesses           prometheus.Counter
	Backtracks        prometheus.Counter
	ResolutionSteps   prometheus.Counter
	ConflictsDetected prometheus.Counter
	DetectedConflicts prometheus.Counter
	NogoodsLearned    prometheus.Counter

	// recentConflicts counts conflicts since the last activity-counter
	// decay; it is plain solver-internal bookkeeping, not exported,
	// since the solver runs single-threaded per spec.md §5.
	recentConflicts int
}

func newStats() *Stats {
	return &Stats{
		Assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_assignments_total",
			Help: "Number of literal assignments made by the CDNL solver.",
		}),
		Guesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_guesses_total",
			Help: "Number of decision literals guessed by the CDNL solver.",
		}),
		Backtracks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_backtracks_total",
			Help: "Number of decision-level backtracks performed.",
		}),
		ResolutionSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_resolution_steps_total",
			Help: "Number of resolution steps performed during propagation and analysis.",
		}),
		ConflictsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_conflicts_detected_total",
			Help: "Number of falsified nogoods detected during unit propagation.",
		}),
		DetectedConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_conflicts_analyzed_total",
			Help: "Number of conflicts carried through 1-UIP analysis.",
		}),
		NogoodsLearned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hex_solver_nogoods_total",
			Help: "Number of nogoods added to the solver, including learned ones.",
		}),
	}
}

// Collectors returns every counter in Stats, for a caller that wants to
// register them with a prometheus.Registerer.
func (s *Stats) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		s.Assignments, s.Guesses, s.Backtracks, s.ResolutionSteps,
		s.ConflictsDetected, s.DetectedConflicts, s.NogoodsLearned,
	}
}
