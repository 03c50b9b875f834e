// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ordered groups whose sequences can be renumbered.
const (
	GroupTasks  = "tasks"
	GroupStates = "states"
)

var (
	// SequenceRenumbers counts groups renumbered after their keys stopped being separable.
	SequenceRenumbers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_sequence_renumbers_total",
		Help: "Ordered groups renumbered because fractional sequences ran out of precision.",
	}, []string{"group"})

	// TaskMoves counts tasks repositioned, by kind (reorder or bulk).
	TaskMoves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_task_moves_total",
		Help: "Tasks repositioned through reorder or bulk move.",
	}, []string{"kind"})

	// StateTransitions counts task moves that changed state and wrote a snapshot.
	StateTransitions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_state_transitions_total",
		Help: "Task state changes recorded as daily snapshots.",
	})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{SequenceRenumbers, TaskMoves, StateTransitions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
