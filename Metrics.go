package go_ballisticengine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	integrationStepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ballistic_integration_steps_total",
		Help: "Total number of integration steps performed across all runs",
	})
	integrationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballistic_integration_runs_total",
			Help: "Total number of integration runs by termination reason",
		},
		[]string{"reason"},
	)
	solverIterationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballistic_solver_iterations_total",
			Help: "Total number of solver iterations by solver kind",
		},
		[]string{"solver"},
	)
	lastMaxRangeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ballistic_last_max_range_feet",
		Help: "Maximum range computed by the most recent max-range search (in feet)",
	})
)

func init() {
	prometheus.MustRegister(
		integrationStepsTotal,
		integrationRunsTotal,
		solverIterationsTotal,
		lastMaxRangeGauge,
	)
}
