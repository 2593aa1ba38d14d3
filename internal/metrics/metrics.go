package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, route, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Computations counts feasibility computations by outcome
	Computations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "feasibility_computations_total", Help: "Feasibility computations by outcome."},
		[]string{"outcome"},
	)
	// FeasibleVehicles tracks how many vehicles survive each successful computation
	FeasibleVehicles = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "feasibility_feasible_vehicles", Help: "Vehicles able to carry the load per computation.", Buckets: []float64{1, 2, 4, 8, 12, 16, 22}},
	)
	// LoadsRejected counts loads refused at add time by failed constraint
	LoadsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "loads_rejected_total", Help: "Loads refused when added, by reason."},
		[]string{"reason"},
	)
	// ReportsGenerated counts exported reports by format
	ReportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "reports_generated_total", Help: "Exported reports by format."},
		[]string{"format"},
	)
)

// Computation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeNoLoads    = "no_loads"
	OutcomeNoVehicle  = "no_feasible_vehicle"
	OutcomeBadFilter  = "unknown_vehicle"
	OutcomeOtherError = "error"
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Computations)
		Registry.MustRegister(FeasibleVehicles)
		Registry.MustRegister(LoadsRejected)
		Registry.MustRegister(ReportsGenerated)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
