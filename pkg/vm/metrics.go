package vm

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the pluggable instrumentation hook a VM reports to while it
// runs a program. The default is a zero-overhead no-op; callers that want
// visibility into interpreted handlers set a Prometheus-backed one.
type Metrics interface {
	RecordExecution(functionName string, instructions int)
	RecordStackDepth(depth int)
	RecordHostCall(name string)
	RecordError(kind string)
}

// NoOpMetrics discards every observation.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordExecution(functionName string, instructions int) {}
func (NoOpMetrics) RecordStackDepth(depth int)                            {}
func (NoOpMetrics) RecordHostCall(name string)                            {}
func (NoOpMetrics) RecordError(kind string)                               {}

var (
	globalMetrics   Metrics = NoOpMetrics{}
	globalMetricsMu sync.RWMutex
)

// SetGlobalMetrics installs m as the metrics sink every VM reports to.
// Passing nil resets to NoOpMetrics.
func SetGlobalMetrics(m Metrics) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if m == nil {
		globalMetrics = NoOpMetrics{}
		return
	}
	globalMetrics = m
}

// GetGlobalMetrics returns the current sink. Never nil.
func GetGlobalMetrics() Metrics {
	globalMetricsMu.RLock()
	defer globalMetricsMu.RUnlock()
	return globalMetrics
}

// PrometheusMetrics exposes VM execution stats under the "kryon_vm_"
// namespace.
type PrometheusMetrics struct {
	executions  *prometheus.CounterVec
	instructions *prometheus.HistogramVec
	stackDepth  prometheus.Histogram
	hostCalls   *prometheus.CounterVec
	errors      *prometheus.CounterVec
}

// NewPrometheusMetrics registers every collector against reg and returns
// the instrumented sink. Panics on duplicate registration — fail fast
// rather than silently dropping metrics for a collision a caller would
// want to know about immediately.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kryon_vm_executions_total",
			Help: "Total number of bytecode function executions, by function name.",
		}, []string{"function"}),
		instructions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kryon_vm_instructions_executed",
			Help:    "Instructions executed per function call.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}, []string{"function"}),
		stackDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kryon_vm_stack_depth",
			Help:    "Operand stack depth observed during execution.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		hostCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kryon_vm_host_calls_total",
			Help: "Total host-function invocations, by function name.",
		}, []string{"function"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kryon_vm_errors_total",
			Help: "Total runtime errors raised during execution, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.executions, m.instructions, m.stackDepth, m.hostCalls, m.errors)
	return m
}

func (m *PrometheusMetrics) RecordExecution(functionName string, instructions int) {
	m.executions.WithLabelValues(functionName).Inc()
	m.instructions.WithLabelValues(functionName).Observe(float64(instructions))
}

func (m *PrometheusMetrics) RecordStackDepth(depth int) {
	m.stackDepth.Observe(float64(depth))
}

func (m *PrometheusMetrics) RecordHostCall(name string) {
	m.hostCalls.WithLabelValues(name).Inc()
}

func (m *PrometheusMetrics) RecordError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}
