package interfaces

import "github.com/prometheus/client_golang/prometheus"

type Metrics interface {
	GetRegistry() *prometheus.Registry
	IncCounter(name string)
	ObserveHistogram(name string, value float64)
	IncCounterVec(name string, labels ...string)
	IncGauge(name string)
	DecGauge(name string)
	// RegisterCounter registers a new counter metric.
	RegisterCounter(name, help string)
	// RegisterCounterVec registers a new counter metric with labels.
	RegisterCounterVec(name, help string, labels []string)
	// RegisterHistogram registers a new histogram metric.
	RegisterHistogram(name, help string, buckets []float64)
	// RegisterGauge registers a new gauge metric.
	RegisterGauge(name, help string)
}
