package interfaces

// Metrics is the name-keyed metrics registry used by the one-shot commands.
type Metrics interface {
	IncCounter(name string)
	IncCounterVec(name string, labels ...string)
	ObserveHistogram(name string, value float64)
	SetGauge(name string, value float64)
	// RegisterCounter registers a new counter metric.
	RegisterCounter(name, help string)
	// RegisterCounterVec registers a new counter metric with labels.
	RegisterCounterVec(name, help string, labels []string)
	// RegisterHistogram registers a new histogram metric.
	RegisterHistogram(name, help string, buckets []float64)
	// RegisterGauge registers a new gauge metric.
	RegisterGauge(name, help string)
	// WriteTextfile dumps the registry in the node-exporter textfile format.
	WriteTextfile(path string) error
}
