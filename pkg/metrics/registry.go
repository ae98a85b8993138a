package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	globalOnce sync.Once
	globalReg  *prometheus.Registry
)

// GetRegistry returns the process-wide registry served on /metrics.
// It includes the standard Go runtime and process collectors.
func GetRegistry() *prometheus.Registry {
	globalOnce.Do(func() {
		globalReg = prometheus.NewRegistry()
		globalReg.MustRegister(collectors.NewGoCollector())
		globalReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	return globalReg
}

// ComponentRegistry namespaces all metrics of one component and registers them
// on a shared registry.
type ComponentRegistry struct {
	namespace string
	subsystem string
	reg       prometheus.Registerer
}

// NewComponentRegistry creates a registry scoped to namespace/subsystem,
// backed by the global registry.
func NewComponentRegistry(namespace, subsystem string) *ComponentRegistry {
	return NewComponentRegistryOn(GetRegistry(), namespace, subsystem)
}

// NewComponentRegistryOn is like NewComponentRegistry but registers on the
// given registerer. Tests use this with a fresh prometheus.NewRegistry to
// avoid duplicate registration across cases.
func NewComponentRegistryOn(reg prometheus.Registerer, namespace, subsystem string) *ComponentRegistry {
	return &ComponentRegistry{
		namespace: namespace,
		subsystem: subsystem,
		reg:       reg,
	}
}

func (c *ComponentRegistry) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewCounter(opts)
	c.reg.MustRegister(m)
	return m
}

func (c *ComponentRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewCounterVec(opts, labels)
	c.reg.MustRegister(m)
	return m
}

func (c *ComponentRegistry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewGauge(opts)
	c.reg.MustRegister(m)
	return m
}

func (c *ComponentRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewGaugeVec(opts, labels)
	c.reg.MustRegister(m)
	return m
}

func (c *ComponentRegistry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewHistogram(opts)
	c.reg.MustRegister(m)
	return m
}

func (c *ComponentRegistry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace = c.namespace
	opts.Subsystem = c.subsystem
	m := prometheus.NewHistogramVec(opts, labels)
	c.reg.MustRegister(m)
	return m
}
