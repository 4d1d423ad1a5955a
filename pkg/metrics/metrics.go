// Package metrics is a small Prometheus-compatible registry: counters,
// gauges and histograms keyed by name plus baked-in labels, rendered in the
// text exposition format.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuckets are the default histogram buckets in seconds.
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Counter is a monotonically increasing counter.
type Counter struct{ val atomic.Int64 }

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

// Gauge can go up and down.
type Gauge struct{ val atomic.Int64 }

func (g *Gauge) Set(n int64)  { g.val.Store(n) }
func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

// Histogram tracks observations in fixed buckets.
type Histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64 // per bucket, not cumulative
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *Histogram {
	b := append([]float64{}, buckets...)
	sort.Float64s(b)
	return &Histogram{buckets: b, counts: make([]uint64, len(b))}
}

// Observe records v.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sum += v
	h.count++
	if i := sort.SearchFloat64s(h.buckets, v); i < len(h.buckets) {
		h.counts[i]++
	}
}

// Since observes the seconds elapsed since t.
func (h *Histogram) Since(t time.Time) { h.Observe(time.Since(t).Seconds()) }

// Count returns the number of observations.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

type family struct {
	typ    string
	help   string
	series map[string]any // full name -> *Counter | *Gauge | *Histogram
}

// Registry holds named metrics. Families render in registration order.
type Registry struct {
	mu       sync.Mutex
	families map[string]*family
	order    []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{families: make(map[string]*family)}
}

// lookup returns the series for name, creating it with mk on first use.
// It panics when name was registered with a different type.
func (r *Registry) lookup(name, typ, help string, mk func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	base := baseName(name)
	f, ok := r.families[base]
	if !ok {
		f = &family{typ: typ, series: make(map[string]any)}
		r.families[base] = f
		r.order = append(r.order, base)
	}
	if f.typ != typ {
		panic(fmt.Sprintf("metrics: %s registered as %s, requested as %s", base, f.typ, typ))
	}
	if help != "" {
		f.help = help
	}
	m, ok := f.series[name]
	if !ok {
		m = mk()
		f.series[name] = m
	}
	return m
}

// Counter returns (or creates) the counter called name. Labels are part of
// the name; build it with WithLabels.
func (r *Registry) Counter(name, help string) *Counter {
	return r.lookup(name, "counter", help, func() any { return &Counter{} }).(*Counter)
}

// Gauge returns (or creates) a gauge.
func (r *Registry) Gauge(name, help string) *Gauge {
	return r.lookup(name, "gauge", help, func() any { return &Gauge{} }).(*Gauge)
}

// Histogram returns (or creates) a histogram. Nil buckets means DefaultBuckets.
func (r *Registry) Histogram(name, help string, buckets []float64) *Histogram {
	if buckets == nil {
		buckets = DefaultBuckets
	}
	return r.lookup(name, "histogram", help, func() any { return newHistogram(buckets) }).(*Histogram)
}

// WithLabels appends label pairs to name: WithLabels("x", "k", "v") is
// `x{k="v"}`. An odd number of kvs returns name unchanged.
func WithLabels(name string, kvs ...string) string {
	if len(kvs) == 0 || len(kvs)%2 != 0 {
		return name
	}
	pairs := make([]string, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%s=%q", kvs[i], kvs[i+1]))
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func baseName(name string) string {
	if i := strings.IndexByte(name, '{'); i != -1 {
		return name[:i]
	}
	return name
}

// labelsOf returns the inner label list of name, e.g. `k="v"`.
func labelsOf(name string) string {
	i := strings.IndexByte(name, '{')
	if i == -1 {
		return ""
	}
	return name[i+1 : len(name)-1]
}

func joinLabels(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return "{" + strings.Join(nonEmpty, ",") + "}"
}

// Render returns the text exposition of every metric.
func (r *Registry) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for _, base := range r.order {
		f := r.families[base]
		if f.help != "" {
			fmt.Fprintf(&b, "# HELP %s %s\n", base, f.help)
		}
		fmt.Fprintf(&b, "# TYPE %s %s\n", base, f.typ)

		names := make([]string, 0, len(f.series))
		for n := range f.series {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			switch m := f.series[n].(type) {
			case *Counter:
				fmt.Fprintf(&b, "%s %d\n", n, m.Value())
			case *Gauge:
				fmt.Fprintf(&b, "%s %d\n", n, m.Value())
			case *Histogram:
				renderHistogram(&b, base, labelsOf(n), m)
			}
		}
	}
	return b.String()
}

func renderHistogram(b *strings.Builder, base, labels string, h *Histogram) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var cumulative uint64
	for i, le := range h.buckets {
		cumulative += h.counts[i]
		fmt.Fprintf(b, "%s_bucket%s %d\n", base, joinLabels(fmt.Sprintf("le=\"%g\"", le), labels), cumulative)
	}
	fmt.Fprintf(b, "%s_bucket%s %d\n", base, joinLabels(`le="+Inf"`, labels), h.count)
	fmt.Fprintf(b, "%s_sum%s %g\n", base, joinLabels(labels), h.sum)
	fmt.Fprintf(b, "%s_count%s %d\n", base, joinLabels(labels), h.count)
}

// Handler serves Render as text/plain for scraping.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.Write([]byte(r.Render()))
	})
}
