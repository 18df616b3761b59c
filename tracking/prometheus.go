package tracking

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tychoish/lazy/ers"
)

const promSubsystem = "replay"

// Prometheus is a tracker that exports the state of one memoized
// sequence as metrics. The sequence is identified by the "sequence"
// constant label.
type Prometheus struct {
	consumers prometheus.Gauge
	retained  prometheus.Gauge
	admitted  prometheus.Counter
	rejected  prometheus.Counter
	released  *prometheus.CounterVec
	buffered  prometheus.Counter
	evicted   prometheus.Counter
}

// NewPrometheus constructs a tracker and registers its collectors
// with reg. Registering two trackers with the same namespace and
// sequence name on one registry fails.
func NewPrometheus(namespace, name string, reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		return nil, ers.Wrap(ers.ErrInvalidArgument, "cannot use a nil registerer")
	}

	labels := prometheus.Labels{"sequence": name}

	p := &Prometheus{
		consumers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "consumers",
			Help:        "Number of live cursors.",
			ConstLabels: labels,
		}),
		retained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "retained_entries",
			Help:        "Number of buffered values.",
			ConstLabels: labels,
		}),
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "consumers_admitted_total",
			Help:        "Cursors acquired.",
			ConstLabels: labels,
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "consumers_rejected_total",
			Help:        "Cursor acquisitions rejected by the consumer limit.",
			ConstLabels: labels,
		}),
		released: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "consumers_released_total",
			Help:        "Cursors that finished or were returned early.",
			ConstLabels: labels,
		}, []string{"early"}),
		buffered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "entries_buffered_total",
			Help:        "Values pulled from the source.",
			ConstLabels: labels,
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   promSubsystem,
			Name:        "entries_evicted_total",
			Help:        "Values dropped after every reader passed them.",
			ConstLabels: labels,
		}),
	}

	if err := ers.Join(
		reg.Register(p.consumers),
		reg.Register(p.retained),
		reg.Register(p.admitted),
		reg.Register(p.rejected),
		reg.Register(p.released),
		reg.Register(p.buffered),
		reg.Register(p.evicted),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Prometheus) ConsumerAdmitted(live int) {
	p.admitted.Inc()
	p.consumers.Set(float64(live))
}

func (p *Prometheus) ConsumerRejected(int) { p.rejected.Inc() }

func (p *Prometheus) ConsumerReleased(live int, early bool) {
	p.released.WithLabelValues(strconv.FormatBool(early)).Inc()
	p.consumers.Set(float64(live))
}

func (p *Prometheus) EntryBuffered(_, retained int) {
	p.buffered.Inc()
	p.retained.Set(float64(retained))
}

func (p *Prometheus) EntryEvicted(_, retained int) {
	p.evicted.Inc()
	p.retained.Set(float64(retained))
}
