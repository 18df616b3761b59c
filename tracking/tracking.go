// Package tracking provides lazy.ReplayTracker implementations that
// report the lifecycle of memoized sequences to structured logs
// (zerolog), to Prometheus metrics, and to OpenTelemetry meters.
//
// Attach a tracker when constructing the sequence:
//
//	tracker, err := tracking.NewPrometheus("myapp", "messages", prometheus.DefaultRegisterer)
//	// ...
//	shared, err := seq.Memoize(
//		lazy.MemoizeConfConsumerLimit(4),
//		lazy.MemoizeConfTracker(tracking.Multi(tracker, tracking.Logger(log.Logger))),
//	)
package tracking

import "github.com/tychoish/lazy"

type multi []lazy.ReplayTracker

// Multi combines several trackers into one, which calls each of them
// in order. Nil trackers are skipped.
func Multi(trackers ...lazy.ReplayTracker) lazy.ReplayTracker {
	out := make(multi, 0, len(trackers))
	for _, tr := range trackers {
		if tr != nil {
			out = append(out, tr)
		}
	}
	return out
}

func (m multi) ConsumerAdmitted(live int) {
	for _, tr := range m {
		tr.ConsumerAdmitted(live)
	}
}

func (m multi) ConsumerRejected(limit int) {
	for _, tr := range m {
		tr.ConsumerRejected(limit)
	}
}

func (m multi) ConsumerReleased(live int, early bool) {
	for _, tr := range m {
		tr.ConsumerReleased(live, early)
	}
}

func (m multi) EntryBuffered(index, retained int) {
	for _, tr := range m {
		tr.EntryBuffered(index, retained)
	}
}

func (m multi) EntryEvicted(index, retained int) {
	for _, tr := range m {
		tr.EntryEvicted(index, retained)
	}
}
