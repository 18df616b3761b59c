package tracking

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tychoish/lazy/ers"
)

// OTel is a tracker that records the state of one memoized sequence
// with OpenTelemetry instruments. Every measurement carries the
// "sequence" attribute.
type OTel struct {
	attrs metric.MeasurementOption

	consumers metric.Int64UpDownCounter
	retained  metric.Int64UpDownCounter
	admitted  metric.Int64Counter
	rejected  metric.Int64Counter
	released  metric.Int64Counter
	buffered  metric.Int64Counter
	evicted   metric.Int64Counter

	live atomic.Int64
	held atomic.Int64
}

// NewOTel creates the instruments of a tracker on the given meter.
func NewOTel(meter metric.Meter, name string) (*OTel, error) {
	if meter == nil {
		return nil, ers.Wrap(ers.ErrInvalidArgument, "cannot use a nil meter")
	}

	o := &OTel{attrs: metric.WithAttributes(attribute.String("sequence", name))}

	var err error
	if o.consumers, err = meter.Int64UpDownCounter("replay.consumers",
		metric.WithDescription("Number of live cursors"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.consumers gauge: %w", err)
	}
	if o.retained, err = meter.Int64UpDownCounter("replay.retained",
		metric.WithDescription("Number of buffered values"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.retained gauge: %w", err)
	}
	if o.admitted, err = meter.Int64Counter("replay.consumers.admitted",
		metric.WithDescription("Cursors acquired"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.consumers.admitted counter: %w", err)
	}
	if o.rejected, err = meter.Int64Counter("replay.consumers.rejected",
		metric.WithDescription("Cursor acquisitions rejected by the consumer limit"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.consumers.rejected counter: %w", err)
	}
	if o.released, err = meter.Int64Counter("replay.consumers.released",
		metric.WithDescription("Cursors that finished or were returned early"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.consumers.released counter: %w", err)
	}
	if o.buffered, err = meter.Int64Counter("replay.entries.buffered",
		metric.WithDescription("Values pulled from the source"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.entries.buffered counter: %w", err)
	}
	if o.evicted, err = meter.Int64Counter("replay.entries.evicted",
		metric.WithDescription("Values dropped after every reader passed them"),
	); err != nil {
		return nil, fmt.Errorf("creating replay.entries.evicted counter: %w", err)
	}

	return o, nil
}

// setConsumers and setRetained convert the absolute values reported
// by the buffer into up/down counter deltas.
func (o *OTel) setConsumers(live int) {
	o.consumers.Add(context.Background(), int64(live)-o.live.Swap(int64(live)), o.attrs)
}

func (o *OTel) setRetained(retained int) {
	o.retained.Add(context.Background(), int64(retained)-o.held.Swap(int64(retained)), o.attrs)
}

func (o *OTel) ConsumerAdmitted(live int) {
	o.admitted.Add(context.Background(), 1, o.attrs)
	o.setConsumers(live)
}

func (o *OTel) ConsumerRejected(int) { o.rejected.Add(context.Background(), 1, o.attrs) }

func (o *OTel) ConsumerReleased(live int, early bool) {
	o.released.Add(context.Background(), 1, o.attrs, metric.WithAttributes(attribute.Bool("early", early)))
	o.setConsumers(live)
}

func (o *OTel) EntryBuffered(_, retained int) {
	o.buffered.Add(context.Background(), 1, o.attrs)
	o.setRetained(retained)
}

func (o *OTel) EntryEvicted(_, retained int) {
	o.evicted.Add(context.Background(), 1, o.attrs)
	o.setRetained(retained)
}
