// Package tracer provides kenum.Tracer implementations that forward
// enumeration events to a structured logger or to Prometheus.
package tracer

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/khoa-math/kenum/pkg/kenum"
)

// ZapTracer logs every event at debug level.
type ZapTracer struct {
	Logger *zap.Logger
}

var _ kenum.Tracer = ZapTracer{}

func NewZapTracer(l *zap.Logger) ZapTracer {
	if l == nil {
		l = zap.NewNop()
	}
	return ZapTracer{Logger: l.Named("kenum")}
}

func (t ZapTracer) Trace(e kenum.Event) {
	fields := []zap.Field{
		zap.String("run", e.Run),
		zap.String("phase", string(e.Phase)),
		zap.String("kind", string(e.Kind)),
		zap.Int("level", e.Level),
		zap.Int("depth", e.Depth),
		zap.String("node", e.Node),
	}
	if e.Detail != "" {
		fields = append(fields, zap.String("detail", e.Detail))
	}
	t.Logger.Debug("enumeration event", fields...)
}

// MetricsTracer counts events by phase and kind.
type MetricsTracer struct {
	events *prometheus.CounterVec
}

var _ kenum.Tracer = &MetricsTracer{}

// NewMetricsTracer registers the kenum_events_total counter with reg.
// Registering twice with the same registerer reuses the existing
// counter.
func NewMetricsTracer(reg prometheus.Registerer) (*MetricsTracer, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kenum_events_total",
		Help: "Enumeration events by phase and kind.",
	}, []string{"phase", "kind"})
	if err := reg.Register(events); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		events = existing
	}
	return &MetricsTracer{events: events}, nil
}

func (t *MetricsTracer) Trace(e kenum.Event) {
	t.events.WithLabelValues(string(e.Phase), string(e.Kind)).Inc()
}

// Multi fans each event out to every tracer in order.
type Multi []kenum.Tracer

func (m Multi) Trace(e kenum.Event) {
	for _, t := range m {
		t.Trace(e)
	}
}
