package tracer_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/tracer"
)

var (
	enter = kenum.Event{
		Run:   "1",
		Phase: kenum.PhaseEnumerate,
		Kind:  kenum.EventEnter,
		Level: 0,
		Depth: 2,
		Node:  "WFF[ANY]()",
	}
	skipped = kenum.Event{
		Run:    "1",
		Phase:  kenum.PhaseFormation,
		Kind:   kenum.EventSkipped,
		Level:  1,
		Depth:  1,
		Node:   "WFF[NEGATION]()",
		Detail: "depth budget exhausted",
	}
)

func TestZapTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := tracer.NewZapTracer(zap.New(core))

	tr.Trace(enter)
	tr.Trace(skipped)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kenum", entries[0].LoggerName)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{
		"run":   "1",
		"phase": "enumerate",
		"kind":  "enter",
		"level": int64(0),
		"depth": int64(2),
		"node":  "WFF[ANY]()",
	}, entries[0].ContextMap())
	assert.Equal(t, "depth budget exhausted", entries[1].ContextMap()["detail"])
}

func TestZapTracerBelowLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tracer.NewZapTracer(zap.New(core)).Trace(enter)
	assert.Zero(t, logs.Len())
}

func TestZapTracerNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		tracer.NewZapTracer(nil).Trace(enter)
	})
}

func TestMetricsTracer(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr, err := tracer.NewMetricsTracer(reg)
	require.NoError(t, err)

	tr.Trace(enter)
	tr.Trace(enter)
	tr.Trace(skipped)

	expected := `
# HELP kenum_events_total Enumeration events by phase and kind.
# TYPE kenum_events_total counter
kenum_events_total{kind="enter",phase="enumerate"} 2
kenum_events_total{kind="skipped",phase="formation"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "kenum_events_total"))

	again, err := tracer.NewMetricsTracer(reg)
	require.NoError(t, err)
	again.Trace(enter)
	n, err := testutil.GatherAndCount(reg, "kenum_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(strings.Replace(expected, "} 2", "} 3", 1)), "kenum_events_total"))
}

func TestMulti(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	metrics, err := tracer.NewMetricsTracer(reg)
	require.NoError(t, err)

	tracer.Multi{tracer.NewZapTracer(zap.New(core)), metrics}.Trace(skipped)

	assert.Equal(t, 1, logs.Len())
	n, err := testutil.GatherAndCount(reg, "kenum_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
