package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoa-math/kenum/pkg/kenum/config"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/typedata"
)

func TestLoadDefaults(t *testing.T) {
	s, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Settings{
		MaxDepth: 3,
		Memo:     config.MemoSettings{Enabled: true},
		Budget:   config.BudgetSettings{Factor: 2},
	}, *s)
}

func TestLoadFile(t *testing.T) {
	s, err := config.Load("testdata/kenum.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.Settings{
		Dictionary: "testdata/formulas.yaml",
		MaxDepth:   2,
		Memo:       config.MemoSettings{Enabled: true, Capacity: 64},
		Budget:     config.BudgetSettings{Initial: 250 * time.Millisecond, Factor: 4, Attempts: 3},
		Trace:      config.TraceSettings{Enabled: true, Metrics: true},
	}, *s)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("KENUM_MAX_DEPTH", "5")
	t.Setenv("KENUM_MEMO_ENABLED", "false")
	t.Setenv("KENUM_BUDGET_INITIAL", "1s")

	s, err := config.Load("testdata/kenum.yaml")
	require.NoError(t, err)
	assert.Equal(t, 5, s.MaxDepth)
	assert.False(t, s.Memo.Enabled)
	assert.Equal(t, time.Second, s.Budget.Initial)
	assert.Equal(t, 3, s.Budget.Attempts)
}

func TestLoadErrors(t *testing.T) {
	for _, tt := range []struct {
		Name  string
		Path  string
		Error error
	}{
		{
			Name: "missing file",
			Path: "testdata/missing.yaml",
		},
		{
			Name:  "negative depth",
			Path:  "testdata/negative.yaml",
			Error: config.ErrInvalid,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := config.Load(tt.Path)
			require.Error(t, err)
			if tt.Error != nil {
				assert.ErrorIs(t, err, tt.Error)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	for _, tt := range []struct {
		Name     string
		Settings config.Settings
		Count    int
	}{
		{
			Name:     "unbounded memo",
			Settings: config.Settings{Memo: config.MemoSettings{Enabled: true}},
			Count:    0,
		},
		{
			Name:     "bounded memo",
			Settings: config.Settings{Memo: config.MemoSettings{Enabled: true, Capacity: 8}},
			Count:    1,
		},
		{
			Name:     "no memo",
			Settings: config.Settings{},
			Count:    1,
		},
		{
			Name: "budget and tracing",
			Settings: config.Settings{
				Memo:   config.MemoSettings{Enabled: true},
				Budget: config.BudgetSettings{Initial: time.Second, Factor: 2},
				Trace:  config.TraceSettings{Enabled: true, Metrics: true},
			},
			Count: 2,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			options, err := tt.Settings.Options(zap.NewNop(), prometheus.NewRegistry())
			require.NoError(t, err)
			assert.Len(t, options, tt.Count)
		})
	}
}

func TestEnumerator(t *testing.T) {
	s, err := config.Load("testdata/kenum.yaml")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	e, err := s.Enumerator(zap.New(core), reg)
	require.NoError(t, err)

	results, err := e.All(context.Background(), node.NewMolecule("", "WFF"), s.MaxDepth)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.NotZero(t, logs.Len())

	n, err := testutil.GatherAndCount(reg, "kenum_events_total")
	require.NoError(t, err)
	assert.NotZero(t, n)
}

func TestBundledDictionary(t *testing.T) {
	s, err := config.Load("")
	require.NoError(t, err)
	e, err := s.Enumerator(nil, nil)
	require.NoError(t, err)

	results, err := e.All(context.Background(), node.NewMolecule("", typedata.WFFTest), 2)
	require.NoError(t, err)
	assert.Len(t, results, 8)
}
