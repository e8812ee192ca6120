// Package config reads enumerator settings from a YAML file and the
// environment and turns them into enumerator options.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/cache"
	"github.com/khoa-math/kenum/pkg/kenum/enumerator"
	"github.com/khoa-math/kenum/pkg/kenum/registry"
	"github.com/khoa-math/kenum/pkg/kenum/tracer"
	"github.com/khoa-math/kenum/pkg/kenum/typedata"
)

const EnvPrefix = "KENUM"

var ErrInvalid = errors.New("invalid configuration")

type Settings struct {
	// Dictionary is the path of a YAML type dictionary. The bundled
	// dictionaries are used when it is empty.
	Dictionary string         `mapstructure:"dictionary"`
	MaxDepth   int            `mapstructure:"max_depth"`
	Memo       MemoSettings   `mapstructure:"memo"`
	Budget     BudgetSettings `mapstructure:"budget"`
	Trace      TraceSettings  `mapstructure:"trace"`
}

type MemoSettings struct {
	Enabled bool `mapstructure:"enabled"`
	// Capacity bounds the number of memo entries, zero meaning
	// unbounded.
	Capacity int `mapstructure:"capacity"`
}

// BudgetSettings enables the time budget when Initial is positive.
type BudgetSettings struct {
	Initial  time.Duration `mapstructure:"initial"`
	Factor   float64       `mapstructure:"factor"`
	Attempts int           `mapstructure:"attempts"`
}

type TraceSettings struct {
	Enabled bool `mapstructure:"enabled"`
	Metrics bool `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dictionary", "")
	v.SetDefault("max_depth", 3)
	v.SetDefault("memo.enabled", true)
	v.SetDefault("memo.capacity", 0)
	v.SetDefault("budget.initial", time.Duration(0))
	v.SetDefault("budget.factor", 2.0)
	v.SetDefault("budget.attempts", 0)
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.metrics", false)
}

// Load reads settings from the YAML file at path, if path is not empty,
// with KENUM_ environment variables taking precedence: KENUM_MAX_DEPTH
// overrides max_depth, KENUM_BUDGET_INITIAL overrides budget.initial.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if s.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must not be negative, got %d", ErrInvalid, s.MaxDepth)
	}
	if s.Memo.Capacity < 0 {
		return fmt.Errorf("%w: memo.capacity must not be negative, got %d", ErrInvalid, s.Memo.Capacity)
	}
	if s.Budget.Initial < 0 {
		return fmt.Errorf("%w: budget.initial must not be negative, got %s", ErrInvalid, s.Budget.Initial)
	}
	return nil
}

// Registry loads the configured dictionary.
func (s *Settings) Registry() (registry.Registry, error) {
	if s.Dictionary == "" {
		return typedata.Registry(), nil
	}
	return registry.Load(s.Dictionary, registry.NewCatalog())
}

// Options translates the settings into enumerator options. Events are
// logged to logger when tracing is enabled and counted in reg when
// metrics are; either may be nil to disable that output.
func (s *Settings) Options(logger *zap.Logger, reg prometheus.Registerer) ([]enumerator.Option, error) {
	var options []enumerator.Option

	switch {
	case !s.Memo.Enabled:
		options = append(options, enumerator.WithoutMemo())
	case s.Memo.Capacity > 0:
		c, err := cache.NewLRUCache[kenum.MemoEntry](s.Memo.Capacity)
		if err != nil {
			return nil, err
		}
		options = append(options, enumerator.WithMemo(c))
	}

	if s.Budget.Initial > 0 {
		options = append(options, enumerator.WithBudget(s.Budget.Initial, s.Budget.Factor, s.Budget.Attempts))
	}

	var tracers tracer.Multi
	if s.Trace.Enabled && logger != nil {
		tracers = append(tracers, tracer.NewZapTracer(logger))
	}
	if s.Trace.Metrics && reg != nil {
		m, err := tracer.NewMetricsTracer(reg)
		if err != nil {
			return nil, err
		}
		tracers = append(tracers, m)
	}
	switch len(tracers) {
	case 0:
	case 1:
		options = append(options, enumerator.WithTracer(tracers[0]))
	default:
		options = append(options, enumerator.WithTracer(tracers))
	}

	return options, nil
}

// Enumerator builds an enumerator from the settings.
func (s *Settings) Enumerator(logger *zap.Logger, reg prometheus.Registerer) (*enumerator.Enumerator, error) {
	r, err := s.Registry()
	if err != nil {
		return nil, err
	}
	options, err := s.Options(logger, reg)
	if err != nil {
		return nil, err
	}
	return enumerator.New(r, options...)
}
