package enumerator

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/node"
)

var ErrInvalidBudget = errors.New("invalid budget")

// Budget bounds the time a child enumeration may take. When an attempt
// runs out of time it is restarted with its limit multiplied by Factor,
// skipping the results it already delivered; restarting is sound
// because enumeration is deterministic. Attempts caps the number of
// restarts, zero meaning no cap besides the caller's context.
//
// Only time spent producing results is counted, not the time the
// consumer spends between them.
type Budget struct {
	Initial  time.Duration
	Factor   float64
	Attempts int

	now func() time.Time
}

func (b *Budget) validate() error {
	if b.Initial <= 0 || b.Factor <= 1 || b.Attempts < 0 {
		return ErrInvalidBudget
	}
	return nil
}

func (b *Budget) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

func (b *Budget) stream(ctx context.Context, attempt func(context.Context) iter.Seq2[node.Node, error], onTimeout func(limit string)) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		limit := b.Initial
		delivered := 0
		for restarts := 0; ; restarts++ {
			m := &meter{limit: limit, clock: b.clock, parent: meterFrom(ctx)}
			m.resume()
			produced := 0
			retry := false
			for n, err := range attempt(context.WithValue(ctx, meterKey{}, m)) {
				if err != nil {
					if kenum.IsTimeout(err) && m.expired() && interrupted(ctx) == nil && (b.Attempts == 0 || restarts < b.Attempts) {
						retry = true
						break
					}
					yield(nil, err)
					return
				}
				produced++
				if produced <= delivered {
					continue
				}
				delivered++
				m.pause()
				if !yield(n, nil) {
					return
				}
				m.resume()
			}
			if !retry {
				return
			}
			onTimeout(limit.String())
			limit = time.Duration(float64(limit) * b.Factor)
		}
	}
}

type meterKey struct{}

// meter measures the time an attempt has spent running.
type meter struct {
	limit   time.Duration
	spent   time.Duration
	started time.Time
	running bool
	clock   func() time.Time
	parent  *meter
}

func meterFrom(ctx context.Context) *meter {
	m, _ := ctx.Value(meterKey{}).(*meter)
	return m
}

func (m *meter) resume() {
	m.started = m.clock()
	m.running = true
}

func (m *meter) pause() {
	m.spent += m.clock().Sub(m.started)
	m.running = false
}

func (m *meter) elapsed() time.Duration {
	if !m.running {
		return m.spent
	}
	return m.spent + m.clock().Sub(m.started)
}

func (m *meter) expired() bool {
	return m.elapsed() >= m.limit
}

// interrupted returns the error an enumeration under ctx must stop
// with, if any: the context's own error, or a *kenum.TimeoutError once
// the time budget of the attempt or of an enclosing one has run out.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for m := meterFrom(ctx); m != nil; m = m.parent {
		if m.expired() {
			return &kenum.TimeoutError{Budget: m.limit}
		}
	}
	return nil
}
