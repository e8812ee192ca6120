package kenum

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseEnumerate Phase = "enumerate"
	PhaseFormation Phase = "formation"
	PhaseRelation  Phase = "relation"
	PhaseFinishing Phase = "finishing"
)

type EventKind string

const (
	EventEnter        EventKind = "enter"
	EventConstructor  EventKind = "constructor"
	EventSkipped      EventKind = "skipped"
	EventRejected     EventKind = "rejected"
	EventApplied      EventKind = "applied"
	EventDeferred     EventKind = "deferred"
	EventDeadlock     EventKind = "deadlock"
	EventInconsistent EventKind = "inconsistent"
	EventMemoHit      EventKind = "memo-hit"
	EventTimeout      EventKind = "timeout"
	EventYield        EventKind = "yield"
	EventUnresolvable EventKind = "unresolvable"
)

// Event describes one step of an enumeration. Level is the nesting of
// the recursive calls that led to it, Depth the budget left.
type Event struct {
	Run    string
	Phase  Phase
	Kind   EventKind
	Level  int
	Depth  int
	Node   string
	Detail string
}

type Tracer interface {
	Trace(e Event)
}

// RunIDProvider names top-level enumerations so that their events can
// be told apart.
type RunIDProvider interface {
	NextRunID() string
}

type UUIDProviderFn func() (uuid.UUID, error)

type UUIDRunIDProvider struct {
	nextUUIDFn UUIDProviderFn
}

func NewUUIDRunIDProvider() *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: func() (uuid.UUID, error) { return uuid.NewRandom() },
	}
}

func NewCustomUUIDRunIDProvider(nextUUIDFn UUIDProviderFn) *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: nextUUIDFn,
	}
}

func (p *UUIDRunIDProvider) NextRunID() string {
	id, err := p.nextUUIDFn()
	if err != nil {
		return "run-error-" + err.Error()
	}
	return id.String()
}

// IncreasingRunIDProvider hands out 1, 2, 3...
type IncreasingRunIDProvider struct {
	id int64
}

func (p *IncreasingRunIDProvider) NextRunID() string {
	return strconv.FormatInt(atomic.AddInt64(&p.id, 1), 10)
}
