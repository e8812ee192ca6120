package kenum

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDepthExhausted is the reason given when a molecule is reached
	// with no depth budget left.
	ErrDepthExhausted = errors.New("depth budget exhausted")
	// ErrImplicitAtom is the reason given when an atom's possibility
	// set cannot be enumerated.
	ErrImplicitAtom = errors.New("atom has an implicit possibility set")
)

// UnresolvableError reports that a node could not be enumerated within
// the budget. It is a search outcome, not a failure of the caller.
type UnresolvableError struct {
	Node   string
	Reason error
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("cannot enumerate %s: %v", e.Node, e.Reason)
}

func (e *UnresolvableError) Unwrap() error {
	return e.Reason
}

// RelationError reports that the pending relations of a constructor
// can make no further progress.
type RelationError struct {
	Pending []string
}

func (e *RelationError) Error() string {
	const msg = "relations deadlocked"
	if len(e.Pending) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(e.Pending, ", "))
}

// TimeoutError reports that an enumeration attempt ran out of its time
// budget. Unlike UnresolvableError it may succeed with a larger budget.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("enumeration attempt exceeded budget of %s", e.Budget)
}

// ConfigError reports a registry that cannot serve the enumeration,
// such as an unregistered type or a relation naming a missing path.
type ConfigError struct {
	Type        string
	Constructor string
	Err         error
}

func (e *ConfigError) Error() string {
	if e.Constructor == "" {
		return fmt.Sprintf("type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("type %s constructor %s: %v", e.Type, e.Constructor, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a search outcome that may change
// once more is known: an unresolvable node, a relation deadlock or a
// timeout.
func IsRetryable(err error) bool {
	var (
		u *UnresolvableError
		r *RelationError
		t *TimeoutError
	)
	return errors.As(err, &u) || errors.As(err, &r) || errors.As(err, &t)
}

func IsConfig(err error) bool {
	var c *ConfigError
	return errors.As(err, &c)
}

func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}
