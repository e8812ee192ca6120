package enumerator

import (
	"fmt"
	"io"
	"strings"

	"github.com/khoa-math/kenum/pkg/kenum"
)

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ kenum.Event) {
}

// LoggingTracer writes one line per event, indented by the nesting of
// the enumeration that emitted it, so that the output reads as a call
// tree.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(e kenum.Event) {
	fmt.Fprintf(t.Writer, "%s%s %s depth=%d %s", strings.Repeat("  ", e.Level), e.Phase, e.Kind, e.Depth, e.Node)
	if e.Detail != "" {
		fmt.Fprintf(t.Writer, ": %s", e.Detail)
	}
	fmt.Fprintln(t.Writer)
}
