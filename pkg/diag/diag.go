// Package diag implements the ordered diagnostic list shared by the lexer,
// parser and AST->IR lowering pass. Only a Fatal
// diagnostic stops work; everything else accumulates so a single compile
// invocation can surface as many problems as possible.
package diag

import (
	"fmt"
	"strings"

	"github.com/kryonlabs/kryon-core/pkg/token"
)

// Severity ranks a diagnostic; only Fatal stops work.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Category groups a diagnostic by the stage that produced it.
type Category string

const (
	IO           Category = "io"
	Syntax       Category = "syntax"
	Validation   Category = "validation"
	Conversion   Category = "conversion"
	Resource     Category = "resource"
	RuntimeVM    Category = "runtime_vm"
)

// Diagnostic is one accumulated problem.
type Diagnostic struct {
	Severity Severity
	Category Category
	Pos      token.Position
	Message  string
	Context  string // optional, e.g. a "did you mean" suggestion
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		if d.Context != "" {
			return fmt.Sprintf("%s at line %d:%d: %s (%s)", d.Severity, d.Pos.Line, d.Pos.Column, d.Message, d.Context)
		}
		return fmt.Sprintf("%s at line %d:%d: %s", d.Severity, d.Pos.Line, d.Pos.Column, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// List is an ordered, append-only diagnostic accumulator. The zero value
// is ready to use.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic with no extra context.
func (l *List) Add(sev Severity, cat Category, pos token.Position, format string, args ...interface{}) {
	l.items = append(l.items, Diagnostic{
		Severity: sev,
		Category: cat,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddWithContext appends a diagnostic carrying a suggestion/context string.
func (l *List) AddWithContext(sev Severity, cat Category, pos token.Position, context, format string, args ...interface{}) {
	l.items = append(l.items, Diagnostic{
		Severity: sev,
		Category: cat,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
		Context:  context,
	})
}

// Append absorbs the diagnostics of another list, preserving order.
func (l *List) Append(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Items returns the accumulated diagnostics in emission order.
func (l *List) Items() []Diagnostic {
	return l.items
}

// Len reports how many diagnostics have been recorded.
func (l *List) Len() int {
	return len(l.items)
}

// HasFatal reports whether any accumulated diagnostic is Fatal — the only
// severity that stops a compile.
func (l *List) HasFatal() bool {
	for _, d := range l.items {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

// HasErrors reports whether any diagnostic is Error or Fatal.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error || d.Severity == Fatal {
			return true
		}
	}
	return false
}

// Report formats the list as a multi-line report, one
// "<severity> at line <L>:<C>: <message>" entry per diagnostic.
func (l *List) Report() string {
	var b strings.Builder
	for i, d := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.String())
	}
	return b.String()
}
