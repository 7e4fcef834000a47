// diagnostics.go provides a thread-safe diagnostic collector, carrying a source range and an
// optional cause so that circular-dependency reports can cite every blocked job's range in
// one report.

package util

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Range identifies a span of source text within a single file.
type Range struct {
	File      string
	FirstLine int
	FirstCol  int
	LastLine  int
	LastCol   int
}

// String formats a range as file:line:col.
func (r Range) String() string {
	if r.File == "" {
		return fmt.Sprintf("%d:%d", r.FirstLine, r.FirstCol)
	}
	return fmt.Sprintf("%s:%d:%d", r.File, r.FirstLine, r.FirstCol)
}

// Diagnostic is a single reported compilation error.
type Diagnostic struct {
	Range   Range
	Message string
	Cause   error // Optional wrapped cause, e.g. the job a circular dependency blocked on.
}

// Error implements the error interface so a Diagnostic can be handled like any other error.
func (d Diagnostic) Error() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", d.Range, d.Message, d.Cause)
	}
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

// Diagnostics is a parallel-safe collector of Diagnostic values, generalising perror.go's
// bare []error buffer.
type Diagnostics struct {
	mx   sync.Mutex
	errs []Diagnostic
}

// ---------------------
// ----- functions -----
// ---------------------

// NewDiagnostics returns an empty Diagnostics collector with room for n pre-allocated slots.
func NewDiagnostics(n int) *Diagnostics {
	if n < 1 {
		n = 16
	}
	return &Diagnostics{errs: make([]Diagnostic, 0, n)}
}

// Report appends a new diagnostic at r describing message, optionally wrapping cause.
func (d *Diagnostics) Report(r Range, message string, cause error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	diag := Diagnostic{Range: r, Message: message}
	if cause != nil {
		diag.Cause = errors.WithStack(cause)
	}
	d.errs = append(d.errs, diag)
}

// Len returns the number of diagnostics reported so far.
func (d *Diagnostics) Len() int {
	d.mx.Lock()
	defer d.mx.Unlock()
	return len(d.errs)
}

// All returns a copy of every diagnostic reported so far, in report order.
func (d *Diagnostics) All() []Diagnostic {
	d.mx.Lock()
	defer d.mx.Unlock()
	out := make([]Diagnostic, len(d.errs))
	copy(out, d.errs)
	return out
}

// Failing reports whether any diagnostic has been recorded.
func (d *Diagnostics) Failing() bool {
	return d.Len() > 0
}
