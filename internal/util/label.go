// label.go generates unique auto-names for static constants interned during IR generation.
// The job scheduler is single-threaded, so a bare counter suffices and no goroutine or
// channel is needed to serialise name allocation.

package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Namer hands out unique names for auto-generated static constants.
type Namer struct {
	prefix string
	next   int
}

// ---------------------
// ----- functions -----
// ---------------------

// NewNamer returns a Namer that generates names of the form prefix_NNN.
func NewNamer(prefix string) *Namer {
	return &Namer{prefix: prefix}
}

// Next returns the next unique name and advances the counter.
func (n *Namer) Next() string {
	s := fmt.Sprintf("%s_%03d", n.prefix, n.next)
	n.next++
	return s
}
