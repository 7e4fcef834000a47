// pending.go tracks static-if jobs that have not yet resolved, so that Lookup (lookup.go)
// can suspend a name lookup that might be shadowed by a still-unresolved branch instead of
// reporting a false "undefined reference".
package scope

// PendingStaticIf records one not-yet-resolved static-if nested directly in a Scope.
type PendingStaticIf struct {
	JobID int
	Names map[string]bool // Names the branch would declare if taken; conservative superset is fine.
}

// AddPendingStaticIf registers a pending static-if job on s.
func (s *Scope) AddPendingStaticIf(jobID int, names []string) {
	nm := make(map[string]bool, len(names))
	for _, n := range names {
		nm[n] = true
	}
	s.PendingStaticIfs = append(s.PendingStaticIfs, PendingStaticIf{JobID: jobID, Names: nm})
}

// ResolvePendingStaticIf removes jobID from the pending list once its job reaches Done.
func (s *Scope) ResolvePendingStaticIf(jobID int) {
	out := s.PendingStaticIfs[:0]
	for _, p := range s.PendingStaticIfs {
		if p.JobID != jobID {
			out = append(out, p)
		}
	}
	s.PendingStaticIfs = out
}
