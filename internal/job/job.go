// job.go implements the cooperative job scheduler: an append-only list of units of pending
// semantic work, driven to a fixed point without a topological pre-pass. Each job suspends by
// returning Waiting(k) and resumes once job k reaches Done; a full scan that advances no job
// terminates the loop, at which point any job still not Done is reported as a circular
// dependency.
//
// The scheduler itself knows nothing about declarations, types or IR — it is pure dispatch
// plumbing, separating mechanism (driving jobs to completion or deadlock) from policy (what
// each job kind actually resolves to). Package compile supplies the Dispatch function that
// interprets each Kind; package job only drives it to completion or deadlock.
package job

import (
	"fmt"
	"strings"

	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the payload carried by a Job.
type Kind int

const (
	ParseFile Kind = iota
	TypeStaticIf
	TypeFunctionDeclaration
	TypePolymorphicFunction
	TypeConstantDefinition
	TypeStructDefinition
	TypePolymorphicStruct
	TypeUnionDefinition
	TypePolymorphicUnion
	TypeEnumDefinition
	TypeFunctionBody
	TypeStaticVariable
)

var kindNames = [...]string{
	"ParseFile", "TypeStaticIf", "TypeFunctionDeclaration", "TypePolymorphicFunction",
	"TypeConstantDefinition", "TypeStructDefinition", "TypePolymorphicStruct",
	"TypeUnionDefinition", "TypePolymorphicUnion", "TypeEnumDefinition", "TypeFunctionBody",
	"TypeStaticVariable",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<unknown job kind>"
}

// State is a job's position in its Working/Waiting/Done lifecycle.
type State int

const (
	Working State = iota
	Waiting
	Done
)

// Job is one discriminated unit of pending semantic work. Payload is
// filled in by the caller that spawned it (package sema); Value is filled in once the job
// reaches Done.
type Job struct {
	ID      int
	Kind    Kind
	Range   util.Range
	Payload interface{}
	Arena   *util.Arena

	State  State
	WaitOn int // Valid when State == Waiting.
	Value  interface{}
}

// Outcome is the three-valued result of dispatching a Working job: Done(T), Waiting(usize),
// or Error.
type Outcome struct {
	done   bool
	err    error
	value  interface{}
	waitOn int
	isWait bool
}

// Ok constructs an Outcome signalling that the job finished with the given value.
func Ok(value interface{}) Outcome { return Outcome{done: true, value: value} }

// Wait constructs an Outcome signalling that the job suspends on the job at index on.
func Wait(on int) Outcome { return Outcome{isWait: true, waitOn: on} }

// Err constructs an Outcome signalling a non-recoverable job error that aborts the whole
// compilation.
func Err(err error) Outcome { return Outcome{err: err} }

// Dispatch is supplied by package compile: given the scheduler (so a job can spawn further
// work) and the Working job to execute, it returns the job's Outcome.
type Dispatch func(s *Scheduler, j *Job) Outcome

// Scheduler owns the append-only job list and drives the fixed-point loop of.
type Scheduler struct {
	jobs     []*Job
	dispatch Dispatch
}

// ---------------------
// ----- functions -----
// ---------------------

// NewScheduler returns an empty Scheduler that interprets Working jobs with dispatch.
func NewScheduler(dispatch Dispatch) *Scheduler {
	return &Scheduler{dispatch: dispatch}
}

// Add appends a new Working job and returns its index. The jobs list is append-only, so an
// index handed out to one job remains valid even as later jobs are spawned mid-scan.
func (s *Scheduler) Add(kind Kind, payload interface{}, r util.Range) int {
	id := len(s.jobs)
	s.jobs = append(s.jobs, &Job{
		ID:      id,
		Kind:    kind,
		Payload: payload,
		Range:   r,
		Arena:   util.NewArena(),
		State:   Working,
	})
	return id
}

// Job returns the job at index id. Indices are stable for the scheduler's lifetime.
func (s *Scheduler) Job(id int) *Job {
	return s.jobs[id]
}

// Len returns the number of jobs spawned so far, including ones spawned during the current
// scan.
func (s *Scheduler) Len() int {
	return len(s.jobs)
}

// CircularDependencyError is returned by Run when the fixed-point loop terminates with one
// or more jobs not Done. It carries every blocked job so the diagnostic layer can report a
// "Here" note at each one's originating source range.
type CircularDependencyError struct {
	Jobs []*Job
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected among unresolved jobs:")
	for _, j := range e.Jobs {
		fmt.Fprintf(&b, "\n  Here: %s (%s) at %s", j.Kind, stateName(j), j.Range)
	}
	return b.String()
}

// CauseFor builds the underlying error explaining why j in particular never reached Done: the
// job it was waiting on (which is itself among e.Jobs, since nothing outside the cycle could
// have left it unresolved) or, for a job still Working, the bare fact that the fixed-point
// loop never dispatched it to completion.
func (e *CircularDependencyError) CauseFor(j *Job) error {
	if j.State == Waiting {
		return fmt.Errorf("job %d (%s) is waiting on job %d, which never reached Done", j.ID, j.Kind, j.WaitOn)
	}
	return fmt.Errorf("job %d (%s) was never dispatched to completion", j.ID, j.Kind)
}

func stateName(j *Job) string {
	if j.State == Waiting {
		return fmt.Sprintf("waiting on job %d", j.WaitOn)
	}
	return "working"
}

// Run drives the fixed-point loop to completion: each scan walks every job in insertion
// order (picking up jobs appended mid-scan, since the slice is only ever appended to),
// clearing a satisfied Waiting job to Working and dispatching every Working job. A scan that
// advances no job terminates the loop. Any job not Done at that point is a circular
// dependency. A job whose dispatch reports Err aborts the whole run immediately: an error is
// not recoverable by waiting longer.
//
// Scanning bounds: the number of scans is bounded by (number of jobs)^2 — each scan either
// finishes at least one job (at most len(jobs) such scans can occur) or is the final,
// work-free scan that detects the fixed point.
func (s *Scheduler) Run() error {
	for {
		progressed := false
		for i1 := 0; i1 < len(s.jobs); i1++ {
			j := s.jobs[i1]
			switch j.State {
			case Done:
				continue
			case Waiting:
				if s.jobs[j.WaitOn].State != Done {
					continue
				}
				j.State = Working
				progressed = true
				fallthrough
			case Working:
				mark := j.Arena.Mark()
				outcome := s.dispatch(s, j)
				switch {
				case outcome.err != nil:
					return outcome.err
				case outcome.isWait:
					j.State = Waiting
					j.WaitOn = outcome.waitOn
					j.Arena.Reset(mark)
				default:
					j.State = Done
					j.Value = outcome.value
				}
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	var unfinished []*Job
	for _, j := range s.jobs {
		if j.State != Done {
			unfinished = append(unfinished, j)
		}
	}
	if len(unfinished) > 0 {
		return &CircularDependencyError{Jobs: unfinished}
	}
	return nil
}
