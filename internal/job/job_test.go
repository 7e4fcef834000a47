package job

import (
	"errors"
	"testing"

	"corec/internal/util"
)

// TestRunSimpleChain verifies a Waiting job is retried within one additional scan once its
// target reaches Done.
func TestRunSimpleChain(t *testing.T) {
	var target int
	dispatch := func(s *Scheduler, j *Job) Outcome {
		switch j.Payload.(string) {
		case "waiter":
			if s.Job(target).State != Done {
				return Wait(target)
			}
			return Ok("waiter-done")
		case "target":
			return Ok(42)
		}
		return Err(errors.New("unknown payload"))
	}
	s := NewScheduler(dispatch)
	waiter := s.Add(TypeConstantDefinition, "waiter", util.Range{})
	target = s.Add(TypeConstantDefinition, "target", util.Range{})

	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if s.Job(waiter).State != Done {
		t.Error("waiter job did not reach Done")
	}
	if s.Job(waiter).Value != "waiter-done" {
		t.Errorf("waiter job value = %v, want %q", s.Job(waiter).Value, "waiter-done")
	}
}

// TestRunSpawnsDuringScan verifies a job dispatched mid-scan can spawn a new job that is
// itself picked up within the same Run, since the jobs slice is append-only and scanned by
// index rather than by a pre-captured range.
func TestRunSpawnsDuringScan(t *testing.T) {
	spawned := false
	dispatch := func(s *Scheduler, j *Job) Outcome {
		if j.Payload.(string) == "spawner" {
			if !spawned {
				spawned = true
				id := s.Add(TypeConstantDefinition, "spawned", util.Range{})
				return Wait(id)
			}
			return Ok("spawner-done")
		}
		return Ok("spawned-done")
	}
	s := NewScheduler(dispatch)
	s.Add(TypeConstantDefinition, "spawner", util.Range{})

	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	for i1 := 0; i1 < s.Len(); i1++ {
		if s.Job(i1).State != Done {
			t.Errorf("job %d not Done", i1)
		}
	}
}

// TestRunCircularDependency verifies two jobs waiting on each other are reported as a
// circular dependency citing both ranges, rather than looping forever.
func TestRunCircularDependency(t *testing.T) {
	var a, b int
	dispatch := func(s *Scheduler, j *Job) Outcome {
		switch j.ID {
		case a:
			return Wait(b)
		case b:
			return Wait(a)
		}
		return Err(errors.New("unreachable"))
	}
	s := NewScheduler(dispatch)
	a = s.Add(TypeConstantDefinition, "a", util.Range{File: "x.vsl", FirstLine: 1})
	b = s.Add(TypeConstantDefinition, "b", util.Range{File: "x.vsl", FirstLine: 2})

	err := s.Run()
	if err == nil {
		t.Fatal("Run() = nil, want circular dependency error")
	}
	var cde *CircularDependencyError
	if !errors.As(err, &cde) {
		t.Fatalf("Run() error = %T, want *CircularDependencyError", err)
	}
	if len(cde.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(cde.Jobs))
	}
}

// TestRunErrorAborts verifies a job reporting Err aborts the whole run immediately, rather
// than being retried or treated as a deadlock.
func TestRunErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	dispatch := func(s *Scheduler, j *Job) Outcome {
		return Err(boom)
	}
	s := NewScheduler(dispatch)
	s.Add(TypeConstantDefinition, "x", util.Range{})
	if err := s.Run(); !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want %v", err, boom)
	}
}

// TestRunDeterministicOrder verifies that the order jobs reach Done is a deterministic
// function of insertion order for independent, immediately-resolvable jobs (
// "Determinism").
func TestRunDeterministicOrder(t *testing.T) {
	var order []int
	dispatch := func(s *Scheduler, j *Job) Outcome {
		order = append(order, j.ID)
		return Ok(nil)
	}
	s := NewScheduler(dispatch)
	for i1 := 0; i1 < 5; i1++ {
		s.Add(TypeConstantDefinition, i1, util.Range{})
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	for i1, id := range order {
		if id != i1 {
			t.Fatalf("order = %v, want strictly increasing from 0", order)
		}
	}
}
