package generator

import (
	"errors"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
)

// Status is the result of processing one definition file
type Status string

const (
	StatusWritten Status = "written"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one definition file
type Outcome struct {
	Source string
	Kind   types.Kind
	Status Status
	// Output is set for written files
	Output string
	// Err is the skip reason or the failure cause
	Err error
}

// Summary aggregates the outcomes of one Generate run
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Written   []string
	Outcomes  []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusWritten:
		s.Processed++
		s.Written = append(s.Written, o.Output)
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of definition files seen
func (s *Summary) Total() int {
	return len(s.Outcomes)
}

// Err joins the per-file failures, nil when none failed
func (s *Summary) Err() error {
	var errs []error
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
