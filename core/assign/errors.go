package assign

import (
	"errors"
	"fmt"

	"github.com/kilianp07/legassign/core/model"
)

// Error kinds reported by a planning run. ErrParse and ErrModelSize abort
// before the solver is called; ErrInfeasible and ErrSolver abort after it.
var (
	ErrParse      = errors.New("parse error")
	ErrModelSize  = errors.New("model size error")
	ErrInfeasible = errors.New("no assignment satisfies coverage and capacity")
	ErrSolver     = errors.New("solver error")

	// ErrDuplicateID is wrapped in a ParseError when an identifier repeats.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrMissingColumn is wrapped in a ParseError when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// ParseError locates a malformed input value. Row is 1-based and counts the
// header line, matching what an editor shows; zero means the whole file.
type ParseError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("%s: column %s: %v", e.File, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Row, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ParseError as an ErrParse kind.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// solverError formats a failure of the solver as an ErrSolver kind.
func solverError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSolver, fmt.Sprintf(format, args...))
}

// StatusOf maps a run error to the plan status recorded for it.
func StatusOf(err error) model.PlanStatus {
	switch {
	case err == nil:
		return model.StatusOptimal
	case errors.Is(err, ErrParse):
		return model.StatusParseError
	case errors.Is(err, ErrModelSize):
		return model.StatusModelSizeError
	case errors.Is(err, ErrInfeasible):
		return model.StatusInfeasible
	default:
		return model.StatusSolverError
	}
}
