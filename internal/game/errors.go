package game

import (
	"errors"
	"fmt"
)

// Stage names used in StageError.
const (
	StagePrepare = "prepare"
	StageAdvance = "advance"
	StageBattle  = "combat resolution"
	StageReward  = "reward resolution"
	StageTickets = "ticket replenishment"
	StageWrapUp  = "wrap-up"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrNoEvent        = errors.New("no event is running")
	ErrNoField        = errors.New("event has no fields")
)

// StageError is a failure of one stage of a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// stageErr wraps err with stage unless it already carries one.
func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}
