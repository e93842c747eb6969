package wakeup

import "fmt"

// Stage identifies the step of a run that failed. Its value is the process
// exit status for that failure.
type Stage int

const (
	StageUsage   Stage = 1
	StageParse   Stage = 2
	StageAlarm   Stage = 3
	StageSuspend Stage = 4
)

func (s Stage) String() string {
	switch s {
	case StageUsage:
		return "usage"
	case StageParse:
		return "parse"
	case StageAlarm:
		return "alarm"
	case StageSuspend:
		return "suspend"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for the failed stage.
func (e *StageError) ExitCode() int {
	return int(e.Stage)
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
