package privilege

import (
	"errors"
	"fmt"
)

// Step names one stage of a privilege drop.
type Step string

const (
	StepGroups Step = "setgroups"
	StepGID    Step = "setgid"
	StepUID    Step = "setuid"
)

// DropError reports a single failed stage of Drop.
type DropError struct {
	Step   Step
	Target int
	Err    error
}

func (e *DropError) Error() string {
	return fmt.Sprintf("privilege drop %s(%d) failed: %v", e.Step, e.Target, e.Err)
}

func (e *DropError) Unwrap() error {
	return e.Err
}

// Drop switches the process to ctx's restore identity. Supplementary groups
// and the gid are changed before the uid, since giving up the uid first
// forfeits the right to change groups.
//
// Every step is attempted even if an earlier one fails. The returned error
// joins one *DropError per failed step, or is nil.
func Drop(ctx Context, sys System) error {
	var errs []error

	// Only root carries supplementary groups worth shedding, and only root
	// may call setgroups.
	if ctx.EffectiveUID == 0 {
		if err := sys.Setgroups([]int{ctx.RestoreGID}); err != nil {
			errs = append(errs, &DropError{Step: StepGroups, Target: ctx.RestoreGID, Err: err})
		}
	}
	if err := sys.Setgid(ctx.RestoreGID); err != nil {
		errs = append(errs, &DropError{Step: StepGID, Target: ctx.RestoreGID, Err: err})
	}
	if err := sys.Setuid(ctx.RestoreUID); err != nil {
		errs = append(errs, &DropError{Step: StepUID, Target: ctx.RestoreUID, Err: err})
	}

	return errors.Join(errs...)
}
