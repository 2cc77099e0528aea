package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContractViolation marks errors caused by a stage breaking its
// declared contract (overlapping write-sets, undeclared writes,
// malformed verdicts). Never retried.
var ErrContractViolation = errors.New("contract violation")

// ErrInvalidConfig marks fatal composition-time configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// ContractError describes a specific contract violation.
type ContractError struct {
	Stage  string
	Reason string
}

func (e *ContractError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("contract violation: %s", e.Reason)
	}
	return fmt.Sprintf("contract violation in stage %s: %s", e.Stage, e.Reason)
}

func (e *ContractError) Unwrap() error { return ErrContractViolation }

// ConfigError describes an invalid pipeline configuration, detected at
// driver construction time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// StageError wraps a failure raised by a stage's computation, including
// timeouts. It identifies the failing stage so callers can diagnose it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// GroupError aggregates every member failure of a fan-out group, not
// just the first, in the group's declaration order.
type GroupError struct {
	Group  string
	Errors []*StageError
}

func (e *GroupError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("group %s: %d stage(s) failed: %s", e.Group, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the member errors to errors.Is / errors.As.
func (e *GroupError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// PipelineError is the structured error returned by the driver. Phase
// identifies the topology unit that failed.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
