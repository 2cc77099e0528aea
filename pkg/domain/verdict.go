package domain

import "fmt"

// VerdictOutcome is the binary result of the verdict gate.
type VerdictOutcome string

const (
	VerdictAccept VerdictOutcome = "accept"
	VerdictRevise VerdictOutcome = "revise"
)

// Verdict is produced once per feedback iteration. It is consumed by the
// feedback controller and recorded in the retry history, never merged
// back into the shared context.
type Verdict struct {
	Outcome VerdictOutcome `json:"outcome"`
	Reasons []string       `json:"reasons,omitempty"`
}

// Validate checks the gate's output contract: a known outcome, and a
// non-empty reason list when the outcome is revise.
func (v Verdict) Validate() error {
	switch v.Outcome {
	case VerdictAccept:
		return nil
	case VerdictRevise:
		if len(v.Reasons) == 0 {
			return &ContractError{Reason: "revise verdict carries no reasons"}
		}
		return nil
	default:
		return &ContractError{Reason: fmt.Sprintf("unknown verdict outcome %q", v.Outcome)}
	}
}

// RetryState tracks the feedback controller's progress through its
// bounded loop. It is created at pipeline start and returned with the
// outcome; nothing survives across separate runs.
type RetryState struct {
	Attempt     int       `json:"attempt"`
	MaxAttempts int       `json:"max_attempts"`
	History     []Verdict `json:"history,omitempty"`
}
