package ports

import (
	"context"

	"synod/pkg/domain"
)

// AnalysisRequest carries everything an analyzer needs to produce a
// report or argument for one role.
type AnalysisRequest struct {
	// Role identifies the perspective: "technical", "sentiment",
	// "news", "fundamentals", "bull", "bear", "judge", "risk".
	Role string

	// Instrument is the identifier under analysis.
	Instrument string

	// Inputs are the upstream texts the role conditions on, keyed by
	// context field name (analyst reports, debate transcript, ...).
	Inputs map[string]string
}

// Analyzer produces the textual content of an analysis or debate stage.
// Implementations may call out to any data source or inference service;
// the kernel and the stages treat them as opaque.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, req AnalysisRequest) (string, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, req AnalysisRequest) (string, error) {
	return f(ctx, req)
}

// DecisionRequest is the trader's input: the instrument plus the merged
// upstream material, including the prior critique when the decision is
// being revised.
type DecisionRequest struct {
	Instrument    string
	Synthesis     string
	RiskReport    string
	Reports       map[string]string
	PriorCritique string
}

// Trader turns the accumulated analysis into a trading decision.
type Trader interface {
	Decide(ctx context.Context, req DecisionRequest) (domain.FinalDecision, error)
}

// ReviewRequest is the reflection oracle's input: the decision under
// review and the evidence it should be grounded in.
type ReviewRequest struct {
	Instrument string
	Decision   domain.FinalDecision
	Synthesis  string
	Reports    map[string]string
}

// ReflectionOracle checks a decision for unsupported claims and emits
// the accept/revise verdict. It is an external, possibly imperfect
// oracle: the kernel fixes the control flow around it, not its accuracy.
type ReflectionOracle interface {
	Review(ctx context.Context, req ReviewRequest) (domain.Verdict, error)
}
