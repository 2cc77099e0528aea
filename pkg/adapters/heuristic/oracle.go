package heuristic

import (
	"context"
	"fmt"
	"strings"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// Oracle reviews a decision against the evidence it is supposed to be
// grounded in. It flags overconfident proposals and rationales that do
// not cite the debate synthesis, producing the revise verdicts the
// feedback loop exists to handle.
type Oracle struct {
	confidenceCeiling float64
}

// OracleOption configures the oracle.
type OracleOption func(*Oracle)

// WithConfidenceCeiling sets the confidence above which a decision is
// sent back for revision.
func WithConfidenceCeiling(ceiling float64) OracleOption {
	return func(o *Oracle) {
		o.confidenceCeiling = ceiling
	}
}

// NewOracle creates the offline reflection oracle.
func NewOracle(opts ...OracleOption) *Oracle {
	o := &Oracle{confidenceCeiling: 0.85}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Review accepts the decision or returns a revise verdict with the
// reasons the proposal fell short.
func (o *Oracle) Review(_ context.Context, req ports.ReviewRequest) (domain.Verdict, error) {
	var reasons []string

	if req.Decision.Rationale == "" {
		reasons = append(reasons, "rationale is empty")
	}
	if req.Decision.Confidence > o.confidenceCeiling {
		reasons = append(reasons, fmt.Sprintf(
			"confidence %.2f exceeds what the evidence supports; cap it at %.2f and cite the reports",
			req.Decision.Confidence, o.confidenceCeiling))
	}
	if req.Synthesis != "" && !strings.Contains(req.Decision.Rationale, req.Synthesis) {
		reasons = append(reasons, "rationale does not reference the debate synthesis")
	}

	if len(reasons) > 0 {
		return domain.Verdict{Outcome: domain.VerdictRevise, Reasons: reasons}, nil
	}
	return domain.Verdict{Outcome: domain.VerdictAccept}, nil
}
