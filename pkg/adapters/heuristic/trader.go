package heuristic

import (
	"context"
	"fmt"
	"strings"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// Trader derives a final decision from the debate synthesis and the
// risk report. The first proposal is deliberately overconfident; when
// a prior critique is present it revises toward a grounded rationale
// with tempered confidence, which lets the feedback loop converge.
type Trader struct {
	baseConfidence    float64
	revisedConfidence float64
}

// TraderOption configures the trader.
type TraderOption func(*Trader)

// WithConfidence overrides the confidence levels for the first
// proposal and for revisions after a critique.
func WithConfidence(base, revised float64) TraderOption {
	return func(t *Trader) {
		t.baseConfidence = base
		t.revisedConfidence = revised
	}
}

// NewTrader creates the offline trader.
func NewTrader(opts ...TraderOption) *Trader {
	t := &Trader{
		baseConfidence:    0.9,
		revisedConfidence: 0.72,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Decide proposes buy, sell or hold from the synthesized debate.
func (t *Trader) Decide(_ context.Context, req ports.DecisionRequest) (domain.FinalDecision, error) {
	instrument := strings.ToUpper(req.Instrument)
	synthesis := strings.ToLower(req.Synthesis)
	risk := strings.ToLower(req.RiskReport)

	action := domain.ActionHold
	switch {
	case strings.Contains(synthesis, "bull") && !strings.Contains(risk, "high"):
		action = domain.ActionBuy
	case strings.Contains(synthesis, "bear"):
		action = domain.ActionSell
	}

	if req.PriorCritique == "" {
		return domain.FinalDecision{
			Action:     action,
			Rationale:  fmt.Sprintf("%s %s: the debate leaned this way and the setup looks clean.", strings.ToUpper(string(action)), instrument),
			Confidence: t.baseConfidence,
		}, nil
	}

	rationale := fmt.Sprintf("%s %s. Debate synthesis: %s Risk assessment: %s Addressed critique: %s",
		strings.ToUpper(string(action)), instrument,
		req.Synthesis, req.RiskReport,
		strings.ReplaceAll(req.PriorCritique, "\n", "; "))

	return domain.FinalDecision{
		Action:     action,
		Rationale:  rationale,
		Confidence: t.revisedConfidence,
	}, nil
}
