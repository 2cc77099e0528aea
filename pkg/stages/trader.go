package stages

import (
	"context"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// TraderStage turns the accumulated analysis into the final decision.
// It is the stage the feedback controller reruns, so it reads the prior
// critique when one is present.
type TraderStage struct {
	trader ports.Trader
}

func NewTrader(trader ports.Trader) *TraderStage {
	return &TraderStage{trader: trader}
}

func (t *TraderStage) Name() string { return "trader" }

func (t *TraderStage) Contract() domain.Contract {
	return domain.Contract{
		Reads: []string{
			domain.KeyInstrument,
			domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals,
			domain.KeyDebateSynthesis, domain.KeyRiskReport,
			domain.KeyPriorCritique,
		},
		Writes: []string{domain.KeyDecision},
	}
}

func (t *TraderStage) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	decision, err := t.trader.Decide(ctx, ports.DecisionRequest{
		Instrument:    view.String(domain.KeyInstrument),
		Synthesis:     view.String(domain.KeyDebateSynthesis),
		RiskReport:    view.String(domain.KeyRiskReport),
		Reports:       reportInputs(view),
		PriorCritique: view.String(domain.KeyPriorCritique),
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	return domain.StageResult{Updates: map[string]any{
		domain.KeyDecision: decision,
	}}, nil
}
