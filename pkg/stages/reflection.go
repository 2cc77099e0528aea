package stages

import (
	"context"
	"fmt"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// ReflectionGate reviews the trader's decision against the evidence and
// emits the accept/revise verdict. The accuracy of the check belongs to
// the oracle; this stage only fixes the contract around it.
type ReflectionGate struct {
	oracle ports.ReflectionOracle
}

func NewReflectionGate(oracle ports.ReflectionOracle) *ReflectionGate {
	return &ReflectionGate{oracle: oracle}
}

func (g *ReflectionGate) Name() string { return "reflection" }

func (g *ReflectionGate) Contract() domain.Contract {
	return domain.Contract{
		Reads: []string{
			domain.KeyInstrument, domain.KeyDecision, domain.KeyDebateSynthesis,
			domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals,
		},
		Writes: []string{domain.KeyVerdict},
	}
}

func (g *ReflectionGate) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	raw, ok := view.Value(domain.KeyDecision)
	if !ok {
		return domain.StageResult{}, fmt.Errorf("no decision to review")
	}
	decision, ok := raw.(domain.FinalDecision)
	if !ok {
		return domain.StageResult{}, fmt.Errorf("decision field holds %T", raw)
	}

	verdict, err := g.oracle.Review(ctx, ports.ReviewRequest{
		Instrument: view.String(domain.KeyInstrument),
		Decision:   decision,
		Synthesis:  view.String(domain.KeyDebateSynthesis),
		Reports:    reportInputs(view),
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	return domain.StageResult{Updates: map[string]any{
		domain.KeyVerdict: verdict,
	}}, nil
}
