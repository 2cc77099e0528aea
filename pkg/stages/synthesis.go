package stages

import (
	"context"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// RiskSynthesizer folds the analyst reports and the debate synthesis
// into a risk assessment for the trader.
type RiskSynthesizer struct {
	analyzer ports.Analyzer
}

func NewRiskSynthesizer(analyzer ports.Analyzer) *RiskSynthesizer {
	return &RiskSynthesizer{analyzer: analyzer}
}

func (s *RiskSynthesizer) Name() string { return "risk" }

func (s *RiskSynthesizer) Contract() domain.Contract {
	return domain.Contract{
		Reads: []string{
			domain.KeyInstrument,
			domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals,
			domain.KeyDebateSynthesis,
		},
		Writes: []string{domain.KeyRiskReport},
	}
}

func (s *RiskSynthesizer) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	inputs := reportInputs(view)
	inputs[domain.KeyDebateSynthesis] = view.String(domain.KeyDebateSynthesis)

	report, err := s.analyzer.Analyze(ctx, ports.AnalysisRequest{
		Role:       "risk",
		Instrument: view.String(domain.KeyInstrument),
		Inputs:     inputs,
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	return domain.StageResult{Updates: map[string]any{
		domain.KeyRiskReport: report,
	}}, nil
}
