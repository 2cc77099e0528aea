package stages

import (
	"context"
	"fmt"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// reportInputs collects the analyst reports a debate or synthesis role
// conditions on.
func reportInputs(view domain.Context) map[string]string {
	inputs := make(map[string]string, 4)
	for _, key := range []string{domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals} {
		if view.Has(key) {
			inputs[key] = view.String(key)
		}
	}
	return inputs
}

func debateRecord(view domain.Context) domain.DebateRecord {
	if raw, ok := view.Value(domain.KeyDebate); ok {
		if record, ok := raw.(domain.DebateRecord); ok {
			return record
		}
	}
	return domain.DebateRecord{}
}

// Researcher argues one side of the debate for one round, appending its
// argument to the transcript. Researchers run in the sequential chain
// in fixed argument order, so appends never race.
type Researcher struct {
	side     string // "bull" or "bear"
	round    int
	analyzer ports.Analyzer
}

// NewResearcher creates the debate stage for a side and round (1-based).
func NewResearcher(side string, round int, analyzer ports.Analyzer) *Researcher {
	return &Researcher{side: side, round: round, analyzer: analyzer}
}

func (r *Researcher) Name() string {
	return fmt.Sprintf("%s-%d", r.side, r.round)
}

func (r *Researcher) Contract() domain.Contract {
	return domain.Contract{
		Reads: []string{
			domain.KeyInstrument,
			domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals,
			domain.KeyDebate,
		},
		Writes: []string{domain.KeyDebate},
	}
}

func (r *Researcher) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	record := debateRecord(view)

	inputs := reportInputs(view)
	inputs[domain.KeyDebate] = record.Transcript()

	argument, err := r.analyzer.Analyze(ctx, ports.AnalysisRequest{
		Role:       r.side,
		Instrument: view.String(domain.KeyInstrument),
		Inputs:     inputs,
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	return domain.StageResult{Updates: map[string]any{
		domain.KeyDebate: record.Append(r.side, argument),
	}}, nil
}

// Judge reviews the full transcript and distills it into the debate
// synthesis consumed downstream. It is the only consumer of the
// transcript.
type Judge struct {
	analyzer ports.Analyzer
}

func NewJudge(analyzer ports.Analyzer) *Judge {
	return &Judge{analyzer: analyzer}
}

func (j *Judge) Name() string { return "judge" }

func (j *Judge) Contract() domain.Contract {
	return domain.Contract{
		Reads:  []string{domain.KeyInstrument, domain.KeyDebate},
		Writes: []string{domain.KeyDebateSynthesis},
	}
}

func (j *Judge) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	record := debateRecord(view)
	if len(record) == 0 {
		return domain.StageResult{}, fmt.Errorf("no debate transcript to judge")
	}

	synthesis, err := j.analyzer.Analyze(ctx, ports.AnalysisRequest{
		Role:       "judge",
		Instrument: view.String(domain.KeyInstrument),
		Inputs:     map[string]string{domain.KeyDebate: record.Transcript()},
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	return domain.StageResult{Updates: map[string]any{
		domain.KeyDebateSynthesis: synthesis,
	}}, nil
}

// Deliberation builds the default sequential chain: the requested
// number of bull/bear rounds in fixed argument order, then the judge,
// then the risk synthesizer.
func Deliberation(analyzer ports.Analyzer, rounds int) []domain.Stage {
	if rounds < 1 {
		rounds = 1
	}
	chain := make([]domain.Stage, 0, rounds*2+2)
	for round := 1; round <= rounds; round++ {
		chain = append(chain,
			NewResearcher("bull", round, analyzer),
			NewResearcher("bear", round, analyzer),
		)
	}
	return append(chain, NewJudge(analyzer), NewRiskSynthesizer(analyzer))
}
