package stages

import (
	"context"
	"errors"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

// Analyst produces one report field from the instrument. Analysts are
// independent of each other and run in the fan-out group.
type Analyst struct {
	role     string
	key      string
	analyzer ports.Analyzer
	cache    ports.ReportCache
}

// AnalystOption configures an Analyst.
type AnalystOption func(*Analyst)

// WithReportCache makes the analyst consult (and populate) a report
// cache before running its analyzer.
func WithReportCache(cache ports.ReportCache) AnalystOption {
	return func(a *Analyst) {
		a.cache = cache
	}
}

// NewAnalyst creates an analyst stage for a role writing the given
// context field.
func NewAnalyst(role, key string, analyzer ports.Analyzer, opts ...AnalystOption) *Analyst {
	a := &Analyst{role: role, key: key, analyzer: analyzer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTechnicalAnalyst analyses price action and indicators.
func NewTechnicalAnalyst(analyzer ports.Analyzer, opts ...AnalystOption) *Analyst {
	return NewAnalyst("technical", domain.KeyTechnical, analyzer, opts...)
}

// NewSentimentAnalyst analyses market and social sentiment.
func NewSentimentAnalyst(analyzer ports.Analyzer, opts ...AnalystOption) *Analyst {
	return NewAnalyst("sentiment", domain.KeySentiment, analyzer, opts...)
}

// NewNewsAnalyst analyses recent headlines.
func NewNewsAnalyst(analyzer ports.Analyzer, opts ...AnalystOption) *Analyst {
	return NewAnalyst("news", domain.KeyNews, analyzer, opts...)
}

// NewFundamentalAnalyst analyses filings and financials.
func NewFundamentalAnalyst(analyzer ports.Analyzer, opts ...AnalystOption) *Analyst {
	return NewAnalyst("fundamentals", domain.KeyFundamentals, analyzer, opts...)
}

// Analysts returns the default fan-out roster in declaration order.
func Analysts(analyzer ports.Analyzer, opts ...AnalystOption) []domain.Stage {
	return []domain.Stage{
		NewTechnicalAnalyst(analyzer, opts...),
		NewSentimentAnalyst(analyzer, opts...),
		NewNewsAnalyst(analyzer, opts...),
		NewFundamentalAnalyst(analyzer, opts...),
	}
}

func (a *Analyst) Name() string { return a.role }

func (a *Analyst) Contract() domain.Contract {
	return domain.Contract{
		Reads:  []string{domain.KeyInstrument},
		Writes: []string{a.key},
	}
}

func (a *Analyst) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	instrument := view.String(domain.KeyInstrument)

	if a.cache != nil {
		report, err := a.cache.Get(ctx, instrument, a.role)
		if err == nil {
			return domain.StageResult{Updates: map[string]any{a.key: report}}, nil
		}
		if !errors.Is(err, ports.ErrReportNotFound) {
			return domain.StageResult{}, err
		}
	}

	report, err := a.analyzer.Analyze(ctx, ports.AnalysisRequest{
		Role:       a.role,
		Instrument: instrument,
	})
	if err != nil {
		return domain.StageResult{}, err
	}

	if a.cache != nil {
		// A cache write failure must not discard a good report.
		_ = a.cache.Put(ctx, instrument, a.role, report)
	}

	return domain.StageResult{Updates: map[string]any{a.key: report}}, nil
}
