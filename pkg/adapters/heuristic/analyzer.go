// Package heuristic provides deterministic, offline implementations of
// the analysis ports. They produce plausible role-flavored text from
// nothing but the instrument identifier, so the pipeline, the CLI and
// the tests run without any market-data or inference backend.
package heuristic

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"synod/pkg/domain"
	"synod/pkg/ports"
)

func pick(instrument, role string, options []string) string {
	h := fnv.New32a()
	h.Write([]byte(role))
	h.Write([]byte(strings.ToUpper(instrument)))
	return options[h.Sum32()%uint32(len(options))]
}

var (
	technicalViews = []string{
		"price holding above the 50-day moving average with RSI at 62; momentum favors continuation",
		"descending channel since the last earnings gap; RSI at 41 with fading volume",
		"tight consolidation under resistance; MACD flat, a breakout needs a volume catalyst",
	}
	sentimentViews = []string{
		"retail chatter skews bullish, roughly two positive mentions for every negative one",
		"sentiment cooled after the guidance cut; options flow leans defensive",
		"mixed sentiment with elevated disagreement between retail and institutional commentary",
	}
	newsViews = []string{
		"recent coverage centers on a new partnership announcement and analyst upgrades",
		"headline risk from a pending regulatory review dominates the news cycle",
		"quiet news flow; the next scheduled catalyst is the upcoming earnings release",
	}
	fundamentalsViews = []string{
		"revenue growing near 30% year over year with expanding margins; valuation rich but earned",
		"flat top line and rising cost base; the multiple assumes a recovery not yet visible",
		"solid balance sheet and steady free cash flow; growth modest but dependable",
	}
	riskLevels = []string{"low", "medium", "high"}
)

// Analyzer is a deterministic stand-in for a model-backed analyzer.
// Identical requests always yield identical text.
type Analyzer struct{}

// NewAnalyzer creates the offline analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze produces role-flavored text for the request.
func (a *Analyzer) Analyze(_ context.Context, req ports.AnalysisRequest) (string, error) {
	instrument := strings.ToUpper(req.Instrument)

	switch req.Role {
	case "technical":
		return fmt.Sprintf("%s: %s", instrument, pick(instrument, req.Role, technicalViews)), nil
	case "sentiment":
		return fmt.Sprintf("%s: %s", instrument, pick(instrument, req.Role, sentimentViews)), nil
	case "news":
		return fmt.Sprintf("%s: %s", instrument, pick(instrument, req.Role, newsViews)), nil
	case "fundamentals":
		return fmt.Sprintf("%s: %s", instrument, pick(instrument, req.Role, fundamentalsViews)), nil
	case "bull":
		return fmt.Sprintf("The bull case for %s: %s — the reward outweighs the drawdown risk.",
			instrument, firstInput(req, domain.KeyFundamentals, "the growth trajectory justifies the multiple")), nil
	case "bear":
		return fmt.Sprintf("The bear case against %s: %s — the market is paying for certainty it does not have.",
			instrument, firstInput(req, domain.KeyTechnical, "momentum is weaker than the narrative")), nil
	case "judge":
		return a.judge(instrument, req), nil
	case "risk":
		return fmt.Sprintf("Overall risk for %s is %s given the dispersion across the analyst reports.",
			instrument, pick(instrument, req.Role, riskLevels)), nil
	default:
		return "", fmt.Errorf("heuristic analyzer: unknown role %q", req.Role)
	}
}

func (a *Analyzer) judge(instrument string, req ports.AnalysisRequest) string {
	transcript := req.Inputs[domain.KeyDebate]
	bulls := strings.Count(transcript, "[BULL]")
	bears := strings.Count(transcript, "[BEAR]")

	side := "a tie"
	lean := pick(instrument, "judge", []string{"bull", "bear", "tie"})
	switch {
	case bulls > bears || (bulls == bears && lean == "bull"):
		side = "the bull side, narrowly"
	case bears > bulls || lean == "bear":
		side = "the bear side, narrowly"
	}
	return fmt.Sprintf("After %d turns of debate on %s, the stronger argument belongs to %s.",
		bulls+bears, instrument, side)
}

func firstInput(req ports.AnalysisRequest, key, fallback string) string {
	if v, ok := req.Inputs[key]; ok && v != "" {
		return v
	}
	return fallback
}
