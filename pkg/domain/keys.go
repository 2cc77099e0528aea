package domain

// Canonical context field names used by the built-in trading topology.
// Stages declare these in their contracts; the kernel itself only cares
// about KeyVerdict, KeyDecision and KeyPriorCritique.
const (
	KeyInstrument      = "instrument"
	KeyTechnical       = "technical_report"
	KeySentiment       = "sentiment_report"
	KeyNews            = "news_report"
	KeyFundamentals    = "fundamentals_report"
	KeyDebate          = "debate"
	KeyDebateSynthesis = "debate_synthesis"
	KeyRiskReport      = "risk_report"
	KeyDecision        = "decision"
	KeyVerdict         = "verdict"
	KeyPriorCritique   = "prior_critique"
)
