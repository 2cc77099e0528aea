package domain

// Action is the trading action of a final decision.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// FinalDecision is the pipeline's sole externally visible output.
// Immutable once constructed. Unverified marks a decision returned on
// retry exhaustion: the caller gets an answer, but one the gate never
// accepted.
type FinalDecision struct {
	Action     Action  `json:"action"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
	Unverified bool    `json:"unverified,omitempty"`
}

// RunState is the terminal state of a completed pipeline run.
type RunState string

const (
	// RunAccepted means the verdict gate accepted the decision.
	RunAccepted RunState = "accepted"
	// RunExhausted means the retry budget ran out; the decision is
	// best-effort and marked unverified.
	RunExhausted RunState = "exhausted"
)

// Outcome is what a successful pipeline run returns. It distinguishes an
// accepted decision from an exhausted-unverified one and carries the
// final context so callers can inspect the reports behind the decision.
type Outcome struct {
	Decision FinalDecision `json:"decision"`
	State    RunState      `json:"state"`
	Retry    RetryState    `json:"retry"`
	Final    Context       `json:"-"`
}
