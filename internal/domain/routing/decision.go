// Package routing holds the answer-routing decision types.
package routing

// Mode is the chosen source of truth for an answer.
type Mode string

const (
	// ModeInternal grounds the answer on document retrieval.
	ModeInternal Mode = "internal"
	// ModeWeb grounds the answer on live web search.
	ModeWeb Mode = "web"
)

// Trigger records which step of the router produced the final mode.
type Trigger string

const (
	// TriggerAccepted means the internal answer passed both gates.
	TriggerAccepted Trigger = "accepted"
	// TriggerLowScore means the retrieval score was below threshold.
	TriggerLowScore Trigger = "low_score"
	// TriggerJudgedIrrelevant means the relevance judge rejected the internal answer.
	TriggerJudgedIrrelevant Trigger = "judged_irrelevant"
)

// Decision is the routing outcome for a single query.
// When mode is web, context holds the web searcher's output for the query
// (empty if the search failed), never the internal aggregation. answer
// keeps the last computed internal answer for observability even when it
// was superseded by the web fallback.
type Decision struct {
	mode    Mode
	context string
	answer  string
	trigger Trigger
}

// NewDecision creates a routing decision.
func NewDecision(mode Mode, context, answer string, trigger Trigger) Decision {
	return Decision{mode: mode, context: context, answer: answer, trigger: trigger}
}

// Mode returns the chosen answer source.
func (d *Decision) Mode() Mode { return d.mode }

// Context returns the grounding context for answer generation.
func (d *Decision) Context() string { return d.context }

// Answer returns the internal candidate answer, empty when internal
// generation was skipped entirely.
func (d *Decision) Answer() string { return d.answer }

// Trigger returns the step that finalized the decision.
func (d *Decision) Trigger() Trigger { return d.trigger }
