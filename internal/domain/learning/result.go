// Package learning holds the learning-style test result type.
package learning

// Result is the outcome of a learning-style test. The dominant style is
// consumed by the ask flow as the preferred answer modality.
type Result struct {
	dominantStyle string
	scores        map[string]int
	answers       []int
	takenAt       int64 // unix millis
}

// NewResult creates a learning-style result.
func NewResult(dominantStyle string, scores map[string]int, answers []int, takenAt int64) Result {
	return Result{
		dominantStyle: dominantStyle, scores: scores,
		answers: answers, takenAt: takenAt,
	}
}

// DominantStyle returns the winning style.
func (r *Result) DominantStyle() string { return r.dominantStyle }

// Scores returns the per-style tallies.
func (r *Result) Scores() map[string]int { return r.scores }

// Answers returns the selected option index per question.
func (r *Result) Answers() []int { return r.answers }

// TakenAt returns when the test was taken, in unix millis.
func (r *Result) TakenAt() int64 { return r.takenAt }
