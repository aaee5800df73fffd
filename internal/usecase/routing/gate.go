package routing

import (
	"fmt"

	"github.com/askora-cloud/askora/internal/domain"
)

// Gate reports whether the retrieval result is strong enough to answer
// internally. Passages must already be ordered by descending relevance;
// only the first score is read. The comparison is inclusive.
//
// An empty passage list is a caller contract violation, not a weak
// retrieval: treating it as a low score would mask a retrieval-layer
// failure from the router.
func Gate(passages []domain.Passage, threshold float64) (bool, error) {
	if len(passages) == 0 {
		return false, fmt.Errorf("no retrieved passages: %w", domain.ErrInvalidInput)
	}
	return passages[0].Score() >= threshold, nil
}
