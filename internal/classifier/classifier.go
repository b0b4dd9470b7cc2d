// Package classifier maps free-text task descriptions to taxonomy categories.
//
// Confidence is the share of keyword hits attributed to the winning
// category. It is not a calibrated probability and no softmax is applied:
// the distribution returned by Score always sums to 1.
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"autotask-ml/internal/taxonomy"
)

const StrategyKeyword = "keyword"

var ErrUnknownStrategy = errors.New("unknown classifier strategy")

// Prediction is the classification result for one description.
type Prediction struct {
	TaskType         string   `json:"task_type"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggested_actions"`
}

// Score is one entry of a distribution, aligned with taxonomy order.
type Score struct {
	TaskType    string  `json:"task_type"`
	Probability float64 `json:"probability"`
	Hits        int     `json:"hits"`
}

// Strategy produces a distribution over a taxonomy and picks a category from
// it. Implementations must be safe for concurrent use and must not fail on
// any input string.
type Strategy interface {
	Name() string
	Taxonomy() taxonomy.Taxonomy
	Score(text string) []Score
	Classify(text string) Prediction
}

// NewStrategy returns the named strategy bound to tx.
func NewStrategy(name string, tx taxonomy.Taxonomy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyKeyword:
		return NewKeywordScorer(tx), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

// Pick selects the first category holding the maximum probability and
// returns it with its probability as confidence and its actions verbatim.
func Pick(tx taxonomy.Taxonomy, scores []Score) Prediction {
	best := 0
	for i := 1; i < len(scores); i++ {
		// strict comparison keeps the earliest category on ties
		if scores[i].Probability > scores[best].Probability {
			best = i
		}
	}
	return Prediction{
		TaskType:         tx.Name(best),
		Confidence:       scores[best].Probability,
		SuggestedActions: tx.Actions(best),
	}
}

// Uniform reports whether the scores carry no keyword signal.
func Uniform(scores []Score) bool {
	for _, s := range scores {
		if s.Hits > 0 {
			return false
		}
	}
	return true
}
