package classifier

import (
	"strings"

	"autotask-ml/internal/taxonomy"
)

// KeywordScorer scores text by counting whole-token keyword hits per
// category.
type KeywordScorer struct {
	tx taxonomy.Taxonomy
}

var _ Strategy = (*KeywordScorer)(nil)

// NewKeywordScorer binds a scorer to an immutable taxonomy.
func NewKeywordScorer(tx taxonomy.Taxonomy) *KeywordScorer {
	return &KeywordScorer{tx: tx}
}

func (s *KeywordScorer) Name() string { return StrategyKeyword }

func (s *KeywordScorer) Taxonomy() taxonomy.Taxonomy { return s.tx }

// Score lower-cases the text, splits it on whitespace (including the ASCII
// information separators) and counts, for every category, how many tokens
// are one of its keywords. Repeated tokens count once per occurrence and
// punctuation is not stripped. Counts are normalised
// by the total; with no hits at all every category gets 1/N.
func (s *KeywordScorer) Score(text string) []Score {
	n := s.tx.Len()
	scores := make([]Score, n)
	tokens := strings.FieldsFunc(strings.ToLower(text), taxonomy.IsSeparator)

	total := 0
	for i := 0; i < n; i++ {
		hits := 0
		for _, tok := range tokens {
			if s.tx.Matches(i, tok) {
				hits++
			}
		}
		scores[i] = Score{TaskType: s.tx.Name(i), Hits: hits}
		total += hits
	}

	if total == 0 {
		uniform := 1.0 / float64(n)
		for i := range scores {
			scores[i].Probability = uniform
		}
		return scores
	}
	for i := range scores {
		scores[i].Probability = float64(scores[i].Hits) / float64(total)
	}
	return scores
}

// Classify returns the best-scoring category for text.
func (s *KeywordScorer) Classify(text string) Prediction {
	return Pick(s.tx, s.Score(text))
}
