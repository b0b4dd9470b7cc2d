package predictions

import (
	"time"

	"autotask-ml/internal/classifier"
)

// TaskDescription is the classification input. Metadata is opaque and only
// stored alongside the result.
type TaskDescription struct {
	Description string
	Metadata    map[string]any
}

// Record is a served prediction kept in the history.
type Record struct {
	ID               string
	DescriptionHash  string
	Description      string
	TaskType         string
	Confidence       float64
	SuggestedActions []string
	Strategy         string
	Metadata         map[string]any
	CreatedAt        time.Time
}

// Result pairs a prediction with the id it was recorded under.
type Result struct {
	ID string
	classifier.Prediction
}
