package predictions

import (
	"time"

	"autotask-ml/internal/classifier"
	"autotask-ml/internal/taxonomy"
)

type predictRequest struct {
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type batchRequest struct {
	Items []predictRequest `json:"items"`
}

type predictionResponse struct {
	ID               string   `json:"id"`
	TaskType         string   `json:"task_type"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggested_actions"`
}

type batchResponse struct {
	Predictions []predictionResponse `json:"predictions"`
}

type scoresResponse struct {
	Strategy string             `json:"strategy"`
	Scores   []classifier.Score `json:"scores"`
}

type categoriesResponse struct {
	Categories []taxonomy.Category `json:"categories"`
}

type recordResponse struct {
	ID               string         `json:"id"`
	Description      string         `json:"description"`
	TaskType         string         `json:"task_type"`
	Confidence       float64        `json:"confidence"`
	SuggestedActions []string       `json:"suggested_actions"`
	Strategy         string         `json:"strategy"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

type listResponse struct {
	Predictions []recordResponse `json:"predictions"`
}

func toPredictionResponse(res Result) predictionResponse {
	actions := res.SuggestedActions
	if actions == nil {
		actions = []string{}
	}
	return predictionResponse{
		ID:               res.ID,
		TaskType:         res.TaskType,
		Confidence:       res.Confidence,
		SuggestedActions: actions,
	}
}

func toRecordResponse(rec Record) recordResponse {
	actions := rec.SuggestedActions
	if actions == nil {
		actions = []string{}
	}
	return recordResponse{
		ID:               rec.ID,
		Description:      rec.Description,
		TaskType:         rec.TaskType,
		Confidence:       rec.Confidence,
		SuggestedActions: actions,
		Strategy:         rec.Strategy,
		Metadata:         rec.Metadata,
		CreatedAt:        rec.CreatedAt,
	}
}
