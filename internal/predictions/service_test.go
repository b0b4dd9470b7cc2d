package predictions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"autotask-ml/internal/classifier"
	"autotask-ml/internal/taxonomy"
)

func newTestService(repo Repo) *Service {
	svc := NewService(classifier.NewKeywordScorer(taxonomy.Default()), repo)
	svc.now = func() time.Time { return time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestPredictRecordsHistory(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo)

	res, err := svc.Predict(context.Background(), TaskDescription{
		Description: "Please schedule a meeting and update the calendar",
		Metadata:    map[string]any{"source": "test"},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.TaskType != "meeting_scheduling" || res.Confidence != 1.0 {
		t.Fatalf("unexpected prediction: %+v", res)
	}
	if _, err := uuid.Parse(res.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", res.ID)
	}

	rec, err := svc.Get(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.TaskType != res.TaskType || rec.Strategy != classifier.StrategyKeyword {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Metadata["source"] != "test" {
		t.Fatalf("expected metadata stored, got %v", rec.Metadata)
	}
	if rec.DescriptionHash == "" || !rec.CreatedAt.Equal(svc.now()) {
		t.Fatalf("unexpected record fields: %+v", rec)
	}
}

func TestPredictEmptyDescriptionUsesUniformFallback(t *testing.T) {
	svc := newTestService(nil)

	res, err := svc.Predict(context.Background(), TaskDescription{Description: ""})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.TaskType != "email_management" || res.Confidence != 0.2 {
		t.Fatalf("unexpected prediction: %+v", res)
	}
}

func TestPredictLongDescription(t *testing.T) {
	svc := newTestService(nil)

	desc := strings.Repeat("schedule the meeting ", 600)
	res, err := svc.Predict(context.Background(), TaskDescription{Description: desc})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.TaskType != "meeting_scheduling" || res.Confidence != 1.0 {
		t.Fatalf("unexpected prediction: %+v", res)
	}
}

type failingRepo struct{ MemoryRepo }

func (failingRepo) Create(ctx context.Context, rec Record) error {
	return errors.New("db down")
}

func TestPredictSurvivesRecordFailure(t *testing.T) {
	svc := newTestService(&failingRepo{})

	res, err := svc.Predict(context.Background(), TaskDescription{Description: "email"})
	if err != nil {
		t.Fatalf("expected prediction despite repo failure, got %v", err)
	}
	if res.TaskType != "email_management" {
		t.Fatalf("unexpected task type %q", res.TaskType)
	}
}

func TestPredictBatchKeepsOrder(t *testing.T) {
	svc := newTestService(NewMemoryRepo())
	svc.BatchConcurrency = 3

	inputs := []string{"email", "file", "meeting", "statistics", "milestone", "xyz"}
	want := []string{"email_management", "document_handling", "meeting_scheduling", "data_analysis", "project_management", "email_management"}
	var items []TaskDescription
	for _, in := range inputs {
		items = append(items, TaskDescription{Description: in})
	}

	results, err := svc.PredictBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, res := range results {
		if res.TaskType != want[i] {
			t.Fatalf("item %d: expected %s, got %s", i, want[i], res.TaskType)
		}
	}
}

func TestPredictBatchValidation(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.PredictBatch(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty batch, got %v", err)
	}
	items := make([]TaskDescription, MaxBatchItems+1)
	if _, err := svc.PredictBatch(context.Background(), items); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for large batch, got %v", err)
	}
}

func TestPredictBatchCanceled(t *testing.T) {
	svc := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PredictBatch(ctx, []TaskDescription{{Description: "email"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListNewestFirstAndClamped(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo)
	for i := 0; i < 3; i++ {
		if _, err := svc.Predict(context.Background(), TaskDescription{Description: fmt.Sprintf("task %d", i)}); err != nil {
			t.Fatalf("Predict: %v", err)
		}
	}

	records, err := svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Description != "task 2" || records[1].Description != "task 1" {
		t.Fatalf("unexpected order: %q, %q", records[0].Description, records[1].Description)
	}

	all, err := svc.List(context.Background(), MaxListLimit+50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestGetUnknownOrMalformedID(t *testing.T) {
	svc := newTestService(NewMemoryRepo())

	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScoresAndCategories(t *testing.T) {
	svc := newTestService(nil)

	scores, err := svc.Scores("report")
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if scores[1].Probability != 0.5 || scores[3].Probability != 0.5 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
	if got := len(svc.Categories()); got != 5 {
		t.Fatalf("expected 5 categories, got %d", got)
	}
}

func TestUnconfiguredService(t *testing.T) {
	var svc *Service
	if _, err := svc.Predict(context.Background(), TaskDescription{}); err == nil {
		t.Fatalf("expected error from nil service")
	}
}
