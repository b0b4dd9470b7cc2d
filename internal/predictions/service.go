package predictions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"autotask-ml/internal/classifier"
	"autotask-ml/internal/shared/metrics"
	"autotask-ml/internal/shared/telemetry"
	"autotask-ml/internal/shared/util"
	"autotask-ml/internal/taxonomy"
)

const (
	MaxBodyBytes        = 1 << 20
	MaxBatchItems       = 100
	DefaultListLimit    = 20
	MaxListLimit        = 100

	previewRunes            = 200
	defaultBatchConcurrency = 8
)

// Service classifies descriptions and records the results.
type Service struct {
	Strategy         classifier.Strategy
	Repo             Repo
	BatchConcurrency int

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service. repo may be nil to disable history.
func NewService(strategy classifier.Strategy, repo Repo) *Service {
	return &Service{
		Strategy:         strategy,
		Repo:             repo,
		BatchConcurrency: defaultBatchConcurrency,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

// Predict classifies one description. The distribution is computed by the
// strategy and the winner picked with first-argmax, so confidence is 1/N
// when the text carries no signal. History failures are logged, not
// returned.
func (s *Service) Predict(ctx context.Context, in TaskDescription) (Result, error) {
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	scores := s.Strategy.Score(in.Description)
	prediction := classifier.Pick(s.Strategy.Taxonomy(), scores)
	uniform := classifier.Uniform(scores)
	metrics.ObservePredictionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	metrics.IncPrediction(prediction.TaskType, uniform)

	result := Result{ID: s.newID(), Prediction: prediction}
	telemetry.Debug("prediction.complete", map[string]any{
		"prediction_id":   result.ID,
		"task_type":       prediction.TaskType,
		"confidence":      prediction.Confidence,
		"uniform":         uniform,
		"description_len": len(in.Description),
	})

	if s.Repo != nil {
		rec := Record{
			ID:               result.ID,
			DescriptionHash:  util.HashText(in.Description),
			Description:      util.Preview(in.Description, previewRunes),
			TaskType:         prediction.TaskType,
			Confidence:       prediction.Confidence,
			SuggestedActions: prediction.SuggestedActions,
			Strategy:         s.Strategy.Name(),
			Metadata:         in.Metadata,
			CreatedAt:        s.now(),
		}
		if err := s.Repo.Create(ctx, rec); err != nil {
			telemetry.Warn("prediction.record_failed", map[string]any{
				"prediction_id": result.ID,
				"error":         err.Error(),
			})
		}
	}
	return result, nil
}

// PredictBatch classifies up to MaxBatchItems descriptions concurrently and
// returns the results in input order.
func (s *Service) PredictBatch(ctx context.Context, items []TaskDescription) ([]Result, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items must not be empty", ErrInvalidInput)
	}
	if len(items) > MaxBatchItems {
		return nil, fmt.Errorf("%w: at most %d items per batch", ErrInvalidInput, MaxBatchItems)
	}
	limit := s.BatchConcurrency
	if limit <= 0 {
		limit = defaultBatchConcurrency
	}
	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			res, err := s.Predict(gctx, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Scores returns the full distribution for text in taxonomy order.
func (s *Service) Scores(text string) ([]classifier.Score, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Strategy.Score(text), nil
}

// Categories lists the taxonomy the strategy scores against.
func (s *Service) Categories() []taxonomy.Category {
	if s == nil || s.Strategy == nil {
		return nil
	}
	return s.Strategy.Taxonomy().Categories()
}

// Get returns a recorded prediction.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if s == nil || s.Repo == nil {
		return Record{}, ErrNotFound
	}
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns the most recent predictions, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.Repo == nil {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.Repo.ListRecent(ctx, limit)
}

func (s *Service) ready() error {
	if s == nil || s.Strategy == nil {
		return errors.New("predictions service not configured")
	}
	return nil
}
