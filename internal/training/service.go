// Package training accepts labelled examples for a future learned strategy.
// No model is updated: samples are validated against the taxonomy and
// archived to the object store.
package training

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"autotask-ml/internal/shared/metrics"
	"autotask-ml/internal/shared/storage/object"
	"autotask-ml/internal/shared/telemetry"
	"autotask-ml/internal/taxonomy"
)

const (
	MaxSamples = 1000

	archivePrefix = "training"
)

var ErrInvalidSample = errors.New("invalid training sample")

// Sample is one labelled description.
type Sample struct {
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
}

// Result summarises an accepted training request.
type Result struct {
	Samples    int
	ArchiveKey string
}

type archive struct {
	ID         string    `json:"id"`
	Strategy   string    `json:"strategy"`
	Categories []string  `json:"categories"`
	Samples    []Sample  `json:"samples"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service validates and archives training samples.
type Service struct {
	Taxonomy taxonomy.Taxonomy
	Strategy string
	Store    object.ObjectStore

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service. store may be nil, in which case samples
// are validated but not archived.
func NewService(tx taxonomy.Taxonomy, strategy string, store object.ObjectStore) *Service {
	return &Service{
		Taxonomy: tx,
		Strategy: strategy,
		Store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Train validates samples and archives them. An empty request is accepted
// and does nothing.
func (s *Service) Train(ctx context.Context, samples []Sample) (Result, error) {
	metrics.IncTrainingRequest()
	if len(samples) > MaxSamples {
		return Result{}, fmt.Errorf("%w: at most %d samples", ErrInvalidSample, MaxSamples)
	}
	for i, sample := range samples {
		if strings.TrimSpace(sample.Description) == "" {
			return Result{}, fmt.Errorf("%w: sample %d has no description", ErrInvalidSample, i)
		}
		if !s.Taxonomy.Has(sample.TaskType) {
			return Result{}, fmt.Errorf("%w: sample %d has unknown task_type %q", ErrInvalidSample, i, sample.TaskType)
		}
	}

	telemetry.Info("training.start", map[string]any{"samples": len(samples)})
	res := Result{Samples: len(samples)}
	if len(samples) > 0 && s.Store != nil {
		id := s.newID()
		body, err := json.Marshal(archive{
			ID:         id,
			Strategy:   s.Strategy,
			Categories: s.Taxonomy.Names(),
			Samples:    samples,
			CreatedAt:  s.now(),
		})
		if err != nil {
			return Result{}, fmt.Errorf("marshal training archive: %w", err)
		}
		key := path.Join(archivePrefix, id+".json")
		if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
			return Result{}, fmt.Errorf("archive training samples: %w", err)
		}
		res.ArchiveKey = key
	}
	telemetry.Info("training.complete", map[string]any{"samples": res.Samples, "archive_key": res.ArchiveKey})
	return res, nil
}
