package training

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"autotask-ml/internal/shared/storage/object/local"
	"autotask-ml/internal/taxonomy"
)

func newTestService(t *testing.T) (*Service, *local.Store) {
	t.Helper()
	store := local.New(t.TempDir())
	svc := NewService(taxonomy.Default(), "keyword", store)
	svc.now = func() time.Time { return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "batch-1" }
	return svc, store
}

func TestTrainArchivesSamples(t *testing.T) {
	svc, store := newTestService(t)
	samples := []Sample{
		{Description: "reply to the email", TaskType: "email_management"},
		{Description: "plot the data", TaskType: "data_analysis"},
	}

	res, err := svc.Train(context.Background(), samples)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if res.Samples != 2 || res.ArchiveKey != "training/batch-1.json" {
		t.Fatalf("unexpected result %+v", res)
	}

	rc, err := store.Open(context.Background(), res.ArchiveKey)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	var got archive
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if got.ID != "batch-1" || got.Strategy != "keyword" || len(got.Samples) != 2 || len(got.Categories) != 5 {
		t.Fatalf("unexpected archive %+v", got)
	}
}

func TestTrainWithoutSamplesIsNoop(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Train(context.Background(), nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if res.Samples != 0 || res.ArchiveKey != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestTrainRejectsInvalidSamples(t *testing.T) {
	svc, _ := newTestService(t)

	tests := map[string][]Sample{
		"unknown label":     {{Description: "x", TaskType: "cooking"}},
		"empty description": {{Description: "  ", TaskType: "email_management"}},
		"too many":          make([]Sample, MaxSamples+1),
	}
	for name, samples := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Train(context.Background(), samples); !errors.Is(err, ErrInvalidSample) {
				t.Fatalf("expected ErrInvalidSample, got %v", err)
			}
		})
	}
}

func TestTrainWithoutStoreSkipsArchive(t *testing.T) {
	svc := NewService(taxonomy.Default(), "keyword", nil)

	res, err := svc.Train(context.Background(), []Sample{{Description: "file the report", TaskType: "document_handling"}})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if res.Samples != 1 || res.ArchiveKey != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}
