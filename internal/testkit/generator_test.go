package testkit

import (
	"math/rand"
	"testing"
)

func TestCrossValGenerator_Deterministic(t *testing.T) {
	config := DefaultCrossValConfig()
	config.WithLabcodes = true
	config.WithFeatures = true

	first, err := NewCrossValGenerator(config).GenerateCollection()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := NewCrossValGenerator(config).GenerateCollection()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if first.Len() != config.Folds || second.Len() != config.Folds {
		t.Fatalf("fold counts: %d, %d, want %d", first.Len(), second.Len(), config.Folds)
	}
	for i := 0; i < first.Len(); i++ {
		a := first.Fold(i).Observed()
		b := second.Fold(i).Observed()
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("same seed produced different data at fold %d sample %d", i, j)
			}
		}
	}
}

func TestCrossValGenerator_OptionalFields(t *testing.T) {
	config := DefaultCrossValConfig()
	config.WithStandardDeviation = true
	config.WithLabcodes = true
	config.WithFeatures = true

	collection, err := NewCrossValGenerator(config).GenerateCollection()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for i := 0; i < collection.Len(); i++ {
		fold := collection.Fold(i)
		if fold.NSamples() != config.SamplesPerFold {
			t.Errorf("fold %d has %d samples, want %d", i, fold.NSamples(), config.SamplesPerFold)
		}
		if !fold.HasStandardDeviation() || !fold.HasLabcodes() || !fold.HasFeatures() {
			t.Errorf("fold %d is missing optional fields", i)
		}
		if fold.Features().ColumnCount() != 2 {
			t.Errorf("fold %d feature columns = %d, want 2", i, fold.Features().ColumnCount())
		}
	}

	// labcodes stay unique across folds
	seen := make(map[string]bool)
	for _, fold := range collection.Folds() {
		for _, code := range fold.Labcodes() {
			if seen[code] {
				t.Fatalf("duplicate labcode %s", code)
			}
			seen[code] = true
		}
	}
}

func TestCrossValGenerator_MetricsComputable(t *testing.T) {
	collection, err := NewCrossValGenerator(DefaultCrossValConfig()).GenerateCollection()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	frame, err := collection.GetMetrics(nil, true)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if frame.RowCount() != 1 || frame.ColumnCount() != 7 {
		t.Errorf("metrics frame shape = %dx%d, want 1x7", frame.RowCount(), frame.ColumnCount())
	}

	// low noise should correlate strongly with the observations
	r2, ok := frame.Column("R2")
	if !ok {
		t.Fatal("R2 column missing")
	}
	if r2[0] < 0.5 {
		t.Errorf("R2 = %v, expected a strong fit for noise scale 1", r2[0])
	}
}

func TestObservedSummary(t *testing.T) {
	collection, err := NewCrossValGenerator(DefaultCrossValConfig()).GenerateCollection()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	mean, stdDev, err := ObservedSummary(collection.Fold(0))
	if err != nil {
		t.Fatalf("ObservedSummary failed: %v", err)
	}
	if mean < 10 || mean >= 20 {
		t.Errorf("mean %v outside the target range [10, 20)", mean)
	}
	if stdDev <= 0 {
		t.Errorf("stdDev = %v, want > 0", stdDev)
	}
}

func TestFeature_Sample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	feature := Feature{Key: "x", Lower: 10, Upper: 20}

	values := feature.Sample(rng, 100)
	if len(values) != 100 {
		t.Fatalf("len = %d, want 100", len(values))
	}
	for _, v := range values {
		if v < 10 || v >= 20 {
			t.Fatalf("sample %v outside [10, 20)", v)
		}
	}
}
