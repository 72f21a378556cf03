package diagnostics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"cvdiag/domain/core"
	"cvdiag/domain/dataset"
)

// generateFold builds a fold with uniform observations in [10,20) and
// normally perturbed predictions, mirroring how collections are produced by
// real cross-validation runs.
func generateFold(t *testing.T, rng *rand.Rand, key string, nSamples int, withLabcodes, withFeatures bool) *FoldResult {
	t.Helper()

	observed := make([]float64, nSamples)
	predicted := make([]float64, nSamples)
	for i := range observed {
		observed[i] = 10 + 10*rng.Float64()
		predicted[i] = observed[i] + rng.NormFloat64()
	}

	var labcodes []string
	if withLabcodes {
		labcodes = make([]string, nSamples)
		for i := range labcodes {
			labcodes[i] = string(rune('A' + i%26))
		}
	}

	var features *dataset.Frame
	if withFeatures {
		a := make([]float64, nSamples)
		b := make([]float64, nSamples)
		for i := range a {
			a[i] = rng.Float64()
			b[i] = rng.Float64()
		}
		var err error
		features, err = dataset.NewFrame([]string{"a", "b"}, [][]float64{a, b})
		if err != nil {
			t.Fatalf("building feature frame: %v", err)
		}
	}

	fold, err := NewFoldResult(key, observed, predicted, nil, labcodes, features)
	if err != nil {
		t.Fatalf("building fold: %v", err)
	}
	return fold
}

func uniformSamples(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 10 + 10*rng.Float64()
	}
	return out
}

func TestNewFoldResult_NSamples(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	fold := generateFold(t, rng, "a", 10, false, false)
	if fold.NSamples() != 10 {
		t.Errorf("NSamples = %d, want 10", fold.NSamples())
	}
	if fold.Key() != "a" {
		t.Errorf("Key = %q, want \"a\"", fold.Key())
	}
}

func TestNewFoldResult_ShapeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	five := uniformSamples(rng, 5)
	six := uniformSamples(rng, 6)
	frame2, _ := dataset.NewFrame([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}})

	cases := []struct {
		name string
		run  func() error
	}{
		{"predicted length", func() error {
			_, err := NewFoldResult("a", five, six, nil, nil, nil)
			return err
		}},
		{"standard deviation length", func() error {
			_, err := NewFoldResult("a", five, five, six, nil, nil)
			return err
		}},
		{"labcodes length", func() error {
			_, err := NewFoldResult("a", five, five, five, []string{"5", "6"}, nil)
			return err
		}},
		{"X row count", func() error {
			_, err := NewFoldResult("a", five, five, five, []string{"5", "6", "7", "8", "9"}, frame2)
			return err
		}},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, core.ErrShapeMismatch) {
			t.Errorf("%s: got %v, want ErrShapeMismatch", tc.name, err)
		}
	}

	// all lengths aligned constructs fine
	frame5, _ := dataset.NewFrame([]string{"a", "b"}, [][]float64{uniformSamples(rng, 5), uniformSamples(rng, 5)})
	if _, err := NewFoldResult("a", five, five, five, []string{"5", "6", "7", "8", "9"}, frame5); err != nil {
		t.Errorf("aligned construction failed: %v", err)
	}
}

func TestNewFoldResult_NotNumeric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	clean := uniformSamples(rng, 4)

	dirtyValues := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, dirty := range dirtyValues {
		tainted := append([]float64(nil), clean...)
		tainted[2] = dirty

		if _, err := NewFoldResult("a", tainted, clean, nil, nil, nil); !errors.Is(err, core.ErrNotNumeric) {
			t.Errorf("observed with %v: got %v, want ErrNotNumeric", dirty, err)
		}
		if _, err := NewFoldResult("a", clean, tainted, nil, nil, nil); !errors.Is(err, core.ErrNotNumeric) {
			t.Errorf("predicted with %v: got %v, want ErrNotNumeric", dirty, err)
		}
		if _, err := NewFoldResult("a", clean, clean, tainted, nil, nil); !errors.Is(err, core.ErrNotNumeric) {
			t.Errorf("standard deviation with %v: got %v, want ErrNotNumeric", dirty, err)
		}
	}
}

func TestNewFoldResult_ShapeCheckedBeforeNumeric(t *testing.T) {
	// both violations at once: the shape error must win
	observed := []float64{1, 2, 3}
	predicted := []float64{math.NaN(), 2}
	_, err := NewFoldResult("a", observed, predicted, nil, nil, nil)
	if !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestNewFoldResult_Empty(t *testing.T) {
	if _, err := NewFoldResult("a", nil, nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty observed")
	}
}

func TestFoldResult_Immutable(t *testing.T) {
	observed := []float64{1, 2, 3}
	predicted := []float64{1.5, 2.5, 3.5}
	fold, err := NewFoldResult("a", observed, predicted, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	observed[0] = 99 // caller mutation must not reach the fold
	if got := fold.Observed(); got[0] != 1 {
		t.Errorf("constructor did not copy observed: %v", got)
	}
	out := fold.Observed()
	out[1] = 99
	if got := fold.Observed(); got[1] != 2 {
		t.Errorf("accessor did not copy observed: %v", got)
	}
}

func TestFoldResult_GetMetric(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	fold := generateFold(t, rng, "a", 10, false, false)
	for _, metric := range DefaultMetrics() {
		if _, err := fold.GetMetric(metric); err != nil {
			t.Errorf("GetMetric(%s) failed: %v", metric, err)
		}
	}
}

func TestFoldResult_GetMetricSingleSample(t *testing.T) {
	fold, err := NewFoldResult("a", []float64{1.5}, []float64{1.2}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// the guard is uniform: every metric fails on one sample
	for _, metric := range DefaultMetrics() {
		if _, err := fold.GetMetric(metric); !errors.Is(err, core.ErrInsufficientSamples) {
			t.Errorf("GetMetric(%s): got %v, want ErrInsufficientSamples", metric, err)
		}
	}
}
