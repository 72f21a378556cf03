package testkit

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"cvdiag/domain/dataset"
	"cvdiag/domain/diagnostics"
)

// CrossValConfig configures the synthetic cross-validation generator
type CrossValConfig struct {
	Key                   string  `json:"key"`
	Folds                 int     `json:"folds"`
	SamplesPerFold        int     `json:"samples_per_fold"`
	NoiseScale            float64 `json:"noise_scale"`
	Seed                  int64   `json:"seed"`
	WithStandardDeviation bool    `json:"with_standard_deviation"`
	WithLabcodes          bool    `json:"with_labcodes"`
	WithFeatures          bool    `json:"with_features"`
}

// DefaultCrossValConfig returns sensible defaults for synthetic runs
func DefaultCrossValConfig() CrossValConfig {
	return CrossValConfig{
		Key:            "y",
		Folds:          5,
		SamplesPerFold: 10,
		NoiseScale:     1.0,
		Seed:           42,
	}
}

// Feature is a numeric input variable that produces sampled values from a
// bounded range.
type Feature struct {
	Key   string
	Lower float64
	Upper float64
}

// Sample draws n uniform values from the feature's range
func (f Feature) Sample(rng *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = f.Lower + (f.Upper-f.Lower)*rng.Float64()
	}
	return values
}

// CrossValGenerator generates deterministic synthetic cross-validation runs:
// observations sampled from a target feature, predictions perturbed by
// configurable Gaussian noise.
type CrossValGenerator struct {
	config   CrossValConfig
	target   Feature
	inputs   []Feature
	rng      *rand.Rand
	nextCode int
}

// NewCrossValGenerator creates a new generator seeded from the config
func NewCrossValGenerator(config CrossValConfig) *CrossValGenerator {
	return &CrossValGenerator{
		config: config,
		target: Feature{Key: config.Key, Lower: 10, Upper: 20},
		inputs: []Feature{
			{Key: "x1", Lower: 0, Upper: 1},
			{Key: "x2", Lower: 0, Upper: 1},
		},
		rng: rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateFold builds one synthetic fold with n samples
func (g *CrossValGenerator) GenerateFold(n int) (*diagnostics.FoldResult, error) {
	observed := g.target.Sample(g.rng, n)
	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = observed[i] + g.config.NoiseScale*g.rng.NormFloat64()
	}

	var standardDeviation []float64
	if g.config.WithStandardDeviation {
		standardDeviation = make([]float64, n)
		for i := range standardDeviation {
			standardDeviation[i] = g.config.NoiseScale * (0.5 + g.rng.Float64())
		}
	}

	var labcodes []string
	if g.config.WithLabcodes {
		labcodes = make([]string, n)
		for i := range labcodes {
			labcodes[i] = fmt.Sprintf("L%04d", g.nextCode)
			g.nextCode++
		}
	}

	var features *dataset.Frame
	if g.config.WithFeatures {
		names := make([]string, len(g.inputs))
		columns := make([][]float64, len(g.inputs))
		for i, input := range g.inputs {
			names[i] = input.Key
			columns[i] = input.Sample(g.rng, n)
		}
		frame, err := dataset.NewFrame(names, columns)
		if err != nil {
			return nil, err
		}
		features = frame
	}

	return diagnostics.NewFoldResult(g.config.Key, observed, predicted, standardDeviation, labcodes, features)
}

// GenerateCollection builds a full synthetic run with the configured number
// of folds.
func (g *CrossValGenerator) GenerateCollection() (*diagnostics.FoldCollection, error) {
	folds := make([]*diagnostics.FoldResult, g.config.Folds)
	for i := range folds {
		fold, err := g.GenerateFold(g.config.SamplesPerFold)
		if err != nil {
			return nil, fmt.Errorf("generating fold %d: %w", i, err)
		}
		folds[i] = fold
	}
	return diagnostics.NewFoldCollection(folds)
}

// ObservedSummary reports mean and standard deviation of a fold's observed
// values, for demo output and sanity checks.
func ObservedSummary(fold *diagnostics.FoldResult) (mean, stdDev float64, err error) {
	observed := fold.Observed()
	mean, err = stats.Mean(observed)
	if err != nil {
		return 0, 0, err
	}
	stdDev, err = stats.StandardDeviation(observed)
	if err != nil {
		return 0, 0, err
	}
	return mean, stdDev, nil
}
