package pipeline

import (
	"math"

	"github.com/matzehuels/graphsynth/pkg/errors"
	"github.com/matzehuels/graphsynth/pkg/layout"
	"github.com/matzehuels/graphsynth/pkg/models"
	"github.com/matzehuels/graphsynth/pkg/weights"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, server and TUI
// =============================================================================

const (
	DefaultModel   = "random"
	DefaultNodes   = 20
	DefaultDensity = 0.5
	DefaultLayout  = "spring"

	DefaultDistribution = "uniform"
	DefaultWeightMin    = 1.0
	DefaultWeightMax    = 10.0

	DefaultCommunityCount = 3

	DefaultWidth  = layout.DefaultWidth
	DefaultHeight = layout.DefaultHeight

	// MaxNodes bounds a single request.
	MaxNodes = 5000

	// MaxSeed is the largest accepted seed.
	MaxSeed = math.MaxInt64
)

// =============================================================================
// Config - Generation Parameters
// =============================================================================

// Config holds every parameter of one generation run. The zero value is not
// usable; start from DefaultConfig.
//
// Density is not range-checked: each model clamps it into its own domain.
type Config struct {
	Model       string        `json:"model" toml:"model" validate:"model"`
	Nodes       int           `json:"nodes" toml:"nodes" validate:"gte=1,lte=5000"`
	Density     float64       `json:"density" toml:"density"`
	Directed    bool          `json:"directed" toml:"directed"`
	Weights     WeightSpec    `json:"weights" toml:"weights"`
	Communities CommunitySpec `json:"communities" toml:"communities"`
	Layout      string        `json:"layout" toml:"layout" validate:"layout"`
	Width       float64       `json:"width" toml:"width" validate:"gt=0"`
	Height      float64       `json:"height" toml:"height" validate:"gt=0"`

	// Seed fixes the random source. When nil, a seed is drawn per run and
	// recorded on the result. Seeds fit in 63 bits so that TOML can hold them.
	Seed *uint64 `json:"seed,omitempty" toml:"seed,omitempty" validate:"omitempty,lte=9223372036854775807"`
}

// WeightSpec configures edge weights.
type WeightSpec struct {
	Enabled      bool    `json:"enabled" toml:"enabled"`
	Distribution string  `json:"distribution" toml:"distribution" validate:"distribution"`
	Min          float64 `json:"min" toml:"min" validate:"gte=0"`
	Max          float64 `json:"max" toml:"max" validate:"gtfield=Min"`
}

// CommunitySpec configures partitioning and reinforcement.
type CommunitySpec struct {
	Enabled   bool `json:"enabled" toml:"enabled"`
	Count     int  `json:"count" toml:"count" validate:"gte=0"`
	Reinforce bool `json:"reinforce" toml:"reinforce"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Model:   DefaultModel,
		Nodes:   DefaultNodes,
		Density: DefaultDensity,
		Weights: WeightSpec{
			Distribution: DefaultDistribution,
			Min:          DefaultWeightMin,
			Max:          DefaultWeightMax,
		},
		Communities: CommunitySpec{
			Count:     DefaultCommunityCount,
			Reinforce: true,
		},
		Layout: DefaultLayout,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

var configValidator = errors.NewValidator(map[string][]string{
	"model":        models.Names(),
	"layout":       layout.Names(),
	"distribution": weights.Names(),
})

// Normalize canonicalizes the selector names so that "Small-World" and
// "small_world" are the same model. Unknown names are left for Validate.
func (c *Config) Normalize() {
	if k, err := models.ParseKind(c.Model); err == nil {
		c.Model = k.String()
	}
	if a, err := layout.ParseAlgorithm(c.Layout); err == nil {
		c.Layout = a.String()
	}
	if d, err := weights.ParseDistribution(c.Weights.Distribution); err == nil {
		c.Weights.Distribution = d.String()
	}
}

// Validate checks c and returns a CONFIG_ERROR describing every violation.
func (c Config) Validate() error {
	return configValidator.Struct(c)
}

// WithSeed returns a copy of c with the seed fixed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

// params resolves the validated selector names.
func (c Config) params() (models.Params, layout.Algorithm, weights.Spec, error) {
	kind, err := models.ParseKind(c.Model)
	if err != nil {
		return models.Params{}, 0, weights.Spec{}, err
	}
	alg, err := layout.ParseAlgorithm(c.Layout)
	if err != nil {
		return models.Params{}, 0, weights.Spec{}, err
	}
	dist, err := weights.ParseDistribution(c.Weights.Distribution)
	if err != nil {
		return models.Params{}, 0, weights.Spec{}, err
	}
	p := models.Params{Kind: kind, Nodes: c.Nodes, Density: c.Density, Directed: c.Directed}
	ws := weights.Spec{Distribution: dist, Min: c.Weights.Min, Max: c.Weights.Max}
	return p, alg, ws, nil
}

func (c Config) viewport() layout.Viewport {
	return layout.Viewport{Width: c.Width, Height: c.Height}
}
