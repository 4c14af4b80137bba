package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/pkg/pipeline"
)

// configFlags binds generation parameters to a command. Values start from a
// preset (or the defaults) and only flags the user set override them.
type configFlags struct {
	preset string
	seed   uint64
	vals   pipeline.Config
}

// Flag names shared by generate, tune and preset save.
const (
	flagPreset       = "preset"
	flagModel        = "model"
	flagNodes        = "nodes"
	flagDensity      = "density"
	flagDirected     = "directed"
	flagWeights      = "weights"
	flagDistribution = "distribution"
	flagWeightMin    = "weight-min"
	flagWeightMax    = "weight-max"
	flagCommunities  = "communities"
	flagCommCount    = "community-count"
	flagReinforce    = "reinforce"
	flagLayout       = "layout"
	flagWidth        = "width"
	flagHeight       = "height"
	flagSeed         = "seed"
)

func bindConfigFlags(cmd *cobra.Command) *configFlags {
	cf := &configFlags{vals: pipeline.DefaultConfig()}
	d := pipeline.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&cf.preset, flagPreset, "", "start from a saved preset")
	f.StringVarP(&cf.vals.Model, flagModel, "m", d.Model, "graph model (see 'graphsynth models')")
	f.IntVarP(&cf.vals.Nodes, flagNodes, "n", d.Nodes, "number of nodes")
	f.Float64VarP(&cf.vals.Density, flagDensity, "d", d.Density, "density in [0, 1]")
	f.BoolVar(&cf.vals.Directed, flagDirected, d.Directed, "orient edges")
	f.BoolVar(&cf.vals.Weights.Enabled, flagWeights, d.Weights.Enabled, "assign edge weights")
	f.StringVar(&cf.vals.Weights.Distribution, flagDistribution, d.Weights.Distribution, "weight distribution")
	f.Float64Var(&cf.vals.Weights.Min, flagWeightMin, d.Weights.Min, "smallest weight")
	f.Float64Var(&cf.vals.Weights.Max, flagWeightMax, d.Weights.Max, "largest weight")
	f.BoolVar(&cf.vals.Communities.Enabled, flagCommunities, d.Communities.Enabled, "detect communities")
	f.IntVar(&cf.vals.Communities.Count, flagCommCount, d.Communities.Count, "target number of communities")
	f.BoolVar(&cf.vals.Communities.Reinforce, flagReinforce, d.Communities.Reinforce, "strengthen intra-community edges")
	f.StringVarP(&cf.vals.Layout, flagLayout, "l", d.Layout, "layout algorithm")
	f.Float64Var(&cf.vals.Width, flagWidth, d.Width, "viewport width")
	f.Float64Var(&cf.vals.Height, flagHeight, d.Height, "viewport height")
	f.Uint64Var(&cf.seed, flagSeed, 0, "random seed (omit for a fresh graph each run)")

	return cf
}

// resolve returns the effective configuration for cmd, loading the preset
// from presets when one is named.
func (cf *configFlags) resolve(cmd *cobra.Command, presets func() (*pipeline.Presets, error)) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if cf.preset != "" {
		store, err := presets()
		if err != nil {
			return cfg, err
		}
		if cfg, err = store.Get(cf.preset); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed(flagModel) {
		cfg.Model = cf.vals.Model
	}
	if changed(flagNodes) {
		cfg.Nodes = cf.vals.Nodes
	}
	if changed(flagDensity) {
		cfg.Density = cf.vals.Density
	}
	if changed(flagDirected) {
		cfg.Directed = cf.vals.Directed
	}
	if changed(flagWeights) {
		cfg.Weights.Enabled = cf.vals.Weights.Enabled
	}
	if changed(flagDistribution) {
		cfg.Weights.Distribution = cf.vals.Weights.Distribution
	}
	if changed(flagWeightMin) {
		cfg.Weights.Min = cf.vals.Weights.Min
	}
	if changed(flagWeightMax) {
		cfg.Weights.Max = cf.vals.Weights.Max
	}
	if changed(flagCommunities) {
		cfg.Communities.Enabled = cf.vals.Communities.Enabled
	}
	if changed(flagCommCount) {
		cfg.Communities.Count = cf.vals.Communities.Count
	}
	if changed(flagReinforce) {
		cfg.Communities.Reinforce = cf.vals.Communities.Reinforce
	}
	if changed(flagLayout) {
		cfg.Layout = cf.vals.Layout
	}
	if changed(flagWidth) {
		cfg.Width = cf.vals.Width
	}
	if changed(flagHeight) {
		cfg.Height = cf.vals.Height
	}
	if changed(flagSeed) {
		cfg = cfg.WithSeed(cf.seed)
	}

	cfg.Normalize()
	return cfg, cfg.Validate()
}

// loadPresets opens the default presets store.
func loadPresets() (*pipeline.Presets, error) {
	path, err := pipeline.DefaultPresetsPath()
	if err != nil {
		return nil, err
	}
	return pipeline.LoadPresets(path)
}
