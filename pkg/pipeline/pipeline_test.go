package pipeline

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/graphsynth/pkg/errors"
	"github.com/matzehuels/graphsynth/pkg/layout"
)

func seeded(seed uint64) Config {
	return DefaultConfig().WithSeed(seed)
}

func TestPipelineStates(t *testing.T) {
	ctx := context.Background()
	p := New()
	if p.State() != Idle || p.Current() != nil {
		t.Fatalf("new pipeline: state=%v current=%v", p.State(), p.Current())
	}

	rg, err := p.Generate(ctx, seeded(1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.State() != Ready || p.Current() != rg || p.Err() != nil {
		t.Errorf("after success: state=%v current=%p err=%v", p.State(), p.Current(), p.Err())
	}

	bad := seeded(1)
	bad.Nodes = 0
	if _, err := p.Generate(ctx, bad); err == nil {
		t.Fatal("expected error for zero nodes")
	}
	if p.State() != Failed {
		t.Errorf("state = %v, want failed", p.State())
	}
	if p.Current() != nil {
		t.Error("failed run must discard the previous result")
	}
	if !errors.Is(p.Err(), errors.ErrCodeConfig) {
		t.Errorf("Err() = %v, want CONFIG_ERROR", p.Err())
	}

	if _, err := p.Generate(ctx, seeded(2)); err != nil {
		t.Fatalf("Generate after failure: %v", err)
	}
	if p.State() != Ready {
		t.Errorf("state = %v, want ready", p.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Generating: "generating", Ready: "ready", Failed: "failed"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"zero nodes", func(c *Config) { c.Nodes = 0 }, errors.ErrCodeConfig},
		{"too many nodes", func(c *Config) { c.Nodes = MaxNodes + 1 }, errors.ErrCodeConfig},
		{"unknown model", func(c *Config) { c.Model = "lattice" }, errors.ErrCodeConfig},
		{"unknown layout", func(c *Config) { c.Layout = "hive" }, errors.ErrCodeConfig},
		{"inverted weight range", func(c *Config) {
			c.Weights.Enabled = true
			c.Weights.Min, c.Weights.Max = 5, 5
		}, errors.ErrCodeConfig},
		{"negative community count", func(c *Config) { c.Communities.Count = -1 }, errors.ErrCodeConfig},
		{"zero width", func(c *Config) { c.Width = 0 }, errors.ErrCodeConfig},
		{"odd regular degree", func(c *Config) {
			c.Model = "random_regular"
			c.Nodes = 5
			c.Density = 0.6
		}, errors.ErrCodeGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := seeded(3)
			tt.mutate(&cfg)
			_, err := Synthesize(context.Background(), cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDensityClampedByModel(t *testing.T) {
	tests := []struct {
		name    string
		density float64
		edges   int
	}{
		{"above one", 1.5, 15},
		{"below zero", -0.3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := seeded(1)
			cfg.Model = "random"
			cfg.Nodes = 6
			cfg.Density = tt.density
			rg, err := Synthesize(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			if got := rg.Graph().EdgeCount(); got != tt.edges {
				t.Errorf("edges = %d, want %d", got, tt.edges)
			}
		})
	}

	cfg := seeded(1)
	cfg.Model = "complete"
	cfg.Density = 1.5
	if _, err := Synthesize(context.Background(), cfg); err != nil {
		t.Errorf("complete with density 1.5: %v", err)
	}
}

func TestSameSeedReproduces(t *testing.T) {
	cfg := seeded(42)
	cfg.Model = "small_world"
	cfg.Nodes = 30
	cfg.Weights.Enabled = true
	cfg.Communities.Enabled = true

	a, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(a.Graph().Edges(), b.Graph().Edges()) {
		t.Error("edges differ between runs with the same seed")
	}
	if !slices.Equal(a.Positions(), b.Positions()) {
		t.Error("positions differ between runs with the same seed")
	}
	if !slices.Equal(a.Labels(), b.Labels()) {
		t.Error("labels differ between runs with the same seed")
	}
	if a.Metrics().Density != b.Metrics().Density {
		t.Error("metrics differ between runs with the same seed")
	}
	if a.ID() == b.ID() {
		t.Error("each run should get its own id")
	}
}

func TestUnseededRunRecordsSeed(t *testing.T) {
	cfg := DefaultConfig()
	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rg.Seed() > MaxSeed {
		t.Errorf("drawn seed %d exceeds MaxSeed", rg.Seed())
	}

	replay, err := Synthesize(context.Background(), rg.Config())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rg.Graph().Edges(), replay.Graph().Edges()) {
		t.Error("replaying the recorded config should reproduce the graph")
	}
}

func TestWeightsWithinRange(t *testing.T) {
	cfg := seeded(7)
	cfg.Weights = WeightSpec{Enabled: true, Distribution: "normal", Min: 2, Max: 4}

	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !rg.Graph().Weighted() {
		t.Fatal("graph should be weighted")
	}
	for _, w := range rg.Weights() {
		if w < 2 || w > 4 {
			t.Errorf("weight %v outside [2, 4]", w)
		}
	}
	if m := rg.Metrics(); m.Weights == nil || m.Weights.Min < 2 || m.Weights.Max > 4 {
		t.Errorf("weight stats = %+v", m.Weights)
	}
}

func TestCommunities(t *testing.T) {
	cfg := seeded(11)
	cfg.Model = "small_world"
	cfg.Nodes = 40
	cfg.Density = 0.1
	cfg.Communities = CommunitySpec{Enabled: true, Count: 4, Reinforce: true}

	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := rg.Communities()
	if !ok {
		t.Fatal("communities should be present")
	}
	if len(a.Labels) != 40 || len(rg.Labels()) != 40 {
		t.Errorf("labels length = %d", len(a.Labels))
	}
	if !rg.Graph().Weighted() {
		t.Error("reinforcement should make the graph weighted")
	}
	for _, e := range rg.Graph().Edges() {
		same := a.Labels[e.U] == a.Labels[e.V]
		if same && e.Weight != 2 {
			t.Errorf("intra-community edge %d-%d weight %v, want 2", e.U, e.V, e.Weight)
		}
		if !same && e.Weight != 1 {
			t.Errorf("inter-community edge %d-%d weight %v, want 1", e.U, e.V, e.Weight)
		}
	}
}

func TestCommunitiesSkipped(t *testing.T) {
	tests := []struct {
		name string
		spec CommunitySpec
	}{
		{"disabled", CommunitySpec{Enabled: false, Count: 3}},
		{"count below two", CommunitySpec{Enabled: true, Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := seeded(5)
			cfg.Communities = tt.spec
			rg, err := Synthesize(context.Background(), cfg)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := rg.Communities(); ok {
				t.Error("partition should not run")
			}
			if rg.Labels() != nil {
				t.Error("labels should be nil")
			}
		})
	}
}

func TestPartitionFallbackOnEdgelessGraph(t *testing.T) {
	cfg := seeded(9)
	cfg.Model = "random"
	cfg.Density = 0
	cfg.Nodes = 7
	cfg.Communities = CommunitySpec{Enabled: true, Count: 3}

	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := rg.Communities()
	if !a.Fallback {
		t.Error("edgeless graph should use the round-robin fallback")
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	if !slices.Equal(a.Labels, want) {
		t.Errorf("labels = %v, want %v", a.Labels, want)
	}
}

func TestPlanarFallbackRecorded(t *testing.T) {
	cfg := seeded(13)
	cfg.Model = "complete"
	cfg.Nodes = 6
	cfg.Layout = "planar"

	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	l := rg.Layout()
	if !l.Fallback || l.Used != layout.Spring || l.Requested != layout.Planar {
		t.Errorf("layout = requested %v used %v fallback %v", l.Requested, l.Used, l.Fallback)
	}
	s := rg.Summary()
	if !s.Layout.Fallback || s.Layout.Used != "spring" || s.Layout.Reason == "" {
		t.Errorf("summary layout = %+v", s.Layout)
	}
}

func TestOrientation(t *testing.T) {
	for _, directed := range []bool{false, true} {
		cfg := seeded(17)
		cfg.Model = "star"
		cfg.Directed = directed
		rg, err := Synthesize(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if rg.Graph().Directed() != directed {
			t.Errorf("Directed() = %v, want %v", rg.Graph().Directed(), directed)
		}
		if rg.Metrics().Directed != directed {
			t.Errorf("metrics directed = %v", rg.Metrics().Directed)
		}
	}
}

func TestPositionsInsideViewport(t *testing.T) {
	cfg := seeded(19)
	cfg.Width, cfg.Height = 400, 300
	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	vp := layout.Viewport{Width: 400, Height: 300}
	for i, p := range rg.Positions() {
		if !vp.Contains(p) {
			t.Errorf("node %d at %v outside viewport", i, p)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	cfg := seeded(23)
	cfg.Communities.Enabled = true
	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	pos := rg.Positions()
	pos[0].X = -1000
	if rg.Positions()[0].X == -1000 {
		t.Error("Positions exposes internal state")
	}
	labels := rg.Labels()
	labels[0] = 99
	if rg.Labels()[0] == 99 {
		t.Error("Labels exposes internal state")
	}
}

func TestNormalizeNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "Small-World"
	cfg.Layout = "Kamada-Kawai"
	cfg.Weights.Distribution = "LogNormal"
	cfg.Normalize()

	if cfg.Model != "small_world" || cfg.Layout != "kamada_kawai" || cfg.Weights.Distribution != "lognormal" {
		t.Errorf("normalized = %q %q %q", cfg.Model, cfg.Layout, cfg.Weights.Distribution)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("normalized config should validate: %v", err)
	}
}

func TestTimingsRecorded(t *testing.T) {
	cfg := seeded(29)
	cfg.Weights.Enabled = true
	cfg.Communities.Enabled = true
	rg, err := Synthesize(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	tm := rg.Timings()
	if tm.Total() < tm.Layout || tm.Total() <= 0 {
		t.Errorf("timings = %+v", tm)
	}
	if rg.GeneratedAt().IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestStageErrors(t *testing.T) {
	boom := stderrors.New("boom")
	tests := []struct {
		name string
		fn   func() error
		code errors.Code
	}{
		{"returned error", func() error { return errors.Wrap(errors.ErrCodeLayout, boom, "layout") }, errors.ErrCodeLayout},
		{"panic", func() error { panic("index out of range") }, errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var elapsed time.Duration
			err := stage(context.Background(), "analyze", &elapsed, tt.fn)
			if !errors.Is(err, tt.code) {
				t.Errorf("stage error = %v, want %s", err, tt.code)
			}
		})
	}

	var elapsed time.Duration
	if err := stage(context.Background(), "analyze", &elapsed, func() error { return nil }); err != nil {
		t.Errorf("clean stage returned %v", err)
	}
}
