package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphsynth/pkg/cache"
	"github.com/matzehuels/graphsynth/pkg/errors"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		want    []string
		wantErr bool
	}{
		{"default", nil, []string{FormatSVG}, false},
		{"case and duplicates", []string{"DOT", "dot", " json "}, []string{FormatDOT, FormatJSON}, false},
		{"unknown", []string{"svg", "pdf"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Formats: tt.formats}
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("code = %s, want INVALID_FORMAT", errors.GetCode(err))
				}
				return
			}
			if strings.Join(opts.Formats, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Formats = %v, want %v", opts.Formats, tt.want)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	cfg := seeded(31)
	cfg.Communities.Enabled = true

	res, err := r.Execute(context.Background(), Options{
		Config:  cfg,
		Formats: []string{FormatDOT, FormatGEXF, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != cfg.Nodes || res.Stats.EdgeCount != res.Graph.Graph().EdgeCount() {
		t.Errorf("stats = %+v", res.Stats)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "graph G {") {
		t.Errorf("dot artifact = %.40q", res.Artifacts[FormatDOT])
	}
	if !bytes.Contains(res.Artifacts[FormatGEXF], []byte(`title="community"`)) {
		t.Error("gexf artifact should carry communities")
	}

	var m map[string]any
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &m); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if m["nodes"] != float64(cfg.Nodes) {
		t.Errorf("json nodes = %v", m["nodes"])
	}
}

func TestRunnerCachesSeededRuns(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	opts := Options{Config: seeded(37), Formats: []string{FormatDOT, FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !first.CacheInfo.Cacheable || first.CacheInfo.RenderHit || first.ConfigHash == "" {
		t.Errorf("first run cache info = %+v hash=%q", first.CacheInfo, first.ConfigHash)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should be served from the cache")
	}
	if second.ConfigHash != first.ConfigHash {
		t.Error("config hash should be stable")
	}
	if !bytes.Equal(first.Artifacts[FormatDOT], second.Artifacts[FormatDOT]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache reads")
	}

	opts.Refresh = false
	opts.Formats = []string{FormatDOT, FormatGEXF}
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("a format missing from the cache forces a render")
	}
}

func TestRunnerSkipsCacheWhenUnseeded(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Config: DefaultConfig(), Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Cacheable || res.ConfigHash != "" {
		t.Errorf("unseeded run should not be cached: %+v", res.CacheInfo)
	}
	if n, _ := fc.Clear(); n != 0 {
		t.Errorf("cache holds %d entries, want 0", n)
	}
}

func TestRunnerUsesPipeline(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	r.Pipeline = New()

	res, err := r.Execute(context.Background(), Options{Config: seeded(41), Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if r.Pipeline.State() != Ready || r.Pipeline.Current() != res.Graph {
		t.Errorf("pipeline state = %v", r.Pipeline.State())
	}

	bad := seeded(41)
	bad.Nodes = 0
	if _, err := r.Execute(context.Background(), Options{Config: bad}); err == nil {
		t.Fatal("expected error")
	}
	if r.Pipeline.State() != Failed {
		t.Errorf("pipeline state = %v, want failed", r.Pipeline.State())
	}
}
