package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	var out bytes.Buffer
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommandWritesFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := runRoot(t, "generate", "-m", "star", "-n", "8", "--seed", "3", "-f", "dot,json", "-o", dir, "--metrics=false")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var exts []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "graph_star_") {
			t.Errorf("unexpected file name %q", e.Name())
		}
		exts = append(exts, filepath.Ext(e.Name()))
	}
	slices.Sort(exts)
	if !slices.Equal(exts, []string{".dot", ".json"}) {
		t.Errorf("extensions = %v, want [.dot .json]", exts)
	}
}

func TestGenerateCommandRejectsFormat(t *testing.T) {
	if _, err := runRoot(t, "generate", "-f", "bmp", "-o", t.TempDir()); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPresetCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	exec := func(args ...string) (string, error) {
		c := New(&bytes.Buffer{}, log.InfoLevel)
		var out bytes.Buffer
		root := c.RootCommand()
		root.SetOut(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	if _, err := exec("preset", "save", "tiny", "-m", "star", "-n", "5"); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := exec("preset", "show", "tiny")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `"model": "star"`) || !strings.Contains(out, `"nodes": 5`) {
		t.Errorf("show output = %s", out)
	}
	if _, err := exec("preset", "delete", "tiny"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := exec("preset", "show", "tiny"); err == nil {
		t.Error("show after delete should fail")
	}
}

func TestVersionTemplate(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestWriteArtifactsOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	paths, err := writeArtifacts(dir, "star", at, map[string][]byte{
		"json": []byte("{}"),
		"dot":  []byte("graph G {}"),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "graph_star_20240301_120000.dot"),
		filepath.Join(dir, "graph_star_20240301_120000.json"),
	}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !slices.Equal(got, []string{"svg"}) {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("png,gexf"); !slices.Equal(got, []string{"png", "gexf"}) {
		t.Errorf("parseFormats = %v", got)
	}
}
