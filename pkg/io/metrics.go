package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphsynth/pkg/analysis"
)

// WriteMetrics encodes m as indented JSON and writes it to w. Undefined
// metrics are written as their reason string.
func WriteMetrics(w io.Writer, m analysis.Metrics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportMetrics writes m to a JSON file at path.
func ExportMetrics(m analysis.Metrics, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteMetrics(f, m)
}

// ReadMetrics decodes a metrics record written by [WriteMetrics].
func ReadMetrics(r io.Reader) (analysis.Metrics, error) {
	var m analysis.Metrics
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return analysis.Metrics{}, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}
