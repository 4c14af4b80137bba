package io

import (
	"strings"
	"time"
)

// TimestampFormat is the timestamp layout used in export filenames.
const TimestampFormat = "20060102_150405"

// ExportFilename returns "graph_<kind>_<timestamp>.<ext>" for an artifact
// produced at t. A leading dot on ext is ignored.
func ExportFilename(kind, ext string, t time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	return "graph_" + kind + "_" + t.Format(TimestampFormat) + "." + ext
}
