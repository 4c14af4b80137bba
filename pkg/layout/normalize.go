package layout

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport defaults.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// Fill is the share of the viewport the longer scaled axis occupies.
	Fill = 0.9
)

// ErrInvalidViewport is returned for non-positive viewport dimensions.
var ErrInvalidViewport = errors.New("viewport dimensions must be positive")

// Viewport is the drawing area positions are normalized into.
type Viewport struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// DefaultViewport returns an 800×600 viewport.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultWidth, Height: DefaultHeight}
}

// Validate reports whether both dimensions are positive and finite.
func (v Viewport) Validate() error {
	if !(v.Width > 0) || !(v.Height > 0) || math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
		return ErrInvalidViewport
	}
	return nil
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() r2.Vec {
	return r2.Vec{X: v.Width / 2, Y: v.Height / 2}
}

// Contains reports whether p lies inside the closed viewport rectangle.
func (v Viewport) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.X <= v.Width && p.Y >= 0 && p.Y <= v.Height
}

// Normalize scales raw positions by Fill·min(sx, sy) and centers the
// bounding box in vp, where sx = W/range_x and sy = H/range_y. An axis with
// zero range has scale 1, so a single node lands at the center and a
// collinear drawing is not stretched to the viewport. Non-finite coordinates
// are treated as 0.
func Normalize(raw Positions, vp Viewport) Positions {
	out := make(Positions, len(raw))
	if len(raw) == 0 {
		return out
	}

	pts := make(Positions, len(raw))
	for i, p := range raw {
		pts[i] = r2.Vec{X: finite(p.X), Y: finite(p.Y)}
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	scale := Fill * math.Min(axisScale(vp.Width, hi.X-lo.X), axisScale(vp.Height, hi.Y-lo.Y))

	mid := r2.Scale(0.5, r2.Add(lo, hi))
	center := vp.Center()
	for i, p := range pts {
		out[i] = r2.Add(center, r2.Scale(scale, r2.Sub(p, mid)))
	}
	return out
}

func axisScale(extent, span float64) float64 {
	if span > 0 {
		return extent / span
	}
	return 1
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
