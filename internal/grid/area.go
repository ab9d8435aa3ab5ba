// internal/grid/area.go
//
// Resolves a tag-range request ("grid 2-8 / A-J") to world bounds. Two
// strategies: exact axis positions when the grid geometry is trustworthy,
// proportional apportionment of the element extent when it is degenerate
// (all axes at one position, or requested tags unknown).

package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArea marks a malformed area request.
var ErrInvalidArea = errors.New("grid: invalid area request")

// Strategy identifies how an area request was resolved.
type Strategy string

const (
	StrategyAxisPositions Strategy = "axis_positions"
	StrategyProportional  Strategy = "proportional"
)

// AreaRequest names the corners of a rectangular grid range. Primary tags
// select the X span, secondary tags the Y span.
type AreaRequest struct {
	PrimaryStart   string `json:"primary_start"`
	PrimaryEnd     string `json:"primary_end"`
	SecondaryStart string `json:"secondary_start"`
	SecondaryEnd   string `json:"secondary_end"`
}

// Validate rejects requests with missing tags.
func (r AreaRequest) Validate() error {
	if r.PrimaryStart == "" || r.PrimaryEnd == "" || r.SecondaryStart == "" || r.SecondaryEnd == "" {
		return fmt.Errorf("%w: all four axis tags are required", ErrInvalidArea)
	}
	return nil
}

// Label renders the request in drawing convention, secondary range first.
func (r AreaRequest) Label() string {
	return fmt.Sprintf("Grid %s-%s / %s-%s", r.SecondaryStart, r.SecondaryEnd, r.PrimaryStart, r.PrimaryEnd)
}

// AreaParams tunes area resolution.
type AreaParams struct {
	// Tolerance expands exact-position bounds on every side, in mm.
	Tolerance float64
	// MinSpan is the smallest requested span the exact strategy accepts.
	MinSpan float64
}

// ResolveArea turns a request into world bounds. The exact strategy
// applies only when both families have more than one distinct position,
// both requested tags resolve, and the resolved span clears MinSpan in
// both directions; anything less falls back to the proportional strategy
// over the element extent.
func (g *Grid) ResolveArea(req AreaRequest, extent Bounds, p AreaParams) (Bounds, Strategy, error) {
	if err := req.Validate(); err != nil {
		return Bounds{}, "", err
	}
	if b, ok := g.axisPositionArea(req, p); ok {
		return b, StrategyAxisPositions, nil
	}
	return g.proportionalArea(req, extent, p), StrategyProportional, nil
}

// ProportionalArea resolves the request with the proportional strategy
// unconditionally, for callers that distrust axis geometry outright.
func (g *Grid) ProportionalArea(req AreaRequest, extent Bounds, p AreaParams) (Bounds, error) {
	if err := req.Validate(); err != nil {
		return Bounds{}, err
	}
	return g.proportionalArea(req, extent, p), nil
}

func (g *Grid) axisPositionArea(req AreaRequest, p AreaParams) (Bounds, bool) {
	if g == nil || distinctPositions(g.Primary) < 2 || distinctPositions(g.Secondary) < 2 {
		return Bounds{}, false
	}
	xs := matchedPositions(g.Primary, req.PrimaryStart, req.PrimaryEnd)
	ys := matchedPositions(g.Secondary, req.SecondaryStart, req.SecondaryEnd)
	if len(xs) < 2 || len(ys) < 2 {
		return Bounds{}, false
	}
	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)
	if xMax-xMin < p.MinSpan || yMax-yMin < p.MinSpan {
		return Bounds{}, false
	}
	return Bounds{
		XMin: xMin - p.Tolerance,
		XMax: xMax + p.Tolerance,
		YMin: yMin - p.Tolerance,
		YMax: yMax + p.Tolerance,
	}, true
}

// proportionalArea apportions the element extent by tag index. A missing
// start tag clamps to the first index, a missing end tag to the last, and
// inverted requests swap. Each side gains half a division width. A family
// with no tags at all degrades to the full extent plus Tolerance.
func (g *Grid) proportionalArea(req AreaRequest, extent Bounds, p AreaParams) Bounds {
	b := Bounds{
		XMin: extent.XMin - p.Tolerance,
		XMax: extent.XMax + p.Tolerance,
		YMin: extent.YMin - p.Tolerance,
		YMax: extent.YMax + p.Tolerance,
	}

	xRange := extent.XMax - extent.XMin
	if xRange <= 0 {
		xRange = 1
	}
	yRange := extent.YMax - extent.YMin
	if yRange <= 0 {
		yRange = 1
	}

	if primTags := g.Tags(Primary); len(primTags) > 0 {
		lo, hi := tagSpanIndexes(primTags, req.PrimaryStart, req.PrimaryEnd)
		n := float64(len(primTags))
		div := xRange / n
		b.XMin = extent.XMin + float64(lo)/n*xRange - div/2
		b.XMax = extent.XMin + float64(hi+1)/n*xRange + div/2
	}
	if secTags := g.Tags(Secondary); len(secTags) > 0 {
		lo, hi := tagSpanIndexes(secTags, req.SecondaryStart, req.SecondaryEnd)
		n := float64(len(secTags))
		div := yRange / n
		b.YMin = extent.YMin + float64(lo)/n*yRange - div/2
		b.YMax = extent.YMin + float64(hi+1)/n*yRange + div/2
	}
	return b
}

func distinctPositions(axes []Axis) int {
	seen := make(map[float64]bool, len(axes))
	for _, a := range axes {
		seen[a.Position] = true
	}
	return len(seen)
}

func matchedPositions(axes []Axis, start, end string) []float64 {
	var positions []float64
	for _, a := range axes {
		if strings.EqualFold(a.Tag, start) || strings.EqualFold(a.Tag, end) {
			positions = append(positions, a.Position)
		}
	}
	return positions
}

func tagSpanIndexes(tags []string, start, end string) (int, int) {
	lo := tagIndex(tags, start, 0)
	hi := tagIndex(tags, end, len(tags)-1)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func tagIndex(tags []string, tag string, fallback int) int {
	for i, t := range tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	return fallback
}

func minMax(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
