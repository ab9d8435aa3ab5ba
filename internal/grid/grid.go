// internal/grid/grid.go
//
// Rectilinear grid reconstruction from tagged axis segments. Primary axes
// are the predominantly vertical lines (letter tags, constant X); secondary
// axes are the horizontal lines (number tags, constant Y). Cells span
// consecutive axis pairs in both families.

package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sitecast/erector/internal/model"
)

// Family distinguishes the two axis directions of a rectilinear grid.
type Family int

const (
	// Primary axes run vertically and carry letter tags; their position
	// is a world X coordinate.
	Primary Family = iota
	// Secondary axes run horizontally and carry number tags; their
	// position is a world Y coordinate.
	Secondary
)

func (f Family) String() string {
	if f == Primary {
		return "primary"
	}
	return "secondary"
}

// Axis is one grid line.
type Axis struct {
	Tag      string  `json:"tag"`
	Family   Family  `json:"-"`
	Position float64 `json:"position"`
}

// Cell is one rectangle bounded by consecutive axes of both families.
type Cell struct {
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary"`
	XMin      float64 `json:"x_min"`
	XMax      float64 `json:"x_max"`
	YMin      float64 `json:"y_min"`
	YMax      float64 `json:"y_max"`
}

// Name returns the conventional cell reference, e.g. "A-01".
func (c Cell) Name() string {
	return fmt.Sprintf("%s-%s", c.Primary, c.Secondary)
}

// Center returns the cell midpoint.
func (c Cell) Center() (x, y float64) {
	return (c.XMin + c.XMax) / 2, (c.YMin + c.YMax) / 2
}

// Grid holds both sorted axis families and the derived cells. Virtual is
// set when the grid was synthesized from element extents rather than
// reconstructed from real axes.
type Grid struct {
	Primary   []Axis `json:"primary"`
	Secondary []Axis `json:"secondary"`
	Cells     []Cell `json:"cells"`
	Virtual   bool   `json:"virtual"`
}

// Empty reports whether no axes were found in either family.
func (g *Grid) Empty() bool {
	return g == nil || (len(g.Primary) == 0 && len(g.Secondary) == 0)
}

// Reconstruct classifies tagged segments into axis families, dedupes tags
// to their lowest position, and derives cells. Segments never abort the
// reconstruction; a degenerate segment simply classifies as horizontal.
func Reconstruct(records []model.AxisRecord) *Grid {
	primary := map[string]float64{}
	secondary := map[string]float64{}

	for _, rec := range records {
		if rec.Tag == "" {
			continue
		}
		dx := abs(rec.End.X - rec.Start.X)
		dy := abs(rec.End.Y - rec.Start.Y)
		if dy > dx {
			keepLowest(primary, rec.Tag, rec.Start.X)
		} else {
			keepLowest(secondary, rec.Tag, rec.Start.Y)
		}
	}

	g := &Grid{
		Primary:   sortedAxes(primary, Primary),
		Secondary: sortedAxes(secondary, Secondary),
	}
	g.Cells = deriveCells(g.Primary, g.Secondary)
	return g
}

// FindCell returns the cell containing (x, y), falling back to the cell
// with the nearest center. ok is false only when the grid has no cells.
func (g *Grid) FindCell(x, y float64) (Cell, bool) {
	if g == nil || len(g.Cells) == 0 {
		return Cell{}, false
	}
	for _, c := range g.Cells {
		if c.XMin <= x && x <= c.XMax && c.YMin <= y && y <= c.YMax {
			return c, true
		}
	}
	best := g.Cells[0]
	bestDist := centerDistSq(best, x, y)
	for _, c := range g.Cells[1:] {
		if d := centerDistSq(c, x, y); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, true
}

// Tags returns the unique tags of one family sorted by the family's tag
// order, not by position.
func (g *Grid) Tags(f Family) []string {
	var axes []Axis
	if f == Primary {
		axes = g.Primary
	} else {
		axes = g.Secondary
	}
	tags := make([]string, 0, len(axes))
	seen := make(map[string]bool, len(axes))
	for _, a := range axes {
		key := strings.ToUpper(a.Tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, a.Tag)
	}
	SortTags(f, tags)
	return tags
}

// Bounds is an axis-aligned rectangle in world space.
type Bounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Contains tests a point against the closed rectangle.
func (b Bounds) Contains(x, y float64) bool {
	return b.XMin <= x && x <= b.XMax && b.YMin <= y && y <= b.YMax
}

// BoundsOf computes the bounding box of an element population. ok is
// false for an empty population.
func BoundsOf(elements []model.Element) (Bounds, bool) {
	if len(elements) == 0 {
		return Bounds{}, false
	}
	b := Bounds{XMin: elements[0].X, XMax: elements[0].X, YMin: elements[0].Y, YMax: elements[0].Y}
	for _, e := range elements[1:] {
		b.XMin = min(b.XMin, e.X)
		b.XMax = max(b.XMax, e.X)
		b.YMin = min(b.YMin, e.Y)
		b.YMax = max(b.YMax, e.Y)
	}
	return b, true
}

func keepLowest(m map[string]float64, tag string, pos float64) {
	if prev, ok := m[tag]; !ok || pos < prev {
		m[tag] = pos
	}
}

func sortedAxes(m map[string]float64, f Family) []Axis {
	axes := make([]Axis, 0, len(m))
	for tag, pos := range m {
		axes = append(axes, Axis{Tag: tag, Family: f, Position: pos})
	}
	sort.Slice(axes, func(i, j int) bool {
		if axes[i].Position != axes[j].Position {
			return axes[i].Position < axes[j].Position
		}
		return axes[i].Tag < axes[j].Tag
	})
	return axes
}

func deriveCells(primary, secondary []Axis) []Cell {
	if len(primary) < 2 || len(secondary) < 2 {
		return nil
	}
	cells := make([]Cell, 0, (len(primary)-1)*(len(secondary)-1))
	for i := 0; i < len(primary)-1; i++ {
		x0, x1 := primary[i].Position, primary[i+1].Position
		if x0 == x1 {
			continue
		}
		for j := 0; j < len(secondary)-1; j++ {
			y0, y1 := secondary[j].Position, secondary[j+1].Position
			if y0 == y1 {
				continue
			}
			cells = append(cells, Cell{
				Primary:   primary[i].Tag,
				Secondary: secondary[j].Tag,
				XMin:      x0,
				XMax:      x1,
				YMin:      y0,
				YMax:      y1,
			})
		}
	}
	return cells
}

func centerDistSq(c Cell, x, y float64) float64 {
	cx, cy := c.Center()
	dx, dy := x-cx, y-cy
	return dx*dx + dy*dy
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
