// internal/method/partition/partition.go
//
// Tiles the element footprint into rectangular zones sized for a
// manageable construction scope. Tiling is purely positional; grid cells
// only contribute zone membership labels and names.

package partition

import (
	"fmt"
	"math"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

// Config tunes the tiling.
type Config struct {
	// TargetSize is the tile edge the partition aims for, in mm.
	TargetSize float64
	// MaxPerAxis caps tiles per axis, bounding total zone count.
	MaxPerAxis int
}

// DefaultConfig matches the standard 30 m zones, at most 6 per axis.
func DefaultConfig() Config {
	return Config{TargetSize: 30000, MaxPerAxis: 6}
}

// Partition tiles the population row-major (Y rows outer, X inner,
// matching bay-by-bay convention) with a half-open membership test on
// both axes. Empty tiles are skipped; surviving zones get dense IDs from
// 1 in iteration order. Cell membership is by cell-center containment.
func Partition(elements []model.Element, g *grid.Grid, cfg Config) []method.Zone {
	extent, ok := grid.BoundsOf(elements)
	if !ok {
		return nil
	}
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = 30000
	}
	if cfg.MaxPerAxis <= 0 {
		cfg.MaxPerAxis = 6
	}

	xRange := extent.XMax - extent.XMin
	yRange := extent.YMax - extent.YMin
	// A degenerate extent still gets one tile wide enough to contain its
	// elements under the half-open test.
	if xRange <= 0 {
		xRange = 1
	}
	if yRange <= 0 {
		yRange = 1
	}

	numX := clampTiles(xRange/cfg.TargetSize, cfg.MaxPerAxis)
	numY := clampTiles(yRange/cfg.TargetSize, cfg.MaxPerAxis)
	tileW := xRange / float64(numX)
	tileH := yRange / float64(numY)

	var zones []method.Zone
	id := 1
	for j := 0; j < numY; j++ {
		for i := 0; i < numX; i++ {
			xr := method.Range{
				Min: extent.XMin + float64(i)*tileW,
				Max: extent.XMin + float64(i+1)*tileW,
			}
			yr := method.Range{
				Min: extent.YMin + float64(j)*tileH,
				Max: extent.YMin + float64(j+1)*tileH,
			}

			var ids []string
			counts := make(map[method.Category]int)
			for _, e := range elements {
				if !xr.Contains(e.X) || !yr.Contains(e.Y) {
					continue
				}
				ids = append(ids, e.ID)
				if cat, ok := method.CategoryOf(e.TypeTag); ok {
					counts[cat]++
				}
			}
			if len(ids) == 0 {
				continue
			}

			cells := memberCells(g, xr, yr)
			name := fmt.Sprintf("Zone %d", id)
			if derived, ok := method.ZoneNameFromCells(cells); ok {
				name = derived
			}

			zones = append(zones, method.Zone{
				ID:         id,
				Name:       name,
				GridCells:  cells,
				XRange:     xr,
				YRange:     yr,
				ElementIDs: ids,
				Counts:     counts,
			})
			id++
		}
	}
	return zones
}

func memberCells(g *grid.Grid, xr, yr method.Range) []string {
	if g == nil {
		return nil
	}
	var cells []string
	for _, c := range g.Cells {
		cx, cy := c.Center()
		if xr.Contains(cx) && yr.Contains(cy) {
			cells = append(cells, c.Name())
		}
	}
	return cells
}

func clampTiles(ratio float64, limit int) int {
	n := int(math.Ceil(ratio))
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	return n
}
