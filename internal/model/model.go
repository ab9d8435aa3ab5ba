// internal/model/model.go
//
// Defines the model snapshot contract handed over by the upstream parser
// and the extracted element/level types the analysis pipeline works on.
// All coordinates are millimetres in world space.

package model

import (
	"fmt"
	"sort"
)

// SchemaVersion is the snapshot schema this build reads and writes.
const SchemaVersion = 1

// UnknownLevel is assigned when no storey can be resolved for an element.
const UnknownLevel = "Unknown"

// Point is a 2D world-space coordinate, used for grid axis endpoints.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is a 4x4 row-major world transform. Only the translation
// column is consumed here; rotation is preserved for round-tripping.
type Placement [4][4]float64

// Translation returns the world position encoded in the transform.
func (p Placement) Translation() (x, y, z float64) {
	return p[0][3], p[1][3], p[2][3]
}

// ElementRecord is one positioned element as produced by the parser.
type ElementRecord struct {
	GlobalID   string           `json:"global_id"`
	ExpressID  int              `json:"express_id"`
	TypeTag    string           `json:"type_tag"`
	Name       string           `json:"name,omitempty"`
	Placement  *Placement       `json:"placement,omitempty"`
	Storey     string           `json:"storey,omitempty"`
	Properties []PropertyRecord `json:"properties,omitempty"`
}

// PropertyRecord is a single scraped property. Value is a JSON scalar;
// anything else is skipped during extraction.
type PropertyRecord struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// StoreyRecord is one building storey as produced by the parser.
type StoreyRecord struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
}

// AxisRecord is one tagged grid axis segment in world space.
type AxisRecord struct {
	Tag   string `json:"tag"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

// Input is the full snapshot a parser hands to the engine.
type Input struct {
	SchemaVersion int             `json:"schema_version"`
	ModelID       string          `json:"model_id,omitempty"`
	Elements      []ElementRecord `json:"elements"`
	Storeys       []StoreyRecord  `json:"storeys,omitempty"`
	GridAxes      []AxisRecord    `json:"grid_axes,omitempty"`
}

// Validate checks the snapshot is one this build can interpret. Element
// level problems are not validation errors; extraction absorbs those.
func (in Input) Validate() error {
	if in.SchemaVersion > SchemaVersion {
		return fmt.Errorf("model: snapshot schema %d is newer than supported %d", in.SchemaVersion, SchemaVersion)
	}
	return nil
}

// Element is one extracted, positioned building element.
type Element struct {
	ID         string         `json:"id"`
	ExpressID  int            `json:"express_id"`
	TypeTag    string         `json:"type_tag"`
	Name       string         `json:"name,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Z          float64        `json:"z"`
	Level      string         `json:"level"`
	CellRef    string         `json:"cell_ref,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Level is one building storey with its elevation.
type Level struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
}

// Levels is a storey list sorted ascending by elevation.
type Levels []Level

// NewLevels builds a sorted level list from storey records.
func NewLevels(storeys []StoreyRecord) Levels {
	levels := make(Levels, 0, len(storeys))
	for _, s := range storeys {
		levels = append(levels, Level{Name: s.Name, Elevation: s.Elevation})
	}
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Elevation < levels[j].Elevation
	})
	return levels
}

// Nearest returns the level whose elevation is closest to z.
func (ls Levels) Nearest(z float64) (Level, bool) {
	if len(ls) == 0 {
		return Level{}, false
	}
	best := ls[0]
	bestDist := abs(z - best.Elevation)
	for _, l := range ls[1:] {
		if d := abs(z - l.Elevation); d < bestDist {
			best = l
			bestDist = d
		}
	}
	return best, true
}

// Names returns the level names in elevation order.
func (ls Levels) Names() []string {
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return names
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
