// internal/method/method.go
//
// Core vocabulary of the erection methodology: structural categories and
// their type tags, zones, and stages. The category rank order encodes the
// construction dependency rule that nothing is erected before whatever
// supports it.

package method

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sitecast/erector/internal/grid"
)

// Category is one structural work family sequenced as a unit.
type Category string

const (
	CategoryFootings Category = "footings"
	CategoryColumns  Category = "columns"
	CategoryBeams    Category = "beams"
	CategoryBracing  Category = "bracing"
	CategorySlabs    Category = "slabs"
	CategoryWalls    Category = "walls"
	CategoryStairs   Category = "stairs"
	CategoryRailings Category = "railings"
)

// PrimarySequence is the load-path order built level by level: footings
// carry columns, columns carry beams, bracing stabilizes the frame, and
// slabs land on the finished framing.
var PrimarySequence = []Category{
	CategoryFootings,
	CategoryColumns,
	CategoryBeams,
	CategoryBracing,
	CategorySlabs,
}

// SecondarySequence follows once the primary structure of every level is
// queued.
var SecondarySequence = []Category{
	CategoryWalls,
	CategoryStairs,
	CategoryRailings,
}

// RankOrder is the full category order used for counting and renumbering.
var RankOrder = []Category{
	CategoryFootings,
	CategoryColumns,
	CategoryBeams,
	CategoryBracing,
	CategorySlabs,
	CategoryWalls,
	CategoryStairs,
	CategoryRailings,
}

// categoryTypes maps each category to the element type tags it covers.
// Members double as beams and bracing; counting resolves the overlap by
// first match in rank order, stage membership keeps the overlap.
var categoryTypes = map[Category][]string{
	CategoryFootings: {"IfcFooting"},
	CategoryColumns:  {"IfcColumn"},
	CategoryBeams:    {"IfcBeam", "IfcMember"},
	CategoryBracing:  {"IfcMember", "IfcPlate"},
	CategorySlabs:    {"IfcSlab"},
	CategoryWalls:    {"IfcWall", "IfcWallStandardCase"},
	CategoryStairs:   {"IfcStair", "IfcStairFlight"},
	CategoryRailings: {"IfcRailing"},
}

// StructuralScanTypes are the element type tags that participate in
// grids, zones, and stages.
var StructuralScanTypes = []string{
	"IfcColumn", "IfcBeam", "IfcMember", "IfcPlate",
	"IfcSlab", "IfcWall", "IfcWallStandardCase",
	"IfcFooting", "IfcStair", "IfcRailing",
}

// SectionScanTypes is the broad tag set for full-section queries: every
// building element worth showing when a grid area is cut, structural or
// not.
var SectionScanTypes = []string{
	"IfcWall", "IfcWallStandardCase", "IfcCurtainWall",
	"IfcSlab", "IfcRoof",
	"IfcColumn", "IfcBeam", "IfcMember", "IfcPlate",
	"IfcFooting", "IfcPile",
	"IfcStair", "IfcStairFlight", "IfcRamp", "IfcRampFlight",
	"IfcRailing",
	"IfcDoor", "IfcWindow",
	"IfcCovering",
	"IfcBuildingElementProxy",
	"IfcDistributionElement", "IfcFlowSegment", "IfcFlowTerminal",
	"IfcFurnishingElement", "IfcFurniture",
}

var structuralSet = toSet(StructuralScanTypes)
var sectionSet = toSet(SectionScanTypes)

// IsStructural reports whether a type tag participates in sequencing.
func IsStructural(typeTag string) bool {
	return structuralSet[typeTag]
}

// IsSectionType reports whether a type tag belongs in full-section views.
func IsSectionType(typeTag string) bool {
	return sectionSet[typeTag]
}

// TypesFor returns the type tags a category covers.
func TypesFor(cat Category) []string {
	return categoryTypes[cat]
}

// Matches reports whether a type tag belongs to a category.
func Matches(cat Category, typeTag string) bool {
	for _, t := range categoryTypes[cat] {
		if t == typeTag {
			return true
		}
	}
	return false
}

// CategoryOf resolves a type tag to its first matching category in rank
// order. Used for counting, where each element tallies exactly once.
func CategoryOf(typeTag string) (Category, bool) {
	for _, cat := range RankOrder {
		if Matches(cat, typeTag) {
			return cat, true
		}
	}
	return "", false
}

// Valid reports whether a category name is known.
func (c Category) Valid() bool {
	_, ok := categoryTypes[c]
	return ok
}

// Display returns the category name capitalized for stage titles.
func (c Category) Display() string {
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Range is a closed-open coordinate interval along one world axis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains applies the half-open membership test used for zone tiling.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v < r.Max
}

// Zone is one bounded construction area owning a share of the elements.
type Zone struct {
	ID         int              `json:"zone_id"`
	Name       string           `json:"name"`
	GridCells  []string         `json:"grid_cells"`
	XRange     Range            `json:"x_range"`
	YRange     Range            `json:"y_range"`
	ElementIDs []string         `json:"element_ids"`
	Counts     map[Category]int `json:"element_counts"`
}

// Clone returns a deep copy safe to hand to callers.
func (z Zone) Clone() Zone {
	out := z
	out.GridCells = append([]string(nil), z.GridCells...)
	out.ElementIDs = append([]string(nil), z.ElementIDs...)
	if z.Counts != nil {
		out.Counts = make(map[Category]int, len(z.Counts))
		for k, v := range z.Counts {
			out.Counts[k] = v
		}
	}
	return out
}

// Stage is one unit of sequenced work inside a zone.
type Stage struct {
	ID            string   `json:"stage_id"`
	ZoneID        int      `json:"zone_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	Level         string   `json:"level,omitempty"`
	GridRange     string   `json:"grid_range"`
	ElementIDs    []string `json:"element_ids"`
	SequenceOrder int      `json:"sequence_order"`
	Instructions  []string `json:"instructions"`
}

// Clone returns a deep copy safe to hand to callers.
func (s Stage) Clone() Stage {
	out := s
	out.ElementIDs = append([]string(nil), s.ElementIDs...)
	out.Instructions = append([]string(nil), s.Instructions...)
	return out
}

// Suffix parses the per-zone counter out of a stage ID. Renumbering
// sorts by it numerically so stage 2.9 precedes 2.10.
func (s Stage) Suffix() int {
	_, after, found := strings.Cut(s.ID, ".")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(after)
	if err != nil {
		return 0
	}
	return n
}

// ZoneNameFromCells derives the conventional zone name from its member
// cells, secondary range first: "Grid 2-8 / A-J". ok is false when no
// cell reference parses.
func ZoneNameFromCells(cells []string) (string, bool) {
	var primary, secondary []string
	seenP := map[string]bool{}
	seenS := map[string]bool{}
	for _, cell := range cells {
		p, s, found := strings.Cut(cell, "-")
		if !found || p == "" || s == "" {
			continue
		}
		if !seenP[p] {
			seenP[p] = true
			primary = append(primary, p)
		}
		if !seenS[s] {
			seenS[s] = true
			secondary = append(secondary, s)
		}
	}
	if len(primary) == 0 || len(secondary) == 0 {
		return "", false
	}
	grid.SortTags(grid.Primary, primary)
	grid.SortTags(grid.Secondary, secondary)
	return fmt.Sprintf("Grid %s-%s / %s-%s",
		secondary[0], secondary[len(secondary)-1],
		primary[0], primary[len(primary)-1]), true
}

func toSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
