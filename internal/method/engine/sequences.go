package engine

import (
	"fmt"
	"sort"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

// SequenceRequest declares one user-defined erection area: a rectangular
// grid range plus optional interior split positions along the secondary
// (numeric) axis.
type SequenceRequest struct {
	Number         int      `json:"sequence_number" yaml:"sequence_number"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty"`
	PrimaryStart   string   `json:"primary_start" yaml:"primary_start"`
	PrimaryEnd     string   `json:"primary_end" yaml:"primary_end"`
	SecondaryStart string   `json:"secondary_start" yaml:"secondary_start"`
	SecondaryEnd   string   `json:"secondary_end" yaml:"secondary_end"`
	Splits         []string `json:"splits,omitempty" yaml:"splits,omitempty"`
}

func (r SequenceRequest) area() grid.AreaRequest {
	return grid.AreaRequest{
		PrimaryStart:   r.PrimaryStart,
		PrimaryEnd:     r.PrimaryEnd,
		SecondaryStart: r.SecondaryStart,
		SecondaryEnd:   r.SecondaryEnd,
	}
}

// GenerateFromSequences replaces all zones and stages with a plan built
// from user-declared sequences. Each sequence becomes one zone; its
// splits divide the secondary range into contiguous sub-ranges. Within a
// sub-range, work is grouped by level, levels ordered by their lowest
// element, and staged footings first (when enabled), then columns, then
// beams and bracing combined. Level labels appear in stage texts only
// when a sub-range spans more than one level.
func (e *Engine) GenerateFromSequences(reqs []SequenceRequest, includeFootings bool) ([]method.Stage, error) {
	e.ensureAnalyzed()

	seen := make(map[int]bool, len(reqs))
	for _, req := range reqs {
		if err := req.area().Validate(); err != nil {
			return nil, fmt.Errorf("engine: sequence %d: %w", req.Number, err)
		}
		if seen[req.Number] {
			return nil, fmt.Errorf("engine: duplicate sequence number %d", req.Number)
		}
		seen[req.Number] = true
	}

	extent, _ := grid.BoundsOf(e.structuralElements())

	var zones []method.Zone
	var stages []method.Stage
	order := 1

	for _, req := range reqs {
		zone := method.Zone{
			ID:   req.Number,
			Name: req.area().Label(),
		}
		if bounds, _, err := e.grid.ResolveArea(req.area(), extent, e.areaParams()); err == nil {
			zone.XRange = method.Range{Min: bounds.XMin, Max: bounds.XMax}
			zone.YRange = method.Range{Min: bounds.YMin, Max: bounds.YMax}
		}

		sub := 1
		counts := make(map[method.Category]int)
		var zoneElements []string

		points := splitPoints(req)
		for i := 0; i+1 < len(points); i++ {
			subArea := grid.AreaRequest{
				PrimaryStart:   req.PrimaryStart,
				PrimaryEnd:     req.PrimaryEnd,
				SecondaryStart: points[i],
				SecondaryEnd:   points[i+1],
			}
			gridRange := subArea.Label()
			members, err := e.ElementsInArea(subArea, "")
			if err != nil {
				return nil, err
			}

			groups := levelGroups(members)
			multi := len(groups) > 1

			for _, lg := range groups {
				label := ""
				if multi {
					label = method.ShortLevelName(lg.name) + " "
				}

				emit := func(cat method.Category, match func(string) bool, desc string) {
					var ids []string
					for _, el := range lg.elements {
						if match(el.TypeTag) {
							ids = append(ids, el.ID)
						}
					}
					if len(ids) == 0 {
						return
					}
					stageID := fmt.Sprintf("%d.%d", zone.ID, sub)
					stages = append(stages, method.Stage{
						ID:            stageID,
						ZoneID:        zone.ID,
						Name:          fmt.Sprintf("Stage %s - %s %s%s", stageID, gridRange, label, cat.Display()),
						Description:   desc,
						Category:      cat,
						Level:         lg.name,
						GridRange:     gridRange,
						ElementIDs:    ids,
						SequenceOrder: order,
						Instructions:  method.SequenceInstructions(cat, gridRange, len(ids), req.PrimaryStart, req.PrimaryEnd),
					})
					counts[cat] += len(ids)
					zoneElements = append(zoneElements, ids...)
					sub++
					order++
				}

				if includeFootings {
					emit(method.CategoryFootings,
						func(tag string) bool { return method.Matches(method.CategoryFootings, tag) },
						fmt.Sprintf("Install all %sfootings/foundations in %s", label, gridRange))
				}
				emit(method.CategoryColumns,
					func(tag string) bool { return method.Matches(method.CategoryColumns, tag) },
					fmt.Sprintf("Erect all %scolumns in %s", label, gridRange))
				emit(method.CategoryBeams,
					func(tag string) bool {
						return method.Matches(method.CategoryBeams, tag) || method.Matches(method.CategoryBracing, tag)
					},
					fmt.Sprintf("Install all %sbeams and bracing in %s", label, gridRange))
			}
		}

		zone.ElementIDs = dedupeStrings(zoneElements)
		zone.Counts = counts
		zones = append(zones, zone)
	}

	e.zones = zones
	e.stages = stages

	out := make([]method.Stage, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Clone())
	}
	return out, nil
}

// splitPoints orders the declared splits numerically and brackets them
// with the range endpoints.
func splitPoints(req SequenceRequest) []string {
	splits := append([]string(nil), req.Splits...)
	sort.SliceStable(splits, func(i, j int) bool {
		return grid.CompareTags(grid.Secondary, splits[i], splits[j]) < 0
	})
	points := make([]string, 0, len(splits)+2)
	points = append(points, req.SecondaryStart)
	points = append(points, splits...)
	points = append(points, req.SecondaryEnd)
	return points
}

type levelGroup struct {
	name     string
	minZ     float64
	elements []model.Element
}

// levelGroups buckets elements by level and orders the buckets by their
// lowest element elevation, name as tiebreak.
func levelGroups(elements []model.Element) []levelGroup {
	byName := make(map[string]int)
	var groups []levelGroup
	for _, el := range elements {
		gi, ok := byName[el.Level]
		if !ok {
			gi = len(groups)
			byName[el.Level] = gi
			groups = append(groups, levelGroup{name: el.Level, minZ: el.Z})
		}
		g := &groups[gi]
		g.elements = append(g.elements, el)
		if el.Z < g.minZ {
			g.minZ = el.Z
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].minZ != groups[j].minZ {
			return groups[i].minZ < groups[j].minZ
		}
		return groups[i].name < groups[j].name
	})
	return groups
}

func dedupeStrings(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
