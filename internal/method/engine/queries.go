package engine

import (
	"fmt"
	"sort"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

// ElementsInArea returns the structural elements whose position falls
// inside the resolved axis range, optionally narrowed to one category.
// An unrecognized category matches nothing.
func (e *Engine) ElementsInArea(req grid.AreaRequest, cat method.Category) ([]model.Element, error) {
	e.ensureAnalyzed()
	extent, _ := grid.BoundsOf(e.structuralElements())
	bounds, _, err := e.grid.ResolveArea(req, extent, e.areaParams())
	if err != nil {
		return nil, err
	}

	var out []model.Element
	for _, i := range e.structural {
		el := e.elements[i]
		if !bounds.Contains(el.X, el.Y) {
			continue
		}
		if cat != "" && !method.Matches(cat, el.TypeTag) {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// ExpressIDsInArea resolves the area and returns viewer highlight IDs.
func (e *Engine) ExpressIDsInArea(req grid.AreaRequest, cat method.Category) ([]int, error) {
	elements, err := e.ElementsInArea(req, cat)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(elements))
	for _, el := range elements {
		ids = append(ids, el.ExpressID)
	}
	return dedupeSorted(ids), nil
}

// SectionElementsInArea returns express IDs for every retained element of
// a recognized building type inside the area, structural or not, so a
// viewer can cut a complete building section. Axis geometry is distrusted
// outright here: resolution is always proportional over the structural
// extent, and a grid with no tags in either family yields nothing.
func (e *Engine) SectionElementsInArea(req grid.AreaRequest) ([]int, error) {
	e.ensureAnalyzed()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(e.grid.Tags(grid.Primary)) == 0 || len(e.grid.Tags(grid.Secondary)) == 0 {
		return nil, nil
	}
	extent, ok := grid.BoundsOf(e.structuralElements())
	if !ok {
		return nil, nil
	}
	bounds, err := e.grid.ProportionalArea(req, extent, e.areaParams())
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, el := range e.elements {
		if !method.IsSectionType(el.TypeTag) {
			continue
		}
		if bounds.Contains(el.X, el.Y) {
			ids = append(ids, el.ExpressID)
		}
	}
	return dedupeSorted(ids), nil
}

// ElementsByZone returns the element detail for one zone.
func (e *Engine) ElementsByZone(zoneID int) ([]model.Element, error) {
	e.ensureAnalyzed()
	zi := e.zoneIndex(zoneID)
	if zi < 0 {
		return nil, fmt.Errorf("engine: zone %d elements: %w", zoneID, ErrZoneNotFound)
	}
	return e.resolveElements(e.zones[zi].ElementIDs), nil
}

// ElementsByStage returns the element detail for one stage.
func (e *Engine) ElementsByStage(stageID string) ([]model.Element, error) {
	e.ensureAnalyzed()
	si := e.stageIndex(stageID)
	if si < 0 {
		return nil, fmt.Errorf("engine: stage %s elements: %w", stageID, ErrStageNotFound)
	}
	return e.resolveElements(e.stages[si].ElementIDs), nil
}

// ExpressIDsByZone returns viewer highlight IDs for one zone.
func (e *Engine) ExpressIDsByZone(zoneID int) ([]int, error) {
	elements, err := e.ElementsByZone(zoneID)
	if err != nil {
		return nil, err
	}
	return expressIDs(elements), nil
}

// ExpressIDsByStage returns viewer highlight IDs for one stage.
func (e *Engine) ExpressIDsByStage(stageID string) ([]int, error) {
	elements, err := e.ElementsByStage(stageID)
	if err != nil {
		return nil, err
	}
	return expressIDs(elements), nil
}

// AllExpressIDs returns highlight IDs for every structural element.
func (e *Engine) AllExpressIDs() []int {
	e.ensureAnalyzed()
	return expressIDs(e.structuralElements())
}

// Filter narrows element listings. Zero values mean "any"; Limit zero
// means no cap.
type Filter struct {
	ZoneID  int
	StageID string
	TypeTag string
	Level   string
	Offset  int
	Limit   int
}

// FilterElements lists structural elements matching the filter in
// extraction order, returning the matching total before pagination.
func (e *Engine) FilterElements(f Filter) ([]model.Element, int, error) {
	e.ensureAnalyzed()
	var zoneSet, stageSet map[string]bool
	if f.ZoneID != 0 {
		zi := e.zoneIndex(f.ZoneID)
		if zi < 0 {
			return nil, 0, fmt.Errorf("engine: filter zone %d: %w", f.ZoneID, ErrZoneNotFound)
		}
		zoneSet = membership(e.zones[zi].ElementIDs)
	}
	if f.StageID != "" {
		si := e.stageIndex(f.StageID)
		if si < 0 {
			return nil, 0, fmt.Errorf("engine: filter stage %s: %w", f.StageID, ErrStageNotFound)
		}
		stageSet = membership(e.stages[si].ElementIDs)
	}

	var matches []model.Element
	for _, i := range e.structural {
		el := e.elements[i]
		if zoneSet != nil && !zoneSet[el.ID] {
			continue
		}
		if stageSet != nil && !stageSet[el.ID] {
			continue
		}
		if f.TypeTag != "" && el.TypeTag != f.TypeTag {
			continue
		}
		if f.Level != "" && el.Level != f.Level {
			continue
		}
		matches = append(matches, el)
	}

	total := len(matches)
	if f.Offset > 0 {
		if f.Offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[f.Offset:]
		}
	}
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}
	return matches, total, nil
}

func (e *Engine) areaParams() grid.AreaParams {
	return grid.AreaParams{Tolerance: e.params.Tolerance, MinSpan: e.params.MinSpan}
}

func (e *Engine) resolveElements(ids []string) []model.Element {
	out := make([]model.Element, 0, len(ids))
	for _, id := range ids {
		if i, ok := e.index[id]; ok {
			out = append(out, e.elements[i])
		}
	}
	return out
}

func expressIDs(elements []model.Element) []int {
	ids := make([]int, 0, len(elements))
	for _, el := range elements {
		ids = append(ids, el.ExpressID)
	}
	return dedupeSorted(ids)
}

func dedupeSorted(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	sort.Ints(ids)
	out := ids[:1]
	for _, v := range ids[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func membership(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
