package engine

import (
	"fmt"

	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/method/sequencer"
)

// ZoneUpdate describes an edit to one zone. Nil fields leave the
// corresponding attribute unchanged.
type ZoneUpdate struct {
	Name   *string
	XRange *method.Range
	YRange *method.Range
}

// UpdateZone applies a user edit. Any range change re-tests every
// structural element against the zone's full rectangle, both axes,
// regardless of which range moved. The zone's stages are regenerated and
// the global sequence renumbered either way, since stage texts embed the
// zone name.
func (e *Engine) UpdateZone(zoneID int, upd ZoneUpdate) (method.Zone, error) {
	zi := e.zoneIndex(zoneID)
	if zi < 0 {
		return method.Zone{}, fmt.Errorf("engine: update zone %d: %w", zoneID, ErrZoneNotFound)
	}
	z := &e.zones[zi]

	if upd.Name != nil && *upd.Name != "" {
		z.Name = *upd.Name
	}
	if upd.XRange != nil {
		z.XRange = *upd.XRange
	}
	if upd.YRange != nil {
		z.YRange = *upd.YRange
	}
	if upd.XRange != nil || upd.YRange != nil {
		e.remapZone(z)
	}

	e.regenerateZone(zoneID)
	return z.Clone(), nil
}

// DeleteZone removes a zone that owns no stages.
func (e *Engine) DeleteZone(zoneID int) error {
	zi := e.zoneIndex(zoneID)
	if zi < 0 {
		return fmt.Errorf("engine: delete zone %d: %w", zoneID, ErrZoneNotFound)
	}
	for _, s := range e.stages {
		if s.ZoneID == zoneID {
			return fmt.Errorf("engine: delete zone %d: %w", zoneID, ErrZoneHasStages)
		}
	}
	e.zones = append(e.zones[:zi], e.zones[zi+1:]...)
	return nil
}

// DeleteStage removes one stage and renumbers the remaining sequence.
// Stage IDs are not reused.
func (e *Engine) DeleteStage(stageID string) error {
	si := e.stageIndex(stageID)
	if si < 0 {
		return fmt.Errorf("engine: delete stage %s: %w", stageID, ErrStageNotFound)
	}
	e.stages = append(e.stages[:si], e.stages[si+1:]...)
	sequencer.Renumber(e.stages)
	return nil
}

// remapZone recomputes element membership and category counts from the
// zone's current rectangle. Grid cell labels are left as assigned by the
// original partition.
func (e *Engine) remapZone(z *method.Zone) {
	z.ElementIDs = nil
	counts := make(map[method.Category]int)
	for _, i := range e.structural {
		el := e.elements[i]
		if !z.XRange.Contains(el.X) || !z.YRange.Contains(el.Y) {
			continue
		}
		z.ElementIDs = append(z.ElementIDs, el.ID)
		if cat, ok := method.CategoryOf(el.TypeTag); ok {
			counts[cat]++
		}
	}
	z.Counts = counts
}

// regenerateZone drops the zone's stages, repeats the per-level category
// walk against its current membership and renumbers the global sequence.
func (e *Engine) regenerateZone(zoneID int) {
	kept := make([]method.Stage, 0, len(e.stages))
	for _, s := range e.stages {
		if s.ZoneID != zoneID {
			kept = append(kept, s)
		}
	}
	if zi := e.zoneIndex(zoneID); zi >= 0 {
		kept = append(kept, sequencer.ForZone(e.zones[zi], e.levels, e.catalog)...)
	}
	sequencer.Renumber(kept)
	e.stages = kept
}
