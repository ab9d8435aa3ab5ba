// internal/method/sequencer/sequencer.go
//
// Orders the work inside and across zones. A zone is built ground up,
// one level at a time, primary structure before secondary: a level's
// columns go in before its beams, beams before bracing, bracing before
// slabs, and walls, stairs and railings only once the frame is complete.

package sequencer

import (
	"fmt"
	"sort"

	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

// Generate builds the full construction sequence, one zone at a time in
// slice order, and assigns global sequence numbers.
func Generate(zones []method.Zone, levels model.Levels, elements map[string]model.Element) []method.Stage {
	var stages []method.Stage
	for _, z := range zones {
		stages = append(stages, ForZone(z, levels, elements)...)
	}
	for i := range stages {
		stages[i].SequenceOrder = i + 1
	}
	return stages
}

// ForZone generates the staged sequence for a single zone. Sub-stage
// numbers restart at 1; sequence orders are left zero for the caller to
// assign. Elements whose level is not in the schedule are never staged.
func ForZone(z method.Zone, levels model.Levels, elements map[string]model.Element) []method.Stage {
	byLevel := make(map[string][]string)
	for _, id := range z.ElementIDs {
		e, ok := elements[id]
		if !ok {
			continue
		}
		byLevel[e.Level] = append(byLevel[e.Level], id)
	}

	var stages []method.Stage
	sub := 1

	walk := func(categories []method.Category) {
		for _, lvl := range levels {
			ids := byLevel[lvl.Name]
			if len(ids) == 0 {
				continue
			}
			short := method.ShortLevelName(lvl.Name)

			for _, cat := range categories {
				var members []string
				for _, id := range ids {
					if method.Matches(cat, elements[id].TypeTag) {
						members = append(members, id)
					}
				}
				if len(members) == 0 {
					continue
				}

				stageID := fmt.Sprintf("%d.%d", z.ID, sub)
				stages = append(stages, method.Stage{
					ID:           stageID,
					ZoneID:       z.ID,
					Name:         fmt.Sprintf("Stage %s - %s %s", stageID, short, cat.Display()),
					Description:  fmt.Sprintf("Install %s %s in %s", short, cat, z.Name),
					Category:     cat,
					Level:        lvl.Name,
					GridRange:    z.Name,
					ElementIDs:   members,
					Instructions: method.Instructions(cat, z.Name, len(members), short),
				})
				sub++
			}
		}
	}

	walk(method.PrimarySequence)
	walk(method.SecondarySequence)
	return stages
}

// Renumber reassigns global sequence numbers ordering stages by zone
// then numeric sub-stage, so stage 2.9 precedes 2.10.
func Renumber(stages []method.Stage) {
	sort.SliceStable(stages, func(i, j int) bool {
		if stages[i].ZoneID != stages[j].ZoneID {
			return stages[i].ZoneID < stages[j].ZoneID
		}
		return stages[i].Suffix() < stages[j].Suffix()
	})
	for i := range stages {
		stages[i].SequenceOrder = i + 1
	}
}
