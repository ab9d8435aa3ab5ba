package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
)

// DocumentStage pairs a stage with its owning zone's name for rendering.
type DocumentStage struct {
	method.Stage
	ZoneName string `json:"zone_name"`
}

// Document aggregates everything a methodology report needs: summary,
// grid system, zones and the ordered erection sequence.
type Document struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	ModelID     string          `json:"model_id,omitempty"`
	Summary     Summary         `json:"summary"`
	Grid        *grid.Grid      `json:"grid_system"`
	Zones       []method.Zone   `json:"zones"`
	Sequence    []DocumentStage `json:"erection_sequence"`
}

// Document assembles the methodology document, analyzing first when the
// pipeline has not run yet.
func (e *Engine) Document() Document {
	e.ensureAnalyzed()

	zoneNames := make(map[int]string, len(e.zones))
	for _, z := range e.zones {
		zoneNames[z.ID] = z.Name
	}

	ordered := e.Stages()
	sequence := make([]DocumentStage, 0, len(ordered))
	for _, s := range ordered {
		name, ok := zoneNames[s.ZoneID]
		if !ok {
			name = fmt.Sprintf("Zone %d", s.ZoneID)
		}
		sequence = append(sequence, DocumentStage{Stage: s, ZoneName: name})
	}

	return Document{
		Title:       e.docTitle,
		GeneratedAt: e.now(),
		ModelID:     e.input.ModelID,
		Summary:     e.Summary(),
		Grid:        e.grid,
		Zones:       e.Zones(),
		Sequence:    sequence,
	}
}

// TypeBreakdown is one element type's share of the structural population.
type TypeBreakdown struct {
	TypeTag string  `json:"type_tag"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// LevelBreakdown summarizes one scheduled level's structural population.
type LevelBreakdown struct {
	Level     string         `json:"level"`
	Elevation float64        `json:"elevation"`
	Count     int            `json:"count"`
	ByType    map[string]int `json:"by_type,omitempty"`
}

// Analytics condenses the population for dashboards: per-type counts
// descending, per-level counts in build order, and the dominant types.
type Analytics struct {
	TotalElements int              `json:"total_elements"`
	ByType        []TypeBreakdown  `json:"by_type"`
	ByLevel       []LevelBreakdown `json:"by_level"`
	TopTypes      []string         `json:"top_types"`
}

// Analytics summarizes the structural population of the last analysis.
func (e *Engine) Analytics() Analytics {
	e.ensureAnalyzed()

	typeCounts := make(map[string]int)
	levelCounts := make(map[string]int)
	levelTypes := make(map[string]map[string]int)
	for _, i := range e.structural {
		el := e.elements[i]
		typeCounts[el.TypeTag]++
		levelCounts[el.Level]++
		if levelTypes[el.Level] == nil {
			levelTypes[el.Level] = make(map[string]int)
		}
		levelTypes[el.Level][el.TypeTag]++
	}

	total := len(e.structural)
	byType := make([]TypeBreakdown, 0, len(typeCounts))
	for tag, n := range typeCounts {
		b := TypeBreakdown{TypeTag: tag, Count: n}
		if total > 0 {
			b.Percent = float64(n) * 100 / float64(total)
		}
		byType = append(byType, b)
	}
	sort.Slice(byType, func(i, j int) bool {
		if byType[i].Count != byType[j].Count {
			return byType[i].Count > byType[j].Count
		}
		return byType[i].TypeTag < byType[j].TypeTag
	})

	byLevel := make([]LevelBreakdown, 0, len(e.levels))
	for _, lvl := range e.levels {
		byLevel = append(byLevel, LevelBreakdown{
			Level:     lvl.Name,
			Elevation: lvl.Elevation,
			Count:     levelCounts[lvl.Name],
			ByType:    levelTypes[lvl.Name],
		})
	}

	top := make([]string, 0, 5)
	for _, b := range byType {
		if len(top) == 5 {
			break
		}
		top = append(top, b.TypeTag)
	}

	return Analytics{
		TotalElements: total,
		ByType:        byType,
		ByLevel:       byLevel,
		TopTypes:      top,
	}
}

// Storeys returns the level schedule annotated with population counts,
// ascending by elevation.
func (e *Engine) Storeys() []LevelBreakdown {
	return e.Analytics().ByLevel
}
