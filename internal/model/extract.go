package model

import "math"

// ExtractStats reports how extraction went. Dropped counts records that
// could not be positioned; they are excluded, never a failure.
type ExtractStats struct {
	Extracted int `json:"extracted"`
	Dropped   int `json:"dropped"`
}

// ExtractElements turns parser records into positioned elements. A record
// without a usable placement is dropped; a duplicate global ID keeps the
// first occurrence; property problems skip the property only.
func ExtractElements(records []ElementRecord, levels Levels) ([]Element, ExtractStats) {
	elements := make([]Element, 0, len(records))
	seen := make(map[string]bool, len(records))
	var stats ExtractStats

	for _, rec := range records {
		if rec.GlobalID == "" || seen[rec.GlobalID] || rec.Placement == nil {
			stats.Dropped++
			continue
		}
		x, y, z := rec.Placement.Translation()
		if !finite(x) || !finite(y) || !finite(z) {
			stats.Dropped++
			continue
		}
		seen[rec.GlobalID] = true
		elements = append(elements, Element{
			ID:         rec.GlobalID,
			ExpressID:  rec.ExpressID,
			TypeTag:    rec.TypeTag,
			Name:       rec.Name,
			X:          x,
			Y:          y,
			Z:          z,
			Level:      resolveLevel(rec.Storey, z, levels),
			Properties: buildProperties(rec.Properties),
		})
		stats.Extracted++
	}
	return elements, stats
}

// resolveLevel trusts the containment storey when the parser supplied one,
// then falls back to the nearest elevation, then to UnknownLevel.
func resolveLevel(storey string, z float64, levels Levels) string {
	if storey != "" {
		return storey
	}
	if l, ok := levels.Nearest(z); ok {
		return l.Name
	}
	return UnknownLevel
}

func buildProperties(records []PropertyRecord) map[string]any {
	if len(records) == 0 {
		return nil
	}
	props := make(map[string]any, len(records))
	for _, p := range records {
		if p.Name == "" || p.Value == nil {
			continue
		}
		switch p.Value.(type) {
		case string, bool, float64, int, int64:
			props[p.Name] = p.Value
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
