// internal/report/report.go
//
// Renders the methodology document as markdown with a YAML frontmatter
// header. The report is the reviewable artifact of an analysis run; the
// raw aggregate goes to the state dump instead.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/method/engine"
)

// Render produces the full markdown report for a methodology document.
func Render(doc engine.Document) ([]byte, error) {
	meta := Metadata{
		Title:     doc.Title,
		ModelID:   doc.ModelID,
		Generated: doc.GeneratedAt,
		Zones:     len(doc.Zones),
		Stages:    len(doc.Sequence),
		Elements:  doc.Summary.TotalElements,
	}
	return WriteFrontMatter(meta, renderBody(doc))
}

// Write renders the document and persists it, creating parent
// directories as needed.
func Write(path string, doc engine.Document) error {
	content, err := Render(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func renderBody(doc engine.Document) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	b.WriteString(fmt.Sprintf("Generated at %s UTC.\n\n", doc.GeneratedAt.UTC().Format(time.RFC3339)))

	summary := doc.Summary
	b.WriteString("## Model Overview\n\n")
	b.WriteString(fmt.Sprintf("- Structural elements: %d\n", summary.TotalElements))
	if summary.DroppedRecords > 0 {
		b.WriteString(fmt.Sprintf("- Dropped records: %d\n", summary.DroppedRecords))
	}
	gridKind := "virtual"
	if summary.GridDetected {
		gridKind = "detected"
	}
	b.WriteString(fmt.Sprintf("- Grid: %s, %d axes / %d cells\n", gridKind, summary.GridAxesCount, summary.GridCellsCount))
	if len(summary.Levels) > 0 {
		b.WriteString(fmt.Sprintf("- Levels: %s\n", strings.Join(summary.Levels, ", ")))
	}
	if len(summary.ElementsByType) > 0 {
		b.WriteString("\n### Elements by Type\n\n")
		for _, tag := range sortedKeys(summary.ElementsByType) {
			b.WriteString(fmt.Sprintf("- %s: %d\n", tag, summary.ElementsByType[tag]))
		}
	}

	b.WriteString("\n## Erection Zones\n\n")
	if len(doc.Zones) == 0 {
		b.WriteString("_No zones defined._\n")
	}
	for _, z := range doc.Zones {
		b.WriteString(fmt.Sprintf("### Zone %d: %s\n\n", z.ID, z.Name))
		if len(z.GridCells) > 0 {
			b.WriteString(fmt.Sprintf("- Grid cells: %s\n", strings.Join(z.GridCells, ", ")))
		}
		b.WriteString(fmt.Sprintf("- Elements: %d\n", len(z.ElementIDs)))
		for _, cat := range sortedCategories(z.Counts) {
			b.WriteString(fmt.Sprintf("- %s: %d\n", cat.Display(), z.Counts[cat]))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Erection Sequence\n\n")
	if len(doc.Sequence) == 0 {
		b.WriteString("_No stages generated._\n")
	}
	for _, s := range doc.Sequence {
		b.WriteString(fmt.Sprintf("### %s\n\n", s.Name))
		if s.Description != "" {
			b.WriteString(fmt.Sprintf("%s\n\n", s.Description))
		}
		b.WriteString(fmt.Sprintf("- Zone: %s\n", s.ZoneName))
		b.WriteString(fmt.Sprintf("- Grid range: %s\n", s.GridRange))
		if s.Level != "" {
			b.WriteString(fmt.Sprintf("- Level: %s\n", s.Level))
		}
		b.WriteString(fmt.Sprintf("- Elements: %d\n", len(s.ElementIDs)))
		if len(s.Instructions) > 0 {
			b.WriteString("\n")
			for i, line := range s.Instructions {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
			}
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCategories(m map[method.Category]int) []method.Category {
	cats := make([]method.Category, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
