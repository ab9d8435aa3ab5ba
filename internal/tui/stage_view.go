package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

const memberListCap = 12

var (
	stageTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyleFooting = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	labelStyleColumn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	labelStyleBeam    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	labelStyleBracing = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	labelStyleMinor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	labelStyleDefault = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	detailTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

var categoryStyles = map[method.Category]lipgloss.Style{
	method.CategoryFootings: labelStyleFooting,
	method.CategoryColumns:  labelStyleColumn,
	method.CategoryBeams:    labelStyleBeam,
	method.CategoryBracing:  labelStyleBracing,
	method.CategorySlabs:    labelStyleDefault,
	method.CategoryWalls:    labelStyleDefault,
	method.CategoryStairs:   labelStyleMinor,
	method.CategoryRailings: labelStyleMinor,
}

// stageView renders one stage's full work instructions with the elements
// resolved at drill-down time.
type stageView struct {
	stage    method.Stage
	zoneName string
	elements []model.Element
}

func newStageView(stage method.Stage, zoneName string, elements []model.Element) *stageView {
	return &stageView{stage: stage, zoneName: zoneName, elements: elements}
}

func (v *stageView) View() string {
	s := v.stage
	style, ok := categoryStyles[s.Category]
	if !ok {
		style = labelStyleDefault
	}
	lines := []string{
		stageTitleStyle.Render(s.Name),
		"",
		s.Description,
		"",
		fmt.Sprintf("Category: %s", style.Render(s.Category.Display())),
		fmt.Sprintf("Zone: %s", v.zoneName),
		fmt.Sprintf("Grid range: %s", s.GridRange),
	}
	if s.Level != "" {
		lines = append(lines, fmt.Sprintf("Level: %s", s.Level))
	}
	lines = append(lines, fmt.Sprintf("Sequence position: %d", s.SequenceOrder))
	if len(s.Instructions) > 0 {
		lines = append(lines, "", "Instructions:")
		for i, inst := range s.Instructions {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, inst))
		}
	}
	lines = append(lines, "", fmt.Sprintf("Elements (%d):", len(v.elements)))
	lines = append(lines, v.renderMembers()...)
	return strings.Join(lines, "\n")
}

func (v *stageView) renderMembers() []string {
	if len(v.elements) == 0 {
		return []string{detailTextStyle.Render("  no members resolved")}
	}
	shown := v.elements
	var more int
	if len(shown) > memberListCap {
		more = len(shown) - memberListCap
		shown = shown[:memberListCap]
	}
	rows := make([]string, 0, len(shown)+1)
	for _, el := range shown {
		label := el.Name
		if strings.TrimSpace(label) == "" {
			label = el.ID
		}
		row := fmt.Sprintf("  %s · %s", el.TypeTag, label)
		if el.CellRef != "" {
			row += fmt.Sprintf(" · cell %s", el.CellRef)
		}
		rows = append(rows, detailTextStyle.Render(row))
	}
	if more > 0 {
		rows = append(rows, detailTextStyle.Render(fmt.Sprintf("  and %d more", more)))
	}
	return rows
}
