// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for Erector.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sitecast/erector/internal/config"
	"github.com/sitecast/erector/internal/logbook"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/method/engine"
	"github.com/sitecast/erector/internal/model"
	"github.com/sitecast/erector/internal/report"
	"github.com/sitecast/erector/internal/snapshot"
)

// appState represents which "screen" we're on
type appState int

const (
	stateZones       appState = iota // Zone list next to the model board
	stateStages                      // Stages of the zone drilled into
	stateStageDetail                 // One stage's full work instructions
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithEngineOptions forwards extra options to the analysis engine, letting
// tests pin clocks or override partitioning parameters.
func WithEngineOptions(opts ...engine.Option) AppOption {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, opts...)
	}
}

type analysisMsg struct {
	summary engine.Summary
}

type exportDoneMsg struct {
	reportPath string
	err        error
}

// App is the main application model. In bubbletea, this holds ALL your state.
// The engine is only touched from Update and from at most one in-flight
// analysis command, guarded by the analyzed flag.
type App struct {
	state   appState
	config  *config.Config
	engine  *engine.Engine
	logbook *logbook.Logbook

	engineOpts []engine.Option
	modelID    string

	// UI components
	zoneMenu  list.Model // Zone list shown on the main screen
	stageMenu list.Model // Stages of the selected zone
	stageView *stageView

	summary   engine.Summary
	analyzed  bool
	zoneID    int
	zoneName  string
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// zoneItem implements list.Item for the zone menu.
type zoneItem struct {
	zone method.Zone
}

func (i zoneItem) Title() string { return fmt.Sprintf("Zone %d · %s", i.zone.ID, i.zone.Name) }
func (i zoneItem) Description() string {
	return fmt.Sprintf("%d elements · %d grid cells", len(i.zone.ElementIDs), len(i.zone.GridCells))
}
func (i zoneItem) FilterValue() string { return i.zone.Name }

// stageItem implements list.Item for the stage menu.
type stageItem struct {
	stage method.Stage
}

func (i stageItem) Title() string { return i.stage.Name }
func (i stageItem) Description() string {
	return fmt.Sprintf("%s · %d elements", i.stage.Category.Display(), len(i.stage.ElementIDs))
}
func (i stageItem) FilterValue() string { return i.stage.ID }

// NewApp creates a new App instance around an already loaded model snapshot.
func NewApp(projectDir string, input model.Input, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, lbErr := logbook.New(cfg.LogPath())
	if lbErr != nil {
		lb = nil
	}

	zoneMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	zoneMenu.Title = "Erection Zones"
	zoneMenu.SetShowStatusBar(false)
	zoneMenu.SetFilteringEnabled(false)
	stageMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	stageMenu.Title = "Stages"
	stageMenu.SetShowStatusBar(false)
	stageMenu.SetFilteringEnabled(false)

	app := &App{
		state:     stateZones,
		config:    cfg,
		logbook:   lb,
		zoneMenu:  zoneMenu,
		stageMenu: stageMenu,
		statusMsg: "Analyzing model...",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	engineOpts := append([]engine.Option{
		engine.WithParams(cfg.EngineParams()),
		engine.WithDocumentTitle(cfg.DocumentTitle()),
	}, app.engineOpts...)
	eng, err := engine.New(input, engineOpts...)
	if err != nil {
		return nil, err
	}
	app.engine = eng
	app.modelID = eng.ModelID()
	if app.modelID == "" {
		app.modelID = "model"
	}
	app.logbook.Info("Session opened · model %s · %d element records", app.modelID, len(input.Elements))
	return app, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.runAnalysis()
}

// runAnalysis hands the engine to a background command. Until the
// analysisMsg comes back the analyzed flag stays false and every
// engine-touching key is refused.
func (a *App) runAnalysis() tea.Cmd {
	a.analyzed = false
	eng := a.engine
	return func() tea.Msg {
		return analysisMsg{summary: eng.Analyze()}
	}
}

// exportDocument assembles the document on the Update goroutine and only
// pushes the file writes into the background command.
func (a *App) exportDocument() tea.Cmd {
	doc := a.engine.Document()
	state := snapshot.StateOf(a.engine, doc.GeneratedAt)
	reportPath := a.config.ReportPath(a.modelID)
	statePath := a.config.StatePath(a.modelID)
	return func() tea.Msg {
		if err := report.Write(reportPath, doc); err != nil {
			return exportDoneMsg{err: err}
		}
		if err := snapshot.SaveState(statePath, state); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{reportPath: reportPath}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.zoneMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		a.stageMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case analysisMsg:
		a.analyzed = true
		a.summary = msg.summary
		a.refreshZoneMenu()
		if a.state != stateZones {
			a.state = stateZones
			a.stageView = nil
		}
		a.statusMsg = fmt.Sprintf("Analysis complete · %d zones · %d stages", msg.summary.ZoneCount, msg.summary.StageCount)
		a.logbook.Info("Analysis complete · %d structural elements · %d zones · %d stages",
			msg.summary.TotalElements, msg.summary.ZoneCount, msg.summary.StageCount)
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
			a.logbook.Error("Export failed: %v", msg.err)
		} else {
			a.statusMsg = fmt.Sprintf("Methodology written to %s", msg.reportPath)
			a.logbook.Info("Methodology document written to %s", msg.reportPath)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateZones {
				return a, tea.Quit
			}
		case "esc":
			return a.goBack()
		case "r":
			if !a.analyzed {
				return a, nil
			}
			a.statusMsg = "Re-running analysis..."
			a.logbook.Info("Recompute requested · model %s", a.modelID)
			return a, a.runAnalysis()
		case "e":
			if !a.analyzed {
				a.statusMsg = "Analysis still running..."
				return a, nil
			}
			a.statusMsg = "Exporting methodology document..."
			return a, a.exportDocument()
		case "x":
			if !a.analyzed {
				a.statusMsg = "Analysis still running..."
				return a, nil
			}
			return a.deleteSelection()
		case "enter":
			if !a.analyzed {
				a.statusMsg = "Analysis still running..."
				return a, nil
			}
			return a.handleSelection()
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateZones:
		var menuCmd tea.Cmd
		a.zoneMenu, menuCmd = a.zoneMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateStages:
		var menuCmd tea.Cmd
		a.stageMenu, menuCmd = a.stageMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// handleSelection drills into the highlighted zone or stage.
func (a *App) handleSelection() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateZones:
		item, ok := a.zoneMenu.SelectedItem().(zoneItem)
		if !ok {
			return a, nil
		}
		a.zoneID = item.zone.ID
		a.zoneName = item.zone.Name
		a.refreshStageMenu()
		a.state = stateStages
		a.statusMsg = fmt.Sprintf("Zone %d · %s", item.zone.ID, item.zone.Name)
		a.logbook.Info("Zone %d opened (%s)", item.zone.ID, item.zone.Name)

	case stateStages:
		item, ok := a.stageMenu.SelectedItem().(stageItem)
		if !ok {
			return a, nil
		}
		elements, err := a.engine.ElementsByStage(item.stage.ID)
		if err != nil {
			a.statusMsg = fmt.Sprintf("Stage lookup failed: %v", err)
			return a, nil
		}
		a.stageView = newStageView(item.stage, a.zoneName, elements)
		a.state = stateStageDetail
		a.statusMsg = item.stage.Name
	}
	return a, nil
}

// deleteSelection removes the highlighted zone or stage. Both paths
// renumber the sequence, so the menus are rebuilt from engine state.
func (a *App) deleteSelection() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateZones:
		item, ok := a.zoneMenu.SelectedItem().(zoneItem)
		if !ok {
			return a, nil
		}
		if err := a.engine.DeleteZone(item.zone.ID); err != nil {
			a.statusMsg = fmt.Sprintf("Cannot delete zone %d: %v", item.zone.ID, err)
			return a, nil
		}
		a.logbook.Info("Zone %d deleted (%s)", item.zone.ID, item.zone.Name)
		a.statusMsg = fmt.Sprintf("Zone %d deleted · sequence renumbered", item.zone.ID)
		a.refreshAfterEdit()

	case stateStages:
		item, ok := a.stageMenu.SelectedItem().(stageItem)
		if !ok {
			return a, nil
		}
		if err := a.engine.DeleteStage(item.stage.ID); err != nil {
			a.statusMsg = fmt.Sprintf("Cannot delete stage %s: %v", item.stage.ID, err)
			return a, nil
		}
		a.logbook.Info("Stage %s deleted", item.stage.ID)
		a.statusMsg = fmt.Sprintf("Stage %s deleted · zone stages renumbered", item.stage.ID)
		a.refreshAfterEdit()
	}
	return a, nil
}

// goBack climbs one screen up.
func (a *App) goBack() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateStages:
		a.state = stateZones
		a.statusMsg = ""
	case stateStageDetail:
		a.state = stateStages
		a.stageView = nil
		a.statusMsg = ""
	}
	return a, nil
}

func (a *App) refreshZoneMenu() {
	zones := a.engine.Zones()
	items := make([]list.Item, len(zones))
	for i := range zones {
		items[i] = zoneItem{zone: zones[i]}
	}
	a.zoneMenu.SetItems(items)
}

func (a *App) refreshStageMenu() {
	var items []list.Item
	for _, s := range a.engine.Stages() {
		if s.ZoneID == a.zoneID {
			items = append(items, stageItem{stage: s})
		}
	}
	a.stageMenu.SetItems(items)
	a.stageMenu.Title = fmt.Sprintf("Stages · %s", a.zoneName)
}

// refreshAfterEdit rebuilds cached summary and menus after a zone or
// stage edit, falling back to the zone list when the drilled-into zone
// no longer exists.
func (a *App) refreshAfterEdit() {
	a.summary = a.engine.Summary()
	a.refreshZoneMenu()
	if a.state == stateZones {
		return
	}
	if _, err := a.engine.Zone(a.zoneID); err != nil {
		a.state = stateZones
		a.stageView = nil
		return
	}
	a.refreshStageMenu()
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
	}
	if leftWidth < 20 {
		leftWidth = width
		rightWidth = 0
	}
	if a.state == stateZones {
		a.zoneMenu.SetSize(max(20, leftWidth-4), max(10, a.height-10))
	}
	var content string
	switch a.state {
	case stateZones:
		if !a.analyzed && len(a.zoneMenu.Items()) == 0 {
			content = "Analyzing model geometry..."
		} else {
			content = a.zoneMenu.View()
		}
	case stateStages:
		content = a.stageMenu.View()
	case stateStageDetail:
		if a.stageView != nil {
			content = a.stageView.View()
		} else {
			content = "No stage selected"
		}
	}
	return a.renderBoard(content, leftWidth, rightWidth)
}

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ ERECTOR")
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderMainArea(mainContent, leftWidth-4),
		"",
		a.renderKeyHints(leftWidth-4),
	)
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(left)
	var body string
	if rightWidth > 0 {
		right := a.renderModelPanel(rightWidth - 4)
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(right)
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderMainArea(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		content = "No zones yet. Press r to analyze."
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(content)
}

func (a *App) renderKeyHints(width int) string {
	var hints string
	switch a.state {
	case stateZones:
		hints = "enter → stages    x → delete zone    e → export    r → re-analyze    q → quit"
	case stateStages:
		hints = "enter → stage detail    x → delete stage    esc → back"
	case stateStageDetail:
		hints = "esc → back    e → export"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(20, width)).
		Render(hints)
}

// renderModelPanel shows the last analysis summary next to the menus.
func (a *App) renderModelPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Model · %s", a.modelID))
	if !a.analyzed && a.summary.TotalElements == 0 {
		note := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("Analysis in progress...")
		return lipgloss.JoinVertical(lipgloss.Left, title, note)
	}
	s := a.summary
	gridLine := fmt.Sprintf("Grid: virtual · %d axes · %d cells", s.GridAxesCount, s.GridCellsCount)
	if s.GridDetected {
		gridLine = fmt.Sprintf("Grid: detected · %d axes · %d cells", s.GridAxesCount, s.GridCellsCount)
	}
	lines := []string{
		fmt.Sprintf("Structural elements: %d", s.TotalElements),
		gridLine,
		fmt.Sprintf("Levels: %s", strings.Join(s.Levels, ", ")),
		fmt.Sprintf("Zones: %d · Stages: %d", s.ZoneCount, s.StageCount),
	}
	if s.DroppedRecords > 0 {
		lines = append(lines, fmt.Sprintf("⚠ %d records dropped during extraction", s.DroppedRecords))
	}
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(20, width)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d entries)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
	return box
}
