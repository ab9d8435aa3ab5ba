package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sitecast/erector/internal/config"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

func placementAt(x, y, z float64) *model.Placement {
	p := &model.Placement{}
	p[0][0], p[1][1], p[2][2], p[3][3] = 1, 1, 1, 1
	p[0][3], p[1][3], p[2][3] = x, y, z
	return p
}

func record(id string, express int, typeTag string, x, y, z float64) model.ElementRecord {
	return model.ElementRecord{
		GlobalID:  id,
		ExpressID: express,
		TypeTag:   typeTag,
		Name:      id,
		Placement: placementAt(x, y, z),
	}
}

// frameInput is a minimal model that still yields a zone with a footings
// stage followed by a columns stage on the virtual grid.
func frameInput() model.Input {
	return model.Input{
		SchemaVersion: model.SchemaVersion,
		ModelID:       "frame",
		Elements: []model.ElementRecord{
			record("ftg-1", 101, "IfcFooting", 5000, 4000, -500),
			record("col-1", 102, "IfcColumn", 5000, 4000, 0),
		},
		Storeys: []model.StoreyRecord{{Name: "Ground", Elevation: 0}},
	}
}

func newTestApp(t *testing.T, projectDir string, opts ...AppOption) *App {
	t.Helper()
	if err := config.InitErectorDir(projectDir); err != nil {
		t.Fatalf("init erector dir: %v", err)
	}
	app, err := NewApp(projectDir, frameInput(), opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func runCommands(t *testing.T, m tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := m.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", m)
	}
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		nextModel, nextCmd := app.Update(msg)
		var ok bool
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		cmd = nextCmd
	}
	return app
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestAppAnalyzesOnInit(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	if app.analyzed {
		t.Fatalf("analysis must not run before Init")
	}
	app = runCommands(t, app, app.Init())

	if !app.analyzed {
		t.Fatalf("expected analysis to complete")
	}
	if app.summary.ZoneCount != 1 || app.summary.StageCount != 2 {
		t.Fatalf("unexpected summary: %d zones, %d stages", app.summary.ZoneCount, app.summary.StageCount)
	}
	if got := len(app.zoneMenu.Items()); got != 1 {
		t.Fatalf("zone menu items = %d, want 1", got)
	}
	if !strings.Contains(app.statusMsg, "Analysis complete") {
		t.Fatalf("status = %q", app.statusMsg)
	}

	view := app.View()
	for _, want := range []string{"⬡ ERECTOR", "Model · frame", "Zones: 1 · Stages: 2", "LOG · erector.log"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAppDrillDownToStageDetail(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())

	m, _ := app.handleSelection()
	app = m.(*App)
	if app.state != stateStages {
		t.Fatalf("state = %d, want stages", app.state)
	}
	if got := len(app.stageMenu.Items()); got != 2 {
		t.Fatalf("stage menu items = %d, want 2", got)
	}
	zone := app.engine.Zones()[0]
	if want := "Stages · " + zone.Name; app.stageMenu.Title != want {
		t.Fatalf("stage menu title = %q, want %q", app.stageMenu.Title, want)
	}

	m, _ = app.handleSelection()
	app = m.(*App)
	if app.state != stateStageDetail {
		t.Fatalf("state = %d, want stage detail", app.state)
	}
	if app.stageView == nil || app.stageView.stage.ID != "1.1" {
		t.Fatalf("expected stage 1.1 detail, got %+v", app.stageView)
	}
	if app.stageView.stage.Category != method.CategoryFootings {
		t.Fatalf("first stage category = %s", app.stageView.stage.Category)
	}
	if got := len(app.stageView.elements); got != 1 {
		t.Fatalf("stage detail elements = %d, want 1", got)
	}
	view := app.View()
	for _, want := range []string{app.stageView.stage.Name, "Instructions:", "IfcFooting"} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail view missing %q", want)
		}
	}

	m, _ = app.Update(keyMsg("esc"))
	app = m.(*App)
	if app.state != stateStages {
		t.Fatalf("esc should return to stages, got %d", app.state)
	}
	m, _ = app.Update(keyMsg("esc"))
	app = m.(*App)
	if app.state != stateZones {
		t.Fatalf("esc should return to zones, got %d", app.state)
	}
}

func TestAppDeleteStageRenumbers(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())
	m, _ := app.handleSelection()
	app = m.(*App)

	m, _ = app.deleteSelection()
	app = m.(*App)

	stages := app.engine.Stages()
	if len(stages) != 1 {
		t.Fatalf("stages after delete = %d, want 1", len(stages))
	}
	if stages[0].ID != "1.2" || stages[0].Category != method.CategoryColumns {
		t.Fatalf("surviving stage = %s (%s), want 1.2 columns", stages[0].ID, stages[0].Category)
	}
	if stages[0].SequenceOrder != 1 {
		t.Fatalf("sequence order = %d, want renumbered to 1", stages[0].SequenceOrder)
	}
	if got := len(app.stageMenu.Items()); got != 1 {
		t.Fatalf("stage menu items = %d, want 1", got)
	}
	if !strings.Contains(app.statusMsg, "renumbered") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestAppDeleteZoneGuardedByStages(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())

	m, _ := app.deleteSelection()
	app = m.(*App)
	if !strings.Contains(app.statusMsg, "Cannot delete zone") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if got := len(app.engine.Zones()); got != 1 {
		t.Fatalf("zone removed despite stages, zones = %d", got)
	}

	for _, id := range []string{"1.1", "1.2"} {
		if err := app.engine.DeleteStage(id); err != nil {
			t.Fatalf("delete stage %s: %v", id, err)
		}
	}
	m, _ = app.deleteSelection()
	app = m.(*App)

	if got := len(app.engine.Zones()); got != 0 {
		t.Fatalf("zones after delete = %d, want 0", got)
	}
	if got := len(app.zoneMenu.Items()); got != 0 {
		t.Fatalf("zone menu items = %d, want 0", got)
	}
	if app.summary.ZoneCount != 0 || app.summary.StageCount != 0 {
		t.Fatalf("summary not refreshed: %+v", app.summary)
	}
}

func TestAppEditFallsBackWhenZoneVanishes(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())
	m, _ := app.handleSelection()
	app = m.(*App)

	// Empty the zone behind the UI's back, then remove it.
	for _, id := range []string{"1.1", "1.2"} {
		if err := app.engine.DeleteStage(id); err != nil {
			t.Fatalf("delete stage %s: %v", id, err)
		}
	}
	if err := app.engine.DeleteZone(app.zoneID); err != nil {
		t.Fatalf("delete zone: %v", err)
	}
	app.refreshAfterEdit()
	if app.state != stateZones {
		t.Fatalf("expected fallback to zone list, got state %d", app.state)
	}
}

func TestAppRecomputeRestoresGeneratedStages(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())
	m, _ := app.handleSelection()
	app = m.(*App)
	m, _ = app.deleteSelection()
	app = m.(*App)
	if got := len(app.engine.Stages()); got != 1 {
		t.Fatalf("stages after delete = %d, want 1", got)
	}

	m, cmd := app.Update(keyMsg("r"))
	app = runCommands(t, m, cmd)

	if got := len(app.engine.Stages()); got != 2 {
		t.Fatalf("stages after recompute = %d, want 2", got)
	}
	if app.state != stateZones {
		t.Fatalf("recompute should land on zone list, got state %d", app.state)
	}
}

func TestAppExportWritesReportAndState(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	app = runCommands(t, app, app.Init())

	m, cmd := app.Update(keyMsg("e"))
	app = runCommands(t, m, cmd)

	if !strings.Contains(app.statusMsg, "Methodology written to") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	reportPath := app.config.ReportPath("frame")
	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(content), "---\n") {
		t.Fatalf("report missing frontmatter fence")
	}
	if _, err := os.Stat(app.config.StatePath("frame")); err != nil {
		t.Fatalf("state snapshot missing: %v", err)
	}
}

func TestAppRefusesActionsWhileAnalyzing(t *testing.T) {
	app := newTestApp(t, t.TempDir())

	m, cmd := app.Update(keyMsg("enter"))
	app = m.(*App)
	if cmd != nil {
		t.Fatalf("enter before analysis must not produce a command")
	}
	if app.state != stateZones {
		t.Fatalf("state changed before analysis: %d", app.state)
	}
	if !strings.Contains(app.statusMsg, "still running") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}
