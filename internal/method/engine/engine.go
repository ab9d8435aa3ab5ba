// internal/method/engine/engine.go
//
// The engine ties the pipeline together for one loaded building model:
// extract coordinates, reconstruct the reference grid, partition zones,
// generate the construction sequence. It owns the mutable zone and stage
// registries afterwards; callers serialize access per engine, while
// engines for different models are fully independent.

package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/method/partition"
	"github.com/sitecast/erector/internal/method/sequencer"
	"github.com/sitecast/erector/internal/model"
)

var (
	// ErrZoneNotFound reports an unknown zone ID, distinct from a zone
	// with no members.
	ErrZoneNotFound = errors.New("engine: zone not found")
	// ErrStageNotFound reports an unknown stage ID.
	ErrStageNotFound = errors.New("engine: stage not found")
	// ErrZoneHasStages blocks deletion of a zone that still owns stages.
	ErrZoneHasStages = errors.New("engine: zone still owns stages")
)

const defaultDocumentTitle = "Erection Methodology"

// Params tunes the spatial analysis. All lengths are millimeters.
type Params struct {
	// VirtualSpacing is the axis pitch of a synthesized grid.
	VirtualSpacing float64
	// ZoneTarget is the tile edge the zone partition aims for.
	ZoneTarget float64
	// ZoneMaxPerAxis caps zone tiles per axis.
	ZoneMaxPerAxis int
	// Tolerance expands resolved area bounds on every side.
	Tolerance float64
	// MinSpan is the smallest span the exact area strategy trusts.
	MinSpan float64
}

// DefaultParams returns the standard millimeter-scale tuning.
func DefaultParams() Params {
	return Params{
		VirtualSpacing: grid.DefaultVirtualSpacing,
		ZoneTarget:     30000,
		ZoneMaxPerAxis: 6,
		Tolerance:      500,
		MinSpan:        1000,
	}
}

// Engine analyzes one building model and owns its derived state.
type Engine struct {
	input    model.Input
	params   Params
	clock    func() time.Time
	docTitle string

	levels     model.Levels
	elements   []model.Element
	index      map[string]int
	structural []int
	catalog    map[string]model.Element
	grid       *grid.Grid
	zones      []method.Zone
	stages     []method.Stage
	stats      model.ExtractStats
	analyzed   bool
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithDocumentTitle overrides the methodology document title.
func WithDocumentTitle(title string) Option {
	return func(e *Engine) {
		if title != "" {
			e.docTitle = title
		}
	}
}

// WithParams overrides analysis tuning. Non-positive fields keep their
// defaults.
func WithParams(p Params) Option {
	return func(e *Engine) {
		d := DefaultParams()
		if p.VirtualSpacing > 0 {
			d.VirtualSpacing = p.VirtualSpacing
		}
		if p.ZoneTarget > 0 {
			d.ZoneTarget = p.ZoneTarget
		}
		if p.ZoneMaxPerAxis > 0 {
			d.ZoneMaxPerAxis = p.ZoneMaxPerAxis
		}
		if p.Tolerance > 0 {
			d.Tolerance = p.Tolerance
		}
		if p.MinSpan > 0 {
			d.MinSpan = p.MinSpan
		}
		e.params = d
	}
}

// New wires an engine for the given model input. Analysis does not run
// until Analyze is called.
func New(input model.Input, opts ...Option) (*Engine, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		input:    input,
		params:   DefaultParams(),
		clock:    time.Now,
		docTitle: defaultDocumentTitle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ModelID returns the identifier of the loaded model.
func (e *Engine) ModelID() string {
	return e.input.ModelID
}

// Analyze runs the full pipeline and returns the summary. Re-running on
// unchanged input rebuilds identical zones and stages, discarding any
// user edits made since the last pass.
func (e *Engine) Analyze() Summary {
	e.levels = model.NewLevels(e.input.Storeys)

	elements, stats := model.ExtractElements(e.input.Elements, e.levels)
	e.elements = elements
	e.stats = stats

	e.index = make(map[string]int, len(elements))
	e.structural = nil
	for i, el := range elements {
		e.index[el.ID] = i
		if method.IsStructural(el.TypeTag) {
			e.structural = append(e.structural, i)
		}
	}

	g := grid.Reconstruct(e.input.GridAxes)
	if g.Empty() {
		if extent, ok := grid.BoundsOf(e.structuralElements()); ok {
			g = grid.Synthesize(extent, e.params.VirtualSpacing)
		}
	}
	e.grid = g

	for _, i := range e.structural {
		if cell, ok := g.FindCell(e.elements[i].X, e.elements[i].Y); ok {
			e.elements[i].CellRef = cell.Name()
		}
	}

	e.catalog = make(map[string]model.Element, len(e.elements))
	for _, el := range e.elements {
		e.catalog[el.ID] = el
	}

	e.zones = partition.Partition(e.structuralElements(), g, partition.Config{
		TargetSize: e.params.ZoneTarget,
		MaxPerAxis: e.params.ZoneMaxPerAxis,
	})
	e.stages = sequencer.Generate(e.zones, e.levels, e.catalog)
	e.analyzed = true
	return e.Summary()
}

// Summary reports the outcome of the last analysis. Element counts cover
// structural elements only; the zone breakdown counts elements holding a
// grid cell reference, keyed by zone name.
type Summary struct {
	GridDetected    bool           `json:"grid_detected"`
	GridAxesCount   int            `json:"grid_axes_count"`
	GridCellsCount  int            `json:"grid_cells_count"`
	TotalElements   int            `json:"total_elements"`
	DroppedRecords  int            `json:"dropped_records"`
	ElementsByType  map[string]int `json:"elements_by_type"`
	ElementsByLevel map[string]int `json:"elements_by_level"`
	ElementsByZone  map[string]int `json:"elements_by_zone"`
	Levels          []string       `json:"levels"`
	ZoneCount       int            `json:"zones_count"`
	StageCount      int            `json:"stages_count"`
}

// Summary recomputes the analysis summary from current state.
func (e *Engine) Summary() Summary {
	byType := make(map[string]int)
	byLevel := make(map[string]int)
	byZone := make(map[string]int)
	for _, i := range e.structural {
		el := e.elements[i]
		byType[el.TypeTag]++
		byLevel[el.Level]++
	}
	for _, z := range e.zones {
		n := 0
		for _, id := range z.ElementIDs {
			if i, ok := e.index[id]; ok && e.elements[i].CellRef != "" {
				n++
			}
		}
		if n > 0 {
			byZone[z.Name] += n
		}
	}

	var detected bool
	var axes, cells int
	if e.grid != nil {
		detected = !e.grid.Virtual && !e.grid.Empty()
		axes = len(e.grid.Primary) + len(e.grid.Secondary)
		cells = len(e.grid.Cells)
	}

	return Summary{
		GridDetected:    detected,
		GridAxesCount:   axes,
		GridCellsCount:  cells,
		TotalElements:   len(e.structural),
		DroppedRecords:  e.stats.Dropped,
		ElementsByType:  byType,
		ElementsByLevel: byLevel,
		ElementsByZone:  byZone,
		Levels:          e.levels.Names(),
		ZoneCount:       len(e.zones),
		StageCount:      len(e.stages),
	}
}

// Grid returns the reconstructed or synthesized grid.
func (e *Engine) Grid() *grid.Grid {
	return e.grid
}

// Levels returns the level schedule, ascending by elevation.
func (e *Engine) Levels() model.Levels {
	return e.levels
}

// Elements returns every retained element in extraction order.
func (e *Engine) Elements() []model.Element {
	return append([]model.Element(nil), e.elements...)
}

// Stats reports extraction bookkeeping from the last analysis.
func (e *Engine) Stats() model.ExtractStats {
	return e.stats
}

// Zones returns the current zones in ID order.
func (e *Engine) Zones() []method.Zone {
	out := make([]method.Zone, 0, len(e.zones))
	for _, z := range e.zones {
		out = append(out, z.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Zone returns one zone by ID.
func (e *Engine) Zone(zoneID int) (method.Zone, error) {
	zi := e.zoneIndex(zoneID)
	if zi < 0 {
		return method.Zone{}, fmt.Errorf("engine: zone %d: %w", zoneID, ErrZoneNotFound)
	}
	return e.zones[zi].Clone(), nil
}

// Stages returns the full sequence ordered by sequence number.
func (e *Engine) Stages() []method.Stage {
	out := make([]method.Stage, 0, len(e.stages))
	for _, s := range e.stages {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceOrder < out[j].SequenceOrder })
	return out
}

// Stage returns one stage by ID.
func (e *Engine) Stage(stageID string) (method.Stage, error) {
	si := e.stageIndex(stageID)
	if si < 0 {
		return method.Stage{}, fmt.Errorf("engine: stage %s: %w", stageID, ErrStageNotFound)
	}
	return e.stages[si].Clone(), nil
}

func (e *Engine) zoneIndex(zoneID int) int {
	for i := range e.zones {
		if e.zones[i].ID == zoneID {
			return i
		}
	}
	return -1
}

func (e *Engine) stageIndex(stageID string) int {
	for i := range e.stages {
		if e.stages[i].ID == stageID {
			return i
		}
	}
	return -1
}

func (e *Engine) structuralElements() []model.Element {
	out := make([]model.Element, 0, len(e.structural))
	for _, i := range e.structural {
		out = append(out, e.elements[i])
	}
	return out
}

func (e *Engine) ensureAnalyzed() {
	if !e.analyzed {
		e.Analyze()
	}
}

func (e *Engine) now() time.Time {
	if e.clock == nil {
		return time.Now()
	}
	return e.clock()
}
