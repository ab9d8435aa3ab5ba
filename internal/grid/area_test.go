package grid

import (
	"errors"
	"testing"

	"github.com/sitecast/erector/internal/model"
)

var testParams = AreaParams{Tolerance: 500, MinSpan: 1000}

func testGrid(t *testing.T) *Grid {
	t.Helper()
	return Reconstruct([]model.AxisRecord{
		vseg("A", 0), vseg("B", 10000), vseg("C", 20000),
		hseg("1", 0), hseg("2", 8000), hseg("3", 16000),
	})
}

func TestResolveAreaExactStrategy(t *testing.T) {
	g := testGrid(t)
	extent := Bounds{XMin: 0, XMax: 20000, YMin: 0, YMax: 16000}

	b, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "A", PrimaryEnd: "C",
		SecondaryStart: "1", SecondaryEnd: "3",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyAxisPositions {
		t.Fatalf("strategy = %q, want %q", strategy, StrategyAxisPositions)
	}
	want := Bounds{XMin: -500, XMax: 20500, YMin: -500, YMax: 16500}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestResolveAreaSwallowsTagCase(t *testing.T) {
	g := testGrid(t)
	_, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "a", PrimaryEnd: "c",
		SecondaryStart: "1", SecondaryEnd: "3",
	}, Bounds{}, testParams)
	if err != nil || strategy != StrategyAxisPositions {
		t.Fatalf("lower-case tags should still resolve exactly, got %q, %v", strategy, err)
	}
}

func TestResolveAreaRejectsMissingTags(t *testing.T) {
	g := testGrid(t)
	_, _, err := g.ResolveArea(AreaRequest{PrimaryStart: "A"}, Bounds{}, testParams)
	if !errors.Is(err, ErrInvalidArea) {
		t.Fatalf("err = %v, want ErrInvalidArea", err)
	}
}

func TestResolveAreaFallsBackWhenPositionsDegenerate(t *testing.T) {
	// All axes at position 0: geometry present but useless.
	g := Reconstruct([]model.AxisRecord{
		vseg("A", 0), vseg("B", 0), vseg("C", 0),
		hseg("1", 0), hseg("2", 0),
	})
	extent := Bounds{XMin: 0, XMax: 30000, YMin: 0, YMax: 20000}

	_, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "A", PrimaryEnd: "C",
		SecondaryStart: "1", SecondaryEnd: "2",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyProportional {
		t.Fatalf("strategy = %q, want proportional fallback", strategy)
	}
}

func TestResolveAreaFallsBackOnNarrowSpan(t *testing.T) {
	g := Reconstruct([]model.AxisRecord{
		vseg("A", 0), vseg("B", 400),
		hseg("1", 0), hseg("2", 8000),
	})
	_, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "A", PrimaryEnd: "B",
		SecondaryStart: "1", SecondaryEnd: "2",
	}, Bounds{XMax: 400, YMax: 8000}, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyProportional {
		t.Fatalf("a sub-metre requested span must fall back, got %q", strategy)
	}
}

func TestResolveAreaFallsBackOnUnknownTag(t *testing.T) {
	g := testGrid(t)
	_, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "A", PrimaryEnd: "ZZ",
		SecondaryStart: "1", SecondaryEnd: "3",
	}, Bounds{XMax: 20000, YMax: 16000}, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyProportional {
		t.Fatalf("unknown end tag should fall back, got %q", strategy)
	}
}

func TestProportionalAreaApportionsExtent(t *testing.T) {
	// Four primary and two secondary tags, every axis at position 0, so
	// only the proportional division can place the bounds.
	g := Reconstruct([]model.AxisRecord{
		vseg("A", 0), vseg("B", 0), vseg("C", 0), vseg("D", 0),
		hseg("1", 0), hseg("2", 0),
	})
	extent := Bounds{XMin: 0, XMax: 40000, YMin: 0, YMax: 20000}

	b, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "B", PrimaryEnd: "C",
		SecondaryStart: "1", SecondaryEnd: "2",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyProportional {
		t.Fatalf("strategy = %q, want proportional", strategy)
	}

	// X: indices 1..2 of 4 divisions over 40000, plus half a division
	// (5000) each side: [5000, 35000].
	if b.XMin != 5000 || b.XMax != 35000 {
		t.Errorf("x bounds = [%v, %v], want [5000, 35000]", b.XMin, b.XMax)
	}
	// Y: full index range 0..1 of 2 divisions over 20000, plus half a
	// division (5000) each side: [-5000, 25000].
	if b.YMin != -5000 || b.YMax != 25000 {
		t.Errorf("y bounds = [%v, %v], want [-5000, 25000]", b.YMin, b.YMax)
	}
}

func TestProportionalAreaSwapsInvertedRange(t *testing.T) {
	g := Reconstruct([]model.AxisRecord{
		vseg("A", 0), vseg("B", 0), vseg("C", 0), vseg("D", 0),
		hseg("1", 0), hseg("2", 0),
	})
	extent := Bounds{XMin: 0, XMax: 40000, YMin: 0, YMax: 20000}

	fwd, _, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "B", PrimaryEnd: "C", SecondaryStart: "1", SecondaryEnd: "2",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	rev, _, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "C", PrimaryEnd: "B", SecondaryStart: "2", SecondaryEnd: "1",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if fwd != rev {
		t.Errorf("inverted request resolved differently: %+v vs %+v", fwd, rev)
	}
}

func TestResolveAreaWithoutAxesUsesExtent(t *testing.T) {
	g := Reconstruct(nil)
	extent := Bounds{XMin: 1000, XMax: 9000, YMin: 2000, YMax: 6000}

	b, strategy, err := g.ResolveArea(AreaRequest{
		PrimaryStart: "A", PrimaryEnd: "B",
		SecondaryStart: "1", SecondaryEnd: "2",
	}, extent, testParams)
	if err != nil {
		t.Fatalf("ResolveArea: %v", err)
	}
	if strategy != StrategyProportional {
		t.Fatalf("strategy = %q, want proportional", strategy)
	}
	want := Bounds{XMin: 500, XMax: 9500, YMin: 1500, YMax: 6500}
	if b != want {
		t.Errorf("bounds = %+v, want extent with tolerance %+v", b, want)
	}
}

func TestAreaRequestLabel(t *testing.T) {
	req := AreaRequest{PrimaryStart: "A", PrimaryEnd: "J", SecondaryStart: "2", SecondaryEnd: "8"}
	if got := req.Label(); got != "Grid 2-8 / A-J" {
		t.Errorf("Label() = %q", got)
	}
}
