package partition

import (
	"testing"

	"github.com/sitecast/erector/internal/grid"
	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/model"
)

func column(id string, x, y float64) model.Element {
	return model.Element{ID: id, TypeTag: "IfcColumn", X: x, Y: y}
}

func axisGrid(t *testing.T) *grid.Grid {
	t.Helper()
	return grid.Reconstruct([]model.AxisRecord{
		{Tag: "A", Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 0, Y: 8000}},
		{Tag: "B", Start: model.Point{X: 10000, Y: 0}, End: model.Point{X: 10000, Y: 8000}},
		{Tag: "1", Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 10000, Y: 0}},
		{Tag: "2", Start: model.Point{X: 0, Y: 8000}, End: model.Point{X: 10000, Y: 8000}},
	})
}

func TestPartitionSingleElement(t *testing.T) {
	zones := Partition([]model.Element{column("c1", 5000, 4000)}, axisGrid(t), DefaultConfig())
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1 for a degenerate extent", len(zones))
	}
	z := zones[0]
	if z.ID != 1 {
		t.Errorf("zone ID = %d, want 1", z.ID)
	}
	if len(z.ElementIDs) != 1 || z.ElementIDs[0] != "c1" {
		t.Errorf("zone elements = %v, want [c1]", z.ElementIDs)
	}
	if z.Counts[method.CategoryColumns] != 1 {
		t.Errorf("column count = %d, want 1", z.Counts[method.CategoryColumns])
	}
	if len(z.GridCells) != 1 || z.GridCells[0] != "A-1" {
		t.Errorf("zone cells = %v, want [A-1]", z.GridCells)
	}
	if z.Name != "Grid 1-1 / A-A" {
		t.Errorf("zone name = %q", z.Name)
	}
}

func TestPartitionTileCountAndCap(t *testing.T) {
	// 91 m span wants ceil(91000/30000) = 4 tiles of 22750 mm. The last
	// element pins the extent and falls outside the half-open tiles, so
	// four interior elements are needed to populate all four.
	var elements []model.Element
	for i, x := range []float64{0, 30000, 60000, 90000, 91000} {
		elements = append(elements, column(string(rune('a'+i)), x, 0))
	}
	zones := Partition(elements, nil, DefaultConfig())
	if len(zones) != 4 {
		t.Fatalf("zones = %d, want 4", len(zones))
	}

	// 390 m span would want 13 tiles; the cap holds it at 6.
	elements = nil
	for i := 0; i < 14; i++ {
		elements = append(elements, column(string(rune('a'+i)), float64(i)*30000, 0))
	}
	zones = Partition(elements, nil, DefaultConfig())
	if len(zones) != 6 {
		t.Fatalf("zones = %d, want 6 (cap per axis)", len(zones))
	}
}

func TestPartitionRowMajorOrder(t *testing.T) {
	// Four clusters near the corners of the footprint, plus an extent
	// extender that stays unzoned. IDs must walk the bottom row first.
	elements := []model.Element{
		column("sw", 1000, 1000),
		column("se", 59000, 1000),
		column("nw", 1000, 59000),
		column("ne", 59000, 59000),
		column("ext", 60000, 60000),
	}
	zones := Partition(elements, nil, DefaultConfig())
	if len(zones) != 4 {
		t.Fatalf("zones = %d, want 4", len(zones))
	}
	wantOrder := []string{"sw", "se", "nw", "ne"}
	for i, want := range wantOrder {
		if len(zones[i].ElementIDs) != 1 || zones[i].ElementIDs[0] != want {
			t.Fatalf("zone %d holds %v, want [%s] (row-major, Y rows outer)",
				zones[i].ID, zones[i].ElementIDs, want)
		}
	}
	for i, z := range zones {
		if z.ID != i+1 {
			t.Errorf("zone IDs not dense: %d at index %d", z.ID, i)
		}
	}
}

func TestPartitionSkipsEmptyTiles(t *testing.T) {
	// 69 m span splits into 3 tiles of 23 m; the middle tile holds
	// nothing and must not produce a zone.
	elements := []model.Element{
		column("west", 0, 0),
		column("east", 60000, 0),
		column("ext", 69000, 0),
	}
	zones := Partition(elements, nil, DefaultConfig())
	if len(zones) != 2 {
		t.Fatalf("zones = %d, want 2 non-empty", len(zones))
	}
	if zones[0].ID != 1 || zones[1].ID != 2 {
		t.Errorf("IDs = %d, %d, want dense 1, 2", zones[0].ID, zones[1].ID)
	}
	if zones[0].ElementIDs[0] != "west" || zones[1].ElementIDs[0] != "east" {
		t.Errorf("zone members = %v, %v", zones[0].ElementIDs, zones[1].ElementIDs)
	}
	if zones[0].Name != "Zone 1" {
		t.Errorf("ungridded zone name = %q, want Zone 1", zones[0].Name)
	}
}

func TestPartitionZonesAreDisjoint(t *testing.T) {
	var elements []model.Element
	coords := []struct{ x, y float64 }{
		{0, 0}, {15000, 12000}, {29999, 5000}, {31000, 20000},
		{45000, 33000}, {59000, 59000}, {12000, 40000}, {40000, 12000},
	}
	for i, c := range coords {
		elements = append(elements, column(string(rune('a'+i)), c.x, c.y))
	}

	zones := Partition(elements, nil, DefaultConfig())
	seen := make(map[string]int)
	for _, z := range zones {
		for _, id := range z.ElementIDs {
			seen[id]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("element %s appears in %d zones", id, n)
		}
	}

	// Ownership must agree with the zone rectangles.
	for _, e := range elements {
		owned := seen[e.ID] == 1
		inSomeZone := false
		for _, z := range zones {
			if z.XRange.Contains(e.X) && z.YRange.Contains(e.Y) {
				inSomeZone = true
			}
		}
		if owned != inSomeZone {
			t.Errorf("element %s: owned=%v but inSomeZone=%v", e.ID, owned, inSomeZone)
		}
	}
}

func TestPartitionMaxEdgeStaysUnzoned(t *testing.T) {
	// The half-open test leaves an element exactly on the population's
	// maximum edge outside every tile.
	elements := []model.Element{
		column("origin", 0, 0),
		column("edge", 40000, 0),
	}
	zones := Partition(elements, nil, DefaultConfig())
	for _, z := range zones {
		for _, id := range z.ElementIDs {
			if id == "edge" {
				t.Fatal("max-edge element must not be zoned")
			}
		}
	}
}

func TestPartitionCountsUseFirstMatchingCategory(t *testing.T) {
	elements := []model.Element{
		{ID: "m1", TypeTag: "IfcMember", X: 10, Y: 10},
		{ID: "p1", TypeTag: "IfcPlate", X: 20, Y: 20},
		{ID: "ext", TypeTag: "IfcSlab", X: 30, Y: 30},
	}
	zones := Partition(elements, nil, DefaultConfig())
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(zones))
	}
	z := zones[0]
	if len(z.ElementIDs) != 2 {
		t.Fatalf("zone elements = %v, want the two interior elements", z.ElementIDs)
	}
	if z.Counts[method.CategoryBeams] != 1 {
		t.Errorf("IfcMember should count as beams, counts = %v", z.Counts)
	}
	if z.Counts[method.CategoryBracing] != 1 {
		t.Errorf("IfcPlate should count as bracing, counts = %v", z.Counts)
	}
	if z.Counts[method.CategorySlabs] != 0 {
		t.Errorf("extent extender is unzoned, counts = %v", z.Counts)
	}
}
