package model

import (
	"math"
	"testing"
)

func placementAt(x, y, z float64) *Placement {
	p := Placement{
		{1, 0, 0, x},
		{0, 1, 0, y},
		{0, 0, 1, z},
		{0, 0, 0, 1},
	}
	return &p
}

func TestExtractElementsReadsTranslation(t *testing.T) {
	records := []ElementRecord{
		{GlobalID: "col-1", ExpressID: 42, TypeTag: "IfcColumn", Name: "C1", Placement: placementAt(5000, 4000, 0)},
	}
	elements, stats := ExtractElements(records, nil)
	if stats.Extracted != 1 || stats.Dropped != 0 {
		t.Fatalf("stats = %+v, want 1 extracted 0 dropped", stats)
	}
	e := elements[0]
	if e.X != 5000 || e.Y != 4000 || e.Z != 0 {
		t.Errorf("position = (%v, %v, %v), want (5000, 4000, 0)", e.X, e.Y, e.Z)
	}
	if e.ID != "col-1" || e.ExpressID != 42 || e.TypeTag != "IfcColumn" {
		t.Errorf("identity fields wrong: %+v", e)
	}
}

func TestExtractElementsLevelResolution(t *testing.T) {
	levels := NewLevels([]StoreyRecord{
		{Name: "Ground Floor", Elevation: 0},
		{Name: "Level 2", Elevation: 3500},
	})

	tests := []struct {
		name   string
		storey string
		z      float64
		want   string
	}{
		{"containment wins", "Mezzanine", 0, "Mezzanine"},
		{"nearest low", "", 400, "Ground Floor"},
		{"nearest high", "", 3300, "Level 2"},
		{"exact", "", 3500, "Level 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []ElementRecord{
				{GlobalID: "e", TypeTag: "IfcBeam", Placement: placementAt(0, 0, tt.z), Storey: tt.storey},
			}
			elements, _ := ExtractElements(records, levels)
			if elements[0].Level != tt.want {
				t.Errorf("level = %q, want %q", elements[0].Level, tt.want)
			}
		})
	}

	elements, _ := ExtractElements([]ElementRecord{
		{GlobalID: "e", TypeTag: "IfcBeam", Placement: placementAt(0, 0, 120)},
	}, nil)
	if elements[0].Level != UnknownLevel {
		t.Errorf("level without storeys = %q, want %q", elements[0].Level, UnknownLevel)
	}
}

func TestExtractElementsDropsUnusableRecords(t *testing.T) {
	bad := placementAt(math.NaN(), 0, 0)
	records := []ElementRecord{
		{GlobalID: "ok", TypeTag: "IfcColumn", Placement: placementAt(1, 2, 3)},
		{GlobalID: "no-placement", TypeTag: "IfcColumn"},
		{GlobalID: "nan", TypeTag: "IfcColumn", Placement: bad},
		{GlobalID: "ok", TypeTag: "IfcColumn", Placement: placementAt(9, 9, 9)},
		{GlobalID: "", TypeTag: "IfcColumn", Placement: placementAt(4, 5, 6)},
	}
	elements, stats := ExtractElements(records, nil)
	if len(elements) != 1 || elements[0].ID != "ok" {
		t.Fatalf("extracted %d elements, want only the usable one", len(elements))
	}
	if stats.Dropped != 4 {
		t.Errorf("dropped = %d, want 4", stats.Dropped)
	}
	if elements[0].X != 1 {
		t.Errorf("duplicate ID replaced the first occurrence")
	}
}

func TestExtractElementsPropertyScrape(t *testing.T) {
	records := []ElementRecord{
		{GlobalID: "e", TypeTag: "IfcColumn", Placement: placementAt(0, 0, 0), Properties: []PropertyRecord{
			{Name: "Reference", Value: "UC203"},
			{Name: "LoadBearing", Value: true},
			{Name: "Span", Value: 6000.0},
			{Name: "", Value: "nameless"},
			{Name: "NilValue", Value: nil},
			{Name: "Nested", Value: map[string]any{"x": 1}},
		}},
	}
	elements, _ := ExtractElements(records, nil)
	props := elements[0].Properties
	if len(props) != 3 {
		t.Fatalf("kept %d properties, want 3: %v", len(props), props)
	}
	if props["Reference"] != "UC203" || props["LoadBearing"] != true || props["Span"] != 6000.0 {
		t.Errorf("property values wrong: %v", props)
	}
}

func TestNewLevelsSortsByElevation(t *testing.T) {
	levels := NewLevels([]StoreyRecord{
		{Name: "Roof", Elevation: 7200},
		{Name: "Ground Floor", Elevation: 0},
		{Name: "Level 2", Elevation: 3600},
	})
	got := levels.Names()
	want := []string{"Ground Floor", "Level 2", "Roof"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if l, ok := levels.Nearest(7000); !ok || l.Name != "Roof" {
		t.Errorf("Nearest(7000) = %v, want Roof", l)
	}
}

func TestInputValidateSchemaVersion(t *testing.T) {
	if err := (Input{SchemaVersion: SchemaVersion}).Validate(); err != nil {
		t.Fatalf("current schema rejected: %v", err)
	}
	if err := (Input{SchemaVersion: SchemaVersion + 1}).Validate(); err == nil {
		t.Fatal("future schema accepted")
	}
}
