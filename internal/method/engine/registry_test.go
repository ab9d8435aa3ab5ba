package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryLoadMintsModelID(t *testing.T) {
	r := NewRegistry()

	input := singleColumnInput()
	input.ModelID = ""
	e, err := r.Load(input)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.ModelID() == "" {
		t.Fatal("loaded engine has no model ID")
	}
	got, err := r.Get(e.ModelID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != e {
		t.Error("Get returned a different engine")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestRegistryLoadReplaces(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Load(singleColumnInput()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	replacement := singleColumnInput()
	replacement.Elements = append(replacement.Elements, record("col-2", 102, "IfcColumn", 5500, 4200, 0))
	e, err := r.Load(replacement)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after reload", r.Len())
	}
	got, err := r.Get("single-column")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != e {
		t.Error("reload did not replace the engine")
	}
	if n := got.Summary().TotalElements; n != 2 {
		t.Errorf("TotalElements = %d, want 2", n)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"beta", "alpha", "gamma"} {
		input := singleColumnInput()
		input.ModelID = id
		if _, err := r.Load(input); err != nil {
			t.Fatalf("Load(%s): %v", id, err)
		}
	}
	if got, want := r.IDs(), []string{"alpha", "beta", "gamma"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
}

func TestRegistryInvalidate(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Load(singleColumnInput()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !r.Invalidate("single-column") {
		t.Error("Invalidate = false for a loaded model")
	}
	if r.Invalidate("single-column") {
		t.Error("Invalidate = true for a discarded model")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistryRecomputeDiscardsEdits(t *testing.T) {
	r := NewRegistry()
	e, err := r.Load(singleColumnInput())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.DeleteStage("1.1"); err != nil {
		t.Fatalf("DeleteStage: %v", err)
	}
	if len(e.Stages()) != 0 {
		t.Fatal("stage edit did not apply")
	}

	summary, err := r.Recompute("single-column")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if summary.StageCount != 1 {
		t.Errorf("StageCount = %d, want 1 after recompute", summary.StageCount)
	}
	if len(e.Stages()) != 1 {
		t.Errorf("engine kept %d stages, want 1", len(e.Stages()))
	}

	if _, err := r.Recompute("missing"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("err = %v, want ErrModelNotFound", err)
	}
}
