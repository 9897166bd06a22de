package ui

import (
	"testing"

	"github.com/piwi3910/stowplan/internal/model"
)

func TestDistinctTypes(t *testing.T) {
	boxes := []model.Box{
		{ID: "a1", Type: "tote"},
		{ID: "a2", Type: "crate"},
		{ID: "a3", Type: "crate"},
		{ID: "a4", Type: "drum"},
		{ID: "a5", Type: "crate"},
	}

	types := distinctTypes(boxes)
	want := []string{"crate", "drum", "tote"}
	if len(types) != len(want) {
		t.Fatalf("expected %d types, got %d", len(want), len(types))
	}
	for i, typ := range want {
		if types[i] != typ {
			t.Errorf("types[%d] = %q, want %q", i, types[i], typ)
		}
	}
}

func TestDistinctTypesEmpty(t *testing.T) {
	if types := distinctTypes(nil); types != nil {
		t.Errorf("expected nil for no boxes, got %v", types)
	}
}

func TestSpecSwatchColor(t *testing.T) {
	spec := model.BoxSpec{Type: "crate", Color: "#112233"}
	if got := specSwatchColor(spec, 4); got != "#112233" {
		t.Errorf("configured color should win, got %q", got)
	}

	spec.Color = ""
	if got := specSwatchColor(spec, 0); got != model.TypeColor(0) {
		t.Errorf("empty color should fall back to the palette, got %q", got)
	}
	if specSwatchColor(spec, 0) == specSwatchColor(spec, 1) {
		t.Error("adjacent palette rows should differ in color")
	}
}

func TestProjectNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/alice/plans/rotterdam.clp", "rotterdam"},
		{"rotterdam.clp", "rotterdam"},
		{"/tmp/no-extension", "no-extension"},
		{".clp", "Untitled"},
	}
	for _, tt := range tests {
		if got := projectNameFromPath(tt.path); got != tt.want {
			t.Errorf("projectNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSpecsFromBoxes(t *testing.T) {
	boxes := []model.Box{
		{ID: "c1", Type: "crate", Length: 1000, Width: 800, Height: 600, Weight: 12.5, Color: "#E69F00"},
		{ID: "c2", Type: "crate", Length: 1000, Width: 800, Height: 600, Weight: 12.5, Color: "#E69F00"},
		{ID: "c3", Type: "crate", Length: 1000, Width: 800, Height: 600, Weight: 12.5, Color: "#E69F00"},
		{ID: "t1", Type: "tote", Length: 600, Width: 400, Height: 300, Weight: 5, Color: "#56B4E9"},
	}

	specs := specsFromBoxes(boxes)
	if len(specs) != 2 {
		t.Fatalf("expected 2 spec rows, got %d", len(specs))
	}
	if specs[0].Type != "crate" || specs[0].Quantity != 3 {
		t.Errorf("expected 3 crates first, got %+v", specs[0])
	}
	if specs[0].Length != 1000 || specs[0].Weight != 12.5 || specs[0].Color != "#E69F00" {
		t.Errorf("crate row lost its shape: %+v", specs[0])
	}
	if specs[1].Type != "tote" || specs[1].Quantity != 1 {
		t.Errorf("expected 1 tote second, got %+v", specs[1])
	}
}

func TestSpecsFromBoxesSplitsOnShape(t *testing.T) {
	boxes := []model.Box{
		{ID: "c1", Type: "crate", Length: 1000, Width: 800, Height: 600},
		{ID: "c2", Type: "crate", Length: 1200, Width: 800, Height: 600},
	}

	specs := specsFromBoxes(boxes)
	if len(specs) != 2 {
		t.Fatalf("same type with different shapes should stay separate rows, got %d", len(specs))
	}
	if specs[0].Length != 1000 || specs[1].Length != 1200 {
		t.Errorf("rows should sort by size, got %d then %d", specs[0].Length, specs[1].Length)
	}
}

func TestSpecsFromBoxesEmpty(t *testing.T) {
	if specs := specsFromBoxes(nil); len(specs) != 0 {
		t.Errorf("expected no rows for no boxes, got %d", len(specs))
	}
}
