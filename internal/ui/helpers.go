package ui

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/piwi3910/stowplan/internal/project"
)

// distinctTypes returns the sorted unique type names across a box list.
func distinctTypes(boxes []model.Box) []string {
	seen := make(map[string]bool)
	var types []string
	for _, b := range boxes {
		if !seen[b.Type] {
			seen[b.Type] = true
			types = append(types, b.Type)
		}
	}
	sort.Strings(types)
	return types
}

// specSwatchColor returns the hex color a generation row will actually use:
// its configured color, or the palette color for its table position.
func specSwatchColor(spec model.BoxSpec, index int) string {
	if spec.Color != "" {
		return spec.Color
	}
	return model.TypeColor(index)
}

// projectNameFromPath derives a display name from a plan file path.
func projectNameFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), project.Ext)
	if name == "" {
		return "Untitled"
	}
	return name
}

// specsFromBoxes rebuilds generation rows from a box population so a
// loaded plan can be tweaked and regenerated. Boxes group by type, shape,
// weight, and color; rows come back sorted by type then size.
func specsFromBoxes(boxes []model.Box) []model.BoxSpec {
	type key struct {
		typ    string
		length int
		width  int
		height int
		weight float64
		color  string
	}
	counts := make(map[key]int)
	var order []key
	for _, b := range boxes {
		k := key{b.Type, b.Length, b.Width, b.Height, b.Weight, b.Color}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.typ != b.typ {
			return a.typ < b.typ
		}
		if a.length != b.length {
			return a.length < b.length
		}
		if a.width != b.width {
			return a.width < b.width
		}
		return a.height < b.height
	})

	specs := make([]model.BoxSpec, 0, len(order))
	for _, k := range order {
		specs = append(specs, model.BoxSpec{
			Type:     k.typ,
			Quantity: counts[k],
			Length:   k.length,
			Width:    k.width,
			Height:   k.height,
			Weight:   k.weight,
			Color:    k.color,
		})
	}
	return specs
}
