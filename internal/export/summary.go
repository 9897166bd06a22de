// Package export provides functionality for exporting load plans to various
// document formats.
package export

import (
	"fmt"
	"sort"

	"github.com/piwi3910/stowplan/internal/model"
)

// SummaryRow is one aggregated line of the laden or waiting tables. Every
// box sharing a type, dimension set, weight, and stacking shape collapses
// into a single row.
type SummaryRow struct {
	Type       string  // box type name
	Count      int     // physical boxes covered by this row
	Length     int     // mm, one box
	Width      int     // mm, one box
	Height     int     // mm, one box
	Weight     float64 // kg, one box
	StackCount int     // boxes per vertical unit; 1 for loose boxes
}

// StackHeight returns the aggregate height of one unit in this row.
func (r SummaryRow) StackHeight() int { return r.Height * r.StackCount }

// Stacked reports whether the row describes stacked units.
func (r SummaryRow) Stacked() bool { return r.StackCount > 1 }

// TotalWeight returns the combined weight of every box in the row.
func (r SummaryRow) TotalWeight() float64 { return r.Weight * float64(r.Count) }

// Summary is the assembled export view of one project: aggregated tables,
// utilization metrics, and the resolved units the drawing exporters render.
type Summary struct {
	Project   string
	Container model.Container
	Meta      model.Meta
	Laden     []SummaryRow
	Waiting   []SummaryRow
	Items     []model.Item // resolved units across both zones
	Metrics   model.LoadMetrics
}

// LadenItems returns the resolved units placed inside the container.
func (s Summary) LadenItems() []model.Item {
	var laden []model.Item
	for _, it := range s.Items {
		if it.Zone == model.ZoneContainer {
			laden = append(laden, it)
		}
	}
	return laden
}

// BuildSummary flattens a project snapshot into the view the exporters
// consume. The snapshot must be internally consistent; a dangling stack
// reference is reported as an error rather than silently skipped.
func BuildSummary(proj model.Project) (Summary, error) {
	items, err := ResolveItems(proj)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Project:   proj.Name,
		Container: proj.Container,
		Meta:      proj.Meta,
		Laden:     summarize(proj, model.ZoneContainer),
		Waiting:   summarize(proj, model.ZoneWaiting),
		Items:     items,
		Metrics:   model.CalculateLoadMetrics(items, proj.Container),
	}, nil
}

// ResolveItems converts a project snapshot into placement units, one per
// standalone box or stack, matching what the planner itself renders.
func ResolveItems(proj model.Project) ([]model.Item, error) {
	byID := make(map[string]model.Box, len(proj.Boxes))
	for _, b := range proj.Boxes {
		byID[b.ID] = b
	}

	var items []model.Item
	for _, b := range proj.Boxes {
		if b.StackID != "" {
			continue
		}
		dx, dy := b.FootprintExtent()
		items = append(items, model.Item{
			ID:         b.ID,
			Kind:       model.ItemBox,
			Name:       b.Name,
			Type:       b.Type,
			Color:      b.Color,
			Zone:       b.Zone,
			X:          b.X,
			Y:          b.Y,
			DX:         dx,
			DY:         dy,
			UnitHeight: b.Height,
			Height:     b.Height,
			Count:      1,
			Weight:     b.Weight,
			Rotation:   b.Rotation,
		})
	}

	for _, st := range proj.Stacks {
		if st.Count() == 0 {
			return nil, fmt.Errorf("stack %s has no members", st.ID)
		}
		var weight float64
		for _, id := range st.MemberIDs {
			m, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("stack %s references unknown box %s", st.ID, id)
			}
			weight += m.Weight
		}
		base := byID[st.BaseID()]
		top := byID[st.TopID()]
		dx, dy := base.FootprintExtent()
		items = append(items, model.Item{
			ID:         st.ID,
			Kind:       model.ItemStack,
			Name:       top.Name,
			Type:       base.Type,
			Color:      base.Color,
			Zone:       base.Zone,
			X:          base.X,
			Y:          base.Y,
			DX:         dx,
			DY:         dy,
			UnitHeight: base.Height,
			Height:     base.Height * st.Count(),
			Count:      st.Count(),
			Weight:     weight,
			Rotation:   base.Rotation,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

type rowKey struct {
	typ        string
	length     int
	width      int
	height     int
	weight     float64
	stackCount int
}

// summarize aggregates the boxes of one zone into table rows. Stack members
// count individually; the stacking shape is carried on the row instead.
func summarize(proj model.Project, zone model.Zone) []SummaryRow {
	stackSize := make(map[string]int, len(proj.Stacks))
	for _, st := range proj.Stacks {
		stackSize[st.ID] = st.Count()
	}

	rows := make(map[rowKey]*SummaryRow)
	for _, b := range proj.Boxes {
		if b.Zone != zone {
			continue
		}
		n := 1
		if b.StackID != "" {
			n = stackSize[b.StackID]
		}
		key := rowKey{b.Type, b.Length, b.Width, b.Height, b.Weight, n}
		row, ok := rows[key]
		if !ok {
			row = &SummaryRow{
				Type:       b.Type,
				Length:     b.Length,
				Width:      b.Width,
				Height:     b.Height,
				Weight:     b.Weight,
				StackCount: n,
			}
			rows[key] = row
		}
		row.Count++
	}

	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.StackCount != b.StackCount {
			return a.StackCount > b.StackCount
		}
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return a.Height < b.Height
	})
	return out
}
