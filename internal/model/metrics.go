package model

import "sort"

// LoadMetrics holds the summary figures for the status panel and the PDF
// metrics block.
type LoadMetrics struct {
	LadenBoxes     int     `json:"laden_boxes"`      // boxes inside the container, stack members counted individually
	WaitingBoxes   int     `json:"waiting_boxes"`    // boxes still in the waiting area
	LadenStacks    int     `json:"laden_stacks"`     // stack units inside the container
	TotalWeight    float64 `json:"total_weight_kg"`  // laden weight in kg
	FloorUsagePct  float64 `json:"floor_usage_pct"`  // occupied floor area / inner floor area
	VolumeUsagePct float64 `json:"volume_usage_pct"` // occupied volume / inner volume
}

// TypeCount is one row of the per-type breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Laden int    `json:"laden"`
	Total int    `json:"total"`
}

// CalculateLoadMetrics computes utilization figures for the given resolved
// items against the container interior.
func CalculateLoadMetrics(items []Item, container Container) LoadMetrics {
	var m LoadMetrics
	var floorUsed, volumeUsed int

	for _, it := range items {
		switch it.Zone {
		case ZoneContainer:
			m.LadenBoxes += it.Count
			if it.Kind == ItemStack {
				m.LadenStacks++
			}
			m.TotalWeight += it.Weight
			floorUsed += it.DX * it.DY
			volumeUsed += it.DX * it.DY * it.Height
		default:
			m.WaitingBoxes += it.Count
		}
	}

	if fa := container.FloorArea(); fa > 0 {
		m.FloorUsagePct = float64(floorUsed) / float64(fa) * 100.0
	}
	if v := container.Volume(); v > 0 {
		m.VolumeUsagePct = float64(volumeUsed) / float64(v) * 100.0
	}
	return m
}

// CountByType returns per-type unit counts across both zones, sorted by
// type name.
func CountByType(items []Item) []TypeCount {
	byType := make(map[string]*TypeCount)
	for _, it := range items {
		tc, ok := byType[it.Type]
		if !ok {
			tc = &TypeCount{Type: it.Type}
			byType[it.Type] = tc
		}
		tc.Total += it.Count
		if it.Zone == ZoneContainer {
			tc.Laden += it.Count
		}
	}

	counts := make([]TypeCount, 0, len(byType))
	for _, tc := range byType {
		counts = append(counts, *tc)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Type < counts[j].Type })
	return counts
}
