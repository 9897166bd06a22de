package model

import (
	"math"
	"testing"
)

func testContainer() Container {
	return Container{
		ID:          "test-ctn",
		Name:        "Test Container",
		InnerLength: 1000,
		InnerWidth:  1000,
		InnerHeight: 2500,
		DoorHeight:  2000,
	}
}

func TestCalculateLoadMetrics(t *testing.T) {
	ctn := testContainer()
	items := []Item{
		{Kind: ItemBox, Type: "crate", Zone: ZoneContainer, DX: 500, DY: 500, Height: 500, Count: 1, Weight: 10},
		{Kind: ItemStack, Type: "crate", Zone: ZoneContainer, DX: 500, DY: 500, UnitHeight: 500, Height: 1000, Count: 2, Weight: 20},
		{Kind: ItemBox, Type: "pallet", Zone: ZoneWaiting, DX: 800, DY: 600, Height: 400, Count: 1, Weight: 99},
	}

	m := CalculateLoadMetrics(items, ctn)

	if m.LadenBoxes != 3 {
		t.Errorf("LadenBoxes = %d, want 3", m.LadenBoxes)
	}
	if m.WaitingBoxes != 1 {
		t.Errorf("WaitingBoxes = %d, want 1", m.WaitingBoxes)
	}
	if m.LadenStacks != 1 {
		t.Errorf("LadenStacks = %d, want 1", m.LadenStacks)
	}
	if m.TotalWeight != 30 {
		t.Errorf("TotalWeight = %v, want 30 (waiting weight must not count)", m.TotalWeight)
	}

	// Two 500x500 footprints on a 1000x1000 floor.
	if math.Abs(m.FloorUsagePct-50.0) > 1e-9 {
		t.Errorf("FloorUsagePct = %v, want 50", m.FloorUsagePct)
	}
	// (500*500*500 + 500*500*1000) / (1000*1000*2500) = 15%.
	if math.Abs(m.VolumeUsagePct-15.0) > 1e-9 {
		t.Errorf("VolumeUsagePct = %v, want 15", m.VolumeUsagePct)
	}
}

func TestCalculateLoadMetricsEmpty(t *testing.T) {
	m := CalculateLoadMetrics(nil, testContainer())
	if m.LadenBoxes != 0 || m.WaitingBoxes != 0 || m.LadenStacks != 0 {
		t.Errorf("empty plan should produce zero counts, got %+v", m)
	}
	if m.FloorUsagePct != 0 || m.VolumeUsagePct != 0 {
		t.Errorf("empty plan should produce zero usage, got %+v", m)
	}
}

func TestCalculateLoadMetricsZeroContainer(t *testing.T) {
	items := []Item{{Kind: ItemBox, Zone: ZoneContainer, DX: 10, DY: 10, Height: 10, Count: 1}}
	m := CalculateLoadMetrics(items, Container{})
	if m.FloorUsagePct != 0 || m.VolumeUsagePct != 0 {
		t.Errorf("degenerate container must not divide by zero, got %+v", m)
	}
}

func TestCountByType(t *testing.T) {
	items := []Item{
		{Kind: ItemStack, Type: "pallet", Zone: ZoneContainer, Count: 3},
		{Kind: ItemBox, Type: "crate", Zone: ZoneWaiting, Count: 1},
		{Kind: ItemBox, Type: "crate", Zone: ZoneContainer, Count: 1},
		{Kind: ItemBox, Type: "pallet", Zone: ZoneWaiting, Count: 1},
	}

	counts := CountByType(items)
	if len(counts) != 2 {
		t.Fatalf("expected 2 type rows, got %d", len(counts))
	}
	if counts[0].Type != "crate" || counts[1].Type != "pallet" {
		t.Errorf("rows should be sorted by type name, got %s before %s", counts[0].Type, counts[1].Type)
	}
	if counts[0].Laden != 1 || counts[0].Total != 2 {
		t.Errorf("crate row = %+v, want laden 1 total 2", counts[0])
	}
	if counts[1].Laden != 3 || counts[1].Total != 4 {
		t.Errorf("pallet row = %+v, want laden 3 total 4", counts[1])
	}
}
