package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func container40() model.Container {
	return model.Container{
		ID:          "40ft-std",
		Name:        "40ft Standard",
		InnerLength: 12000,
		InnerWidth:  2300,
		InnerHeight: 2393,
		DoorHeight:  2228,
	}
}

func makeBox(id, typeName string, l, w, h, x, y int, zone model.Zone) model.Box {
	return model.Box{
		ID:     id,
		Name:   id,
		Type:   typeName,
		Color:  "#E69F00",
		Length: l,
		Width:  w,
		Height: h,
		Zone:   zone,
		X:      x,
		Y:      y,
	}
}

// stackedBoxes builds n co-located members plus the stack record tying them
// together, ready to feed into plannerWith.
func stackedBoxes(stackID, typeName string, l, w, h, x, y int, zone model.Zone, ids ...string) ([]model.Box, model.Stack) {
	var boxes []model.Box
	for _, id := range ids {
		b := makeBox(id, typeName, l, w, h, x, y, zone)
		b.StackID = stackID
		boxes = append(boxes, b)
	}
	return boxes, model.Stack{ID: stackID, MemberIDs: ids}
}

func plannerWith(t *testing.T, boxes []model.Box, stacks ...model.Stack) *Planner {
	t.Helper()
	p := New(container40())
	proj := model.Project{
		Name:      "fixture",
		Container: container40(),
		Boxes:     boxes,
		Stacks:    stacks,
	}
	require.NoError(t, p.Restore(proj))
	return p
}

func mustCommit(t *testing.T, p *Planner, id string, zone model.Zone, x, y int) {
	t.Helper()
	v, err := p.Commit(id, zone, x, y)
	require.NoError(t, err)
	require.True(t, v.Legal, "commit of %s to (%d,%d) rejected, conflicts %v", id, x, y, v.Conflicts)
}

func TestCommit_PlaceFromWaiting(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting)})

	v, err := p.Commit("a", model.ZoneContainer, 100, 200)
	require.NoError(t, err)
	require.True(t, v.Legal)

	assert.Empty(t, p.Unplaced())
	placed := p.Placed()
	require.Len(t, placed, 1)
	assert.Equal(t, "a", placed[0].ID)
	assert.Equal(t, 100, placed[0].X)
	assert.Equal(t, 200, placed[0].Y)
}

func TestCommit_IllegalChangesNothing(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("placed", "crate", 1000, 800, 600, 500, 500, model.ZoneContainer),
		makeBox("moved", "tote", 700, 700, 700, 40, 50, model.ZoneWaiting),
	})
	before := p.Snapshot()

	v, err := p.Commit("moved", model.ZoneContainer, 600, 600)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.Equal(t, []string{"placed"}, v.Conflicts)
	assert.Equal(t, before, p.Snapshot(), "a rejected drop leaves the committed state untouched")
}

func TestCommit_MergeOntoBoxFormsStack(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("base", "crate", 1000, 800, 600, 2000, 1000, model.ZoneContainer),
		makeBox("top", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
	})

	v, err := p.Commit("top", model.ZoneContainer, 2008, 994)
	require.NoError(t, err)
	require.True(t, v.Legal)
	assert.Equal(t, "base", v.MergeTarget)

	placed := p.Placed()
	require.Len(t, placed, 1)
	st := placed[0]
	assert.Equal(t, model.ItemStack, st.Kind)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, 1200, st.Height)
	assert.Equal(t, "top", st.Name, "a stack is labeled by its top member")
	assert.Equal(t, 2000, st.X, "the merged unit snaps onto the target origin")
	assert.Equal(t, 1000, st.Y)

	proj := p.Snapshot()
	require.Len(t, proj.Stacks, 1)
	assert.Equal(t, []string{"base", "top"}, proj.Stacks[0].MemberIDs)
	for _, b := range proj.Boxes {
		assert.Equal(t, proj.Stacks[0].ID, b.StackID)
		assert.Equal(t, model.ZoneContainer, b.Zone)
		assert.Equal(t, 2000, b.X)
		assert.Equal(t, 1000, b.Y)
	}
}

func TestCommit_MergeExtendsExistingStack(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 2000, 1000, model.ZoneContainer, "m1", "m2")
	boxes := append(members, makeBox("m3", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting))
	p := plannerWith(t, boxes, st)

	v, err := p.Commit("m3", model.ZoneContainer, 2000, 1000)
	require.NoError(t, err)
	require.True(t, v.Legal)
	assert.Equal(t, "st", v.MergeTarget)

	it, err := p.Item("st")
	require.NoError(t, err)
	assert.Equal(t, 3, it.Count)
	assert.Equal(t, 1800, it.Height)
	assert.Equal(t, "m3", it.Name)
}

func TestCommit_StackOntoStackAppendsWholeUnit(t *testing.T) {
	aBoxes, aStack := stackedBoxes("sa", "crate", 1000, 800, 500, 1000, 500, model.ZoneContainer, "a1", "a2")
	bBoxes, bStack := stackedBoxes("sb", "crate", 1000, 800, 500, 0, 0, model.ZoneWaiting, "b1", "b2")
	p := plannerWith(t, append(aBoxes, bBoxes...), aStack, bStack)

	v, err := p.Commit("sb", model.ZoneContainer, 1005, 495)
	require.NoError(t, err)
	require.True(t, v.Legal)
	assert.Equal(t, "sa", v.MergeTarget)

	proj := p.Snapshot()
	require.Len(t, proj.Stacks, 1, "the moved stack is absorbed")
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, proj.Stacks[0].MemberIDs)

	it, err := p.Item("sa")
	require.NoError(t, err)
	assert.Equal(t, 4, it.Count)
	assert.Equal(t, 2000, it.Height)
}

func TestCommit_MoveStackMovesAllMembers(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer, "m1", "m2", "m3")
	p := plannerWith(t, members, st)

	mustCommit(t, p, "st", model.ZoneContainer, 4000, 700)

	proj := p.Snapshot()
	for _, b := range proj.Boxes {
		assert.Equal(t, 4000, b.X)
		assert.Equal(t, 700, b.Y)
	}
}

func TestCommit_ReturnToWaitingFreesTheFloor(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer),
		makeBox("b", "tote", 900, 700, 500, 0, 0, model.ZoneWaiting),
	})

	v, err := p.Commit("b", model.ZoneContainer, 50, 50)
	require.NoError(t, err)
	require.False(t, v.Legal, "the spot is taken")

	mustCommit(t, p, "a", model.ZoneWaiting, 0, 0)

	v, err = p.Commit("b", model.ZoneContainer, 50, 50)
	require.NoError(t, err)
	assert.True(t, v.Legal, "the vacated floor accepts the second box")
	assert.Len(t, p.Placed(), 1)
	assert.Len(t, p.Unplaced(), 1)
}

func TestDetachTop_ShrinksAndDissolves(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 3000, 900, model.ZoneContainer, "m1", "m2", "m3")
	p := plannerWith(t, members, st)

	topID, err := p.DetachTop("st")
	require.NoError(t, err)
	assert.Equal(t, "m3", topID)

	top, err := p.Item("m3")
	require.NoError(t, err)
	assert.Equal(t, model.ZoneWaiting, top.Zone, "the taken box goes back to the waiting area")

	it, err := p.Item("st")
	require.NoError(t, err)
	assert.Equal(t, 2, it.Count)

	// Taking the next member leaves one box, which dissolves the stack.
	_, err = p.DetachTop("st")
	require.NoError(t, err)

	_, err = p.Item("st")
	assert.Error(t, err, "a dissolved stack no longer resolves")

	remaining, err := p.Item("m1")
	require.NoError(t, err)
	assert.Equal(t, model.ItemBox, remaining.Kind)
	assert.Equal(t, model.ZoneContainer, remaining.Zone)
	assert.Equal(t, 3000, remaining.X)
	assert.Equal(t, 900, remaining.Y)
	assert.Equal(t, 600, remaining.Height)

	// The dissolved box still claims its floor space.
	v, err := p.EvaluateMove("m2", model.ZoneContainer, 3000, 900)
	require.NoError(t, err)
	require.True(t, v.Legal)
	assert.Equal(t, "m1", v.MergeTarget, "re-dropping the taken box stacks it back on")

	v, err = p.EvaluateMove("m3", model.ZoneContainer, 3400, 1100)
	require.NoError(t, err)
	assert.False(t, v.Legal, "offset overlap with the dissolved box stays illegal")
}

func TestDetachTop_UnknownStack(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting)})

	_, err := p.DetachTop("nope")
	assert.Error(t, err)

	_, err = p.DetachTop("a")
	assert.Error(t, err, "a standalone box has no top to take")
}

func TestRotate_WaitingUnit(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting)})

	v, err := p.Rotate("a")
	require.NoError(t, err)
	require.True(t, v.Legal)

	it, err := p.Item("a")
	require.NoError(t, err)
	assert.Equal(t, model.Rotation90, it.Rotation)
	assert.Equal(t, 800, it.DX)
	assert.Equal(t, 1000, it.DY)

	v, err = p.Rotate("a")
	require.NoError(t, err)
	require.True(t, v.Legal)
	it, _ = p.Item("a")
	assert.Equal(t, model.Rotation0, it.Rotation, "two quarter turns cancel out")
}

func TestRotate_ContainerBlockedByNeighbor(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("long", "plank", 2000, 500, 400, 0, 0, model.ZoneContainer),
		makeBox("near", "crate", 1000, 500, 400, 0, 600, model.ZoneContainer),
	})

	v, err := p.Rotate("long")
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.Equal(t, []string{"near"}, v.Conflicts)

	it, err := p.Item("long")
	require.NoError(t, err)
	assert.Equal(t, model.Rotation0, it.Rotation, "a refused rotation leaves the unit unchanged")
	assert.Equal(t, 2000, it.DX)
}

func TestRotate_ContainerOutOfBounds(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "plank", 500, 1500, 400, 11500, 0, model.ZoneContainer)})

	v, err := p.Rotate("a")
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.True(t, v.OutOfBounds, "the swapped extents poke through the end wall")
}

func TestRotate_StackRotatesEveryMember(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer, "m1", "m2")
	p := plannerWith(t, members, st)

	v, err := p.Rotate("st")
	require.NoError(t, err)
	require.True(t, v.Legal)

	proj := p.Snapshot()
	for _, b := range proj.Boxes {
		assert.Equal(t, model.Rotation90, b.Rotation)
	}
	it, err := p.Item("st")
	require.NoError(t, err)
	assert.Equal(t, 800, it.DX)
	assert.Equal(t, 1000, it.DY)
}

func TestSetTypeColor_PropagatesToWholeType(t *testing.T) {
	specs := []model.BoxSpec{
		{Type: "crate", Quantity: 3, Length: 1000, Width: 800, Height: 600},
		{Type: "tote", Quantity: 2, Length: 500, Width: 400, Height: 300},
	}
	p := New(container40())
	require.NoError(t, p.Regenerate(specs, model.ModeStacked))

	require.NoError(t, p.SetTypeColor("crate", "#112233"))

	for _, it := range p.Items() {
		switch it.Type {
		case "crate":
			assert.Equal(t, "#112233", it.Color)
		case "tote":
			assert.Equal(t, model.TypeColor(1), it.Color, "other types keep their palette color")
		}
	}

	assert.Error(t, p.SetTypeColor("crate", "banana"))
	assert.Error(t, p.SetTypeColor("ghost", "#000000"))
}

func TestRegenerate_LooseMode(t *testing.T) {
	specs := []model.BoxSpec{
		{Type: "crate", Quantity: 3, Length: 1000, Width: 800, Height: 600, Weight: 12.5},
		{Type: "tote", Quantity: 1, Length: 500, Width: 400, Height: 300},
	}
	p := New(container40())
	require.NoError(t, p.Regenerate(specs, model.ModeLoose))

	assert.Empty(t, p.Placed())
	items := p.Unplaced()
	require.Len(t, items, 4)

	var names []string
	for _, it := range items {
		assert.Equal(t, model.ItemBox, it.Kind)
		names = append(names, it.Name)
		if it.Type == "crate" {
			assert.Equal(t, model.TypeColor(0), it.Color)
			assert.InDelta(t, 12.5, it.Weight, 1e-9)
		} else {
			assert.Equal(t, model.TypeColor(1), it.Color)
		}
	}
	assert.ElementsMatch(t, []string{"crate_1", "crate_2", "crate_3", "tote"}, names)
}

// TestRegenerate_StackedSplitsAtDoorHeight covers the canonical split: five
// 600 mm boxes against a 2228 mm door pack three high, never five.
func TestRegenerate_StackedSplitsAtDoorHeight(t *testing.T) {
	specs := []model.BoxSpec{
		{Type: "crate", Quantity: 5, Length: 1000, Width: 800, Height: 600, Weight: 10},
	}
	p := New(container40())
	require.NoError(t, p.Regenerate(specs, model.ModeStacked))

	items := p.Unplaced()
	require.Len(t, items, 2, "a full stack of three plus a remainder of two")

	var counts, heights []int
	for _, it := range items {
		assert.Equal(t, model.ItemStack, it.Kind)
		counts = append(counts, it.Count)
		heights = append(heights, it.Height)
		assert.LessOrEqual(t, it.Height, container40().DoorHeight)
		assert.Equal(t, it.UnitHeight*it.Count, it.Height)
		assert.InDelta(t, float64(it.Count)*10, it.Weight, 1e-9)
	}
	assert.ElementsMatch(t, []int{3, 2}, counts)
	assert.ElementsMatch(t, []int{1800, 1200}, heights)
}

func TestRegenerate_StackedRemainderOfOneIsABox(t *testing.T) {
	specs := []model.BoxSpec{
		{Type: "crate", Quantity: 4, Length: 1000, Width: 800, Height: 600},
	}
	p := New(container40())
	require.NoError(t, p.Regenerate(specs, model.ModeStacked))

	items := p.Unplaced()
	require.Len(t, items, 2)

	kinds := map[model.ItemKind]int{}
	for _, it := range items {
		kinds[it.Kind] = it.Count
	}
	assert.Equal(t, 3, kinds[model.ItemStack])
	assert.Equal(t, 1, kinds[model.ItemBox], "a remainder of one stays a plain box")
}

func TestRegenerate_RefusalKeepsPriorState(t *testing.T) {
	p := New(container40())
	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "crate", Quantity: 2, Length: 1000, Width: 800, Height: 600},
	}, model.ModeLoose))
	before := p.Snapshot()

	err := p.Regenerate([]model.BoxSpec{
		{Type: "crate", Quantity: 2, Length: 1000, Width: 800, Height: 600},
		{Type: "tall", Quantity: 1, Length: 1000, Width: 800, Height: 2500},
	}, model.ModeLoose)
	require.Error(t, err, "a 2500 mm box cannot pass a 2228 mm door")
	assert.Equal(t, before, p.Snapshot())

	err = p.Regenerate([]model.BoxSpec{
		{Type: "slab", Quantity: 1, Length: 12500, Width: 2400, Height: 100},
	}, model.ModeLoose)
	require.Error(t, err, "the footprint fits in no rotation")
	assert.Equal(t, before, p.Snapshot())

	err = p.Regenerate([]model.BoxSpec{
		{Type: "", Quantity: 1, Length: 100, Width: 100, Height: 100},
	}, model.ModeLoose)
	require.Error(t, err)
	assert.Equal(t, before, p.Snapshot())

	require.Error(t, p.Regenerate(nil, model.ModeLoose))
	assert.Equal(t, before, p.Snapshot())
}

func TestRegenerate_ReplacesPreviousPopulation(t *testing.T) {
	p := New(container40())
	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "old", Quantity: 2, Length: 500, Width: 400, Height: 300},
	}, model.ModeLoose))

	// Park one on the container floor, then regenerate.
	mustCommit(t, p, p.Unplaced()[0].ID, model.ZoneContainer, 0, 0)

	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "new", Quantity: 1, Length: 500, Width: 400, Height: 300},
	}, model.ModeLoose))

	assert.Empty(t, p.Placed(), "generation clears both zones")
	items := p.Unplaced()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].Type)

	// The old floor entry must be gone from the index as well.
	mustCommit(t, p, items[0].ID, model.ZoneContainer, 0, 0)
}

func TestRegenerate_WaitingLayoutDoesNotPile(t *testing.T) {
	p := New(container40())
	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "crate", Quantity: 12, Length: 1900, Width: 900, Height: 500},
	}, model.ModeLoose))

	positions := make(map[[2]int]bool)
	rows := make(map[int]bool)
	for _, it := range p.Unplaced() {
		positions[[2]int{it.X, it.Y}] = true
		rows[it.Y] = true
	}
	assert.Len(t, positions, 12, "every unit gets its own slot")
	assert.Greater(t, len(rows), 1, "the layout wraps into further rows")
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	p := New(container40())
	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "crate", Quantity: 5, Length: 1000, Width: 800, Height: 600, Weight: 10},
		{Type: "tote", Quantity: 3, Length: 500, Width: 400, Height: 300},
	}, model.ModeStacked))

	var crate3, crate2, tote model.Item
	for _, it := range p.Unplaced() {
		switch {
		case it.Type == "crate" && it.Count == 3:
			crate3 = it
		case it.Type == "crate" && it.Count == 2:
			crate2 = it
		default:
			tote = it
		}
	}
	mustCommit(t, p, crate3.ID, model.ZoneContainer, 0, 0)
	mustCommit(t, p, crate2.ID, model.ZoneContainer, 3000, 1200)
	_, err := p.Rotate(tote.ID)
	require.NoError(t, err)

	saved := p.Snapshot()

	restored := New(model.Container{
		ID: "other", Name: "Other",
		InnerLength: 1000, InnerWidth: 1000, InnerHeight: 1000, DoorHeight: 900,
	})
	require.NoError(t, restored.Restore(saved))

	assert.Equal(t, saved, restored.Snapshot(), "a reload reproduces the scene bit for bit")
	assert.Equal(t, container40(), restored.Container())

	// The rebuilt index enforces the same legality.
	v, err := restored.EvaluateMove(tote.ID, model.ZoneContainer, 100, 100)
	require.NoError(t, err)
	assert.False(t, v.Legal, "the restored floor still blocks overlapping drops")
}

func TestRestore_RejectsInvalidProjects(t *testing.T) {
	valid := func() model.Project {
		members, st := stackedBoxes("st", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer, "m1", "m2")
		boxes := append(members, makeBox("solo", "tote", 500, 400, 300, 5000, 500, model.ZoneContainer))
		return model.Project{Container: container40(), Boxes: boxes, Stacks: []model.Stack{st}}
	}

	tests := []struct {
		name   string
		mutate func(*model.Project)
	}{
		{"duplicate box id", func(pr *model.Project) { pr.Boxes = append(pr.Boxes, pr.Boxes[0]) }},
		{"non-positive dimension", func(pr *model.Project) { pr.Boxes[2].Length = 0 }},
		{"bad rotation", func(pr *model.Project) { pr.Boxes[2].Rotation = 45 }},
		{"single-member stack", func(pr *model.Project) { pr.Stacks[0].MemberIDs = pr.Stacks[0].MemberIDs[:1] }},
		{"missing member", func(pr *model.Project) { pr.Stacks[0].MemberIDs[1] = "ghost" }},
		{"stale back-reference", func(pr *model.Project) { pr.Boxes[0].StackID = "" }},
		{"members apart", func(pr *model.Project) { pr.Boxes[1].X = 999 }},
		{"mixed stack shape", func(pr *model.Project) { pr.Boxes[1].Height = 500 }},
		{"stack taller than door", func(pr *model.Project) {
			pr.Boxes[0].Height = 1200
			pr.Boxes[1].Height = 1200
		}},
		{"overlapping floor items", func(pr *model.Project) {
			pr.Boxes[2].X = 300
			pr.Boxes[2].Y = 100
		}},
		{"outside the floor", func(pr *model.Project) { pr.Boxes[2].X = 11800 }},
		{"container without door", func(pr *model.Project) { pr.Container.DoorHeight = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := plannerWith(t, []model.Box{makeBox("keep", "crate", 500, 400, 300, 0, 0, model.ZoneWaiting)})
			before := p.Snapshot()

			proj := valid()
			tc.mutate(&proj)
			require.Error(t, p.Restore(proj))
			assert.Equal(t, before, p.Snapshot(), "a failed load must not touch the open plan")
		})
	}

	p := New(container40())
	require.NoError(t, p.Restore(valid()), "the unmutated fixture loads cleanly")
}

// TestPlacedFloorNeverOverlaps drives a few hundred random drops through the
// public interface and checks the committed floor invariants at the end.
func TestPlacedFloorNeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	p := New(container40())
	require.NoError(t, p.Regenerate([]model.BoxSpec{
		{Type: "crate", Quantity: 12, Length: 1000, Width: 800, Height: 600},
		{Type: "tote", Quantity: 10, Length: 600, Width: 500, Height: 400},
		{Type: "drum", Quantity: 8, Length: 700, Width: 700, Height: 900},
	}, model.ModeLoose))

	for round := 0; round < 400; round++ {
		items := p.Items()
		it := items[rng.Intn(len(items))]

		zone := model.ZoneContainer
		if rng.Intn(4) == 0 {
			zone = model.ZoneWaiting
		}
		x := rng.Intn(12200) - 100
		y := rng.Intn(2500) - 100
		_, err := p.Commit(it.ID, zone, x, y)
		require.NoError(t, err)
	}

	c := container40()
	placed := p.Placed()
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			assert.False(t, placed[i].Footprint().Overlaps(placed[j].Footprint()),
				"%s and %s overlap", placed[i].Name, placed[j].Name)
		}
		assert.True(t, c.Contains(placed[i].Footprint()))
		assert.Equal(t, placed[i].UnitHeight*placed[i].Count, placed[i].Height)
		assert.LessOrEqual(t, placed[i].Height, c.DoorHeight)
	}
}

// BenchmarkEvaluateMove measures a single drag-tick legality query against a
// floor packed with a couple hundred units.
func BenchmarkEvaluateMove(b *testing.B) {
	p := New(container40())
	var specs []model.BoxSpec
	for i := 0; i < 40; i++ {
		specs = append(specs, model.BoxSpec{
			Type:     fmt.Sprintf("type%02d", i),
			Quantity: 5,
			Length:   500 + 10*(i%5),
			Width:    400 + 10*(i%4),
			Height:   300,
		})
	}
	if err := p.Regenerate(specs, model.ModeLoose); err != nil {
		b.Fatal(err)
	}

	// Tile the floor until it is full.
	x, y, rowDY := 0, 0, 0
	for _, it := range p.Unplaced() {
		if x+it.DX > 12000 {
			x = 0
			y += rowDY + 20
			rowDY = 0
		}
		if y+it.DY > 2300 {
			break
		}
		if v, err := p.Commit(it.ID, model.ZoneContainer, x, y); err != nil || !v.Legal {
			b.Fatalf("placing %s at (%d,%d): %v %v", it.Name, x, y, err, v.Conflicts)
		}
		x += it.DX + 20
		if it.DY > rowDY {
			rowDY = it.DY
		}
	}

	moved := p.Unplaced()
	if len(moved) == 0 {
		b.Fatal("expected leftover units in the waiting area")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.EvaluateMove(moved[0].ID, model.ZoneContainer, 6000, 1000); err != nil {
			b.Fatal(err)
		}
	}
}
