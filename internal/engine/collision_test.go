package engine

import (
	"testing"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateMove_WaitingZoneIsUnconstrained(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
		makeBox("b", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
	})

	v, err := p.EvaluateMove("a", model.ZoneWaiting, -5000, 99999)
	require.NoError(t, err)
	assert.True(t, v.Legal, "the waiting area has no bounds and no overlap rules")
	assert.Empty(t, v.Conflicts)
}

func TestEvaluateMove_OutOfBoundsIsAlwaysIllegal(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting)})

	// Fully outside the floor.
	v, err := p.EvaluateMove("a", model.ZoneContainer, 20000, 0)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.True(t, v.OutOfBounds)

	// Crossing the end wall.
	v, _ = p.EvaluateMove("a", model.ZoneContainer, 11500, 0)
	assert.True(t, v.OutOfBounds)

	// Past the origin.
	v, _ = p.EvaluateMove("a", model.ZoneContainer, 0, -1)
	assert.True(t, v.OutOfBounds)

	// Touching both walls exactly is allowed.
	v, _ = p.EvaluateMove("a", model.ZoneContainer, 11000, 1500)
	assert.True(t, v.Legal)
}

func TestEvaluateMove_EdgeContactIsLegal(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("placed", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer),
		makeBox("moved", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
	})

	v, err := p.EvaluateMove("moved", model.ZoneContainer, 1000, 0)
	require.NoError(t, err)
	assert.True(t, v.Legal, "touching footprints do not overlap")
	assert.Empty(t, v.MergeTarget)
}

func TestEvaluateMove_DifferentDimensionsNeverStack(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("big", "crate", 1000, 800, 600, 2000, 500, model.ZoneContainer),
		makeBox("small", "tote", 500, 400, 300, 0, 0, model.ZoneWaiting),
	})

	// Zero offset from the placed item's origin still cannot stack.
	v, err := p.EvaluateMove("small", model.ZoneContainer, 2000, 500)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.Equal(t, []string{"big"}, v.Conflicts)
	assert.Empty(t, v.MergeTarget)
}

func TestEvaluateMove_SnapToleranceBoundary(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("target", "crate", 1000, 800, 600, 2000, 1000, model.ZoneContainer),
		makeBox("moved", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
	})

	v, err := p.EvaluateMove("moved", model.ZoneContainer, 2010, 1010)
	require.NoError(t, err)
	assert.True(t, v.Legal)
	assert.Equal(t, "target", v.MergeTarget, "a release 10 mm off center snaps")

	// One millimeter further it is an ordinary illegal overlap.
	v, err = p.EvaluateMove("moved", model.ZoneContainer, 2011, 1010)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.Equal(t, []string{"target"}, v.Conflicts)
	assert.Empty(t, v.MergeTarget)
}

func TestEvaluateMove_MergeBlockedByDoorHeight(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 2000, 1000, model.ZoneContainer, "s1", "s2", "s3")
	boxes := append(members, makeBox("moved", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting))
	p := plannerWith(t, boxes, st)

	v, err := p.EvaluateMove("moved", model.ZoneContainer, 2000, 1000)
	require.NoError(t, err)
	assert.False(t, v.Legal, "a fourth 600 mm box would reach 2400 mm against a 2228 mm door")
	assert.Equal(t, []string{DoorHeightConflict}, v.Conflicts)
}

func TestEvaluateMove_UnitTallerThanDoor(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("tall", "machine", 1000, 800, 2500, 0, 0, model.ZoneWaiting)})

	v, err := p.EvaluateMove("tall", model.ZoneContainer, 0, 0)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.Equal(t, []string{DoorHeightConflict}, v.Conflicts)
}

func TestEvaluateMove_IgnoresOwnFootprint(t *testing.T) {
	p := plannerWith(t, []model.Box{makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer)})

	v, err := p.EvaluateMove("a", model.ZoneContainer, 1, 0)
	require.NoError(t, err)
	assert.True(t, v.Legal, "a unit never collides with its own committed footprint")
}

func TestEvaluateMove_AmbiguousSnapRejected(t *testing.T) {
	// Two identical targets close enough that one release point snaps to
	// both. The unit can only land on one, so the drop is rejected.
	p := plannerWith(t, []model.Box{
		makeBox("a", "chip", 16, 16, 16, 0, 0, model.ZoneContainer),
		makeBox("b", "chip", 16, 16, 16, 16, 0, model.ZoneContainer),
		makeBox("moved", "chip", 16, 16, 16, 0, 0, model.ZoneWaiting),
	})

	v, err := p.EvaluateMove("moved", model.ZoneContainer, 8, 0)
	require.NoError(t, err)
	assert.False(t, v.Legal)
	assert.ElementsMatch(t, []string{"a", "b"}, v.Conflicts)
	assert.Empty(t, v.MergeTarget)
}

func TestEvaluateMove_IDResolution(t *testing.T) {
	members, st := stackedBoxes("st", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer, "s1", "s2")
	p := plannerWith(t, members, st)

	_, err := p.EvaluateMove("missing", model.ZoneContainer, 0, 0)
	assert.Error(t, err)

	_, err = p.EvaluateMove("s1", model.ZoneContainer, 0, 0)
	assert.Error(t, err, "stack members move with their stack")

	v, err := p.EvaluateMove("st", model.ZoneContainer, 5000, 0)
	require.NoError(t, err)
	assert.True(t, v.Legal)
}

func TestEvaluateMove_DoesNotMutate(t *testing.T) {
	p := plannerWith(t, []model.Box{
		makeBox("a", "crate", 1000, 800, 600, 0, 0, model.ZoneContainer),
		makeBox("b", "crate", 1000, 800, 600, 0, 0, model.ZoneWaiting),
	})

	before := p.Snapshot()
	for i := 0; i < 25; i++ {
		_, err := p.EvaluateMove("b", model.ZoneContainer, i*37, i*13)
		require.NoError(t, err)
	}
	assert.Equal(t, before, p.Snapshot(), "evaluation is side-effect free across drag ticks")
}
