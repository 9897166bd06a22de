package engine

import "github.com/piwi3910/stowplan/internal/model"

// SnapTolerance is the center-alignment slack in mm. A unit released within
// this distance of a footprint-identical target on both axes merges onto it;
// one millimeter further and the release is an ordinary overlap.
const SnapTolerance = 10

// footprintIdentical reports whether two units present the same stackable
// shape: same type with equal rotation-adjusted extents, per-member height,
// and color. Comparing extents instead of raw length/width lets a rotated
// box land on an unrotated sibling, which is the same physical shape.
func footprintIdentical(a, b model.Item) bool {
	return a.Type == b.Type && a.DX == b.DX && a.DY == b.DY &&
		a.UnitHeight == b.UnitHeight && a.Color == b.Color
}

// snapped reports whether a release at (x, y) is center-aligned with the
// target within the snap tolerance. Both units have identical extents when
// this is called, so the center-to-center offset equals the corner-to-corner
// offset and integer positions compare exactly.
func snapped(x, y int, target model.Item) bool {
	return intAbs(x-target.X) <= SnapTolerance && intAbs(y-target.Y) <= SnapTolerance
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// StackPlan describes how one generated box type splits into stack units
// under the door-height cap.
type StackPlan struct {
	PerStack  int // member count of each full stack
	Full      int // number of full stacks
	Remainder int // members in the final short unit, 0 when quantity divides evenly
}

// Units returns the number of separate units the plan produces.
func (p StackPlan) Units() int {
	n := p.Full
	if p.Remainder > 0 {
		n++
	}
	return n
}

// PlanStacks computes the capacity split for stacked generation: the largest
// per-stack count whose aggregate height clears the door, then the requested
// quantity distributed across full stacks plus one remainder unit.
func PlanStacks(quantity, boxHeight, doorHeight int) StackPlan {
	perStack := doorHeight / boxHeight
	if perStack < 1 {
		perStack = 1
	}
	if perStack > quantity {
		perStack = quantity
	}
	return StackPlan{
		PerStack:  perStack,
		Full:      quantity / perStack,
		Remainder: quantity % perStack,
	}
}
