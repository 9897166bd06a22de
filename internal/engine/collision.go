package engine

import (
	"sort"

	"github.com/piwi3910/stowplan/internal/model"
)

// DoorHeightConflict is a sentinel conflict id reported when a placement
// fails only because the resulting height would not clear the container
// door. It lets callers distinguish "too tall" from a lateral overlap.
const DoorHeightConflict = "DOOR_HEIGHT_COLLISION"

// Verdict is the outcome of one legality evaluation. It never reflects a
// mutation; the same candidate can be evaluated on every pointer tick and
// committed only on drop.
type Verdict struct {
	Legal       bool
	OutOfBounds bool     // footprint extends past the container walls
	Conflicts   []string // unit ids blocking the move, sorted; may include DoorHeightConflict
	MergeTarget string   // unit id the move would stack onto, "" for a plain placement
}

// EvaluateMove classifies a candidate placement of a unit without changing
// any state. The id must name a standalone box or a stack; members of a
// stack move with their stack.
func (p *Planner) EvaluateMove(id string, zone model.Zone, x, y int) (Verdict, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	moved, err := p.unitLocked(id)
	if err != nil {
		return Verdict{}, err
	}
	return p.evaluateLocked(moved, zone, x, y), nil
}

// evaluateLocked applies the legality rules in order: waiting-zone freedom,
// container bounds, door clearance, then overlap against the indexed
// neighborhood. Callers hold at least a read lock.
func (p *Planner) evaluateLocked(moved model.Item, zone model.Zone, x, y int) Verdict {
	if zone == model.ZoneWaiting {
		return Verdict{Legal: true}
	}

	fp := model.Rect{X0: x, Y0: y, X1: x + moved.DX, Y1: y + moved.DY}
	if !p.container.Contains(fp) {
		return Verdict{OutOfBounds: true}
	}
	if moved.Height > p.container.DoorHeight {
		return Verdict{Conflicts: []string{DoorHeightConflict}}
	}

	var conflicts []string
	var mergeTargets []model.Item
	for _, nid := range p.index.Query(fp) {
		if nid == moved.ID {
			continue
		}
		neighbor, err := p.unitLocked(nid)
		if err != nil {
			continue
		}
		if !fp.Overlaps(neighbor.Footprint()) {
			continue
		}
		if footprintIdentical(moved, neighbor) && snapped(x, y, neighbor) {
			if neighbor.Height+moved.Height > p.container.DoorHeight {
				conflicts = append(conflicts, DoorHeightConflict)
				continue
			}
			mergeTargets = append(mergeTargets, neighbor)
			continue
		}
		conflicts = append(conflicts, nid)
	}

	// Two snap targets at once means both physically overlap the release
	// point; the unit can only land on one, so the move is ambiguous and
	// rejected like any other overlap.
	if len(mergeTargets) > 1 {
		for _, t := range mergeTargets {
			conflicts = append(conflicts, t.ID)
		}
		mergeTargets = nil
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return Verdict{Conflicts: dedupe(conflicts)}
	}
	if len(mergeTargets) == 1 {
		return Verdict{Legal: true, MergeTarget: mergeTargets[0].ID}
	}
	return Verdict{Legal: true}
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
