package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/piwi3910/stowplan/internal/model"
)

const (
	waitingGap       = 100  // mm between generated units in the waiting area
	waitingWrapWidth = 8000 // mm, row wrap width of the waiting-area flow layout
)

// Planner is the single source of truth for placement state: the box and
// stack arenas, zone membership, committed positions, and the container-zone
// spatial index. Every read and write goes through its lock, so a rendering
// or export pass never observes a half-applied commit.
type Planner struct {
	mu        sync.RWMutex
	container model.Container
	boxes     map[string]*model.Box
	stacks    map[string]*model.Stack
	index     *spatialIndex
}

func New(container model.Container) *Planner {
	return &Planner{
		container: container,
		boxes:     make(map[string]*model.Box),
		stacks:    make(map[string]*model.Stack),
		index:     newSpatialIndex(),
	}
}

// Container returns the active container.
func (p *Planner) Container() model.Container {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.container
}

// SetContainer switches the active container. Existing placements are kept
// as-is; callers normally regenerate or load a project right after.
func (p *Planner) SetContainer(c model.Container) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.container = c
}

// Item resolves one unit by id.
func (p *Planner) Item(id string) (model.Item, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unitLocked(id)
}

// Items returns every unit in both zones, sorted by name then id so
// repeated calls walk the scene in a stable order.
func (p *Planner) Items() []model.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.itemsLocked()
}

// Placed returns the units committed to the container zone.
func (p *Planner) Placed() []model.Item {
	return p.itemsInZone(model.ZoneContainer)
}

// Unplaced returns the units still in the waiting area.
func (p *Planner) Unplaced() []model.Item {
	return p.itemsInZone(model.ZoneWaiting)
}

func (p *Planner) itemsInZone(zone model.Zone) []model.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var items []model.Item
	for _, it := range p.itemsLocked() {
		if it.Zone == zone {
			items = append(items, it)
		}
	}
	return items
}

func (p *Planner) itemsLocked() []model.Item {
	items := make([]model.Item, 0, len(p.boxes))
	for _, b := range p.boxes {
		if b.StackID != "" {
			continue
		}
		items = append(items, boxItem(b))
	}
	for _, s := range p.stacks {
		if it, err := p.stackItemLocked(s); err == nil {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// unitLocked resolves an id to its collision unit: a standalone box or a
// whole stack. Stack members are not units on their own.
func (p *Planner) unitLocked(id string) (model.Item, error) {
	if s, ok := p.stacks[id]; ok {
		return p.stackItemLocked(s)
	}
	if b, ok := p.boxes[id]; ok {
		if b.StackID != "" {
			return model.Item{}, fmt.Errorf("box %q is part of stack %q; move the stack", id, b.StackID)
		}
		return boxItem(b), nil
	}
	return model.Item{}, fmt.Errorf("unknown item %q", id)
}

func boxItem(b *model.Box) model.Item {
	dx, dy := b.FootprintExtent()
	return model.Item{
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
	}
}

// stackItemLocked resolves a stack against the box arena. The base member
// supplies position and footprint, the top member supplies the display name.
func (p *Planner) stackItemLocked(s *model.Stack) (model.Item, error) {
	base, ok := p.boxes[s.BaseID()]
	if !ok {
		return model.Item{}, fmt.Errorf("stack %q has no resolvable base member", s.ID)
	}
	top := p.boxes[s.TopID()]
	dx, dy := base.FootprintExtent()
	it := model.Item{
		ID:         s.ID,
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
		Height:     base.Height * s.Count(),
		Count:      s.Count(),
		Rotation:   base.Rotation,
	}
	for _, mid := range s.MemberIDs {
		if m, ok := p.boxes[mid]; ok {
			it.Weight += m.Weight
		}
	}
	return it, nil
}

func (p *Planner) memberIDsLocked(it model.Item) []string {
	if it.Kind == model.ItemStack {
		return p.stacks[it.ID].MemberIDs
	}
	return []string{it.ID}
}

// Commit re-evaluates the candidate under the write lock and, when legal,
// applies it atomically: zone and position bookkeeping, any stack merge,
// and the index update land together. An illegal verdict changes nothing;
// the caller reverts its visuals to the last committed position.
func (p *Planner) Commit(id string, zone model.Zone, x, y int) (Verdict, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	moved, err := p.unitLocked(id)
	if err != nil {
		return Verdict{}, err
	}
	v := p.evaluateLocked(moved, zone, x, y)
	if !v.Legal {
		return v, nil
	}

	if v.MergeTarget != "" {
		p.mergeLocked(moved, v.MergeTarget)
	} else {
		p.placeLocked(moved, zone, x, y)
	}
	return v, nil
}

// placeLocked moves a unit to a new position and zone without stacking.
func (p *Planner) placeLocked(moved model.Item, zone model.Zone, x, y int) {
	for _, mid := range p.memberIDsLocked(moved) {
		b := p.boxes[mid]
		b.Zone = zone
		b.X = x
		b.Y = y
	}
	switch {
	case zone == model.ZoneContainer:
		p.index.Upsert(moved.ID, model.Rect{X0: x, Y0: y, X1: x + moved.DX, Y1: y + moved.DY})
	case moved.Zone == model.ZoneContainer:
		p.index.Remove(moved.ID)
	}
}

// mergeLocked stacks the moved unit onto the target. A standalone target
// box first becomes a single-member stack, then the moved unit's members
// are appended on top at the target's origin. Height was validated before
// this runs.
func (p *Planner) mergeLocked(moved model.Item, targetID string) {
	movedIDs := append([]string(nil), p.memberIDsLocked(moved)...)

	target, ok := p.stacks[targetID]
	if !ok {
		base := p.boxes[targetID]
		ns := model.NewStack(base.ID)
		p.stacks[ns.ID] = &ns
		base.StackID = ns.ID
		p.index.Remove(base.ID)
		p.index.Upsert(ns.ID, base.Footprint())
		target = &ns
	}

	baseBox := p.boxes[target.BaseID()]
	for _, mid := range movedIDs {
		m := p.boxes[mid]
		m.StackID = target.ID
		m.Zone = model.ZoneContainer
		m.X = baseBox.X
		m.Y = baseBox.Y
	}
	target.MemberIDs = append(target.MemberIDs, movedIDs...)

	if moved.Kind == model.ItemStack {
		delete(p.stacks, moved.ID)
	}
	if moved.Zone == model.ZoneContainer {
		p.index.Remove(moved.ID)
	}
}

// Rotate toggles a unit's footprint orientation. Waiting-zone units rotate
// freely. A container-zone unit keeps its position, so the swapped extents
// are validated first and the rotation is refused with the blocking ids
// when the new footprint would leave the walls or overlap a neighbor.
func (p *Planner) Rotate(id string) (Verdict, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	moved, err := p.unitLocked(id)
	if err != nil {
		return Verdict{}, err
	}

	rotated := moved
	rotated.DX, rotated.DY = moved.DY, moved.DX
	v := p.evaluateLocked(rotated, moved.Zone, moved.X, moved.Y)
	// Rotating in place must never silently stack the unit onto an
	// identical neighbor, so a snap target counts as a refusal here.
	if v.MergeTarget != "" {
		v = Verdict{Conflicts: []string{v.MergeTarget}}
	}
	if !v.Legal {
		return v, nil
	}

	for _, mid := range p.memberIDsLocked(moved) {
		b := p.boxes[mid]
		b.Rotation = b.Rotation.Toggled()
	}
	if moved.Zone == model.ZoneContainer {
		p.index.Upsert(moved.ID, rotated.Footprint())
	}
	return v, nil
}

// DetachTop removes the topmost member of a stack and returns its id. The
// detached box re-enters the waiting zone at the stack's position, ready
// for the caller to drag somewhere; a stack left with one member dissolves
// back into a standalone box.
func (p *Planner) DetachTop(stackID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.stacks[stackID]
	if !ok {
		return "", fmt.Errorf("unknown stack %q", stackID)
	}

	topID := s.TopID()
	s.MemberIDs = s.MemberIDs[:len(s.MemberIDs)-1]

	top := p.boxes[topID]
	top.StackID = ""
	top.Zone = model.ZoneWaiting

	if s.Count() == 1 {
		p.dissolveLocked(s)
	}
	return topID, nil
}

// dissolveLocked replaces a single-member stack with its remaining box.
func (p *Planner) dissolveLocked(s *model.Stack) {
	last := p.boxes[s.BaseID()]
	last.StackID = ""
	if last.Zone == model.ZoneContainer {
		p.index.Remove(s.ID)
		p.index.Upsert(last.ID, last.Footprint())
	}
	delete(p.stacks, s.ID)
}

// SetTypeColor overrides the color of every box of the given type, stacked
// or not. The hex value is validated before anything changes.
func (p *Planner) SetTypeColor(typeName, colorHex string) error {
	if _, err := model.ParseHexColor(colorHex); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	found := false
	for _, b := range p.boxes {
		if b.Type == typeName {
			b.Color = colorHex
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no boxes of type %q", typeName)
	}
	return nil
}

// Regenerate replaces the whole population of boxes and stacks from a
// generation config. Every row is validated first; any failure refuses the
// entire generation and leaves current state untouched. New units land in
// the waiting area laid out in rows.
func (p *Planner) Regenerate(specs []model.BoxSpec, mode model.GenerationMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(specs) == 0 {
		return fmt.Errorf("nothing to generate")
	}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("box type %q: %w", spec.Type, err)
		}
		if spec.Color != "" {
			if _, err := model.ParseHexColor(spec.Color); err != nil {
				return fmt.Errorf("box type %q: %w", spec.Type, err)
			}
		}
		if err := checkFits(spec, p.container); err != nil {
			return err
		}
	}

	boxes := make(map[string]*model.Box)
	stacks := make(map[string]*model.Stack)
	var cursor flowCursor

	for i, spec := range specs {
		colorHex := spec.Color
		if colorHex == "" {
			colorHex = model.TypeColor(i)
		}

		n := 0
		emit := func(count int) {
			x, y := cursor.place(spec.Length, spec.Width)
			ids := make([]string, 0, count)
			for j := 0; j < count; j++ {
				b := model.NewBox(spec.Type, spec.InstanceName(n), spec.Length, spec.Width, spec.Height, spec.Weight, colorHex)
				n++
				b.Zone = model.ZoneWaiting
				b.X, b.Y = x, y
				boxes[b.ID] = &b
				ids = append(ids, b.ID)
			}
			if count >= 2 {
				s := model.NewStack(ids...)
				stacks[s.ID] = &s
				for _, mid := range ids {
					boxes[mid].StackID = s.ID
				}
			}
		}

		if mode == model.ModeStacked {
			plan := PlanStacks(spec.Quantity, spec.Height, p.container.DoorHeight)
			for k := 0; k < plan.Full; k++ {
				emit(plan.PerStack)
			}
			if plan.Remainder > 0 {
				emit(plan.Remainder)
			}
		} else {
			for k := 0; k < spec.Quantity; k++ {
				emit(1)
			}
		}
	}

	p.boxes = boxes
	p.stacks = stacks
	p.index.Clear()
	return nil
}

// checkFits verifies a box type is loadable into the container at all:
// through the door and onto the floor in at least one rotation.
func checkFits(spec model.BoxSpec, c model.Container) error {
	if spec.Height > c.DoorHeight {
		return fmt.Errorf("box type %q: height %d mm exceeds the %d mm door of %s",
			spec.Type, spec.Height, c.DoorHeight, c.Name)
	}
	fitsNormal := spec.Length <= c.InnerLength && spec.Width <= c.InnerWidth
	fitsRotated := spec.Width <= c.InnerLength && spec.Length <= c.InnerWidth
	if !fitsNormal && !fitsRotated {
		return fmt.Errorf("box type %q: footprint %dx%d mm does not fit the %dx%d mm floor of %s in any rotation",
			spec.Type, spec.Length, spec.Width, c.InnerLength, c.InnerWidth, c.Name)
	}
	return nil
}

// flowCursor lays generated units out in rows across the waiting area so
// they come up spread out instead of piled on the origin.
type flowCursor struct {
	x, y, rowDY int
}

func (f *flowCursor) place(dx, dy int) (x, y int) {
	if f.x > 0 && f.x+dx > waitingWrapWidth {
		f.x = 0
		f.y += f.rowDY + waitingGap
		f.rowDY = 0
	}
	x, y = f.x, f.y
	f.x += dx + waitingGap
	if dy > f.rowDY {
		f.rowDY = dy
	}
	return x, y
}

// Snapshot returns a deep copy of the current placement state for
// persistence and export. Boxes sort by name and stacks by id, so repeated
// saves of unchanged state serialize identically.
func (p *Planner) Snapshot() model.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()

	proj := model.Project{
		Container: p.container,
		Boxes:     make([]model.Box, 0, len(p.boxes)),
		Stacks:    make([]model.Stack, 0, len(p.stacks)),
	}
	for _, b := range p.boxes {
		proj.Boxes = append(proj.Boxes, *b)
	}
	sort.Slice(proj.Boxes, func(i, j int) bool {
		if proj.Boxes[i].Name != proj.Boxes[j].Name {
			return proj.Boxes[i].Name < proj.Boxes[j].Name
		}
		return proj.Boxes[i].ID < proj.Boxes[j].ID
	})
	for _, s := range p.stacks {
		cp := *s
		cp.MemberIDs = append([]string(nil), s.MemberIDs...)
		proj.Stacks = append(proj.Stacks, cp)
	}
	sort.Slice(proj.Stacks, func(i, j int) bool { return proj.Stacks[i].ID < proj.Stacks[j].ID })
	return proj
}

// Restore replaces all placement state with the given project. The project
// is validated in full first and rejected wholesale on the first violation,
// leaving the current state untouched.
func (p *Planner) Restore(proj model.Project) error {
	boxes, stacks, index, err := buildState(proj)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.container = proj.Container
	p.boxes = boxes
	p.stacks = stacks
	p.index = index
	return nil
}

// buildState validates a loaded project against every structural invariant
// and assembles the arenas and index. It touches no planner state, so a
// failed load cannot leave a half-applied scene behind.
func buildState(proj model.Project) (map[string]*model.Box, map[string]*model.Stack, *spatialIndex, error) {
	c := proj.Container
	if c.InnerLength <= 0 || c.InnerWidth <= 0 || c.InnerHeight <= 0 || c.DoorHeight <= 0 {
		return nil, nil, nil, fmt.Errorf("container %q has non-positive dimensions", c.ID)
	}

	boxes := make(map[string]*model.Box, len(proj.Boxes))
	for i := range proj.Boxes {
		b := proj.Boxes[i]
		if b.ID == "" {
			return nil, nil, nil, fmt.Errorf("box %q has no id", b.Name)
		}
		if _, dup := boxes[b.ID]; dup {
			return nil, nil, nil, fmt.Errorf("duplicate box id %q", b.ID)
		}
		if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
			return nil, nil, nil, fmt.Errorf("box %q has non-positive dimensions", b.ID)
		}
		if b.Rotation != model.Rotation0 && b.Rotation != model.Rotation90 {
			return nil, nil, nil, fmt.Errorf("box %q has rotation %d, want 0 or 90", b.ID, b.Rotation)
		}
		boxes[b.ID] = &b
	}

	stacks := make(map[string]*model.Stack, len(proj.Stacks))
	members := make(map[string]string)
	for i := range proj.Stacks {
		s := proj.Stacks[i]
		s.MemberIDs = append([]string(nil), s.MemberIDs...)
		if s.ID == "" {
			return nil, nil, nil, fmt.Errorf("stack without id")
		}
		if _, dup := stacks[s.ID]; dup {
			return nil, nil, nil, fmt.Errorf("duplicate stack id %q", s.ID)
		}
		if s.Count() < 2 {
			return nil, nil, nil, fmt.Errorf("stack %q has %d members, want at least 2", s.ID, s.Count())
		}
		base, ok := boxes[s.BaseID()]
		if !ok {
			return nil, nil, nil, fmt.Errorf("stack %q member %q not found", s.ID, s.BaseID())
		}
		bdx, bdy := base.FootprintExtent()
		for _, mid := range s.MemberIDs {
			m, ok := boxes[mid]
			if !ok {
				return nil, nil, nil, fmt.Errorf("stack %q member %q not found", s.ID, mid)
			}
			if owner, taken := members[mid]; taken {
				return nil, nil, nil, fmt.Errorf("box %q belongs to stacks %q and %q", mid, owner, s.ID)
			}
			members[mid] = s.ID
			if m.StackID != s.ID {
				return nil, nil, nil, fmt.Errorf("box %q is listed in stack %q but references %q", mid, s.ID, m.StackID)
			}
			mdx, mdy := m.FootprintExtent()
			if mdx != bdx || mdy != bdy || m.Height != base.Height || m.Color != base.Color || m.Type != base.Type {
				return nil, nil, nil, fmt.Errorf("stack %q members differ in shape, color, or type", s.ID)
			}
			if m.X != base.X || m.Y != base.Y || m.Zone != base.Zone {
				return nil, nil, nil, fmt.Errorf("stack %q members are not co-located", s.ID)
			}
		}
		if base.Height*s.Count() > c.DoorHeight {
			return nil, nil, nil, fmt.Errorf("stack %q height %d mm exceeds the %d mm door height",
				s.ID, base.Height*s.Count(), c.DoorHeight)
		}
		stacks[s.ID] = &s
	}

	for id, b := range boxes {
		if b.StackID == "" {
			continue
		}
		if members[id] != b.StackID {
			return nil, nil, nil, fmt.Errorf("box %q references stack %q but is not a member", id, b.StackID)
		}
	}

	index := newSpatialIndex()
	footprints := make(map[string]model.Rect)
	addUnit := func(unitID string, fp model.Rect, height int) error {
		if !c.Contains(fp) {
			return fmt.Errorf("item %q lies outside the container floor", unitID)
		}
		if height > c.DoorHeight {
			return fmt.Errorf("item %q is taller than the %d mm door", unitID, c.DoorHeight)
		}
		for _, nid := range index.Query(fp) {
			if fp.Overlaps(footprints[nid]) {
				return fmt.Errorf("items %q and %q overlap", unitID, nid)
			}
		}
		index.Upsert(unitID, fp)
		footprints[unitID] = fp
		return nil
	}
	for id, b := range boxes {
		if b.StackID != "" || b.Zone != model.ZoneContainer {
			continue
		}
		if err := addUnit(id, b.Footprint(), b.Height); err != nil {
			return nil, nil, nil, err
		}
	}
	for id, s := range stacks {
		base := boxes[s.BaseID()]
		if base.Zone != model.ZoneContainer {
			continue
		}
		if err := addUnit(id, base.Footprint(), base.Height*s.Count()); err != nil {
			return nil, nil, nil, err
		}
	}
	return boxes, stacks, index, nil
}
