package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/stowplan/internal/engine"
	"github.com/piwi3910/stowplan/internal/model"
)

// magnetPx is the on-screen radius within which a dragged unit snaps onto
// an identical placed unit. At typical zoom one pixel spans more mm than
// the engine's snap tolerance, so without the magnet stacking would demand
// impossible pointer precision.
const magnetPx = 10

var (
	floorFill     = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	floorBorder   = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	waitingFill   = color.NRGBA{R: 246, G: 246, B: 246, A: 255}
	waitingBorder = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	doorColor     = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	itemBorder    = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	conflictFill  = color.NRGBA{R: 255, G: 50, B: 50, A: 120}
	conflictEdge  = color.NRGBA{R: 200, G: 0, B: 0, A: 255}
	legalEdge     = color.NRGBA{R: 0, G: 150, B: 0, A: 255}
	selectEdge    = color.NRGBA{R: 25, G: 90, B: 200, A: 255}
	captionColor  = color.NRGBA{R: 110, G: 110, B: 110, A: 255}
	fallbackFill  = color.NRGBA{R: 153, G: 153, B: 153, A: 255}
)

// PlanCanvas renders the loading scene: the container outline with the
// waiting area below it, and every unit as a colored rectangle. Units are
// dragged between the zones; each pointer tick is evaluated against the
// planner and conflicts tint red, the drop commits or reverts.
type PlanCanvas struct {
	widget.BaseWidget

	planner *engine.Planner

	waitingLength int
	waitingWidth  int
	maxW, maxH    float32

	selectedID string
	drag       *dragState

	// OnChange fires after any committed mutation (move, stack, rotate,
	// detach) so the owner can refresh metrics and titles.
	OnChange func()
	// OnStatus receives short live feedback lines during interactions.
	OnStatus func(msg string)
}

// dragState tracks one in-progress drag gesture. The planner is not
// touched until the drop; every tick only re-evaluates the candidate.
type dragState struct {
	item       model.Item // the unit as it was when grabbed
	grabX      int        // pointer offset inside the unit, scene mm
	grabY      int
	zone       model.Zone // resolved candidate placement
	localX     int
	localY     int
	verdict    engine.Verdict
	targetName string // display name of the pending merge target
}

func NewPlanCanvas(planner *engine.Planner, maxW, maxH float32) *PlanCanvas {
	pc := &PlanCanvas{
		planner:       planner,
		waitingLength: 8000,
		waitingWidth:  4000,
		maxW:          maxW,
		maxH:          maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPlanCanvasRenderer(pc)
}

// SetPlanner swaps the rendered planner, e.g. after a new or loaded project.
func (pc *PlanCanvas) SetPlanner(planner *engine.Planner) {
	pc.planner = planner
	pc.selectedID = ""
	pc.drag = nil
	pc.Refresh()
}

// SetWaitingArea resizes the waiting strip, in mm.
func (pc *PlanCanvas) SetWaitingArea(length, width int) {
	if length > 0 {
		pc.waitingLength = length
	}
	if width > 0 {
		pc.waitingWidth = width
	}
	pc.Refresh()
}

// Selected returns the id of the currently selected unit, or "".
func (pc *PlanCanvas) Selected() string {
	return pc.selectedID
}

func (pc *PlanCanvas) layout() sceneLayout {
	c := pc.planner.Container()
	return sceneLayout{
		containerLength: c.InnerLength,
		containerWidth:  c.InnerWidth,
		waitingLength:   pc.waitingLength,
		waitingWidth:    pc.waitingWidth,
	}
}

func (pc *PlanCanvas) scale(l sceneLayout) float32 {
	w, h := l.size()
	return fitScale(w, h, pc.maxW, pc.maxH)
}

// hit returns the topmost unit under a view position.
func (pc *PlanCanvas) hit(pos fyne.Position, l sceneLayout, scale float32) (model.Item, bool) {
	items := pc.planner.Items()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		sx, sy := l.toScene(it.Zone, it.X, it.Y)
		x0 := float32(sx) * scale
		y0 := float32(sy) * scale
		x1 := float32(sx+it.DX) * scale
		y1 := float32(sy+it.DY) * scale
		if pos.X >= x0 && pos.X <= x1 && pos.Y >= y0 && pos.Y <= y1 {
			return it, true
		}
	}
	return model.Item{}, false
}

// Tapped selects the unit under the pointer and takes keyboard focus so
// the rotate shortcut works.
func (pc *PlanCanvas) Tapped(ev *fyne.PointEvent) {
	l := pc.layout()
	if it, ok := pc.hit(ev.Position, l, pc.scale(l)); ok {
		pc.selectedID = it.ID
		pc.setStatus(fmt.Sprintf("Selected %s", it.Name))
	} else {
		pc.selectedID = ""
		pc.setStatus("")
	}
	if cnv := fyne.CurrentApp().Driver().CanvasForObject(pc); cnv != nil {
		cnv.Focus(pc)
	}
	pc.Refresh()
}

// TappedSecondary opens a context menu for the unit under the pointer.
func (pc *PlanCanvas) TappedSecondary(ev *fyne.PointEvent) {
	l := pc.layout()
	it, ok := pc.hit(ev.Position, l, pc.scale(l))
	if !ok {
		return
	}
	pc.selectedID = it.ID
	pc.Refresh()

	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Rotate", func() { pc.RotateSelected() }),
	}
	if it.Kind == model.ItemStack {
		items = append(items, fyne.NewMenuItem("Take top box", func() { pc.TakeTopOfSelected() }))
	}

	cnv := fyne.CurrentApp().Driver().CanvasForObject(pc)
	if cnv == nil {
		return
	}
	menu := widget.NewPopUpMenu(fyne.NewMenu("", items...), cnv)
	menu.ShowAtPosition(fyne.CurrentApp().Driver().AbsolutePositionForObject(pc).Add(ev.Position))
}

// Dragged moves a unit with the pointer. The grab tick resolves which unit
// was picked up; every later tick converts the pointer to a candidate
// placement and asks the planner for a verdict without mutating anything.
func (pc *PlanCanvas) Dragged(ev *fyne.DragEvent) {
	l := pc.layout()
	scale := pc.scale(l)

	if pc.drag == nil {
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		it, ok := pc.hit(start, l, scale)
		if !ok {
			return
		}
		sx, sy := l.toScene(it.Zone, it.X, it.Y)
		pc.drag = &dragState{
			item:  it,
			grabX: toMM(start.X, scale) - sx,
			grabY: toMM(start.Y, scale) - sy,
		}
		pc.selectedID = it.ID
	}

	d := pc.drag
	sceneX := toMM(ev.Position.X, scale) - d.grabX
	sceneY := toMM(ev.Position.Y, scale) - d.grabY
	d.zone, d.localX, d.localY = l.classify(sceneX, sceneY, d.item.DX, d.item.DY)

	v, err := pc.planner.EvaluateMove(d.item.ID, d.zone, d.localX, d.localY)
	if err != nil {
		pc.drag = nil
		pc.setStatus(err.Error())
		pc.Refresh()
		return
	}
	if d.zone == model.ZoneContainer && v.MergeTarget == "" {
		if x, y, mv, ok := pc.magnet(d, scale); ok {
			d.localX, d.localY, v = x, y, mv
		}
	}
	d.verdict = v
	d.targetName = ""
	if v.MergeTarget != "" {
		if target, err := pc.planner.Item(v.MergeTarget); err == nil {
			d.targetName = target.Name
		}
	}

	pc.setStatus(dragStatus(d))
	pc.Refresh()
}

// magnet looks for an identical placed unit within a few pixels of the
// candidate and, if stacking onto it would be legal, snaps the candidate
// to its exact position. The merge decision itself stays with the planner.
func (pc *PlanCanvas) magnet(d *dragState, scale float32) (x, y int, v engine.Verdict, ok bool) {
	reach := toMM(magnetPx, scale)
	for _, it := range pc.planner.Placed() {
		if it.ID == d.item.ID {
			continue
		}
		if intAbs(it.X-d.localX) > reach || intAbs(it.Y-d.localY) > reach {
			continue
		}
		sv, err := pc.planner.EvaluateMove(d.item.ID, model.ZoneContainer, it.X, it.Y)
		if err == nil && sv.MergeTarget != "" {
			return it.X, it.Y, sv, true
		}
	}
	return 0, 0, engine.Verdict{}, false
}

// DragEnd commits a legal candidate and reverts an illegal one. The
// planner re-validates under its own lock, so a stale verdict can never
// corrupt the scene.
func (pc *PlanCanvas) DragEnd() {
	d := pc.drag
	pc.drag = nil
	if d == nil {
		return
	}
	if !d.verdict.Legal {
		pc.setStatus(fmt.Sprintf("%s returned to its last position", d.item.Name))
		pc.Refresh()
		return
	}

	v, err := pc.planner.Commit(d.item.ID, d.zone, d.localX, d.localY)
	switch {
	case err != nil:
		pc.setStatus(err.Error())
	case !v.Legal:
		pc.setStatus(fmt.Sprintf("%s returned to its last position", d.item.Name))
	case v.MergeTarget != "":
		// The moved unit is absorbed into the target's stack and its old
		// id may no longer resolve, so drop the selection.
		pc.selectedID = ""
		pc.setStatus(fmt.Sprintf("Stacked onto %s", d.targetName))
		pc.changed()
		return
	case d.zone == model.ZoneWaiting:
		pc.setStatus(fmt.Sprintf("%s moved to the waiting area", d.item.Name))
		pc.changed()
		return
	default:
		pc.setStatus(fmt.Sprintf("%s placed at (%d, %d) mm", d.item.Name, d.localX, d.localY))
		pc.changed()
		return
	}
	pc.Refresh()
}

// RotateSelected toggles the selected unit's footprint orientation.
func (pc *PlanCanvas) RotateSelected() {
	if pc.selectedID == "" {
		pc.setStatus("Select a unit to rotate")
		return
	}
	v, err := pc.planner.Rotate(pc.selectedID)
	if err != nil {
		pc.setStatus(err.Error())
		return
	}
	if !v.Legal {
		pc.setStatus("No room to rotate here")
		return
	}
	pc.setStatus("Rotated")
	pc.changed()
}

// TakeTopOfSelected pops the top box off the selected stack into the
// waiting area and selects the detached box.
func (pc *PlanCanvas) TakeTopOfSelected() {
	if pc.selectedID == "" {
		pc.setStatus("Select a stack first")
		return
	}
	it, err := pc.planner.Item(pc.selectedID)
	if err != nil {
		pc.setStatus(err.Error())
		return
	}
	if it.Kind != model.ItemStack {
		pc.setStatus("Only stacks have a top box to take")
		return
	}
	id, err := pc.planner.DetachTop(it.ID)
	if err != nil {
		pc.setStatus(err.Error())
		return
	}
	pc.selectedID = id
	if top, err := pc.planner.Item(id); err == nil {
		pc.setStatus(fmt.Sprintf("%s moved to the waiting area", top.Name))
	}
	pc.changed()
}

func (pc *PlanCanvas) FocusGained() {}
func (pc *PlanCanvas) FocusLost()   {}

func (pc *PlanCanvas) TypedKey(*fyne.KeyEvent) {}

func (pc *PlanCanvas) TypedRune(r rune) {
	if r == 'r' || r == 'R' {
		pc.RotateSelected()
	}
}

func (pc *PlanCanvas) changed() {
	if pc.OnChange != nil {
		pc.OnChange()
	}
	pc.Refresh()
}

func (pc *PlanCanvas) setStatus(msg string) {
	if pc.OnStatus != nil {
		pc.OnStatus(msg)
	}
}

// dragStatus summarizes the current candidate for the status line.
func dragStatus(d *dragState) string {
	v := d.verdict
	switch {
	case d.zone == model.ZoneWaiting:
		return "Waiting area"
	case v.OutOfBounds:
		return "Out of container bounds"
	case v.MergeTarget != "":
		if d.targetName != "" {
			return fmt.Sprintf("Release to stack onto %s", d.targetName)
		}
		return "Release to stack"
	case len(v.Conflicts) > 0:
		blocking := 0
		door := false
		for _, id := range v.Conflicts {
			if id == engine.DoorHeightConflict {
				door = true
			} else {
				blocking++
			}
		}
		if door && blocking == 0 {
			return "Too tall to clear the door"
		}
		return fmt.Sprintf("Blocked by %d item(s)", blocking)
	default:
		return fmt.Sprintf("(%d, %d) mm", d.localX, d.localY)
	}
}

func itemFill(it model.Item) color.NRGBA {
	c, err := model.ParseHexColor(it.Color)
	if err != nil {
		c = fallbackFill
	}
	c.A = 200
	return c
}

// ─── Renderer ──────────────────────────────────────────────

type planCanvasRenderer struct {
	pc      *PlanCanvas
	objects []fyne.CanvasObject
}

func newPlanCanvasRenderer(pc *PlanCanvas) *planCanvasRenderer {
	r := &planCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *planCanvasRenderer) rebuild() {
	r.objects = nil

	l := r.pc.layout()
	scale := r.pc.scale(l)
	c := r.pc.planner.Container()
	d := r.pc.drag

	r.drawZones(l, scale, c)

	conflicts := make(map[string]bool)
	if d != nil {
		for _, id := range d.verdict.Conflicts {
			conflicts[id] = true
		}
	}

	for _, it := range r.pc.planner.Items() {
		if d != nil && it.ID == d.item.ID {
			continue // drawn as the drag ghost instead
		}
		r.drawItem(it, l, scale, conflicts[it.ID], d)
	}

	if d != nil {
		r.drawGhost(d, l, scale)
	}
}

func (r *planCanvasRenderer) drawZones(l sceneLayout, scale float32, c model.Container) {
	cw := float32(l.containerLength) * scale
	ch := float32(l.containerWidth) * scale

	floor := canvas.NewRectangle(floorFill)
	floor.Resize(fyne.NewSize(cw, ch))
	floor.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, floor)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = floorBorder
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(cw, ch))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)

	// Door opening along the right wall.
	door := canvas.NewLine(doorColor)
	door.StrokeWidth = 3
	door.Position1 = fyne.NewPos(cw, 0)
	door.Position2 = fyne.NewPos(cw, ch)
	r.objects = append(r.objects, door)

	caption := canvas.NewText(
		fmt.Sprintf("%s (%d x %d mm, door %d mm)", c.Name, c.InnerLength, c.InnerWidth, c.DoorHeight),
		captionColor,
	)
	caption.TextSize = 10
	caption.Move(fyne.NewPos(0, ch+2))
	r.objects = append(r.objects, caption)

	wy := float32(l.originY(model.ZoneWaiting)) * scale
	ww := float32(l.waitingLength) * scale
	wh := float32(l.waitingWidth) * scale

	wbg := canvas.NewRectangle(waitingFill)
	wbg.Resize(fyne.NewSize(ww, wh))
	wbg.Move(fyne.NewPos(0, wy))
	r.objects = append(r.objects, wbg)

	wborder := canvas.NewRectangle(color.Transparent)
	wborder.StrokeColor = waitingBorder
	wborder.StrokeWidth = 1
	wborder.Resize(fyne.NewSize(ww, wh))
	wborder.Move(fyne.NewPos(0, wy))
	r.objects = append(r.objects, wborder)

	wcaption := canvas.NewText("Waiting area", captionColor)
	wcaption.TextSize = 10
	wcaption.Move(fyne.NewPos(0, wy-14))
	r.objects = append(r.objects, wcaption)
}

func (r *planCanvasRenderer) drawItem(it model.Item, l sceneLayout, scale float32, conflicting bool, d *dragState) {
	sx, sy := l.toScene(it.Zone, it.X, it.Y)
	px := float32(sx) * scale
	py := float32(sy) * scale
	pw := float32(it.DX) * scale
	ph := float32(it.DY) * scale

	rect := canvas.NewRectangle(itemFill(it))
	rect.Resize(fyne.NewSize(pw, ph))
	rect.Move(fyne.NewPos(px, py))
	r.objects = append(r.objects, rect)

	if conflicting {
		tint := canvas.NewRectangle(conflictFill)
		tint.Resize(fyne.NewSize(pw, ph))
		tint.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, tint)
	}

	edge := itemBorder
	width := float32(1)
	switch {
	case conflicting:
		edge = conflictEdge
		width = 2
	case d != nil && d.verdict.MergeTarget == it.ID:
		edge = legalEdge
		width = 2.5
	case it.ID == r.pc.selectedID:
		edge = selectEdge
		width = 2.5
	}
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = edge
	border.StrokeWidth = width
	border.Resize(fyne.NewSize(pw, ph))
	border.Move(fyne.NewPos(px, py))
	r.objects = append(r.objects, border)

	if pw > 30 && ph > 16 {
		name := it.Name
		if it.Count > 1 {
			name = fmt.Sprintf("%s x%d", it.Name, it.Count)
		}
		label := canvas.NewText(name, color.Black)
		label.TextSize = 10
		label.Move(fyne.NewPos(px+3, py+2))
		r.objects = append(r.objects, label)

		if it.Count > 1 && ph > 30 {
			height := canvas.NewText(fmt.Sprintf("%d mm", it.Height), captionColor)
			height.TextSize = 9
			height.Move(fyne.NewPos(px+3, py+15))
			r.objects = append(r.objects, height)
		}
	}
}

func (r *planCanvasRenderer) drawGhost(d *dragState, l sceneLayout, scale float32) {
	sx, sy := l.toScene(d.zone, d.localX, d.localY)
	px := float32(sx) * scale
	py := float32(sy) * scale
	pw := float32(d.item.DX) * scale
	ph := float32(d.item.DY) * scale

	fill := itemFill(d.item)
	fill.A = 140
	rect := canvas.NewRectangle(fill)
	rect.Resize(fyne.NewSize(pw, ph))
	rect.Move(fyne.NewPos(px, py))
	r.objects = append(r.objects, rect)

	edge := legalEdge
	if !d.verdict.Legal {
		edge = conflictEdge
	}
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = edge
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(pw, ph))
	border.Move(fyne.NewPos(px, py))
	r.objects = append(r.objects, border)
}

func (r *planCanvasRenderer) Layout(size fyne.Size)        {}
func (r *planCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *planCanvasRenderer) Destroy()                     {}
func (r *planCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *planCanvasRenderer) MinSize() fyne.Size {
	l := r.pc.layout()
	w, h := l.size()
	scale := fitScale(w, h, r.pc.maxW, r.pc.maxH)
	// The waiting caption sits above its strip, the container caption
	// below the outline; both live inside the gap, so no extra margin.
	return fyne.NewSize(float32(w)*scale, float32(h)*scale)
}
