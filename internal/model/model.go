package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Zone identifies which of the two planning areas an item occupies.
type Zone int

const (
	ZoneWaiting   Zone = iota // staging area beside the container, unconstrained
	ZoneContainer             // inside the container outline, bounds and overlap checked
)

func (z Zone) String() string {
	switch z {
	case ZoneContainer:
		return "container"
	default:
		return "waiting"
	}
}

// ZoneFromString parses the serialized zone name. Unknown names map to waiting.
func ZoneFromString(s string) Zone {
	if s == "container" {
		return ZoneContainer
	}
	return ZoneWaiting
}

// MarshalJSON serializes the zone as its name so saved projects stay
// readable and stable across versions.
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

func (z *Zone) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*z = ZoneFromString(s)
	return nil
}

// Rotation is the footprint orientation of a box in degrees.
// Only 0 and 90 are valid; 90 swaps the length and width extents.
type Rotation int

const (
	Rotation0  Rotation = 0
	Rotation90 Rotation = 90
)

// Toggled returns the other orientation.
func (r Rotation) Toggled() Rotation {
	if r == Rotation90 {
		return Rotation0
	}
	return Rotation90
}

// Rect is an axis-aligned footprint rectangle in mm, x along the container
// length, y along the container width. X1/Y1 are exclusive upper edges.
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// DX returns the extent along the length axis.
func (r Rect) DX() int { return r.X1 - r.X0 }

// DY returns the extent along the width axis.
func (r Rect) DY() int { return r.Y1 - r.Y0 }

// Overlaps reports whether the two rectangles share interior area.
// Touching edges do not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Container describes one catalog entry. Entries are read-only to the
// planning core; the catalog file is the single place they are edited.
type Container struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	InnerLength int    `json:"inner_length_mm"` // mm, along x
	InnerWidth  int    `json:"inner_width_mm"`  // mm, along y
	InnerHeight int    `json:"inner_height_mm"` // mm
	DoorHeight  int    `json:"door_height_mm"`  // mm, caps stack height
}

// Contains reports whether the footprint lies fully inside the inner
// floor area. Touching the walls is allowed.
func (c Container) Contains(r Rect) bool {
	return r.X0 >= 0 && r.Y0 >= 0 && r.X1 <= c.InnerLength && r.Y1 <= c.InnerWidth
}

// FloorArea returns the inner floor area in square mm.
func (c Container) FloorArea() int {
	return c.InnerLength * c.InnerWidth
}

// Volume returns the inner volume in cubic mm.
func (c Container) Volume() int {
	return c.InnerLength * c.InnerWidth * c.InnerHeight
}

// Box represents a single physical box. Position is the footprint's
// top-left corner in mm; z is implied by stack membership.
type Box struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`      // catalog type shared by generated siblings
	Name     string   `json:"name"`      // unique instance label, e.g. "Crate_3"
	Length   int      `json:"length_mm"` // mm, along x at rotation 0
	Width    int      `json:"width_mm"`  // mm, along y at rotation 0
	Height   int      `json:"height_mm"` // mm
	Weight   float64  `json:"weight_kg"` // kg, 0 = unspecified
	Color    string   `json:"color"`     // hex #RRGGBB
	Rotation Rotation `json:"rotation"`
	Zone     Zone     `json:"zone"`
	X        int      `json:"x"` // mm from zone origin
	Y        int      `json:"y"` // mm from zone origin
	StackID  string   `json:"stack_id,omitempty"`
}

func NewBox(typeName, name string, length, width, height int, weight float64, colorHex string) Box {
	return Box{
		ID:     uuid.New().String()[:8],
		Type:   typeName,
		Name:   name,
		Length: length,
		Width:  width,
		Height: height,
		Weight: weight,
		Color:  colorHex,
	}
}

// FootprintExtent returns the rotation-adjusted extents (dx along length
// axis, dy along width axis).
func (b Box) FootprintExtent() (dx, dy int) {
	if b.Rotation == Rotation90 {
		return b.Width, b.Length
	}
	return b.Length, b.Width
}

// Footprint returns the occupied floor rectangle at the box's position.
func (b Box) Footprint() Rect {
	dx, dy := b.FootprintExtent()
	return Rect{X0: b.X, Y0: b.Y, X1: b.X + dx, Y1: b.Y + dy}
}

// Volume returns the box volume in cubic mm.
func (b Box) Volume() int {
	return b.Length * b.Width * b.Height
}

// Stack is a vertical unit of identical boxes. It stores member ids only;
// the owning planner resolves them against its box arena. Member order is
// bottom to top. Position and footprint are those of the members, which
// all share one x/y by construction.
type Stack struct {
	ID        string   `json:"id"`
	MemberIDs []string `json:"member_ids"`
}

func NewStack(memberIDs ...string) Stack {
	ids := make([]string, len(memberIDs))
	copy(ids, memberIDs)
	return Stack{
		ID:        uuid.New().String()[:8],
		MemberIDs: ids,
	}
}

// Count returns the number of member boxes.
func (s Stack) Count() int { return len(s.MemberIDs) }

// TopID returns the id of the topmost member, or "" for an empty stack.
func (s Stack) TopID() string {
	if len(s.MemberIDs) == 0 {
		return ""
	}
	return s.MemberIDs[len(s.MemberIDs)-1]
}

// BaseID returns the id of the bottom member, or "" for an empty stack.
func (s Stack) BaseID() string {
	if len(s.MemberIDs) == 0 {
		return ""
	}
	return s.MemberIDs[0]
}

// ItemKind distinguishes the two unit shapes the planner works with.
type ItemKind int

const (
	ItemBox ItemKind = iota
	ItemStack
)

func (k ItemKind) String() string {
	if k == ItemStack {
		return "stack"
	}
	return "box"
}

// Item is the resolved view of one collision unit: a standalone box or a
// whole stack. The collision engine, the canvases, and the exporters all
// consume items rather than raw arena entries.
type Item struct {
	ID         string   // box id or stack id
	Kind       ItemKind
	Name       string // display label; a stack shows its top member's name
	Type       string
	Color      string
	Zone       Zone
	X, Y       int
	DX, DY     int     // rotation-adjusted footprint extents
	UnitHeight int     // height of one member
	Height     int     // aggregate height, UnitHeight × Count
	Count      int     // member count, 1 for a standalone box
	Weight     float64 // aggregate weight
	Rotation   Rotation
}

// Footprint returns the occupied floor rectangle.
func (it Item) Footprint() Rect {
	return Rect{X0: it.X, Y0: it.Y, X1: it.X + it.DX, Y1: it.Y + it.DY}
}

// GenerationMode selects how bulk generation materializes a box type.
type GenerationMode string

const (
	ModeLoose   GenerationMode = "loose"   // one standalone box per unit
	ModeStacked GenerationMode = "stacked" // pre-formed stacks capped by door height
)

// BoxSpec is one row of the generation config: a box type and how many of
// it to materialize.
type BoxSpec struct {
	Type     string  `json:"type"`
	Quantity int     `json:"quantity"`
	Length   int     `json:"length_mm"` // mm
	Width    int     `json:"width_mm"`  // mm
	Height   int     `json:"height_mm"` // mm
	Weight   float64 `json:"weight_kg"` // kg, 0 = unspecified
	Color    string  `json:"color,omitempty"` // hex override; empty = palette assignment
}

// Validate checks the spec the same way the entry table does: positive
// integer dimensions and quantity, weight non-negative with at most two
// decimal places.
func (s BoxSpec) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("box type name must not be empty")
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	if s.Length <= 0 || s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("length, width, and height must be > 0")
	}
	if s.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}
	if math.Round(s.Weight*100) != s.Weight*100 {
		return fmt.Errorf("weight supports at most two decimal places")
	}
	return nil
}

// InstanceName returns the generated display name for the i-th unit
// (zero-based) of this spec.
func (s BoxSpec) InstanceName(i int) string {
	if s.Quantity > 1 {
		return fmt.Sprintf("%s_%d", s.Type, i+1)
	}
	return s.Type
}

// Meta carries the persistence metadata stamped on every save.
type Meta struct {
	Version   string `json:"version"`    // semantic version of the writing app
	CreatedAt string `json:"created_at"` // RFC3339
	User      string `json:"user"`
}

// Project is the serializable snapshot of one planning session: the chosen
// container plus every box and stack across both zones.
type Project struct {
	Name      string    `json:"name"`
	Container Container `json:"container"`
	Boxes     []Box     `json:"boxes"`
	Stacks    []Stack   `json:"stacks"`
	Meta      Meta      `json:"meta"`
}

func NewProject(container Container) Project {
	return Project{
		Name:      "Untitled",
		Container: container,
		Boxes:     []Box{},
		Stacks:    []Stack{},
	}
}
