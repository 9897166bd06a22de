package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/piwi3910/stowplan/internal/model"
)

// Ext is the project file extension.
const Ext = ".clp"

var (
	// ErrFormat marks a structurally invalid document. Callers match it
	// with errors.Is; the wrapped message names the offending field.
	ErrFormat = errors.New("invalid .clp document")

	// ErrContainerUnknown is returned when a project references a
	// container id the catalog does not define.
	ErrContainerUnknown = errors.New("container not in catalog")
)

// semverRe matches a full semantic version per semver.org, including
// pre-release and build metadata.
var semverRe = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-(?:0|[1-9A-Za-z-][0-9A-Za-z-]*)(?:\.(?:0|[1-9A-Za-z-][0-9A-Za-z-]*))*)?` +
	`(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

// saveMu serializes saves so a manual save cannot race an auto-save onto
// the same file.
var saveMu sync.Mutex

// ValidateVersion checks that version is a valid semantic version string.
func ValidateVersion(version string) error {
	if !semverRe.MatchString(version) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrFormat, version)
	}
	return nil
}

// clpDocument is the on-disk layout of a .clp file. Stacks are stored
// compactly as a single row carrying the shared member shape and a count;
// members are rebuilt on load.
type clpDocument struct {
	Container model.Container `json:"container"`
	Boxes     []clpRow        `json:"boxes"`
	Meta      model.Meta      `json:"meta"`
}

// clpRow is one entry of the boxes list, either a standalone box or a
// compact stack (Kind "box" or "stack"; Count is set on stack rows only).
type clpRow struct {
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	BoxType string  `json:"box_type"`
	Zone    string  `json:"zone"`
	Count   int     `json:"count,omitempty"`
	Length  int     `json:"length_mm"`
	Width   int     `json:"width_mm"`
	Height  int     `json:"height_mm"`
	Weight  float64 `json:"weight_kg"`
	Color   string  `json:"color_hex"`
	X       int     `json:"pos_x_mm"`
	Y       int     `json:"pos_y_mm"`
	Rot     int     `json:"rot_deg"`
}

// Save serializes the project and writes it atomically to path. The project
// meta is re-stamped with the current UTC time, the given user and version
// before writing, so the caller's copy matches what lands on disk. An empty
// user is recorded as "unknown".
func Save(path string, proj *model.Project, user, version string) error {
	if err := ValidateVersion(version); err != nil {
		return err
	}
	if user == "" {
		user = "unknown"
	}

	saveMu.Lock()
	defer saveMu.Unlock()

	proj.Meta = model.Meta{
		Version:   version,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		User:      user,
	}

	doc, err := documentFromProject(*proj)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize project: %w", err)
	}
	return writeAtomic(path, data)
}

// Load reads a .clp file and rebuilds the project it describes. The
// container reference is resolved against the catalog; the catalog entry
// wins over the dimension copy stored in the file. Load never partially
// succeeds: any structural problem returns an error and no project.
func Load(path string, catalog model.ContainerCatalog) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}

	var doc clpDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Project{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := validateMeta(doc.Meta); err != nil {
		return model.Project{}, err
	}

	ctn := catalog.FindByID(doc.Container.ID)
	if ctn == nil {
		return model.Project{}, fmt.Errorf("%w: %q", ErrContainerUnknown, doc.Container.ID)
	}

	proj := model.Project{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Container: *ctn,
		Meta:      doc.Meta,
	}
	for i, row := range doc.Boxes {
		switch row.Kind {
		case "box":
			b, err := boxFromRow(row)
			if err != nil {
				return model.Project{}, fmt.Errorf("boxes[%d]: %w", i, err)
			}
			proj.Boxes = append(proj.Boxes, b)
		case "stack":
			members, stack, err := stackFromRow(row)
			if err != nil {
				return model.Project{}, fmt.Errorf("boxes[%d]: %w", i, err)
			}
			proj.Boxes = append(proj.Boxes, members...)
			proj.Stacks = append(proj.Stacks, stack)
		default:
			return model.Project{}, fmt.Errorf("%w: boxes[%d] has unknown kind %q", ErrFormat, i, row.Kind)
		}
	}
	return proj, nil
}

func validateMeta(meta model.Meta) error {
	if err := ValidateVersion(meta.Version); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, meta.CreatedAt); err != nil {
		// Stamps without a zone offset are read as UTC.
		if _, err := time.Parse("2006-01-02T15:04:05", meta.CreatedAt); err != nil {
			return fmt.Errorf("%w: meta.created_at %q is not a timestamp", ErrFormat, meta.CreatedAt)
		}
	}
	if meta.User == "" {
		return fmt.Errorf("%w: meta.user is missing", ErrFormat)
	}
	return nil
}

func validateRow(row clpRow) error {
	if row.Name == "" {
		return fmt.Errorf("%w: entry without a name", ErrFormat)
	}
	if row.Length <= 0 || row.Width <= 0 || row.Height <= 0 {
		return fmt.Errorf("%w: %q needs positive dimensions", ErrFormat, row.Name)
	}
	if row.Rot != 0 && row.Rot != 90 {
		return fmt.Errorf("%w: %q has rotation %d, want 0 or 90", ErrFormat, row.Name, row.Rot)
	}
	if row.Weight < 0 {
		return fmt.Errorf("%w: %q has negative weight", ErrFormat, row.Name)
	}
	if row.Zone != "waiting" && row.Zone != "container" {
		return fmt.Errorf("%w: %q has unknown zone %q", ErrFormat, row.Name, row.Zone)
	}
	if _, err := model.ParseHexColor(row.Color); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrFormat, row.Name, err)
	}
	return nil
}

func boxFromRow(row clpRow) (model.Box, error) {
	if err := validateRow(row); err != nil {
		return model.Box{}, err
	}
	b := model.NewBox(row.BoxType, row.Name, row.Length, row.Width, row.Height, row.Weight, row.Color)
	b.Zone = model.ZoneFromString(row.Zone)
	b.X = row.X
	b.Y = row.Y
	b.Rotation = model.Rotation(row.Rot)
	return b, nil
}

// stackFromRow inflates a compact stack row back into its member boxes.
// Members get fresh ids and the names name_1 .. name_count, bottom to top.
func stackFromRow(row clpRow) ([]model.Box, model.Stack, error) {
	if err := validateRow(row); err != nil {
		return nil, model.Stack{}, err
	}
	if row.Count < 2 {
		return nil, model.Stack{}, fmt.Errorf("%w: stack %q has count %d, want at least 2", ErrFormat, row.Name, row.Count)
	}

	ids := make([]string, 0, row.Count)
	members := make([]model.Box, 0, row.Count)
	for i := 0; i < row.Count; i++ {
		b := model.NewBox(row.BoxType, fmt.Sprintf("%s_%d", row.Name, i+1),
			row.Length, row.Width, row.Height, row.Weight, row.Color)
		b.Zone = model.ZoneFromString(row.Zone)
		b.X = row.X
		b.Y = row.Y
		b.Rotation = model.Rotation(row.Rot)
		members = append(members, b)
		ids = append(ids, b.ID)
	}
	stack := model.NewStack(ids...)
	for i := range members {
		members[i].StackID = stack.ID
	}
	return members, stack, nil
}

func documentFromProject(proj model.Project) (clpDocument, error) {
	boxByID := make(map[string]model.Box, len(proj.Boxes))
	for _, b := range proj.Boxes {
		boxByID[b.ID] = b
	}

	doc := clpDocument{
		Container: proj.Container,
		Boxes:     []clpRow{},
		Meta:      proj.Meta,
	}

	// Standalone boxes in project order, then stacks.
	for _, b := range proj.Boxes {
		if b.StackID != "" {
			continue
		}
		doc.Boxes = append(doc.Boxes, clpRow{
			Kind:    "box",
			Name:    b.Name,
			BoxType: b.Type,
			Zone:    b.Zone.String(),
			Length:  b.Length,
			Width:   b.Width,
			Height:  b.Height,
			Weight:  b.Weight,
			Color:   b.Color,
			X:       b.X,
			Y:       b.Y,
			Rot:     int(b.Rotation),
		})
	}
	for _, s := range proj.Stacks {
		if s.Count() < 2 {
			return clpDocument{}, fmt.Errorf("%w: stack %q has %d members, want at least 2", ErrFormat, s.ID, s.Count())
		}
		base, ok := boxByID[s.BaseID()]
		if !ok {
			return clpDocument{}, fmt.Errorf("%w: stack %q references missing box %q", ErrFormat, s.ID, s.BaseID())
		}
		top, ok := boxByID[s.TopID()]
		if !ok {
			return clpDocument{}, fmt.Errorf("%w: stack %q references missing box %q", ErrFormat, s.ID, s.TopID())
		}
		doc.Boxes = append(doc.Boxes, clpRow{
			Kind:    "stack",
			Name:    top.Name,
			BoxType: base.Type,
			Zone:    base.Zone.String(),
			Count:   s.Count(),
			Length:  base.Length,
			Width:   base.Width,
			Height:  base.Height,
			Weight:  base.Weight,
			Color:   base.Color,
			X:       base.X,
			Y:       base.Y,
			Rot:     int(base.Rotation),
		})
	}
	return doc, nil
}

// writeAtomic writes data to a temp file in the target directory and moves
// it over path, so a crash mid-write never truncates an existing project.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".clp-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
