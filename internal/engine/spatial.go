package engine

import "github.com/piwi3910/stowplan/internal/model"

// gridCellSize is the spatial hash bucket edge in mm. One-meter buckets keep
// per-cell occupancy in the single digits for container-scale footprints.
const gridCellSize = 1000

// cellKey identifies one bucket of the spatial hash grid.
type cellKey struct {
	cx, cy int
}

// spatialIndex buckets the footprints of container-zone units so a legality
// query only visits items near the candidate rectangle instead of scanning
// the whole scene. Entries are keyed by unit id: a standalone box id or a
// stack id, never an individual stack member.
type spatialIndex struct {
	cells   map[cellKey][]string
	entries map[string][]cellKey
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		cells:   make(map[cellKey][]string),
		entries: make(map[string][]cellKey),
	}
}

// Upsert inserts a unit's footprint, replacing any previous one.
func (idx *spatialIndex) Upsert(id string, r model.Rect) {
	if old, ok := idx.entries[id]; ok {
		idx.removeFromCells(id, old)
	}
	cells := cellsForRect(r)
	idx.entries[id] = cells
	for _, c := range cells {
		idx.cells[c] = append(idx.cells[c], id)
	}
}

// Remove drops a unit from the index. Unknown ids are ignored.
func (idx *spatialIndex) Remove(id string) {
	cells, ok := idx.entries[id]
	if !ok {
		return
	}
	idx.removeFromCells(id, cells)
	delete(idx.entries, id)
}

// Query returns the ids of all units whose footprint may intersect r. The
// result can include false positives (same bucket, no actual overlap) but
// never misses an overlapping unit; callers re-check exact overlap.
func (idx *spatialIndex) Query(r model.Rect) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range cellsForRect(r) {
		for _, id := range idx.cells[c] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of indexed units.
func (idx *spatialIndex) Len() int { return len(idx.entries) }

// Clear drops every entry.
func (idx *spatialIndex) Clear() {
	idx.cells = make(map[cellKey][]string)
	idx.entries = make(map[string][]cellKey)
}

func (idx *spatialIndex) removeFromCells(id string, cells []cellKey) {
	for _, c := range cells {
		bucket := idx.cells[c]
		for i := range bucket {
			if bucket[i] != id {
				continue
			}
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
		if len(bucket) == 0 {
			delete(idx.cells, c)
		} else {
			idx.cells[c] = bucket
		}
	}
}

// cellsForRect lists the grid cells a footprint covers. The rect's upper
// edges are exclusive, so a footprint ending exactly on a cell boundary does
// not claim the next cell over.
func cellsForRect(r model.Rect) []cellKey {
	minX := floorDiv(r.X0, gridCellSize)
	minY := floorDiv(r.Y0, gridCellSize)
	maxX := floorDiv(r.X1-1, gridCellSize)
	maxY := floorDiv(r.Y1-1, gridCellSize)
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	cells := make([]cellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			cells = append(cells, cellKey{cx: cx, cy: cy})
		}
	}
	return cells
}

// floorDiv divides rounding toward negative infinity so footprints dragged
// past the origin still land in well-defined cells.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
