package widgets

import (
	"math"

	"github.com/piwi3910/stowplan/internal/model"
)

// zoneGap is the empty scene strip, in mm, separating the container outline
// from the waiting area below it.
const zoneGap = 500

// sceneLayout places both zones into one coordinate space: the container
// outline at the origin, the waiting strip below it. All values are mm.
type sceneLayout struct {
	containerLength int
	containerWidth  int
	waitingLength   int
	waitingWidth    int
}

// size returns the total scene extent in mm.
func (l sceneLayout) size() (w, h int) {
	w = l.containerLength
	if l.waitingLength > w {
		w = l.waitingLength
	}
	return w, l.containerWidth + zoneGap + l.waitingWidth
}

// originY returns the scene Y offset of a zone's local origin.
func (l sceneLayout) originY(zone model.Zone) int {
	if zone == model.ZoneWaiting {
		return l.containerWidth + zoneGap
	}
	return 0
}

// toScene converts zone-local coordinates to scene coordinates.
func (l sceneLayout) toScene(zone model.Zone, x, y int) (sx, sy int) {
	return x, y + l.originY(zone)
}

// classify picks the zone a candidate footprint belongs to from its center
// point and converts the scene origin back to zone-local coordinates. A
// center inside the container outline means a container placement, with
// legality left to the evaluation; everything else lands in the waiting
// area, clamped to non-negative coordinates so items never sink into the
// gap strip.
func (l sceneLayout) classify(sx, sy, dx, dy int) (zone model.Zone, x, y int) {
	cx := sx + dx/2
	cy := sy + dy/2
	if cx >= 0 && cx <= l.containerLength && cy >= 0 && cy <= l.containerWidth {
		return model.ZoneContainer, sx, sy
	}
	x = sx
	y = sy - l.originY(model.ZoneWaiting)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return model.ZoneWaiting, x, y
}

// fitScale returns the px-per-mm factor that fits the scene into the view.
func fitScale(sceneW, sceneH int, maxW, maxH float32) float32 {
	if sceneW <= 0 || sceneH <= 0 {
		return 1
	}
	scaleX := maxW / float32(sceneW)
	scaleY := maxH / float32(sceneH)
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

// toMM converts a view coordinate back to scene mm.
func toMM(px, scale float32) int {
	return int(math.Round(float64(px) / float64(scale)))
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
