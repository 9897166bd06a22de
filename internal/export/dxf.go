package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names for the floor plan drawing.
const (
	layerContainer = "CONTAINER"
	layerItems     = "ITEMS"
	layerLabels    = "LABELS"
)

// dxfTextHeight is the label text height in drawing units (1 unit = 1 mm).
const dxfTextHeight = 60.0

// ExportDXF writes a top-view floor plan of the container as a DXF drawing:
// the container outline on one layer, the laden unit footprints and their
// text labels on two more. Coordinates are in mm, matching the planning
// model, so the file overlays on warehouse CAD drawings without scaling.
func ExportDXF(path string, sum Summary) error {
	laden := sum.LadenItems()
	if len(laden) == 0 {
		return fmt.Errorf("no laden units to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(layerContainer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to create layer %s: %w", layerContainer, err)
	}
	c := sum.Container
	if err := drawRect(d, 0, 0, float64(c.InnerLength), float64(c.InnerWidth)); err != nil {
		return fmt.Errorf("failed to draw container outline: %w", err)
	}

	if _, err := d.AddLayer(layerItems, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to create layer %s: %w", layerItems, err)
	}
	for _, it := range laden {
		if err := drawRect(d, float64(it.X), float64(it.Y), float64(it.DX), float64(it.DY)); err != nil {
			return fmt.Errorf("failed to draw unit %s: %w", it.Name, err)
		}
	}

	if _, err := d.AddLayer(layerLabels, color.Blue, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to create layer %s: %w", layerLabels, err)
	}
	for _, it := range laden {
		label := it.Name
		if it.Count > 1 {
			label = fmt.Sprintf("%s x%d", it.Name, it.Count)
		}
		tx := float64(it.X) + float64(it.DX)/2
		ty := float64(it.Y) + float64(it.DY)/2
		if _, err := d.Text(label, tx, ty, 0.0, dxfTextHeight); err != nil {
			return fmt.Errorf("failed to draw label for %s: %w", it.Name, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save drawing: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as a closed polyline on the
// current layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	_, err := d.LwPolyline(true,
		[]float64{x, y},
		[]float64{x + w, y},
		[]float64{x + w, y + h},
		[]float64{x, y + h},
	)
	return err
}
