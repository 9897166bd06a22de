// Package export provides functionality for exporting load plans to various
// file formats including QR-coded unit labels.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/stowplan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each unit label's QR code.
type LabelInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Length int    `json:"length_mm"`
	Width  int    `json:"width_mm"`
	Height int    `json:"height_mm"` // one box; multiply by Count for a stack
	Count  int    `json:"count"`     // boxes in the unit, 1 for a loose box
	X      int    `json:"x_mm"`
	Y      int    `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per laden unit (a
// loose box or a whole stack). Each label shows the unit name, dimensions,
// and floor position, plus a QR code encoding the unit metadata as JSON.
// Labels are laid out on a standard label sheet format (Avery 5160 /
// 3 columns x 10 rows on US Letter).
func ExportLabels(path string, sum Summary) error {
	if len(sum.Items) == 0 {
		return fmt.Errorf("no boxes to generate labels for")
	}

	labels := CollectLabelInfos(sum)
	if len(labels) == 0 {
		return fmt.Errorf("no laden units to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%s", info.ID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Unit name (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate name if too long
	name := info.Name
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	// Dimensions
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d x %d mm", info.Length, info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	// Type and floor position
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	posInfo := fmt.Sprintf("%s @ (%d, %d)", info.Type, info.X, info.Y)
	pdf.CellFormat(textW, 3, posInfo, "", 1, "L", false, 0, "")

	// Stack indicator
	if info.Count > 1 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Stack of %d", info.Count), "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information for every laden unit, for
// use in testing or alternative export formats.
func CollectLabelInfos(sum Summary) []LabelInfo {
	var labels []LabelInfo
	for _, it := range sum.Items {
		if it.Zone != model.ZoneContainer {
			continue
		}
		length, width := unitDims(it)
		labels = append(labels, LabelInfo{
			ID:     it.ID,
			Name:   it.Name,
			Type:   it.Type,
			Length: length,
			Width:  width,
			Height: it.UnitHeight,
			Count:  it.Count,
			X:      it.X,
			Y:      it.Y,
		})
	}
	return labels
}

// unitDims recovers the physical box dimensions from the rotation-adjusted
// footprint extents.
func unitDims(it model.Item) (length, width int) {
	if it.Rotation == model.Rotation90 {
		return it.DY, it.DX
	}
	return it.DX, it.DY
}
