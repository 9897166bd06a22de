// Package export provides functionality for exporting load plans to various
// file formats.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/stowplan/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a load plan. The first page shows
// a scaled top view of the container with the laden units, followed by a
// summary page with the laden and waiting tables and utilization figures.
func ExportPDF(path string, sum Summary) error {
	if len(sum.Items) == 0 {
		return fmt.Errorf("no boxes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, sum)

	pdf.AddPage()
	renderSummaryPage(pdf, sum)

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws the scaled top view of the container floor.
func renderPlanPage(pdf *fpdf.Fpdf, sum Summary) {
	c := sum.Container

	// Title with the save timestamp on the right
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %s (%d x %d x %d mm)", sum.Project, c.Name, c.InnerLength, c.InnerWidth, c.InnerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	stamp := sum.Meta.CreatedAt
	if stamp == "" {
		stamp = time.Now().UTC().Format(time.RFC3339)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	stampW := pdf.GetStringWidth(stamp)
	pdf.SetXY(pageWidth-marginRight-stampW, marginTop+2)
	pdf.CellFormat(stampW, 4, stamp, "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// Stats line
	m := sum.Metrics
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Laden: %d boxes (%d stacks) | Waiting: %d boxes | Weight: %.1f kg | Floor: %.1f%% | Volume: %.1f%%",
		m.LadenBoxes, m.LadenStacks, m.WaitingBoxes, m.TotalWeight, m.FloorUsagePct, m.VolumeUsagePct)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Calculate scale to fit the container floor within the drawing area
	scaleX := drawWidth / float64(c.InnerLength)
	scaleY := drawHeight / float64(c.InnerWidth)
	scale := math.Min(scaleX, scaleY)

	canvasW := float64(c.InnerLength) * scale
	canvasH := float64(c.InnerWidth) * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container floor background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Door marker on the right wall
	drawDoorMarker(pdf, offsetX+canvasW, offsetY, canvasH)

	laden := sum.LadenItems()
	for _, it := range laden {
		r, g, b := itemRGB(it)
		iw := float64(it.DX) * scale
		ih := float64(it.DY) * scale
		ix := offsetX + float64(it.X)*scale
		iy := offsetY + float64(it.Y)*scale

		// Unit fill
		pdf.SetFillColor(r, g, b)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(ix, iy, iw, ih, "FD")

		// Unit label (only if rectangle is large enough)
		if iw > 15 && ih > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(iw, ih))
			pdf.SetTextColor(0, 0, 0)

			label := it.Name
			if it.Count > 1 {
				label = fmt.Sprintf("%s x%d", it.Name, it.Count)
			}
			dims := fmt.Sprintf("%dx%d", it.DX, it.DY)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			// First line: name, with stack count for stacks
			if labelW < iw-2 {
				pdf.SetXY(ix+(iw-labelW)/2, iy+ih/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}

			// Second line: footprint dimensions
			if ih > 14 && dimsW < iw-2 {
				pdf.SetXY(ix+(iw-dimsW)/2, iy+ih/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	// Dimension annotations along the edges
	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)

	// Laden unit legend at bottom of page
	drawItemLegend(pdf, laden, offsetY+canvasH+5)
}

// drawDoorMarker marks the door end of the container on the right edge of
// the drawing.
func drawDoorMarker(pdf *fpdf.Fpdf, x, y, h float64) {
	pdf.SetDrawColor(180, 60, 60)
	pdf.SetLineWidth(1.2)
	pdf.Line(x, y, x, y+h)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(180, 60, 60)
	pdf.TransformBegin()
	pdf.TransformRotate(90, x+4, y+h/2)
	labelW := pdf.GetStringWidth("DOOR")
	pdf.SetXY(x+4-labelW/2, y+h/2-2)
	pdf.CellFormat(labelW, 4, "DOOR", "", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds length and width labels outside the
// container rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Length annotation (below the container)
	lengthLabel := fmt.Sprintf("%d mm", c.InnerLength)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	// Width annotation (to the left of the container, rotated)
	widthLabel := fmt.Sprintf("%d mm", c.InnerWidth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// drawItemLegend renders a compact legend of laden units at the bottom of
// the plan page.
func drawItemLegend(pdf *fpdf.Fpdf, items []model.Item, startY float64) {
	if len(items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Laden units:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, it := range items {
		r, g, b := itemRGB(it)
		label := fmt.Sprintf("%s (%dx%d)", it.Name, it.DX, it.DY)
		if it.Count > 1 {
			label = fmt.Sprintf("%s x%d (%dx%d)", it.Name, it.Count, it.DX, it.DY)
		}
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Color swatch
		pdf.SetFillColor(r, g, b)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		// Label text
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the laden and waiting tables with the overall
// utilization figures.
func renderSummaryPage(pdf *fpdf.Fpdf, sum Summary) {
	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18.0

	// Overall statistics
	m := sum.Metrics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Boxes Laden", fmt.Sprintf("%d", m.LadenBoxes)},
		{"Stacks Laden", fmt.Sprintf("%d", m.LadenStacks)},
		{"Boxes Waiting", fmt.Sprintf("%d", m.WaitingBoxes)},
		{"Laden Weight", fmt.Sprintf("%.1f kg", m.TotalWeight)},
		{"Floor Usage", fmt.Sprintf("%.1f%%", m.FloorUsagePct)},
		{"Volume Usage", fmt.Sprintf("%.1f%%", m.VolumeUsagePct)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if ty := renderTypeBreakdown(pdf, sum, marginTop+18.0); ty > y {
		y = ty
	}

	y += 5
	y = renderRowTable(pdf, "Laden Boxes", sum.Laden, y)
	y += 5
	renderRowTable(pdf, "Waiting Boxes", sum.Waiting, y)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StowPlan - Container Load Planner", "", 0, "C", false, 0, "")
}

// renderTypeBreakdown draws the per-type count column beside the overall
// statistics and returns the y position below it. The list is capped so it
// cannot run into the tables underneath.
func renderTypeBreakdown(pdf *fpdf.Fpdf, sum Summary, y float64) float64 {
	counts := model.CountByType(sum.Items)
	if len(counts) == 0 {
		return y
	}
	const colX = 150.0
	const maxRows = 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(colX, y)
	pdf.CellFormat(100, 7, "Boxes by Type", "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for i, tc := range counts {
		if i == maxRows && len(counts) > maxRows+1 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.SetXY(colX+5, y)
			pdf.CellFormat(100, 6, fmt.Sprintf("and %d more types", len(counts)-maxRows), "", 0, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			return y + 7
		}
		pdf.SetXY(colX+5, y)
		pdf.CellFormat(60, 6, tc.Type+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, fmt.Sprintf("%d of %d laden", tc.Laden, tc.Total), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// renderRowTable draws one summary table and returns the y position below it.
func renderRowTable(pdf *fpdf.Fpdf, title string, rows []SummaryRow, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(100, 5, "none", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return y + 7
	}

	// Table header
	colWidths := []float64{60, 22, 55, 30, 35, 35}
	headers := []string{"Type", "Count", "Dimensions", "Weight", "Stacking", "Stack Height"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	// Table rows
	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		xPos = marginLeft
		stacking := "loose"
		if row.Stacked() {
			stacking = fmt.Sprintf("stacks of %d", row.StackCount)
		}
		rowData := []string{
			row.Type,
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%d x %d x %d mm", row.Length, row.Width, row.Height),
			fmt.Sprintf("%.1f kg", row.Weight),
			stacking,
			fmt.Sprintf("%d mm", row.StackHeight()),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

// itemRGB converts the unit's stored hex color for fpdf. Unparseable colors
// fall back to a neutral gray so one bad value cannot fail the export.
func itemRGB(it model.Item) (int, int, int) {
	c, err := model.ParseHexColor(it.Color)
	if err != nil {
		return 153, 153, 153
	}
	return int(c.R), int(c.G), int(c.B)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
