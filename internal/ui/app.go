package ui

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/stowplan/internal/engine"
	"github.com/piwi3910/stowplan/internal/export"
	boximporter "github.com/piwi3910/stowplan/internal/importer"
	"github.com/piwi3910/stowplan/internal/model"
	"github.com/piwi3910/stowplan/internal/project"
	"github.com/piwi3910/stowplan/internal/ui/widgets"
)

const appVersion = "1.0.0"

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	planner *engine.Planner
	config  model.AppConfig
	catalog model.ContainerCatalog

	projectName string
	specs       []model.BoxSpec
	tabs        *container.AppTabs

	// UI references for dynamic updates
	specsContainer  *fyne.Container
	canvas          *widgets.PlanCanvas
	containerSelect *widget.Select
	metricsLabel    *widget.Label
	statusLabel     *widget.Label
}

func NewApp(window fyne.Window, config model.AppConfig, catalog model.ContainerCatalog) *App {
	if len(catalog.Containers) == 0 {
		catalog = model.DefaultCatalog()
	}
	c := catalog.FindByID(config.DefaultContainerID)
	if c == nil {
		c = &catalog.Containers[0]
	}
	return &App{
		window:      window,
		planner:     engine.New(*c),
		config:      config,
		catalog:     catalog,
		projectName: "Untitled",
	}
}

// SetupMenus creates the native menu bar for the application. Called again
// whenever the recent project list changes.
func (a *App) SetupMenus() {
	recentItems := make([]*fyne.MenuItem, 0, len(a.config.RecentProjects))
	for _, p := range a.config.RecentProjects {
		path := p // capture
		recentItems = append(recentItems, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openProjectPath(path)
		}))
	}
	openRecent := fyne.NewMenuItem("Open Recent", nil)
	if len(recentItems) > 0 {
		openRecent.ChildMenu = fyne.NewMenu("", recentItems...)
	} else {
		openRecent.Disabled = true
	}

	exportItem := fyne.NewMenuItem("Export", nil)
	exportItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Plan PDF...", func() {
			a.exportDocument(".pdf", "plan PDF", export.ExportPDF)
		}),
		fyne.NewMenuItem("Spreadsheet...", func() {
			a.exportDocument(".xlsx", "workbook", export.ExportXLSX)
		}),
		fyne.NewMenuItem("Unit Labels...", func() {
			a.exportDocument("-labels.pdf", "labels PDF", export.ExportLabels)
		}),
		fyne.NewMenuItem("Floor Plan DXF...", func() {
			a.exportDocument(".dxf", "DXF drawing", export.ExportDXF)
		}),
	)

	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.newProject()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.openProject()
		}),
		openRecent,
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Box List from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Box List from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItemSeparator(),
		exportItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export All Data...", func() {
			a.exportAllData()
		}),
		fyne.NewMenuItem("Import All Data...", func() {
			a.importAllData()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Container", func() {
			a.clearContainer()
		}),
		fyne.NewMenuItem("Clear All Items", func() {
			a.clearAllItems()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Set Type Color...", func() {
			a.showSetTypeColorDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Manage Containers...", func() {
			a.showCatalogManager()
		}),
		fyne.NewMenuItem("Preferences...", func() {
			a.showPreferencesDialog()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About StowPlan",
		"StowPlan - Container Load Planner\n\n"+
			"A cross-platform desktop application for planning\n"+
			"manual container loading with live collision checks\n"+
			"and box stacking.\n\n"+
			"Version "+appVersion,
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	boxesTab := container.NewTabItem("Boxes", a.buildBoxesPanel())
	planTab := container.NewTabItem("Plan", a.buildPlanPanel())
	exportTab := container.NewTabItem("Export", a.buildExportPanel())

	a.tabs = container.NewAppTabs(boxesTab, planTab, exportTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.updateTitle()
	return fynetooltip.AddWindowToolTipLayer(a.tabs, a.window.Canvas())
}

func (a *App) updateTitle() {
	a.window.SetTitle("StowPlan - " + a.projectName)
}

// ─── Boxes Panel ───────────────────────────────────────────

func (a *App) buildBoxesPanel() fyne.CanvasObject {
	a.specsContainer = container.NewVBox()
	a.refreshSpecsList()

	addBtn := widget.NewButtonWithIcon("Add Box Type", theme.ContentAddIcon(), func() {
		a.showAddSpecDialog()
	})

	generateLoose := widget.NewButtonWithIcon("Generate Loose", theme.GridIcon(), func() {
		a.generate(model.ModeLoose)
	})
	generateStacked := widget.NewButtonWithIcon("Generate Stacked", theme.StorageIcon(), func() {
		a.generate(model.ModeStacked)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Box Types", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		container.NewHBox(layout.NewSpacer(), generateLoose, generateStacked),
		nil, nil,
		container.NewVScroll(a.specsContainer),
	)
}

func (a *App) refreshSpecsList() {
	a.specsContainer.RemoveAll()

	if len(a.specs) == 0 {
		a.specsContainer.Add(widget.NewLabel("No box types yet. Click 'Add Box Type' or import a list to begin."))
		return
	}

	// Header
	header := container.NewGridWithColumns(9,
		widget.NewLabelWithStyle("Type", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Length (mm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Width (mm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Height (mm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Weight (kg)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Color", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.specsContainer.Add(header)
	a.specsContainer.Add(widget.NewSeparator())

	for i := range a.specs {
		idx := i // capture
		s := a.specs[idx]
		row := container.NewGridWithColumns(9,
			widget.NewLabel(s.Type),
			widget.NewLabel(fmt.Sprintf("%d", s.Quantity)),
			widget.NewLabel(fmt.Sprintf("%d", s.Length)),
			widget.NewLabel(fmt.Sprintf("%d", s.Width)),
			widget.NewLabel(fmt.Sprintf("%d", s.Height)),
			widget.NewLabel(fmt.Sprintf("%.2f", s.Weight)),
			colorSwatch(specSwatchColor(s, idx)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showEditSpecDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.specs = append(a.specs[:idx], a.specs[idx+1:]...)
				a.refreshSpecsList()
			}),
		)
		a.specsContainer.Add(row)
	}
}

// colorSwatch renders a small filled rectangle for a hex color.
func colorSwatch(hex string) fyne.CanvasObject {
	c, err := model.ParseHexColor(hex)
	if err != nil {
		c = color.NRGBA{R: 153, G: 153, B: 153, A: 255}
	}
	return container.NewGridWrap(fyne.NewSize(28, 16), canvas.NewRectangle(c))
}

// boxPreset defines a common box footprint for quick selection.
type boxPreset struct {
	Label  string
	Length int
	Width  int
	Height int
}

// Common box sizes built on standard pallet footprints.
var boxPresets = []boxPreset{
	{Label: "Custom", Length: 0, Width: 0, Height: 0},
	{Label: "Euro Pallet Box (1200 x 800 x 950)", Length: 1200, Width: 800, Height: 950},
	{Label: "Half Euro Box (800 x 600 x 600)", Length: 800, Width: 600, Height: 600},
	{Label: "Quarter Euro Box (600 x 400 x 400)", Length: 600, Width: 400, Height: 400},
	{Label: "Standard Crate (1000 x 800 x 600)", Length: 1000, Width: 800, Height: 600},
	{Label: "Drum Pallet (1200 x 1200 x 1000)", Length: 1200, Width: 1200, Height: 1000},
}

func (a *App) showAddSpecDialog() {
	typeEntry := widget.NewEntry()
	typeEntry.SetPlaceHolder("Box type name")
	typeEntry.SetText(fmt.Sprintf("Type %d", len(a.specs)+1))

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText("1")

	lengthEntry := widget.NewEntry()
	lengthEntry.SetPlaceHolder("Length in mm")

	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Width in mm")

	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Height in mm")

	weightEntry := widget.NewEntry()
	weightEntry.SetText("0")

	colorEntry := widget.NewEntry()
	colorEntry.SetPlaceHolder("#RRGGBB (empty for automatic)")

	// Build preset names for the dropdown
	presetNames := make([]string, len(boxPresets))
	for i, p := range boxPresets {
		presetNames[i] = p.Label
	}

	presetSelect := widget.NewSelect(presetNames, func(selected string) {
		for _, p := range boxPresets {
			if p.Label == selected && p.Length > 0 {
				lengthEntry.SetText(strconv.Itoa(p.Length))
				widthEntry.SetText(strconv.Itoa(p.Width))
				heightEntry.SetText(strconv.Itoa(p.Height))
				break
			}
		}
	})
	presetSelect.PlaceHolder = "Select a preset size..."

	form := dialog.NewForm("Add Box Type", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Preset Size", presetSelect),
			widget.NewFormItem("Type", typeEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Height (mm)", heightEntry),
			widget.NewFormItem("Weight (kg)", weightEntry),
			widget.NewFormItem("Color", colorEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			spec, err := specFromEntries(typeEntry, qtyEntry, lengthEntry, widthEntry, heightEntry, weightEntry, colorEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.specs = append(a.specs, spec)
			a.refreshSpecsList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 450))
	form.Show()
}

func (a *App) showEditSpecDialog(idx int) {
	s := a.specs[idx]

	typeEntry := widget.NewEntry()
	typeEntry.SetText(s.Type)

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(strconv.Itoa(s.Quantity))

	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(strconv.Itoa(s.Length))

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(s.Width))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(s.Height))

	weightEntry := widget.NewEntry()
	weightEntry.SetText(fmt.Sprintf("%.2f", s.Weight))

	colorEntry := widget.NewEntry()
	colorEntry.SetText(s.Color)
	colorEntry.SetPlaceHolder("#RRGGBB (empty for automatic)")

	form := dialog.NewForm("Edit Box Type", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Type", typeEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Height (mm)", heightEntry),
			widget.NewFormItem("Weight (kg)", weightEntry),
			widget.NewFormItem("Color", colorEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			spec, err := specFromEntries(typeEntry, qtyEntry, lengthEntry, widthEntry, heightEntry, weightEntry, colorEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.specs[idx] = spec
			a.refreshSpecsList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 420))
	form.Show()
}

// specFromEntries parses and validates one generation row from its dialog
// entries.
func specFromEntries(typeE, qtyE, lenE, widE, heiE, weiE, colE *widget.Entry) (model.BoxSpec, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(qtyE.Text))
	if err != nil {
		return model.BoxSpec{}, fmt.Errorf("quantity must be a whole number")
	}
	length, err := strconv.Atoi(strings.TrimSpace(lenE.Text))
	if err != nil {
		return model.BoxSpec{}, fmt.Errorf("length must be whole mm")
	}
	width, err := strconv.Atoi(strings.TrimSpace(widE.Text))
	if err != nil {
		return model.BoxSpec{}, fmt.Errorf("width must be whole mm")
	}
	height, err := strconv.Atoi(strings.TrimSpace(heiE.Text))
	if err != nil {
		return model.BoxSpec{}, fmt.Errorf("height must be whole mm")
	}
	weight := 0.0
	if s := strings.TrimSpace(weiE.Text); s != "" {
		weight, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return model.BoxSpec{}, fmt.Errorf("weight must be a number")
		}
	}

	spec := model.BoxSpec{
		Type:     strings.TrimSpace(typeE.Text),
		Quantity: qty,
		Length:   length,
		Width:    width,
		Height:   height,
		Weight:   weight,
		Color:    strings.TrimSpace(colE.Text),
	}
	if err := spec.Validate(); err != nil {
		return model.BoxSpec{}, err
	}
	if spec.Color != "" {
		c, err := model.ParseHexColor(spec.Color)
		if err != nil {
			return model.BoxSpec{}, err
		}
		spec.Color = model.FormatHexColor(c)
	}
	return spec, nil
}

// ─── Plan Panel ────────────────────────────────────────────

func (a *App) buildPlanPanel() fyne.CanvasObject {
	a.metricsLabel = widget.NewLabel("")
	a.statusLabel = widget.NewLabel("")

	a.canvas = widgets.NewPlanCanvas(a.planner, 980, 560)
	a.canvas.SetWaitingArea(a.config.WaitingLength, a.config.WaitingWidth)
	a.canvas.OnChange = func() {
		a.refreshMetrics()
	}
	a.canvas.OnStatus = func(msg string) {
		a.statusLabel.SetText(msg)
	}

	a.containerSelect = widget.NewSelect(a.catalog.Names(), func(name string) {
		a.switchContainer(name)
	})
	a.containerSelect.SetSelected(a.planner.Container().Name)

	rotateBtn := newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Rotate the selected unit (R)", func() {
		a.canvas.RotateSelected()
	})
	takeBtn := newIconButtonWithTooltip(theme.MoveUpIcon(), "Take the top box off the selected stack", func() {
		a.canvas.TakeTopOfSelected()
	})

	topBar := container.NewHBox(
		widget.NewLabelWithStyle("Container", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.containerSelect,
		rotateBtn,
		takeBtn,
		layout.NewSpacer(),
		a.metricsLabel,
	)

	a.refreshMetrics()

	return container.NewBorder(
		topBar,
		container.NewHBox(a.statusLabel),
		nil, nil,
		container.NewScroll(a.canvas),
	)
}

func (a *App) refreshMetrics() {
	m := model.CalculateLoadMetrics(a.planner.Items(), a.planner.Container())
	a.metricsLabel.SetText(fmt.Sprintf(
		"Laden: %d boxes (%d stacks) | Waiting: %d | Weight: %.1f kg | Floor: %.1f%% | Volume: %.1f%%",
		m.LadenBoxes, m.LadenStacks, m.WaitingBoxes, m.TotalWeight, m.FloorUsagePct, m.VolumeUsagePct,
	))
}

func (a *App) refreshPlan() {
	if a.canvas != nil {
		a.canvas.Refresh()
	}
	if a.metricsLabel != nil {
		a.refreshMetrics()
	}
}

// switchContainer activates a different catalog container. Laden boxes are
// moved back to the waiting area first so the new bounds start from a
// clean floor.
func (a *App) switchContainer(name string) {
	c := a.catalog.FindByName(name)
	if c == nil || c.ID == a.planner.Container().ID {
		return
	}

	apply := func() {
		for _, it := range a.planner.Placed() {
			if _, err := a.planner.Commit(it.ID, model.ZoneWaiting, it.X, it.Y); err != nil {
				log.Printf("unload %s: %v", it.ID, err)
			}
		}
		a.planner.SetContainer(*c)
		a.refreshPlan()
	}

	if len(a.planner.Placed()) == 0 {
		apply()
		return
	}
	dialog.NewConfirm("Switch Container",
		fmt.Sprintf("Switching to %s moves all laden boxes back to the waiting area. Continue?", c.Name),
		func(ok bool) {
			if !ok {
				a.containerSelect.SetSelected(a.planner.Container().Name)
				return
			}
			apply()
		},
		a.window,
	).Show()
}

// ─── Export Panel ──────────────────────────────────────────

func (a *App) buildExportPanel() fyne.CanvasObject {
	pdfCard := widget.NewCard("Plan PDF", "A4 landscape drawing of the load plan with summary tables.",
		widget.NewButtonWithIcon("Export PDF...", theme.DocumentSaveIcon(), func() {
			a.exportDocument(".pdf", "plan PDF", export.ExportPDF)
		}))

	xlsxCard := widget.NewCard("Spreadsheet", "Laden and waiting box lists as an Excel workbook.",
		widget.NewButtonWithIcon("Export XLSX...", theme.DocumentSaveIcon(), func() {
			a.exportDocument(".xlsx", "workbook", export.ExportXLSX)
		}))

	labelsCard := widget.NewCard("Unit Labels", "QR-coded labels for every laden unit, Avery 5160 layout.",
		widget.NewButtonWithIcon("Export Labels...", theme.DocumentSaveIcon(), func() {
			a.exportDocument("-labels.pdf", "labels PDF", export.ExportLabels)
		}))

	dxfCard := widget.NewCard("Floor Plan DXF", "Container outline and laden footprints as CAD geometry, 1 unit = 1 mm.",
		widget.NewButtonWithIcon("Export DXF...", theme.DocumentSaveIcon(), func() {
			a.exportDocument(".dxf", "DXF drawing", export.ExportDXF)
		}))

	return container.NewVScroll(container.NewVBox(pdfCard, xlsxCard, labelsCard, dxfCard))
}

// exportDocument snapshots the scene, asks for a target path, and renders
// the document off the UI thread.
func (a *App) exportDocument(suffix, what string, render func(path string, sum export.Summary) error) {
	proj := a.planner.Snapshot()
	proj.Name = a.projectName
	sum, err := export.BuildSummary(proj)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(sum.Items) == 0 {
		dialog.ShowInformation("Nothing to export", "Generate boxes first, then export the plan.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		go func() {
			if err := render(path, sum); err != nil {
				fyne.Do(func() { dialog.ShowError(err, a.window) })
				return
			}
			fyne.Do(func() {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Saved the %s to %s", what, path), a.window)
			})
		}()
	}, a.window)
	d.SetFileName(a.projectName + suffix)
	d.Show()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) generate(mode model.GenerationMode) {
	if len(a.specs) == 0 {
		dialog.ShowInformation("Nothing to generate", "Add at least one box type first.", a.window)
		return
	}

	run := func() {
		if err := a.planner.Regenerate(a.specs, mode); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.refreshPlan()
		if a.tabs != nil {
			a.tabs.SelectIndex(1) // Switch to Plan tab
		}
	}

	if len(a.planner.Items()) > 0 {
		dialog.NewConfirm("Regenerate",
			"Generating replaces every box and stack in both zones. Continue?",
			func(ok bool) {
				if ok {
					run()
				}
			},
			a.window,
		).Show()
		return
	}
	run()
}

func (a *App) newProject() {
	proj := model.NewProject(a.planner.Container())
	if err := a.planner.Restore(proj); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.specs = nil
	a.projectName = "Untitled"
	a.refreshSpecsList()
	a.refreshPlan()
	a.updateTitle()
}

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		proj := a.planner.Snapshot()
		proj.Name = projectNameFromPath(path)
		if err := project.Save(path, &proj, a.config.Author, appVersion); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.projectName = proj.Name
		a.rememberProject(path)
		a.updateTitle()
	}, a.window)
	d.SetFileName(a.projectName + project.Ext)
	d.Show()
}

func (a *App) openProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.openProjectPath(path)
	}, a.window)
	d.Show()
}

func (a *App) openProjectPath(path string) {
	proj, err := project.Load(path, a.catalog)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.planner.Restore(proj); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.projectName = proj.Name
	if a.projectName == "" {
		a.projectName = projectNameFromPath(path)
	}
	a.specs = specsFromBoxes(proj.Boxes)

	if a.containerSelect != nil {
		a.containerSelect.SetSelected(proj.Container.Name)
	}
	a.refreshSpecsList()
	a.refreshPlan()
	a.rememberProject(path)
	a.updateTitle()
	if a.tabs != nil {
		a.tabs.SelectIndex(1)
	}
}

// rememberProject records a path in the recent list and rebuilds the menu.
func (a *App) rememberProject(path string) {
	a.config.AddRecentProject(path)
	a.saveConfig()
	a.SetupMenus()
}

func (a *App) saveConfig() {
	path, err := project.DefaultConfigPath()
	if err == nil {
		err = project.SaveAppConfig(path, a.config)
	}
	if err != nil {
		log.Printf("save config: %v", err)
	}
}

func (a *App) clearContainer() {
	for _, it := range a.planner.Placed() {
		if _, err := a.planner.Commit(it.ID, model.ZoneWaiting, it.X, it.Y); err != nil {
			log.Printf("unload %s: %v", it.ID, err)
		}
	}
	a.refreshPlan()
}

func (a *App) clearAllItems() {
	proj := model.NewProject(a.planner.Container())
	proj.Name = a.projectName
	if err := a.planner.Restore(proj); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshPlan()
}

func (a *App) showSetTypeColorDialog() {
	types := distinctTypes(a.planner.Snapshot().Boxes)
	if len(types) == 0 {
		dialog.ShowInformation("No boxes", "Generate boxes first, then recolor a type.", a.window)
		return
	}

	typeSelect := widget.NewSelect(types, nil)
	typeSelect.SetSelected(types[0])

	colorEntry := widget.NewEntry()
	colorEntry.SetPlaceHolder("#RRGGBB")

	form := dialog.NewForm("Set Type Color", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Box Type", typeSelect),
			widget.NewFormItem("Color", colorEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			c, err := model.ParseHexColor(strings.TrimSpace(colorEntry.Text))
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if err := a.planner.SetTypeColor(typeSelect.Selected, model.FormatHexColor(c)); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.refreshPlan()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 200))
	form.Show()
}

func (a *App) showPreferencesDialog() {
	authorEntry := widget.NewEntry()
	authorEntry.SetText(a.config.Author)
	authorEntry.SetPlaceHolder("Name stamped into saved plans")

	containerSelect := widget.NewSelect(a.catalog.Names(), nil)
	if c := a.catalog.FindByID(a.config.DefaultContainerID); c != nil {
		containerSelect.SetSelected(c.Name)
	}

	modeSelect := widget.NewSelect([]string{"Loose", "Stacked"}, nil)
	if a.config.DefaultMode == model.ModeStacked {
		modeSelect.SetSelected("Stacked")
	} else {
		modeSelect.SetSelected("Loose")
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, nil)
	if a.config.Theme != "" {
		themeSelect.SetSelected(a.config.Theme)
	} else {
		themeSelect.SetSelected("system")
	}

	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(strconv.Itoa(a.config.WaitingLength))

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(a.config.WaitingWidth))

	form := dialog.NewForm("Preferences", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Author", authorEntry),
			widget.NewFormItem("Default Container", containerSelect),
			widget.NewFormItem("Default Mode", modeSelect),
			widget.NewFormItem("Theme", themeSelect),
			widget.NewFormItem("Waiting Length (mm)", lengthEntry),
			widget.NewFormItem("Waiting Width (mm)", widthEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, _ := strconv.Atoi(lengthEntry.Text)
			width, _ := strconv.Atoi(widthEntry.Text)
			if length <= 0 || width <= 0 {
				dialog.ShowError(fmt.Errorf("waiting area dimensions must be > 0"), a.window)
				return
			}

			a.config.Author = strings.TrimSpace(authorEntry.Text)
			if c := a.catalog.FindByName(containerSelect.Selected); c != nil {
				a.config.DefaultContainerID = c.ID
			}
			if modeSelect.Selected == "Stacked" {
				a.config.DefaultMode = model.ModeStacked
			} else {
				a.config.DefaultMode = model.ModeLoose
			}
			if themeSelect.Selected != a.config.Theme {
				a.config.Theme = themeSelect.Selected
				fyne.CurrentApp().Settings().SetTheme(ThemeForName(a.config.Theme))
			}
			a.config.WaitingLength = length
			a.config.WaitingWidth = width
			if a.canvas != nil {
				a.canvas.SetWaitingArea(length, width)
			}
			a.saveConfig()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 380))
	form.Show()
}

// ─── Backup ────────────────────────────────────────────────

func (a *App) exportAllData() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.ExportAllData(path, a.config, a.catalog); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Settings and catalog saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("stowplan-backup.json")
	d.Show()
}

func (a *App) importAllData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		data, err := project.ImportAllData(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config = data.Config
		a.catalog = data.Catalog
		a.saveConfig()
		if catalogPath, err := project.DefaultCatalogPath(); err == nil {
			if err := project.SaveCatalog(catalogPath, a.catalog); err != nil {
				log.Printf("save catalog: %v", err)
			}
		}
		if a.containerSelect != nil {
			a.containerSelect.Options = a.catalog.Names()
			a.containerSelect.Refresh()
		}
		a.SetupMenus()
		dialog.ShowInformation("Import Complete", "Settings and container catalog restored.", a.window)
	}, a.window)
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := boximporter.ImportCSV(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := boximporter.ImportExcel(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result boximporter.ImportResult) {
	// Show errors if any
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	// Warnings don't block; they go to the log file.
	if len(result.Warnings) > 0 {
		log.Printf("import warnings: %v", result.Warnings)
	}

	if len(result.Specs) > 0 {
		a.specs = append(a.specs, result.Specs...)
		a.refreshSpecsList()

		msg := fmt.Sprintf("Successfully imported %d box types.", len(result.Specs))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
		if a.tabs != nil {
			a.tabs.SelectIndex(0) // Switch to Boxes tab
		}
	}
}
