package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/piwi3910/stowplan/internal/project"
)

// showCatalogManager opens the container catalog window where users can
// view, create, edit, duplicate, and delete container types.
func (a *App) showCatalogManager() {
	w := fyne.CurrentApp().NewWindow("Container Catalog")
	w.Resize(fyne.NewSize(640, 440))

	var listWidget *widget.List
	var selectedIdx int = -1
	var detailContainer *fyne.Container

	detailContainer = container.NewVBox(
		widget.NewLabel("Select a container to view details."),
	)

	resetDetail := func() {
		selectedIdx = -1
		listWidget.UnselectAll()
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a container to view details."))
		detailContainer.Refresh()
	}

	listWidget = widget.NewList(
		func() int {
			return len(a.catalog.Containers)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.StorageIcon()),
				widget.NewLabel("Container Name"),
				layout.NewSpacer(),
				widget.NewLabel("00000 x 0000 mm"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			nameLabel := box.Objects[1].(*widget.Label)
			dimsLabel := box.Objects[3].(*widget.Label)
			c := a.catalog.Containers[id]
			nameLabel.SetText(c.Name)
			dimsLabel.SetText(fmt.Sprintf("%d x %d mm", c.InnerLength, c.InnerWidth))
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showContainerDetail(detailContainer, a.catalog.Containers[id], w, func() {
			listWidget.Refresh()
			resetDetail()
			a.catalogChanged()
		})
	}

	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		a.showContainerDialog(model.Container{}, false, w, func() {
			listWidget.Refresh()
			a.catalogChanged()
		})
	})

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(a.catalog.Containers) {
			dialog.ShowInformation("No Selection", "Select a container to duplicate.", w)
			return
		}
		dup := a.catalog.Containers[selectedIdx]
		dup.ID = uuid.New().String()[:8]
		dup.Name = dup.Name + " (Copy)"
		a.catalog.Add(dup)
		listWidget.Refresh()
		a.catalogChanged()
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(a.catalog.Containers) {
			dialog.ShowInformation("No Selection", "Select a container to delete.", w)
			return
		}
		c := a.catalog.Containers[selectedIdx]
		if c.ID == a.planner.Container().ID {
			dialog.ShowInformation("Cannot Delete",
				"The active container cannot be deleted. Switch to another container first.", w)
			return
		}
		if len(a.catalog.Containers) == 1 {
			dialog.ShowInformation("Cannot Delete", "The catalog needs at least one container.", w)
			return
		}
		dialog.ShowConfirm("Delete Container",
			fmt.Sprintf("Delete container %q from the catalog?", c.Name),
			func(ok bool) {
				if !ok {
					return
				}
				a.catalog.Remove(c.ID)
				listWidget.Refresh()
				resetDetail()
				a.catalogChanged()
			},
			w,
		)
	})

	toolbar := container.NewHBox(newBtn, duplicateBtn, deleteBtn)

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Containers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		toolbar,
		nil, nil,
		listWidget,
	)

	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detailContainer),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.42)

	w.SetContent(split)
	w.Show()
}

// showContainerDetail populates the detail pane with container dimensions
// and an edit button.
func (a *App) showContainerDetail(c *fyne.Container, cont model.Container, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	floorM2 := float64(cont.InnerLength) * float64(cont.InnerWidth) / 1e6
	volumeM3 := floorM2 * float64(cont.InnerHeight) / 1e3

	info := container.NewVBox(
		widget.NewLabelWithStyle(cont.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			widget.NewLabel("Inner Length:"), widget.NewLabel(fmt.Sprintf("%d mm", cont.InnerLength)),
			widget.NewLabel("Inner Width:"), widget.NewLabel(fmt.Sprintf("%d mm", cont.InnerWidth)),
			widget.NewLabel("Inner Height:"), widget.NewLabel(fmt.Sprintf("%d mm", cont.InnerHeight)),
			widget.NewLabel("Door Height:"), widget.NewLabel(fmt.Sprintf("%d mm", cont.DoorHeight)),
			widget.NewLabel("Floor Area:"), widget.NewLabel(fmt.Sprintf("%.1f m2", floorM2)),
			widget.NewLabel("Volume:"), widget.NewLabel(fmt.Sprintf("%.1f m3", volumeM3)),
		),
	)

	if cont.ID == a.planner.Container().ID {
		c.Add(widget.NewLabel("The active container is read-only while in use.\nSwitch containers to edit it."))
	} else {
		editBtn := widget.NewButtonWithIcon("Edit Container", theme.DocumentCreateIcon(), func() {
			a.showContainerDialog(cont, true, w, onChanged)
		})
		c.Add(editBtn)
	}

	c.Add(info)
	c.Refresh()
}

// showContainerDialog edits an existing container or, when editing is
// false, creates a new one.
func (a *App) showContainerDialog(cont model.Container, editing bool, w fyne.Window, onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Container name")

	lengthEntry := widget.NewEntry()
	lengthEntry.SetPlaceHolder("Inner length in mm")

	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Inner width in mm")

	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Inner height in mm")

	doorEntry := widget.NewEntry()
	doorEntry.SetPlaceHolder("Door opening height in mm")

	if editing {
		nameEntry.SetText(cont.Name)
		lengthEntry.SetText(strconv.Itoa(cont.InnerLength))
		widthEntry.SetText(strconv.Itoa(cont.InnerWidth))
		heightEntry.SetText(strconv.Itoa(cont.InnerHeight))
		doorEntry.SetText(strconv.Itoa(cont.DoorHeight))
	}

	title, confirm := "New Container", "Create"
	if editing {
		title, confirm = "Edit Container", "Save"
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Inner Length (mm)", lengthEntry),
			widget.NewFormItem("Inner Width (mm)", widthEntry),
			widget.NewFormItem("Inner Height (mm)", heightEntry),
			widget.NewFormItem("Door Height (mm)", doorEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("container name cannot be empty"), w)
				return
			}
			length, err1 := strconv.Atoi(strings.TrimSpace(lengthEntry.Text))
			width, err2 := strconv.Atoi(strings.TrimSpace(widthEntry.Text))
			height, err3 := strconv.Atoi(strings.TrimSpace(heightEntry.Text))
			door, err4 := strconv.Atoi(strings.TrimSpace(doorEntry.Text))
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				dialog.ShowError(fmt.Errorf("dimensions must be whole mm"), w)
				return
			}
			if length <= 0 || width <= 0 || height <= 0 || door <= 0 {
				dialog.ShowError(fmt.Errorf("dimensions must be positive"), w)
				return
			}
			if door > height {
				dialog.ShowError(fmt.Errorf("door height cannot exceed inner height"), w)
				return
			}

			if editing {
				if found := a.catalog.FindByID(cont.ID); found != nil {
					found.Name = name
					found.InnerLength = length
					found.InnerWidth = width
					found.InnerHeight = height
					found.DoorHeight = door
				}
			} else {
				a.catalog.Add(model.Container{
					ID:          uuid.New().String()[:8],
					Name:        name,
					InnerLength: length,
					InnerWidth:  width,
					InnerHeight: height,
					DoorHeight:  door,
				})
			}
			onSaved()
		},
		w,
	)
	form.Resize(fyne.NewSize(400, 320))
	form.Show()
}

// catalogChanged persists the catalog and refreshes every widget listing
// container names.
func (a *App) catalogChanged() {
	path, err := project.DefaultCatalogPath()
	if err == nil {
		err = project.SaveCatalog(path, a.catalog)
	}
	if err != nil {
		log.Printf("save catalog: %v", err)
	}
	if a.containerSelect != nil {
		a.containerSelect.Options = a.catalog.Names()
		a.containerSelect.Refresh()
	}
}
