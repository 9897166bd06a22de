// StowPlan - Container Load Planner
//
// A cross-platform desktop application for planning manual container
// loading with live collision checks and box stacking.
//
// Build:
//   go build -o stowplan ./cmd/stowplan
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o stowplan.exe ./cmd/stowplan
//   GOOS=darwin  GOARCH=amd64 go build -o stowplan-darwin ./cmd/stowplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/piwi3910/stowplan/internal/project"
	"github.com/piwi3910/stowplan/internal/ui"
)

// setupLogFile mirrors the standard logger into ConfigDir so problems from
// a desktop launch, where stderr is invisible, are still diagnosable.
func setupLogFile() *os.File {
	dir, err := project.ConfigDir()
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "stowplan.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f
}

func main() {
	if f := setupLogFile(); f != nil {
		defer f.Close()
	}

	application := app.NewWithID("com.piwi3910.stowplan")

	catalog, _, err := project.LoadOrCreateCatalog()
	if err != nil {
		log.Printf("load catalog: %v", err)
	}

	cfg := model.DefaultAppConfig()
	if path, err := project.DefaultConfigPath(); err == nil {
		loaded, loadErr := project.LoadAppConfig(path)
		if loadErr != nil {
			log.Printf("load config: %v", loadErr)
		} else {
			cfg = loaded
		}
	}

	application.Settings().SetTheme(ui.ThemeForName(cfg.Theme))
	window := application.NewWindow("StowPlan - Container Load Planner")

	appUI := ui.NewApp(window, cfg, catalog)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
