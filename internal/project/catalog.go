package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/stowplan/internal/model"
)

// ConfigDir returns the per-user directory holding StowPlan's own files
// (config.json, containers.json, logs).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "stowplan"), nil
}

// DefaultCatalogPath returns the default file path for the container
// catalog, ConfigDir()/containers.json.
func DefaultCatalogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "containers.json"), nil
}

// SaveCatalog writes the container catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog model.ContainerCatalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the container catalog from the specified JSON file.
// If the file does not exist, it writes the built-in defaults there and
// returns them, so the user has a file to edit.
func LoadCatalog(path string) (model.ContainerCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, catalog); saveErr != nil {
				return catalog, saveErr
			}
			return catalog, nil
		}
		return model.ContainerCatalog{}, err
	}

	var catalog model.ContainerCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return model.ContainerCatalog{}, fmt.Errorf("%w: containers.json: %v", ErrFormat, err)
	}
	if len(catalog.Containers) == 0 {
		return model.ContainerCatalog{}, fmt.Errorf("%w: containers.json defines no containers", ErrFormat)
	}
	seen := make(map[string]bool, len(catalog.Containers))
	for _, c := range catalog.Containers {
		if c.ID == "" {
			return model.ContainerCatalog{}, fmt.Errorf("%w: container entry without an id", ErrFormat)
		}
		if seen[c.ID] {
			return model.ContainerCatalog{}, fmt.Errorf("%w: duplicate container id %q", ErrFormat, c.ID)
		}
		seen[c.ID] = true
		if c.InnerLength <= 0 || c.InnerWidth <= 0 || c.InnerHeight <= 0 || c.DoorHeight <= 0 {
			return model.ContainerCatalog{}, fmt.Errorf("%w: container %q needs positive dimensions", ErrFormat, c.ID)
		}
	}
	return catalog, nil
}

// LoadOrCreateCatalog loads the catalog from the default path, creating it
// with the built-in containers on first run.
func LoadOrCreateCatalog() (model.ContainerCatalog, string, error) {
	path, err := DefaultCatalogPath()
	if err != nil {
		return model.DefaultCatalog(), "", err
	}
	catalog, err := LoadCatalog(path)
	return catalog, path, err
}
