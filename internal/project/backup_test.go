package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/stowplan/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.Author = "alice"
	cfg.Theme = "dark"
	catalog := model.DefaultCatalog()
	catalog.Add(model.Container{
		ID:          "45ft-hc",
		Name:        "45ft High Cube",
		InnerLength: 13500,
		InnerWidth:  2300,
		InnerHeight: 2698,
		DoorHeight:  2533,
	})

	if err := ExportAllData(path, cfg, catalog); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.Author != "alice" {
		t.Errorf("expected Author=alice, got %s", backup.Config.Author)
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", backup.Config.Theme)
	}
	if len(backup.Catalog.Containers) != 4 {
		t.Errorf("expected 4 containers in backup, got %d", len(backup.Catalog.Containers))
	}
	if backup.Catalog.FindByID("45ft-hc") == nil {
		t.Error("custom container missing from backup")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"theme":"dark"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.DefaultCatalog()); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataFillsMissingSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_projects":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after import")
	}
	if len(backup.Catalog.Containers) == 0 {
		t.Error("a backup without a catalog should fall back to the defaults")
	}
}
