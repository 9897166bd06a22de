package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultContainerID string         `json:"default_container_id"`
	DefaultMode        GenerationMode `json:"default_mode"`
	Author             string         `json:"author"` // stamped into project metadata on save

	// Waiting area dimensions in mm. Generated items flow into this area.
	WaitingLength int `json:"waiting_length_mm"`
	WaitingWidth  int `json:"waiting_width_mm"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// MaxRecentProjects caps the recent file list length.
const MaxRecentProjects = 8

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultContainerID: "40ft-std",
		DefaultMode:        ModeLoose,
		Author:             "",
		WaitingLength:      8000,
		WaitingWidth:       4000,
		RecentProjects:     []string{},
		Theme:              "system",
	}
}

// AddRecentProject inserts a path at the front of the recent list, removing
// duplicates and trimming to MaxRecentProjects.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentProjects {
		recent = recent[:MaxRecentProjects]
	}
	c.RecentProjects = recent
}
