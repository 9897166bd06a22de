package model

// ContainerCatalog holds the known container definitions. The catalog is
// loaded from containers.json and treated as read-only by the planner.
type ContainerCatalog struct {
	Containers []Container `json:"containers"`
}

// DefaultCatalog returns the catalog written on first run. The 40ft-std
// dimensions are the reference values the rest of the application's
// defaults are tuned against.
func DefaultCatalog() ContainerCatalog {
	return ContainerCatalog{
		Containers: []Container{
			{
				ID:          "20ft-std",
				Name:        "20ft Standard",
				InnerLength: 5900,
				InnerWidth:  2300,
				InnerHeight: 2393,
				DoorHeight:  2228,
			},
			{
				ID:          "40ft-std",
				Name:        "40ft Standard",
				InnerLength: 12000,
				InnerWidth:  2300,
				InnerHeight: 2393,
				DoorHeight:  2228,
			},
			{
				ID:          "40ft-hc",
				Name:        "40ft High Cube",
				InnerLength: 12000,
				InnerWidth:  2300,
				InnerHeight: 2698,
				DoorHeight:  2533,
			},
		},
	}
}

// FindByID returns a pointer to the container with the given id, or nil.
func (cc *ContainerCatalog) FindByID(id string) *Container {
	for i := range cc.Containers {
		if cc.Containers[i].ID == id {
			return &cc.Containers[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first container with the given
// display name, or nil.
func (cc *ContainerCatalog) FindByName(name string) *Container {
	for i := range cc.Containers {
		if cc.Containers[i].Name == name {
			return &cc.Containers[i]
		}
	}
	return nil
}

// Names returns the display names in catalog order for UI dropdowns.
func (cc *ContainerCatalog) Names() []string {
	names := make([]string, len(cc.Containers))
	for i, c := range cc.Containers {
		names[i] = c.Name
	}
	return names
}

// Add appends a container definition to the catalog.
func (cc *ContainerCatalog) Add(c Container) {
	cc.Containers = append(cc.Containers, c)
}

// Remove deletes the container with the given id. Returns true if found.
func (cc *ContainerCatalog) Remove(id string) bool {
	for i, c := range cc.Containers {
		if c.ID == id {
			cc.Containers = append(cc.Containers[:i], cc.Containers[i+1:]...)
			return true
		}
	}
	return false
}
