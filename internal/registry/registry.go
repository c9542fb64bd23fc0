// Package registry provides a global registry for display backends.
// Backends register themselves in init() functions, so the command line
// can pick a driver by name from configuration.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/vovakirdan/ledtris/internal/display"
)

// Deps carries everything a backend may need to come up.
// Backends ignore the fields they have no use for.
type Deps struct {
	Port      spi.Port // nil unless running on hardware
	Speed     physic.Frequency
	Rotations []display.Rotation
	Intensity uint8
	Height    int
}

// DriverInfo contains metadata about a registered backend.
type DriverInfo struct {
	Name     string
	Title    string
	Hardware bool
}

// Factory builds a ready-to-draw display.
type Factory func(Deps) (display.Display, error)

type entry struct {
	info    DriverInfo
	factory Factory
}

var (
	drivers = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a backend to the registry.
// Panics if a backend with the same name is already registered.
func Register(info DriverInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := drivers[info.Name]; exists {
		panic(fmt.Sprintf("registry: driver %q already registered", info.Name))
	}
	drivers[info.Name] = entry{info: info, factory: f}
}

// List returns all registered backends, sorted by name.
func List() []DriverInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DriverInfo, 0, len(drivers))
	for _, e := range drivers {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a backend by name.
func Create(name string, deps Deps) (display.Display, error) {
	mu.RLock()
	e, ok := drivers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown driver %q", name)
	}
	d, err := e.factory(deps)
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", name, err)
	}
	return d, nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := drivers[name]
	return ok
}

// Lookup returns the metadata of a registered backend.
func Lookup(name string) (DriverInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := drivers[name]
	return e.info, ok
}
