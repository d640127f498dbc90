package rhi

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
)

// Driver creates logical devices for one graphics backend.
type Driver interface {
	// Name returns the name the driver is registered under.
	Name() string

	// CreateDevice creates a logical device bound to adapter
	// and mask.
	CreateDevice(adapter discovery.AdapterDescriptor, mask gpumask.Mask, logger *zap.SugaredLogger) (Device, error)
}

// Drivers returns the registered drivers.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	registered := make([]Driver, len(drivers))
	copy(registered, drivers)
	return registered
}

// Register registers a driver. Backends call it once from
// an init function. A driver with the same name as an
// existing one replaces it.
func Register(driver Driver) {
	mu.Lock()
	defer mu.Unlock()
	for index := range drivers {
		if drivers[index].Name() == driver.Name() {
			drivers[index] = driver
			return
		}
	}
	drivers = append(drivers, driver)
}

// Lookup returns the registered driver with the given name.
func Lookup(name string) (Driver, error) {
	mu.Lock()
	defer mu.Unlock()
	for _, driver := range drivers {
		if driver.Name() == name {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("no device driver named \"%s\" is registered", name)
}

var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
