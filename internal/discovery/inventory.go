package discovery

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Inventory describes a fixed set of adapters, used for headless machines, CI and hardware profiles
type Inventory struct {

	// Specifies whether the inventory emulates a backend that supports preference-ordered enumeration
	SupportsPreferenceOrdering bool `yaml:"supportsPreferenceOrdering"`

	// The adapters, in backend-assigned order
	Adapters []AdapterDescriptor `yaml:"adapters"`
}

// ParseInventory parses a YAML adapter inventory
func ParseInventory(data []byte) (*Inventory, error) {
	inventory := &Inventory{}
	if err := yaml.Unmarshal(data, inventory); err != nil {
		return nil, fmt.Errorf("failed to parse adapter inventory: %w", err)
	}

	// Every adapter needs a name so that it can be identified in logs
	for index, adapter := range inventory.Adapters {
		if adapter.Name == "" {
			return nil, fmt.Errorf("adapter %d in the inventory has no name", index)
		}
	}

	return inventory, nil
}

// LoadInventory reads and parses a YAML adapter inventory file
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseInventory(data)
}

// InventoryBackend is a Backend that reports the adapters described by an inventory
type InventoryBackend struct {

	// The inventory file, or empty for an in-memory inventory
	path string

	// The current inventory and a mutex to protect reloads
	inventory *Inventory
	mutex     sync.Mutex

	// Set when the inventory file has changed since it was last loaded
	stale atomic.Bool

	// Watches the inventory file for changes
	watcher *ChangeWatcher

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger
}

// NewInventoryBackend creates a backend for an in-memory inventory
func NewInventoryBackend(inventory *Inventory, logger *zap.SugaredLogger) *InventoryBackend {
	return &InventoryBackend{
		inventory: inventory,
		logger:    logger,
	}
}

// OpenInventoryBackend creates a backend for an inventory file and watches the file for changes
func OpenInventoryBackend(path string, logger *zap.SugaredLogger) (*InventoryBackend, error) {

	// Attempt to load the inventory
	inventory, err := LoadInventory(path)
	if err != nil {
		return nil, err
	}

	// Attempt to watch the inventory file for changes
	watcher, err := WatchForChanges(path)
	if err != nil {
		return nil, fmt.Errorf("failed to watch adapter inventory %s: %w", path, err)
	}

	backend := &InventoryBackend{
		path:      path,
		inventory: inventory,
		watcher:   watcher,
		logger:    logger,
	}

	// Mark the inventory as stale whenever the file changes
	go func() {
		for {
			select {
			case _, ok := <-watcher.Changed:
				if !ok {
					return
				}
				logger.Infow("Adapter inventory changed", "path", path)
				backend.stale.Store(true)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnw("Error watching adapter inventory", "path", path, "error", err)
			}
		}
	}()

	return backend, nil
}

func (b *InventoryBackend) Name() string {
	if b.path == "" {
		return "inventory"
	}

	return "inventory:" + b.path
}

func (b *InventoryBackend) SupportsPreferenceOrdering() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.inventory.SupportsPreferenceOrdering
}

// Returns a copy of the current adapters, reloading the inventory file first if it has changed
func (b *InventoryBackend) current() ([]AdapterDescriptor, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.path != "" && b.stale.Swap(false) {
		inventory, err := LoadInventory(b.path)
		if err != nil {
			b.stale.Store(true)
			return nil, err
		}
		b.inventory = inventory
	}

	adapters := make([]AdapterDescriptor, len(b.inventory.Adapters))
	copy(adapters, b.inventory.Adapters)
	return adapters, nil
}

func (b *InventoryBackend) EnumerateAdapters() ([]AdapterDescriptor, error) {
	return b.current()
}

// Orders the inventory the way DXGI orders adapters by GPU preference:
// high performance lists hardware adapters by descending video memory, minimum power lists integrated adapters first,
// and the software adapter always comes last for either preference.
func (b *InventoryBackend) EnumerateAdaptersByPreference(preference Preference) ([]AdapterDescriptor, error) {
	if !b.SupportsPreferenceOrdering() {
		return nil, ErrPreferenceOrderingUnsupported
	}

	adapters, err := b.current()
	if err != nil {
		return nil, err
	}

	if preference == PreferenceUnspecified {
		return adapters, nil
	}

	rank := func(adapter *AdapterDescriptor) int {
		switch {
		case adapter.IsSoftware():
			return 2
		case adapter.IsDiscrete() == (preference == PreferenceHighPerformance):
			return 0
		default:
			return 1
		}
	}

	sort.SliceStable(adapters, func(i, j int) bool {
		ri, rj := rank(&adapters[i]), rank(&adapters[j])
		if ri != rj {
			return ri < rj
		}
		if preference == PreferenceHighPerformance {
			return adapters[i].DedicatedVideoMemory > adapters[j].DedicatedVideoMemory
		}
		return false
	})

	return adapters, nil
}

func (b *InventoryBackend) IsCurrent() (bool, error) {
	return !b.stale.Load(), nil
}

func (b *InventoryBackend) Destroy() {
	if b.watcher != nil {
		b.watcher.Cancel()
	}
}

// OpenBackend opens the adapter inventory when a path is supplied, and the native backend for this platform otherwise
func OpenBackend(inventoryPath string, logger *zap.SugaredLogger) (Backend, error) {
	if inventoryPath != "" {
		return OpenInventoryBackend(inventoryPath, logger)
	}

	backend, err := OpenSystemBackend(logger)
	if errors.Is(err, ErrBackendUnavailable) {
		return nil, fmt.Errorf("%w (supply an adapter inventory file instead)", err)
	}

	return backend, err
}
