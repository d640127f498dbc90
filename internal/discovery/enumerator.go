package discovery

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/metrics"
)

// Determines how adapters are requested from a backend
type enumerationStrategy interface {
	name() string
	enumerate(backend Backend, preference Preference) ([]AdapterDescriptor, error)
}

// Asks the backend to order adapters by the requested preference
type preferenceOrderedStrategy struct{}

func (preferenceOrderedStrategy) name() string { return "preference-ordered" }

func (preferenceOrderedStrategy) enumerate(backend Backend, preference Preference) ([]AdapterDescriptor, error) {
	return backend.EnumerateAdaptersByPreference(preference)
}

// Accepts the backend-assigned order, for backends without preference ordering
type unorderedStrategy struct{}

func (unorderedStrategy) name() string { return "unordered" }

func (unorderedStrategy) enumerate(backend Backend, _ Preference) ([]AdapterDescriptor, error) {
	return backend.EnumerateAdapters()
}

// Picks the enumeration strategy supported by the backend
func strategyFor(backend Backend) enumerationStrategy {
	if backend.SupportsPreferenceOrdering() {
		return preferenceOrderedStrategy{}
	}

	return unorderedStrategy{}
}

// Enumerates and ranks the physical adapters reported by a backend
type Enumerator struct {

	// The native backend that reports adapters
	backend Backend

	// The strategy matching what the backend reported on the last enumeration
	strategy enumerationStrategy

	// The policy applied when searching for an adapter
	policy SelectionPolicy

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger
}

// Creates an enumerator for the supplied backend, detecting whether it supports preference ordering
func NewEnumerator(backend Backend, policy SelectionPolicy, logger *zap.SugaredLogger) *Enumerator {
	strategy := strategyFor(backend)
	logger.Infow("Created adapter enumerator", "backend", backend.Name(), "strategy", strategy.name())

	return &Enumerator{
		backend:  backend,
		strategy: strategy,
		policy:   policy,
		logger:   logger,
	}
}

// Reports whether enumeration results are ordered by preference
func (e *Enumerator) Ordered() bool {
	_, ordered := e.strategy.(preferenceOrderedStrategy)
	return ordered
}

// Returns the policy applied by SearchAdapter
func (e *Enumerator) Policy() SelectionPolicy {
	return e.policy
}

// Returns the backend the enumerator queries
func (e *Enumerator) Backend() Backend {
	return e.backend
}

// Re-detects the strategy, since backends such as an inventory file can change their capabilities after a reload
func (e *Enumerator) refreshStrategy() {
	if strategy := strategyFor(e.backend); strategy.name() != e.strategy.name() {
		e.logger.Infow("Adapter enumeration strategy changed", "backend", e.backend.Name(), "from", e.strategy.name(), "to", strategy.name())
		e.strategy = strategy
	}
}

// Enumerate queries the backend for the adapters, ordered by preference when the backend supports it.
// Every call re-queries the backend.
func (e *Enumerator) Enumerate(preference Preference) ([]AdapterDescriptor, error) {
	e.refreshStrategy()
	adapters, err := e.strategy.enumerate(e.backend, preference)

	// The backend may lose preference ordering between the capability check and the enumeration
	if errors.Is(err, ErrPreferenceOrderingUnsupported) && e.Ordered() {
		e.logger.Infow("Backend no longer supports preference ordering, enumerating unordered", "backend", e.backend.Name())
		e.strategy = unorderedStrategy{}
		adapters, err = e.strategy.enumerate(e.backend, preference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate adapters using %s: %w", e.backend.Name(), err)
	}

	metrics.AdaptersEnumerated.WithLabelValues(e.backend.Name()).Set(float64(len(adapters)))
	return adapters, nil
}

// EnumerateAll returns every adapter the backend reports, without any preference ordering or filtering
func (e *Enumerator) EnumerateAll() ([]AdapterDescriptor, error) {
	adapters, err := e.backend.EnumerateAdapters()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate adapters using %s: %w", e.backend.Name(), err)
	}

	metrics.AdaptersEnumerated.WithLabelValues(e.backend.Name()).Set(float64(len(adapters)))
	return adapters, nil
}

// SearchAdapter enumerates the adapters and selects one for the specified preference.
// A nil adapter with a nil error means that no adapter qualified.
func (e *Enumerator) SearchAdapter(preference Preference) (*AdapterDescriptor, error) {
	adapters, err := e.Enumerate(preference)
	if err != nil {
		return nil, err
	}

	selected := SelectAdapter(adapters, preference, e.policy)
	if selected == nil {
		metrics.AdapterSelections.WithLabelValues(preference.String(), "none").Inc()
		e.logger.Warnw("No adapter qualified for selection", "preference", preference.String(), "candidates", len(adapters))
		return nil, nil
	}

	metrics.AdapterSelections.WithLabelValues(preference.String(), "selected").Inc()
	e.logger.Infow(
		"Selected adapter",
		"preference", preference.String(),
		"adapter", selected.Name,
		"vendor", selected.VendorName(),
		"dedicatedVideoMemory", selected.DedicatedVideoMemory,
		"discrete", selected.IsDiscrete(),
	)

	return selected, nil
}
