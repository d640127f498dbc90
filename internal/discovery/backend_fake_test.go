package discovery

import "errors"

// An in-memory backend that records how it was queried
type fakeBackend struct {
	adapters      []AdapterDescriptor
	ordered       bool
	current       bool
	err           error
	orderedCalls  []Preference
	unorderedCall int
	destroyed     bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) SupportsPreferenceOrdering() bool { return f.ordered }

func (f *fakeBackend) EnumerateAdapters() ([]AdapterDescriptor, error) {
	f.unorderedCall += 1
	if f.err != nil {
		return nil, f.err
	}
	return append([]AdapterDescriptor{}, f.adapters...), nil
}

func (f *fakeBackend) EnumerateAdaptersByPreference(preference Preference) ([]AdapterDescriptor, error) {
	if !f.ordered {
		return nil, errors.New("ordering requested from an unordered backend")
	}
	f.orderedCalls = append(f.orderedCalls, preference)
	if f.err != nil {
		return nil, f.err
	}

	// Reverse the list so tests can tell which path was taken
	adapters := make([]AdapterDescriptor, 0, len(f.adapters))
	for index := len(f.adapters) - 1; index >= 0; index-- {
		adapters = append(adapters, f.adapters[index])
	}
	return adapters, nil
}

func (f *fakeBackend) IsCurrent() (bool, error) { return f.current, nil }

func (f *fakeBackend) Destroy() { f.destroyed = true }
