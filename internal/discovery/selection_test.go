package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	megabyte = uint64(1024 * 1024)
	vendorX  = VendorNvidia
	vendorY  = VendorAMD
)

func integrated(name string, shared uint64) AdapterDescriptor {
	return AdapterDescriptor{Name: name, VendorID: VendorIntel, SharedSystemMemory: shared}
}

func discrete(name string, vendor uint32, video uint64) AdapterDescriptor {
	return AdapterDescriptor{Name: name, VendorID: vendor, DedicatedVideoMemory: video}
}

func warp() AdapterDescriptor {
	return AdapterDescriptor{Name: "Microsoft Basic Render Driver", VendorID: VendorSoftware, SharedSystemMemory: 1024 * megabyte}
}

func threeAdapters() []AdapterDescriptor {
	return []AdapterDescriptor{
		integrated("integrated", 256*megabyte),
		discrete("discreteA", vendorX, 2048*megabyte),
		discrete("discreteB", vendorY, 4096*megabyte),
	}
}

func TestSelectAdapterScenarios(t *testing.T) {
	t.Run("no preferred vendor", func(t *testing.T) {
		candidates := threeAdapters()

		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "discreteB", selected.Name)

		selected = SelectAdapter(candidates, PreferenceMinimumPower, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "integrated", selected.Name)

		selected = SelectAdapter(candidates, PreferenceUnspecified, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "integrated", selected.Name)
	})

	t.Run("preferred vendor wins over memory", func(t *testing.T) {
		selected := SelectAdapter(threeAdapters(), PreferenceHighPerformance, SelectionPolicy{PreferredVendorID: vendorX})
		require.NotNil(t, selected)
		assert.Equal(t, "discreteA", selected.Name)
	})

	t.Run("preferred vendor ends the scan", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			discrete("preferred", vendorX, 1024*megabyte),
			integrated("late integrated", 128*megabyte),
		}

		// The integrated adapter after the preferred one is never seen
		selected := SelectAdapter(candidates, PreferenceMinimumPower, SelectionPolicy{PreferredVendorID: vendorX})
		require.NotNil(t, selected)
		assert.Equal(t, "preferred", selected.Name)
	})

	t.Run("preferred vendor only applies to discrete adapters", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			integrated("integrated", 256*megabyte),
			discrete("discrete", vendorY, 2048*megabyte),
		}

		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{PreferredVendorID: VendorIntel})
		require.NotNil(t, selected)
		assert.Equal(t, "discrete", selected.Name)
	})

	t.Run("WARP only without permission", func(t *testing.T) {
		candidates := []AdapterDescriptor{warp()}
		for _, preference := range []Preference{PreferenceUnspecified, PreferenceMinimumPower, PreferenceHighPerformance} {
			assert.Nil(t, SelectAdapter(candidates, preference, SelectionPolicy{}), preference.String())
		}
	})

	t.Run("WARP allowed as software fallback", func(t *testing.T) {
		selected := SelectAdapter([]AdapterDescriptor{warp()}, PreferenceHighPerformance, SelectionPolicy{AllowSoftwareRendering: true})
		require.NotNil(t, selected)
		assert.True(t, selected.IsSoftware())
	})

	t.Run("forced WARP skips hardware", func(t *testing.T) {
		candidates := append(threeAdapters(), warp())
		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{ForceWARP: true})
		require.NotNil(t, selected)
		assert.True(t, selected.IsSoftware())
	})

	t.Run("forced WARP with no WARP adapter", func(t *testing.T) {
		assert.Nil(t, SelectAdapter(threeAdapters(), PreferenceUnspecified, SelectionPolicy{ForceWARP: true}))
	})

	t.Run("empty enumeration", func(t *testing.T) {
		assert.Nil(t, SelectAdapter(nil, PreferenceHighPerformance, SelectionPolicy{}))
	})

	t.Run("integrated is last seen wins", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			integrated("first", 2048*megabyte),
			integrated("second", 128*megabyte),
		}

		selected := SelectAdapter(candidates, PreferenceMinimumPower, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "second", selected.Name)
	})

	t.Run("equal memory keeps the first discrete adapter", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			discrete("first", vendorX, 2048*megabyte),
			discrete("second", vendorY, 2048*megabyte),
		}

		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "first", selected.Name)
	})
}

func TestSelectAdapterFallbacks(t *testing.T) {
	t.Run("high performance without discrete adapters", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			warp(),
			integrated("first integrated", 512*megabyte),
			integrated("second integrated", 256*megabyte),
		}

		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "first integrated", selected.Name)
	})

	t.Run("minimum power without integrated adapters", func(t *testing.T) {
		candidates := []AdapterDescriptor{
			discrete("small", vendorX, 1024*megabyte),
			discrete("large", vendorY, 8192*megabyte),
		}

		selected := SelectAdapter(candidates, PreferenceMinimumPower, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "small", selected.Name)
	})
}

// Checks the high performance and minimum power properties over every ordering of a mixed candidate set
func TestSelectAdapterProperties(t *testing.T) {
	pool := []AdapterDescriptor{
		integrated("integrated", 256*megabyte),
		discrete("discrete 1G", vendorX, 1024*megabyte),
		discrete("discrete 6G", vendorY, 6144*megabyte),
		discrete("discrete 3G", VendorIntel, 3072*megabyte),
		warp(),
	}

	permutations := [][]int{
		{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}, {1, 4, 3, 0, 2}, {3, 2, 1, 4, 0},
		{4, 0, 1, 2, 3}, {0, 4, 2, 3, 1}, {1, 2, 3, 4, 0},
	}

	for _, order := range permutations {
		candidates := make([]AdapterDescriptor, len(order))
		for index, source := range order {
			candidates[index] = pool[source]
		}

		selected := SelectAdapter(candidates, PreferenceHighPerformance, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.Equal(t, "discrete 6G", selected.Name, "order %v", order)
		assert.False(t, selected.IsSoftware())

		selected = SelectAdapter(candidates, PreferenceMinimumPower, SelectionPolicy{})
		require.NotNil(t, selected)
		assert.False(t, selected.IsDiscrete(), "order %v", order)
		assert.False(t, selected.IsSoftware(), "order %v", order)
	}
}

func TestSelectionPolicySkips(t *testing.T) {
	hardware := discrete("hardware", vendorX, megabyte)
	software := warp()

	assert.False(t, SelectionPolicy{}.Skips(&hardware))
	assert.True(t, SelectionPolicy{}.Skips(&software))
	assert.False(t, SelectionPolicy{AllowSoftwareRendering: true}.Skips(&software))
	assert.True(t, SelectionPolicy{ForceWARP: true}.Skips(&hardware))
	assert.False(t, SelectionPolicy{ForceWARP: true}.Skips(&software))
}

func TestParsePreference(t *testing.T) {
	cases := map[string]Preference{
		"":                 PreferenceUnspecified,
		"unspecified":      PreferenceUnspecified,
		"minimumPower":     PreferenceMinimumPower,
		"HighPerformance":  PreferenceHighPerformance,
		"high-performance": PreferenceHighPerformance,
	}

	for input, expected := range cases {
		preference, err := ParsePreference(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, preference, input)
	}

	_, err := ParsePreference("fastest")
	assert.Error(t, err)

	for _, preference := range []Preference{PreferenceUnspecified, PreferenceMinimumPower, PreferenceHighPerformance} {
		parsed, err := ParsePreference(preference.String())
		require.NoError(t, err)
		assert.Equal(t, preference, parsed)
	}
}

func TestAdapterDescriptor(t *testing.T) {
	adapter := discrete("GPU", VendorNvidia, megabyte)
	assert.True(t, adapter.IsDiscrete())
	assert.False(t, adapter.IsSoftware())
	assert.Equal(t, "NVIDIA", adapter.VendorName())
	assert.Contains(t, adapter.String(), "0x10DE")

	software := warp()
	assert.False(t, software.IsDiscrete())
	assert.True(t, software.IsSoftware())
	assert.Equal(t, "0xBEEF", VendorName(0xBEEF))
}
