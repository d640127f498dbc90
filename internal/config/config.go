package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/gpumask"
)

// The prefix shared by every environment variable we read
const envPrefix = "RHI_"

// InstanceConfig represents the options consumed when the graphics instance is constructed.
// It is loaded once at start-up and treated as read-only afterwards.
type InstanceConfig struct {

	// Restricts adapter selection to the WARP software adapter
	Warp bool

	// Permits falling back to the WARP software adapter when no hardware adapter qualifies
	AllowSoftwareRendering bool

	// The GPU preference used to rank adapters (unspecified, minimumPower or highPerformance)
	Preference string

	// The PCI vendor ID whose discrete adapters win selection outright (0 disables the tie-break)
	PreferredVendorID uint32

	// The number of GPUs that take part in rendering
	RenderingGPUCount uint32

	// Enables the CPU-side validation layer (only honoured by debug builds)
	EnableCPUValidation bool

	// Enables GPU-based shader validation
	EnableGPUValidation bool

	// Enables device-removed extended diagnostics (breadcrumbs and page-fault reporting)
	EnableDeviceRemovedDiagnostics bool

	// The number of descriptors in each default descriptor heap, keyed by heap type name
	HeapCounts map[string]uint32

	// An adapter inventory file to use instead of the native adapter backend
	InventoryFile string

	// The name of the registered device driver
	Driver string

	// The logging verbosity
	LogLevel string

	// Values derived from the raw options during validation
	preference discovery.Preference
	topology   gpumask.Topology
}

// GPUPreference returns the parsed adapter preference
func (c *InstanceConfig) GPUPreference() discovery.Preference {
	return c.preference
}

// Topology returns the rendering GPU topology
func (c *InstanceConfig) Topology() gpumask.Topology {
	return c.topology
}

// Policy returns the adapter selection policy
func (c *InstanceConfig) Policy() discovery.SelectionPolicy {
	return discovery.SelectionPolicy{
		ForceWARP:              c.Warp,
		AllowSoftwareRendering: c.AllowSoftwareRendering,
		PreferredVendorID:      c.PreferredVendorID,
	}
}

// Validates the raw options and computes the derived values
func (c *InstanceConfig) validate() error {
	preference, err := discovery.ParsePreference(c.Preference)
	if err != nil {
		return err
	}
	c.preference = preference

	topology, err := gpumask.NewTopology(c.RenderingGPUCount)
	if err != nil {
		return err
	}
	c.topology = topology

	// Heap type names are matched case-insensitively, since viper lowercases map keys
	heapCounts := make(map[string]uint32, len(c.HeapCounts))
	keys := maps.Keys(c.HeapCounts)
	slices.Sort(keys)
	for _, key := range keys {
		lower := strings.ToLower(key)
		if _, duplicate := heapCounts[lower]; duplicate {
			return fmt.Errorf("descriptor heap type \"%s\" is specified more than once", key)
		}
		heapCounts[lower] = c.HeapCounts[key]
	}
	c.HeapCounts = heapCounts

	return nil
}

// NewFlagSet creates the command-line flags understood by LoadConfig
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	RegisterFlags(flags)
	return flags
}

// RegisterFlags adds the instance flags to an existing flag set
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool("warp", false, "restrict adapter selection to the WARP software adapter")
	flags.Bool("allowSoftwareRendering", false, "allow falling back to the WARP software adapter")
	flags.String("preference", "highPerformance", "GPU preference: unspecified, minimumPower or highPerformance")
	flags.Uint32("preferredVendorID", 0, "PCI vendor ID whose discrete adapters win selection (e.g. 0x10DE)")
	flags.Uint32("renderingGPUCount", 1, "number of GPUs used for rendering")
	flags.Bool("enableCPUValidation", false, "enable the CPU validation layer (debug builds only)")
	flags.Bool("enableGPUValidation", false, "enable GPU-based validation")
	flags.Bool("enableDeviceRemovedDiagnostics", false, "enable device-removed extended diagnostics")
	flags.String("inventoryFile", "", "adapter inventory YAML file to use instead of the native backend")
	flags.String("driver", "headless", "name of the device driver")
	flags.String("logLevel", "info", "logging verbosity")
}

// LoadConfig loads the configuration data from the command-line flags, the environment and an optional YAML file.
// Flags take precedence over environment variables, which take precedence over the file.
func LoadConfig(flags *pflag.FlagSet, logger *zap.SugaredLogger) (*InstanceConfig, error) {

	// Set our default configuration values
	v := viper.New()
	v.SetDefault("warp", false)
	v.SetDefault("allowSoftwareRendering", false)
	v.SetDefault("preference", "highPerformance")
	v.SetDefault("preferredVendorID", 0)
	v.SetDefault("renderingGPUCount", 1)
	v.SetDefault("enableCPUValidation", false)
	v.SetDefault("enableGPUValidation", false)
	v.SetDefault("enableDeviceRemovedDiagnostics", false)
	v.SetDefault("heapCounts", make(map[string]uint32))
	v.SetDefault("inventoryFile", "")
	v.SetDefault("driver", "headless")
	v.SetDefault("logLevel", "info")

	// Bind each option to its environment variable
	v.BindEnv("warp", envPrefix+"WARP")
	v.BindEnv("allowSoftwareRendering", envPrefix+"ALLOW_SOFTWARE_RENDERING")
	v.BindEnv("preference", envPrefix+"PREFERENCE")
	v.BindEnv("preferredVendorID", envPrefix+"PREFERRED_VENDOR_ID")
	v.BindEnv("renderingGPUCount", envPrefix+"RENDERING_GPU_COUNT")
	v.BindEnv("enableCPUValidation", envPrefix+"ENABLE_CPU_VALIDATION")
	v.BindEnv("enableGPUValidation", envPrefix+"ENABLE_GPU_VALIDATION")
	v.BindEnv("enableDeviceRemovedDiagnostics", envPrefix+"ENABLE_DEVICE_REMOVED_DIAGNOSTICS")
	v.BindEnv("inventoryFile", envPrefix+"INVENTORY_FILE")
	v.BindEnv("driver", envPrefix+"DRIVER")
	v.BindEnv("logLevel", envPrefix+"LOG_LEVEL")

	// Bind the command-line flags, if any were supplied
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	// Check if a config file path was explicitly specified through an environment variable
	configPath, configPathExists := os.LookupEnv(envPrefix + "CONFIG_FILE")
	if configPathExists {

		// Verify that the specified value is an absolute path
		if !filepath.IsAbs(configPath) {
			return nil, errors.New("configuration file path must be an absolute path")
		}

		// Verify that the specified file exists
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("specified configuration file does not exist: %s", configPath)
		}

		// Use the specified path
		v.SetConfigFile(configPath)

	} else {

		// The default YAML configuration file is named after the subsystem
		v.SetConfigName("rhi")
		v.SetConfigType("yaml")

		// We search for the configuration file in both our global config directory and the current working directory
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aroq-rhi")
	}

	// Attempt to parse our YAML configuration file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Infow("Configuration file not found, using configuration values from flags and environment variables")
		} else {
			return nil, err
		}
	}

	// Load the parsed configuration values into our struct
	c := &InstanceConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}

	// Validate the options and compute the derived values
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Log the parsed configuration values
	logger.Infow("Parsed configuration data", "config", c)

	return c, nil
}
