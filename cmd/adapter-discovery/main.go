package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/config"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/logger"
)

func main() {

	// Parse our command-line arguments
	flags := config.NewFlagSet(os.Args[0])
	verbose := flags.Bool("verbose", false, "enable verbose logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalln("Error:", err)
	}

	// Create a logger, printing debug messages only when verbose logging has been requested
	level := "warn"
	if *verbose {
		level = "debug"
	}
	zapLogger, err := logger.NewDevelopment(level)
	if err != nil {
		log.Fatalln("Error: failed to create the logger:", err)
	}
	sugar := zapLogger.Sugar()
	defer sugar.Sync()

	// Load the selection policy and inventory path
	cfg, err := config.LoadConfig(flags, sugar)
	if err != nil {
		sugar.Fatalf("Error: failed to load the configuration: %v", err)
	}

	// Open the adapter backend
	backend, err := discovery.OpenBackend(cfg.InventoryFile, sugar)
	if err != nil {
		sugar.Fatalf("Error: %v", err)
	}
	defer backend.Destroy()

	enumerator := discovery.NewEnumerator(backend, cfg.Policy(), sugar)

	// Perform adapter discovery
	adapters, err := enumerator.EnumerateAll()
	if err != nil {
		sugar.Fatalf("Error: %v", err)
	}

	// Print the backend details and the number of discovered adapters
	fmt.Print("Adapter backend: ", backend.Name(), " (preference-ordered enumeration: ", enumerator.Ordered(), ")\n")
	fmt.Print("Discovered ", len(adapters), " adapters.\n\n")

	// Print the details for each adapter
	for index, adapter := range adapters {
		fmt.Print("[Adapter ", index, " details]\n\n")
		fmt.Println("Description:            ", adapter.Name)
		fmt.Printf("Vendor:                  %s (0x%04X)\n", adapter.VendorName(), adapter.VendorID)
		fmt.Printf("Device ID:               0x%04X\n", adapter.DeviceID)
		fmt.Printf("Subsystem ID:            0x%08X\n", adapter.SubSystemID)
		fmt.Println("Revision:               ", adapter.Revision)
		fmt.Printf("Adapter LUID:            0x%016X\n", adapter.LUID)
		fmt.Println("Dedicated Video Memory: ", adapter.DedicatedVideoMemory>>20, "MB")
		fmt.Println("Dedicated System Memory:", adapter.DedicatedSystemMemory>>20, "MB")
		fmt.Println("Shared System Memory:   ", adapter.SharedSystemMemory>>20, "MB")
		fmt.Println("Is Discrete:            ", adapter.IsDiscrete())
		fmt.Println("Is Software:            ", adapter.IsSoftware())

		fmt.Print("\n", len(adapter.Outputs), " Outputs:\n")
		for _, output := range adapter.Outputs {
			fmt.Println("   ", output.DeviceName, "attached to desktop:", output.AttachedToDesktop)
		}

		fmt.Print("\n")
	}

	// Print the adapter that each preference would select
	fmt.Print("[Selection] warp=", cfg.Warp, " allowSoftwareRendering=", cfg.AllowSoftwareRendering, "\n\n")
	for _, preference := range []discovery.Preference{
		discovery.PreferenceUnspecified,
		discovery.PreferenceMinimumPower,
		discovery.PreferenceHighPerformance,
	} {
		selected, err := enumerator.SearchAdapter(preference)
		if err != nil {
			sugar.Fatalf("Error: %v", err)
		}

		if selected == nil {
			fmt.Printf("%-16s => (no adapter qualifies)\n", preference)
		} else {
			fmt.Printf("%-16s => %s\n", preference, selected.Name)
		}
	}
}
