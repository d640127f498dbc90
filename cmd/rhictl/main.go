package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/config"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
	"github.com/tamawizppp213/ARoQEngine-sub002/internal/logger"
	_ "github.com/tamawizppp213/ARoQEngine-sub002/internal/rhi/headless"
)

// The version number for the tool
const version = "0.1.0"

// State shared by every subcommand, populated before the subcommand runs
type session struct {
	cfg    *config.InstanceConfig
	logger *zap.SugaredLogger
}

// Opens the configured adapter backend and wraps it in an enumerator
func (s *session) openEnumerator() (*discovery.Enumerator, error) {
	backend, err := discovery.OpenBackend(s.cfg.InventoryFile, s.logger)
	if err != nil {
		return nil, err
	}

	return discovery.NewEnumerator(backend, s.cfg.Policy(), s.logger), nil
}

// Mirrors every instance option as a global flag so that it can be forwarded into the configuration flag set
func instanceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "warp", Usage: "restrict adapter selection to the WARP software adapter"},
		&cli.BoolFlag{Name: "allowSoftwareRendering", Usage: "allow falling back to the WARP software adapter"},
		&cli.StringFlag{Name: "preference", Value: "highPerformance", Usage: "GPU preference: unspecified, minimumPower or highPerformance"},
		&cli.UintFlag{Name: "preferredVendorID", Usage: "PCI vendor ID whose discrete adapters win selection"},
		&cli.UintFlag{Name: "renderingGPUCount", Value: 1, Usage: "number of GPUs used for rendering"},
		&cli.BoolFlag{Name: "enableCPUValidation", Usage: "enable the CPU validation layer (debug builds only)"},
		&cli.BoolFlag{Name: "enableGPUValidation", Usage: "enable GPU-based validation"},
		&cli.BoolFlag{Name: "enableDeviceRemovedDiagnostics", Usage: "enable device-removed extended diagnostics"},
		&cli.StringFlag{Name: "inventoryFile", Aliases: []string{"i"}, Usage: "adapter inventory YAML file to use instead of the native backend"},
		&cli.StringFlag{Name: "driver", Value: "headless", Usage: "name of the device driver"},
		&cli.StringFlag{Name: "logLevel", Value: "info", Usage: "logging verbosity"},
	}
}

// Loads the configuration and builds the logger at the configured verbosity.
// The bootstrap logger only reports configuration errors, since the level may also come from the environment or the config file.
func newSession(flags *pflag.FlagSet) (*session, error) {
	bootstrapLevel, err := flags.GetString("logLevel")
	if err != nil {
		return nil, err
	}
	bootstrap, err := logger.NewDevelopment(bootstrapLevel)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(flags, bootstrap.Sugar())
	if err != nil {
		bootstrap.Sync()
		return nil, err
	}

	zapLogger, err := logger.NewDevelopment(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	bootstrap.Sync()

	return &session{cfg: cfg, logger: zapLogger.Sugar()}, nil
}

// Copies the flags the user actually set into a configuration flag set
func forwardFlags(c *cli.Context) (*pflag.FlagSet, error) {
	flags := config.NewFlagSet("rhictl")
	var forwardErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if forwardErr != nil || !c.IsSet(flag.Name) {
			return
		}
		forwardErr = flags.Set(flag.Name, fmt.Sprint(c.Value(flag.Name)))
	})

	return flags, forwardErr
}

func main() {
	s := &session{}

	app := &cli.App{
		Name:    "rhictl",
		Usage:   "Inspect GPU adapters and bring up logical devices",
		Version: version,
		Flags:   instanceFlags(),
		Before: func(c *cli.Context) error {
			flags, err := forwardFlags(c)
			if err != nil {
				return err
			}

			loaded, err := newSession(flags)
			if err != nil {
				return err
			}
			*s = *loaded
			return nil
		},
		After: func(c *cli.Context) error {
			if s.logger != nil {
				s.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			listCommand(s),
			selectCommand(s),
			watchCommand(s),
			bringupCommand(s),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if s.logger != nil {
			s.logger.Fatalw("failed to run rhictl", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
