package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
)

func printAdapter(index int, adapter *discovery.AdapterDescriptor) {
	kind := "integrated"
	switch {
	case adapter.IsSoftware():
		kind = "software"
	case adapter.IsDiscrete():
		kind = "discrete"
	}

	fmt.Printf("%2d  %-40s %-10s %-10s %8d MB  %d output(s)\n",
		index, adapter.Name, adapter.VendorName(), kind, adapter.DedicatedVideoMemory>>20, len(adapter.Outputs))
}

func listCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every adapter the backend reports",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ranked", Usage: "list adapters in the order used for the configured preference"},
		},
		Action: func(c *cli.Context) error {
			enumerator, err := s.openEnumerator()
			if err != nil {
				return err
			}
			defer enumerator.Backend().Destroy()

			var adapters []discovery.AdapterDescriptor
			if c.Bool("ranked") {
				adapters, err = enumerator.Enumerate(s.cfg.GPUPreference())
			} else {
				adapters, err = enumerator.EnumerateAll()
			}
			if err != nil {
				return err
			}

			fmt.Printf("%d adapter(s) from %s\n", len(adapters), enumerator.Backend().Name())
			for index := range adapters {
				printAdapter(index, &adapters[index])
			}
			return nil
		},
	}
}

func selectCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "Print the adapter chosen for the configured preference",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "print the adapter chosen for every preference"},
		},
		Action: func(c *cli.Context) error {
			enumerator, err := s.openEnumerator()
			if err != nil {
				return err
			}
			defer enumerator.Backend().Destroy()

			preferences := []discovery.Preference{s.cfg.GPUPreference()}
			if c.Bool("all") {
				preferences = []discovery.Preference{
					discovery.PreferenceUnspecified,
					discovery.PreferenceMinimumPower,
					discovery.PreferenceHighPerformance,
				}
			}

			for _, preference := range preferences {
				selected, err := enumerator.SearchAdapter(preference)
				if err != nil {
					return err
				}
				if selected == nil {
					fmt.Printf("%s: no adapter qualifies\n", preference)
					continue
				}
				fmt.Printf("%s: %s\n", preference, selected)
			}
			return nil
		},
	}
}
