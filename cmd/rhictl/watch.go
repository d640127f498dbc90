package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
)

func watchCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print the adapter list and selection whenever the set of adapters changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "interval", Value: 5 * time.Second, Usage: "how often to check whether the adapter list is current"},
			&cli.StringFlag{Name: "metricsAddress", Usage: "serve Prometheus metrics on this address (e.g. :9400)"},
		},
		Action: func(c *cli.Context) error {
			enumerator, err := s.openEnumerator()
			if err != nil {
				return err
			}
			defer enumerator.Backend().Destroy()

			// Expose the enumeration and selection metrics if requested
			if address := c.String("metricsAddress"); address != "" {
				server := &http.Server{Addr: address, Handler: promhttp.Handler()}
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						s.logger.Errorw("Metrics server stopped", "error", err)
					}
				}()
				defer server.Close()
				s.logger.Infow("Serving metrics", "address", address)
			}

			// Start the adapter watcher and ensure it is stopped when we complete execution
			watcher := discovery.NewAdapterWatcher(enumerator.Backend(), c.Duration("interval"), s.logger)
			defer watcher.Destroy()

			// Wire up a signal handler to receive shutdown requests
			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

			// Report changes until we receive a shutdown request or an error occurs
			s.logger.Info("Watching until a shutdown request is received")
			for {
				select {
				case sig := <-signals:
					s.logger.Infow("Received signal", "signal", sig)
					return nil

				case err := <-watcher.Errors:
					return err

				case adapters := <-watcher.Updates:
					fmt.Printf("[%s] %d adapter(s)\n", time.Now().Format(time.RFC3339), len(adapters))
					for index := range adapters {
						printAdapter(index, &adapters[index])
					}

					selected := discovery.SelectAdapter(adapters, s.cfg.GPUPreference(), enumerator.Policy())
					if selected == nil {
						fmt.Println("selected: none")
					} else {
						fmt.Println("selected:", selected)
					}
				}
			}
		},
	}
}
