// cmd/tempbridge/commands/run.go
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-tempbridge/internal/bridge"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sample the source and write registers until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loop, closeWriter, err := bridge.Build(*cfg, log, os.Stdout)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeWriter(); err != nil {
					log.WithError(err).Warn("serial close failed")
				}
			}()

			log.WithFields(logrus.Fields{
				"mode":     cfg.Bridge.Mode,
				"port":     cfg.Serial.Port,
				"unit_id":  cfg.Serial.UnitID,
				"quantize": cfg.Bridge.Quantize,
			}).Info("tempbridge starting")

			// an empty bus is not fatal; probes may be connected later
			if err := loop.Banner(os.Stdout); err != nil {
				log.WithError(err).Warn("discovery failed")
			}

			loop.Run(ctx)
			return nil
		},
	}
}
