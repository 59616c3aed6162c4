// cmd/tempbridge/commands/sample.go
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-tempbridge/internal/bridge"
	"github.com/tamzrod/modbus-tempbridge/internal/writer"
)

// sampleCmd reads the source once without touching the serial port.
func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Read every sensor once and print the register values",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, err := bridge.BuildSource(*cfg, log)
			if err != nil {
				return err
			}
			mode, err := writer.ParseQuantizeMode(cfg.Bridge.Quantize)
			if err != nil {
				return err
			}

			results := src.Sample(ctx)
			if len(results) == 0 {
				fmt.Println("no sensors found")
				return nil
			}

			// numbered the way the bridge loop assigns registers
			i := 0
			for _, r := range results {
				if !r.Present() {
					fmt.Printf("sensor (%s): failed to get temperature: %v\n", r.Key, r.Err)
					continue
				}
				idx := i
				i++
				q, err := writer.Quantize(r.Reading.Celsius, mode)
				if err != nil {
					fmt.Printf("sensor %d (%s): %.3f°C (%v)\n", idx, r.Key, r.Reading.Celsius, err)
					continue
				}
				word := writer.Encode(q)
				fmt.Printf("sensor %d (%s): %.3f°C -> %d (0x%04X, reads back %.1f°C)\n",
					idx, r.Key, r.Reading.Celsius, q, word, writer.Decode(word))
			}
			return nil
		},
	}
}
