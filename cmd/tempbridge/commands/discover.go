// cmd/tempbridge/commands/discover.go
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-tempbridge/internal/bridge"
)

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List discovered probes and their register mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := bridge.BuildSource(*cfg, log)
			if err != nil {
				return err
			}
			return bridge.PrintMapping(os.Stdout, src, bridge.Registers(*cfg))
		},
	}
}
