// cmd/tempbridge/commands/root.go
package commands

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-tempbridge/internal/config"
	"github.com/tamzrod/modbus-tempbridge/internal/logging"
)

var (
	cfgPath  string
	modeFlag string

	cfg      *config.Config
	log      *logrus.Logger
	closeLog = func() error { return nil }
)

func Execute() error {
	root := &cobra.Command{
		Use:           "tempbridge",
		Short:         "Publish temperatures to Modbus RTU holding registers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// flag wins over file and environment
			if modeFlag != "" {
				if err := os.Setenv(config.EnvPrefix+"MODE", modeFlag); err != nil {
					return err
				}
			}

			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = c

			l, closer, err := logging.Setup(cfg.Log)
			if err != nil {
				return err
			}
			log, closeLog = l, closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&modeFlag, "mode", "", "temperature source: probes or weather")

	root.AddCommand(runCmd(), discoverCmd(), sampleCmd())

	err := root.Execute()
	if err != nil {
		if log != nil {
			log.WithError(err).Error("tempbridge failed")
		} else {
			logrus.WithError(err).Error("tempbridge failed")
		}
		_ = closeLog()
	}
	return err
}
