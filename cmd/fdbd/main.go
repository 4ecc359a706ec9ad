package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moby/fdbkit/cmd/fdbd/defaults"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/version"
)

func main() {
	if err := mainCmd.Execute(); err != nil {
		log.L.Fatal(err)
	}
}

var (
	mainCmd = &cobra.Command{
		Use:          os.Args[0],
		Short:        "Run a forwarding database manager or agent",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfigFile(cmd); err != nil {
				return err
			}

			logrus.SetOutput(os.Stderr)
			flag, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			level, err := logrus.ParseLevel(flag)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}
)

func init() {
	mainCmd.PersistentFlags().StringP("log-level", "l", "info", "Log level (options \"debug\", \"info\", \"warn\", \"error\", \"fatal\", \"panic\")")
	mainCmd.PersistentFlags().StringP("state-dir", "d", defaults.StateDir, "State directory")
	mainCmd.PersistentFlags().StringP("config", "c", "", "YAML file with flag values; flags given on the command line take precedence")

	mainCmd.AddCommand(
		managerCmd,
		agentCmd,
		version.Cmd,
	)
}
