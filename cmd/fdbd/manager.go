package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/moby/fdbkit/cmd/fdbd/defaults"
	"github.com/moby/fdbkit/manager"
	"github.com/moby/fdbkit/manager/dispatcher"
)

var managerCmd = &cobra.Command{
	Use:   "manager",
	Short: "Run the forwarding database manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		stateDir, err := flags.GetString("state-dir")
		if err != nil {
			return err
		}
		controlAPI, err := flags.GetString("listen-control-api")
		if err != nil {
			return err
		}
		remoteAPI, err := flags.GetString("listen-remote-api")
		if err != nil {
			return err
		}
		metricsAddr, err := flags.GetString("listen-metrics")
		if err != nil {
			return err
		}
		unique, err := flags.GetBool("unique-bindings")
		if err != nil {
			return err
		}

		dispatcherConfig := dispatcher.DefaultConfig()
		if dispatcherConfig.HeartbeatPeriod, err = flags.GetDuration("heartbeat-period"); err != nil {
			return err
		}
		if dispatcherConfig.SessionQueueSize, err = flags.GetInt("session-queue-size"); err != nil {
			return err
		}
		resyncRate, err := flags.GetFloat64("resync-rate")
		if err != nil {
			return err
		}
		dispatcherConfig.ResyncRate = rate.Limit(resyncRate)
		if dispatcherConfig.ResyncBurst, err = flags.GetInt("resync-burst"); err != nil {
			return err
		}

		m, err := manager.New(&manager.Config{
			ControlAPI:     controlAPI,
			RemoteAPI:      remoteAPI,
			MetricsAddr:    metricsAddr,
			StateDir:       stateDir,
			Dispatcher:     dispatcherConfig,
			UniqueBindings: unique,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := m.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	managerCmd.Flags().String("listen-control-api", defaults.ControlAPISocket, "Listen socket for the control API")
	managerCmd.Flags().String("listen-remote-api", defaults.RemoteAPIAddr, "Listen address for agents")
	managerCmd.Flags().String("listen-metrics", "", "Listen address for the Prometheus metrics endpoint")
	managerCmd.Flags().Bool("unique-bindings", true, "Reject a second binding of the same port, segment and agent")
	managerCmd.Flags().Duration("heartbeat-period", dispatcher.DefaultConfig().HeartbeatPeriod, "Heartbeat period requested from agents")
	managerCmd.Flags().Int("session-queue-size", dispatcher.DefaultConfig().SessionQueueSize, "Change sets buffered per agent before drops")
	managerCmd.Flags().Float64("resync-rate", float64(dispatcher.DefaultConfig().ResyncRate), "Resync requests served per second")
	managerCmd.Flags().Int("resync-burst", dispatcher.DefaultConfig().ResyncBurst, "Resync requests served in a burst")
}
