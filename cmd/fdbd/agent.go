package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/agent"
	"github.com/moby/fdbkit/agent/ovs"
	"github.com/moby/fdbkit/connectionbroker"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/remotes"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run a forwarding agent programming the local tunnel bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		stateDir, err := flags.GetString("state-dir")
		if err != nil {
			return err
		}
		id, err := flags.GetString("id")
		if err != nil {
			return err
		}
		managers, err := flags.GetStringSlice("manager")
		if err != nil {
			return err
		}
		segments, err := flags.GetStringSlice("segment")
		if err != nil {
			return err
		}
		bridge, err := flags.GetString("bridge")
		if err != nil {
			return err
		}
		resyncInterval, err := flags.GetDuration("resync-interval")
		if err != nil {
			return err
		}
		metricsAddr, err := flags.GetString("listen-metrics")
		if err != nil {
			return err
		}
		if len(managers) == 0 {
			return errors.New("at least one --manager is required")
		}

		if err := os.MkdirAll(stateDir, 0700); err != nil {
			return errors.Wrap(err, "failed to create state directory")
		}
		db, err := bolt.Open(filepath.Join(stateDir, "agent.db"), 0600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return errors.Wrap(err, "failed to open agent database")
		}
		defer db.Close()

		prog, err := ovs.New(ovs.Config{
			Bridge:  bridge,
			FlowDir: filepath.Join(stateDir, "flows"),
		})
		if err != nil {
			return err
		}

		a, err := agent.New(&agent.Config{
			ID:             id,
			ConnBroker:     connectionbroker.New(remotes.NewRemotes(managers...)),
			Segments:       segments,
			Programmer:     prog,
			DB:             db,
			ResyncInterval: resyncInterval,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if metricsAddr != "" {
			l, err := net.Listen("tcp", metricsAddr)
			if err != nil {
				return errors.Wrap(err, "failed to listen on the metrics address")
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Handler: mux}
			defer server.Close()
			go func() {
				if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
					log.G(ctx).WithError(err).Error("metrics server failed")
				}
			}()
		}
		log.G(ctx).WithField("agent.id", id).Info("starting agent")
		if err := a.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	agentCmd.Flags().String("id", "", "Agent ID, as registered with the manager")
	agentCmd.Flags().StringSlice("manager", []string{"tcp://127.0.0.1:4343"}, "Manager addresses")
	agentCmd.Flags().StringSlice("segment", nil, "Segments hosted by this agent")
	agentCmd.Flags().String("bridge", ovs.DefaultBridge, "Tunnel bridge to program")
	agentCmd.Flags().String("listen-metrics", "", "Listen address for the Prometheus endpoint (host:port)")
	agentCmd.Flags().Duration("resync-interval", 5*time.Minute, "Interval between full resyncs of every hosted segment")
}
