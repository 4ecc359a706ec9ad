package manager

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	metrics "github.com/docker/go-metrics"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/collector"
	"github.com/moby/fdbkit/manager/controlapi"
	"github.com/moby/fdbkit/manager/dispatcher"
	"github.com/moby/fdbkit/manager/state/storage"
	"github.com/moby/fdbkit/manager/state/store"
	"github.com/moby/fdbkit/xnet"
)

const stateFileName = "fdb.db"

// Config is used to tune the Manager.
type Config struct {
	// ControlAPI is the proto://address of the control socket, serving the
	// control API and the dispatcher to local tools.
	ControlAPI string

	// RemoteAPI is the proto://address agents connect to.
	RemoteAPI string

	// MetricsAddr is the host:port of the Prometheus endpoint. Empty
	// disables it.
	MetricsAddr string

	// Top-level state directory
	StateDir string

	// Dispatcher is the dispatcher configuration. Nil selects the defaults.
	Dispatcher *dispatcher.Config

	// UniqueBindings rejects a second binding of the same port, segment
	// and agent.
	UniqueBindings bool
}

// Manager is the forwarding database manager.
// This is the high-level object holding and initializing all the manager
// subsystems.
type Manager struct {
	config *Config

	storage    *storage.Storage
	store      *store.MemoryStore
	controlAPI *controlapi.Server
	dispatcher *dispatcher.Dispatcher
	collector  *collector.Collector

	controlServer   *grpc.Server
	remoteServer    *grpc.Server
	metricsServer   *http.Server
	controlListener net.Listener
	remoteListener  net.Listener
	metricsListener net.Listener

	mu       sync.Mutex
	started  bool
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a Manager which has not started to accept requests yet. The
// forwarding database persisted in the state directory is restored and the
// configured addresses are bound.
func New(config *Config) (m *Manager, err error) {
	if err := os.MkdirAll(config.StateDir, 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create state directory")
	}

	st, err := storage.Open(filepath.Join(config.StateDir, stateFileName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			st.Close()
		}
	}()

	snapshot, err := st.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load state")
	}
	s := store.NewMemoryStore(st)
	if err := s.Restore(snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to restore state")
	}

	controlAPI, err := controlapi.New(
		controlapi.WithMemoryStore(s),
		controlapi.WithUniqueBindings(config.UniqueBindings))
	if err != nil {
		return nil, err
	}

	dispatcherConfig := config.Dispatcher
	if dispatcherConfig == nil {
		dispatcherConfig = dispatcher.DefaultConfig()
	}

	m = &Manager{
		config:     config,
		storage:    st,
		store:      s,
		controlAPI: controlAPI,
		dispatcher: dispatcher.New(s, dispatcherConfig),
		collector:  collector.New(s),
		stopped:    make(chan struct{}),
	}

	if err := m.listen(); err != nil {
		m.closeListeners()
		return nil, err
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(grpc_prometheus.UnaryServerInterceptor, logUnaryInterceptor),
		grpc.ChainStreamInterceptor(grpc_prometheus.StreamServerInterceptor, logStreamInterceptor),
	}
	m.controlServer = grpc.NewServer(opts...)
	m.remoteServer = grpc.NewServer(opts...)

	api.RegisterControlServer(m.controlServer, m.controlAPI)
	api.RegisterDispatcherServer(m.controlServer, m.dispatcher)
	api.RegisterDispatcherServer(m.remoteServer, m.dispatcher)
	grpc_prometheus.Register(m.controlServer)
	grpc_prometheus.Register(m.remoteServer)

	if m.metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		m.metricsServer = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return m, nil
}

func (m *Manager) listen() error {
	var err error
	m.controlListener, err = xnet.ListenAddr(m.config.ControlAPI)
	if err != nil {
		return errors.Wrap(err, "failed to listen on the control API address")
	}
	m.remoteListener, err = xnet.ListenAddr(m.config.RemoteAPI)
	if err != nil {
		return errors.Wrap(err, "failed to listen on the remote API address")
	}
	if m.config.MetricsAddr != "" {
		m.metricsListener, err = net.Listen("tcp", m.config.MetricsAddr)
		if err != nil {
			return errors.Wrap(err, "failed to listen on the metrics address")
		}
	}
	return nil
}

func (m *Manager) closeListeners() {
	for _, l := range []net.Listener{m.controlListener, m.remoteListener, m.metricsListener} {
		if l != nil {
			l.Close()
		}
	}
}

// ControlAddr returns the address the control API listens on.
func (m *Manager) ControlAddr() net.Addr {
	return m.controlListener.Addr()
}

// RemoteAddr returns the address agents connect to.
func (m *Manager) RemoteAddr() net.Addr {
	return m.remoteListener.Addr()
}

// MetricsAddr returns the address of the metrics endpoint, or nil when it
// is disabled.
func (m *Manager) MetricsAddr() net.Addr {
	if m.metricsListener == nil {
		return nil
	}
	return m.metricsListener.Addr()
}

// Run starts all manager sub-systems and serves the configured addresses.
// The call never returns unless an error occurs, the context is cancelled
// or `Stop()` is called.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("manager: already running")
	}
	m.started = true
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := m.dispatcher.Run(ctx); err != nil {
			log.G(ctx).WithError(err).Error("dispatcher exited with an error")
		}
	}()
	go func() {
		if err := m.collector.Run(ctx); err != nil {
			log.G(ctx).WithError(err).Error("collector exited with an error")
		}
	}()

	errs := make(chan error, 3)
	serve := func(name string, l net.Listener, fn func(net.Listener) error) {
		log.G(ctx).WithFields(logrus.Fields{
			"api":   name,
			"proto": l.Addr().Network(),
			"addr":  l.Addr().String(),
		}).Info("listening")
		errs <- errors.Wrapf(fn(l), "%s API", name)
	}
	go serve("control", m.controlListener, m.controlServer.Serve)
	go serve("remote", m.remoteListener, m.remoteServer.Serve)
	if m.metricsServer != nil {
		go serve("metrics", m.metricsListener, m.metricsServer.Serve)
	}

	var err error
	select {
	case err = <-errs:
		select {
		case <-m.stopped:
			// servers return an error once they are stopped
			err = nil
		default:
		}
	case <-m.stopped:
	case <-ctx.Done():
		err = ctx.Err()
	}
	m.Stop()
	return err
}

// Stop stops the manager. It immediately closes all open connections and
// active RPCs, then closes the state database.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopped)

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if started {
			m.collector.Stop()
		}
		m.dispatcher.Stop()
		m.controlServer.Stop()
		m.remoteServer.Stop()
		if m.metricsServer != nil {
			m.metricsServer.Close()
		}
		m.closeListeners()

		m.store.Close()
		if err := m.storage.Close(); err != nil {
			log.L.WithError(err).Error("failed to close state database")
		}
	})
}
