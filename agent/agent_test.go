package agent

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	bolt "go.etcd.io/bbolt"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/connectionbroker"
	"github.com/moby/fdbkit/manager/dispatcher"
	"github.com/moby/fdbkit/manager/state/store"
	"github.com/moby/fdbkit/remotes"
	"github.com/moby/fdbkit/xnet"
)

const resyncInterval = time.Minute

var _ = Describe("Agent", func() {
	var (
		dir  string
		addr string

		st         *store.MemoryStore
		d          *dispatcher.Dispatcher
		server     *grpc.Server
		stopServer context.CancelFunc

		clk   *fakeclock.FakeClock
		prog  *fakeProgrammer
		db    *bolt.DB
		agent *Agent

		runErr chan error
	)

	createBinding := func(id, port, agentID string) {
		Expect(st.Update(func(tx store.Tx) error {
			return store.CreateBinding(tx, &api.Binding{ID: id, PortID: port, SegmentID: "s1", AgentID: agentID})
		})).To(Succeed())
	}

	deleteBinding := func(id string) {
		Expect(st.Update(func(tx store.Tx) error {
			return store.DeleteBinding(tx, id)
		})).To(Succeed())
	}

	startAgent := func() {
		var err error
		agent, err = New(&Config{
			ID:             "a1",
			ConnBroker:     connectionbroker.New(remotes.NewRemotes(addr)),
			Segments:       []string{"s1"},
			Programmer:     prog,
			DB:             db,
			ResyncInterval: resyncInterval,
			Clock:          clk,
		})
		Expect(err).ToNot(HaveOccurred())

		runErr = make(chan error, 1)
		go func() {
			runErr <- agent.Run(context.Background())
		}()
	}

	stopAgent := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		Expect(agent.Stop(ctx)).To(Succeed())
		Eventually(runErr).Should(Receive(BeNil()))
	}

	// ready waits for the first resync, moving the clock so that session
	// backoffs elapse.
	ready := func() {
		Eventually(func() bool {
			select {
			case <-agent.Ready():
				return true
			default:
				clk.Increment(maxSessionFailureBackoff)
				return false
			}
		}, 10*time.Second).Should(BeTrue())
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "fdb-agent-")
		Expect(err).ToNot(HaveOccurred())
		addr = "unix://" + filepath.Join(dir, "dispatcher.sock")

		st = store.NewMemoryStore(nil)
		Expect(st.Update(func(tx store.Tx) error {
			for _, p := range []*api.Port{
				{ID: "p1", MACAddress: "fa:16:3e:00:00:01"},
				{ID: "p2", MACAddress: "fa:16:3e:00:00:02"},
				{ID: "p3", MACAddress: "fa:16:3e:00:00:03"},
			} {
				if err := store.CreatePort(tx, p); err != nil {
					return err
				}
			}
			if err := store.CreateSegment(tx, &api.Segment{ID: "s1", NetworkType: api.NetworkTypeVXLAN, SegmentationID: 100}); err != nil {
				return err
			}
			for _, a := range []*api.Agent{
				{ID: "a1", Host: "host1", TunnelIP: "192.168.0.1"},
				{ID: "a2", Host: "host2", TunnelIP: "192.168.0.2"},
				{ID: "a3", Host: "host3", TunnelIP: "192.168.0.3"},
			} {
				if err := store.CreateAgent(tx, a); err != nil {
					return err
				}
			}
			return nil
		})).To(Succeed())
		createBinding("b1", "p1", "a2")
		createBinding("b3", "p3", "a1")

		// The dispatcher keeps its own clock so sessions never expire.
		cfg := dispatcher.DefaultConfig()
		cfg.Clock = fakeclock.NewFakeClock(time.Now())
		d = dispatcher.New(st, cfg)
		var ctx context.Context
		ctx, stopServer = context.WithCancel(context.Background())
		go d.Run(ctx)

		l, err := xnet.ListenAddr(addr)
		Expect(err).ToNot(HaveOccurred())
		server = grpc.NewServer()
		api.RegisterDispatcherServer(server, d)
		go server.Serve(l)

		db, err = bolt.Open(filepath.Join(dir, "fdb.db"), 0600, nil)
		Expect(err).ToNot(HaveOccurred())

		clk = fakeclock.NewFakeClock(time.Now())
		prog = newFakeProgrammer()
	})

	AfterEach(func() {
		server.Stop()
		stopServer()
		d.Stop()
		st.Close()
		db.Close()
		os.RemoveAll(dir)
	})

	When("the agent starts", func() {
		JustBeforeEach(func() {
			startAgent()
			ready()
		})

		AfterEach(func() {
			stopAgent()
		})

		It("should program the remote ports of its segments", func() {
			Expect(prog.Keys()).To(Equal([]string{
				"1/vxlan/100//192.168.0.2",
				"2/vxlan/100/fa:16:3e:00:00:01/192.168.0.2",
			}))
			Expect(agent.Entries("s1")).To(HaveLen(2))
		})

		It("should follow bindings as they are created and removed", func() {
			createBinding("b2", "p2", "a3")
			Eventually(prog.Keys).Should(Equal([]string{
				"1/vxlan/100//192.168.0.2,192.168.0.3",
				"2/vxlan/100/fa:16:3e:00:00:01/192.168.0.2",
				"2/vxlan/100/fa:16:3e:00:00:02/192.168.0.3",
			}))

			deleteBinding("b1")
			Eventually(prog.Keys).Should(Equal([]string{
				"1/vxlan/100//192.168.0.3",
				"2/vxlan/100/fa:16:3e:00:00:02/192.168.0.3",
			}))
		})

		It("should repair its table on the periodic resync", func() {
			bogus := entry("bogus", "s1", "a3", "fa:16:3e:00:00:99", "192.168.0.3")
			changed, err := agent.table.Apply(added(bogus, 1000))
			Expect(err).ToNot(HaveOccurred())
			Expect(changed).To(BeTrue())

			Eventually(func() []*api.ForwardingEntry {
				clk.Increment(resyncInterval)
				return agent.Entries("s1")
			}).Should(HaveLen(2))
			Eventually(prog.Keys).Should(HaveLen(2))
		})
	})

	When("the managers are unreachable", func() {
		It("should program the persisted table", func() {
			startAgent()
			ready()
			stopAgent()

			prog = newFakeProgrammer()
			addr = "unix://" + filepath.Join(dir, "nobody.sock")
			startAgent()
			Eventually(prog.Keys).Should(Equal([]string{
				"1/vxlan/100//192.168.0.2",
				"2/vxlan/100/fa:16:3e:00:00:01/192.168.0.2",
			}))
			Consistently(agent.Ready()).ShouldNot(BeClosed())
			stopAgent()
		})

		It("should drop what changed while it was away once it resyncs", func() {
			startAgent()
			ready()
			stopAgent()

			// None of these reach the agent.
			createBinding("b2", "p2", "a3")
			deleteBinding("b2")
			deleteBinding("b1")

			prog = newFakeProgrammer()
			startAgent()
			ready()
			Eventually(func() []string {
				var ids []string
				for _, e := range agent.Entries("s1") {
					ids = append(ids, e.Binding.ID)
				}
				return ids
			}).Should(Equal([]string{"b3"}))
			Eventually(prog.Keys).Should(BeEmpty())
			stopAgent()
		})
	})

	It("should refuse to run twice", func() {
		startAgent()
		Eventually(agent.started).Should(BeClosed())
		Expect(agent.Run(context.Background())).To(MatchError(errAgentStarted))
		stopAgent()
	})
})
