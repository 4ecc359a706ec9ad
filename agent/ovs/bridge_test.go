package ovs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moby/fdbkit/agent"
	"github.com/moby/fdbkit/api"
)

type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	flows    []string
	ofport   int
	failing  string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd := name + " " + strings.Join(args, " ")
	r.commands = append(r.commands, cmd)
	if r.failing != "" && strings.Contains(cmd, r.failing) {
		return "", errors.New("exit status 1")
	}

	switch {
	case name == "ovs-vsctl" && args[len(args)-1] == "ofport":
		r.ofport++
		return strconv.Itoa(r.ofport) + "\n", nil
	case name == "ovs-ofctl" && args[0] == "add-flows":
		data, err := os.ReadFile(args[2])
		if err != nil {
			return "", err
		}
		r.flows = append(r.flows, string(data))
	}
	return "", nil
}

func (r *fakeRunner) reset() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	commands := r.commands
	r.commands = nil
	return commands
}

func newTestBridge(t *testing.T) (*Bridge, *fakeRunner) {
	runner := &fakeRunner{}
	b, err := New(Config{FlowDir: t.TempDir(), Runner: runner})
	require.NoError(t, err)
	return b, runner
}

func unicast(mac, ip string) agent.Rule {
	return agent.Rule{
		Priority:       agent.PriorityUnicast,
		NetworkType:    api.NetworkTypeVXLAN,
		SegmentationID: 100,
		DestinationMAC: mac,
		TunnelIPs:      []string{ip},
	}
}

func flood(ips ...string) agent.Rule {
	return agent.Rule{
		Priority:       agent.PriorityFlood,
		NetworkType:    api.NetworkTypeVXLAN,
		SegmentationID: 100,
		TunnelIPs:      ips,
	}
}

func TestTunnelPortName(t *testing.T) {
	assert.Equal(t, "vxlan-c0a80002", tunnelPort{networkType: "vxlan", remoteIP: "192.168.0.2"}.Name())
	assert.Equal(t, "gre-0a000001", tunnelPort{networkType: "gre", remoteIP: "10.0.0.1"}.Name())

	name := tunnelPort{networkType: "geneve", remoteIP: "fd00::2"}.Name()
	assert.True(t, strings.HasPrefix(name, "geneve-"))
	assert.LessOrEqual(t, len(name), 15)
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	b, runner := newTestBridge(t)

	require.NoError(t, b.Install(ctx, []agent.Rule{
		flood("192.168.0.2", "192.168.0.3"),
		unicast("FA:16:3E:00:00:01", "192.168.0.2"),
	}))

	commands := runner.reset()
	require.Len(t, commands, 5)
	assert.Equal(t, "ovs-vsctl --timeout=10 -- --may-exist add-port br-tun vxlan-c0a80002 -- set Interface vxlan-c0a80002 "+
		"type=vxlan options:remote_ip=192.168.0.2 options:in_key=flow options:out_key=flow", commands[0])
	assert.Equal(t, "ovs-vsctl --timeout=10 get Interface vxlan-c0a80002 ofport", commands[1])
	assert.Contains(t, commands[2], "add-port br-tun vxlan-c0a80003")
	assert.True(t, strings.HasPrefix(commands[4], "ovs-ofctl add-flows br-tun "))

	require.Len(t, runner.flows, 1)
	assert.Equal(t,
		"hard_timeout=0,idle_timeout=0,table=20,priority=1,reg6=1,reg7=100,actions=set_tunnel:100,output:1,output:2\n"+
			"hard_timeout=0,idle_timeout=0,table=20,priority=2,reg6=1,reg7=100,dl_dst=fa:16:3e:00:00:01,actions=set_tunnel:100,output:1\n",
		runner.flows[0])

	// ports are created once
	require.NoError(t, b.Install(ctx, []agent.Rule{unicast("fa:16:3e:00:00:02", "192.168.0.3")}))
	commands = runner.reset()
	require.Len(t, commands, 1)
	assert.Equal(t,
		"hard_timeout=0,idle_timeout=0,table=20,priority=2,reg6=1,reg7=100,dl_dst=fa:16:3e:00:00:02,actions=set_tunnel:100,output:2\n",
		runner.flows[1])
}

func TestRemoveCollectsPorts(t *testing.T) {
	ctx := context.Background()
	b, runner := newTestBridge(t)

	require.NoError(t, b.Install(ctx, []agent.Rule{
		flood("192.168.0.2", "192.168.0.3"),
		unicast("fa:16:3e:00:00:01", "192.168.0.2"),
		unicast("fa:16:3e:00:00:02", "192.168.0.3"),
	}))
	runner.reset()

	// The flood rule still reaches .2
	require.NoError(t, b.Remove(ctx, []agent.Rule{unicast("fa:16:3e:00:00:01", "192.168.0.2")}))
	assert.Equal(t, []string{
		"ovs-ofctl --strict del-flows br-tun table=20,priority=2,reg6=1,reg7=100,dl_dst=fa:16:3e:00:00:01",
	}, runner.reset())

	require.NoError(t, b.Install(ctx, []agent.Rule{flood("192.168.0.3")}))
	commands := runner.reset()
	require.Len(t, commands, 2)
	assert.Equal(t, "ovs-vsctl --timeout=10 -- --if-exists del-port br-tun vxlan-c0a80002", commands[1])
}

func TestInstallFailure(t *testing.T) {
	ctx := context.Background()
	b, runner := newTestBridge(t)
	runner.failing = "add-flows"

	assert.Error(t, b.Install(ctx, []agent.Rule{unicast("fa:16:3e:00:00:01", "192.168.0.2")}))

	// nothing was recorded as installed, so the port goes on the next removal
	runner.failing = ""
	require.NoError(t, b.Remove(ctx, nil))
	commands := runner.reset()
	assert.Equal(t, "ovs-vsctl --timeout=10 -- --if-exists del-port br-tun vxlan-c0a80002", commands[len(commands)-1])
}

func TestUnsupportedNetworkType(t *testing.T) {
	b, _ := newTestBridge(t)
	rule := unicast("fa:16:3e:00:00:01", "192.168.0.2")
	rule.NetworkType = "vlan"
	assert.Error(t, b.Install(context.Background(), []agent.Rule{rule}))
}
