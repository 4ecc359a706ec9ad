// Package ovs programs forwarding rules into an Open vSwitch tunnel bridge.
package ovs

import (
	"context"
	"fmt"
	"hash/crc32"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/moby/fdbkit/agent"
	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/ioutils"
	"github.com/moby/fdbkit/log"
)

const (
	// DefaultBridge is the tunnel bridge used when none is configured.
	DefaultBridge = "br-tun"

	vsctlTimeout = "--timeout=10"

	// flowTable holds the tunnel output flows. Unicast flows take
	// precedence over the flood flow of their segment by priority.
	flowTable = 20
)

var networkTypeCodes = map[string]int{
	api.NetworkTypeVXLAN:  1,
	api.NetworkTypeGRE:    2,
	api.NetworkTypeGeneve: 3,
}

// Config configures a Bridge.
type Config struct {
	// Bridge is the tunnel bridge name.
	Bridge string
	// FlowDir holds the flow files handed to ovs-ofctl.
	FlowDir string
	Runner  Runner
}

type tunnelPort struct {
	networkType string
	remoteIP    string
}

// Name returns the OVS port name of the tunnel, short enough for an
// interface name.
func (p tunnelPort) Name() string {
	prefix := p.networkType
	if ip := net.ParseIP(p.remoteIP).To4(); ip != nil {
		return fmt.Sprintf("%s-%02x%02x%02x%02x", prefix, ip[0], ip[1], ip[2], ip[3])
	}
	return fmt.Sprintf("%s-%08x", prefix, crc32.ChecksumIEEE([]byte(p.remoteIP)))
}

// Bridge programs rules as OpenFlow flows on a tunnel bridge. Each remote
// tunnel endpoint gets one tunnel port per network type, created on first
// use and deleted once no flow outputs to it.
type Bridge struct {
	name    string
	flowDir string
	runner  Runner

	mu    sync.Mutex
	ports map[tunnelPort]int
	rules map[string]agent.Rule
}

// New returns a Bridge.
func New(c Config) (*Bridge, error) {
	if c.FlowDir == "" {
		return nil, errors.New("ovs: flow directory required")
	}
	if err := os.MkdirAll(c.FlowDir, 0700); err != nil {
		return nil, err
	}
	if c.Bridge == "" {
		c.Bridge = DefaultBridge
	}
	if c.Runner == nil {
		c.Runner = ExecRunner{}
	}
	return &Bridge{
		name:    c.Bridge,
		flowDir: c.FlowDir,
		runner:  c.Runner,
		ports:   make(map[tunnelPort]int),
		rules:   make(map[string]agent.Rule),
	}, nil
}

var _ agent.Programmer = &Bridge{}

// Install adds or replaces the flows of rules in one ovs-ofctl call.
func (b *Bridge) Install(ctx context.Context, rules []agent.Rule) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var flows strings.Builder
	for _, rule := range rules {
		var ofports []int
		for _, ip := range rule.TunnelIPs {
			ofport, err := b.ensurePort(ctx, tunnelPort{networkType: rule.NetworkType, remoteIP: ip})
			if err != nil {
				return err
			}
			ofports = append(ofports, ofport)
		}
		match, err := flowMatch(rule)
		if err != nil {
			return err
		}
		flows.WriteString("hard_timeout=0,idle_timeout=0,")
		flows.WriteString(match)
		flows.WriteString(",actions=")
		flows.WriteString(flowActions(rule, ofports))
		flows.WriteString("\n")
	}

	path := filepath.Join(b.flowDir, b.name+".flows")
	if err := ioutils.AtomicWriteFile(path, []byte(flows.String()), 0600); err != nil {
		return errors.Wrap(err, "ovs: failed to write flows")
	}
	if _, err := b.runner.Run(ctx, "ovs-ofctl", "add-flows", b.name, path); err != nil {
		return err
	}
	for _, rule := range rules {
		b.rules[rule.Match()] = rule
	}

	log.G(ctx).WithFields(logrus.Fields{
		"bridge": b.name,
		"flows":  len(rules),
	}).Debug("ovs: flows installed")
	return b.collectPorts(ctx)
}

// Remove deletes the flows of rules, then the tunnel ports left unused.
func (b *Bridge) Remove(ctx context.Context, rules []agent.Rule) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rule := range rules {
		match, err := flowMatch(rule)
		if err != nil {
			return err
		}
		if _, err := b.runner.Run(ctx, "ovs-ofctl", "--strict", "del-flows", b.name, match); err != nil {
			return err
		}
		delete(b.rules, rule.Match())
	}
	return b.collectPorts(ctx)
}

func (b *Bridge) ensurePort(ctx context.Context, p tunnelPort) (int, error) {
	if ofport, ok := b.ports[p]; ok {
		return ofport, nil
	}

	name := p.Name()
	_, err := b.runner.Run(ctx, "ovs-vsctl", vsctlTimeout,
		"--", "--may-exist", "add-port", b.name, name,
		"--", "set", "Interface", name,
		"type="+p.networkType,
		"options:remote_ip="+p.remoteIP,
		"options:in_key=flow",
		"options:out_key=flow")
	if err != nil {
		return 0, err
	}

	out, err := b.runner.Run(ctx, "ovs-vsctl", vsctlTimeout, "get", "Interface", name, "ofport")
	if err != nil {
		return 0, err
	}
	ofport, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || ofport <= 0 {
		return 0, errors.Errorf("ovs: port %s has no ofport (%q)", name, strings.TrimSpace(out))
	}

	log.G(ctx).WithFields(logrus.Fields{
		"port":      name,
		"remote_ip": p.remoteIP,
		"ofport":    ofport,
	}).Info("ovs: tunnel port added")
	b.ports[p] = ofport
	return ofport, nil
}

func (b *Bridge) collectPorts(ctx context.Context) error {
	used := make(map[tunnelPort]struct{})
	for _, rule := range b.rules {
		for _, ip := range rule.TunnelIPs {
			used[tunnelPort{networkType: rule.NetworkType, remoteIP: ip}] = struct{}{}
		}
	}

	var unused []tunnelPort
	for p := range b.ports {
		if _, ok := used[p]; !ok {
			unused = append(unused, p)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name() < unused[j].Name() })

	for _, p := range unused {
		if _, err := b.runner.Run(ctx, "ovs-vsctl", vsctlTimeout, "--", "--if-exists", "del-port", b.name, p.Name()); err != nil {
			return err
		}
		delete(b.ports, p)
	}
	return nil
}

// flowMatch renders the match of a rule. reg6 carries the network type and
// reg7 the segmentation ID of the packet's segment.
func flowMatch(rule agent.Rule) (string, error) {
	code, ok := networkTypeCodes[rule.NetworkType]
	if !ok {
		return "", errors.Errorf("ovs: unsupported network type %q", rule.NetworkType)
	}
	if rule.Flood() {
		return fmt.Sprintf("table=%d,priority=%d,reg6=%d,reg7=%d",
			flowTable, rule.Priority, code, rule.SegmentationID), nil
	}
	return fmt.Sprintf("table=%d,priority=%d,reg6=%d,reg7=%d,dl_dst=%s",
		flowTable, rule.Priority, code, rule.SegmentationID, strings.ToLower(rule.DestinationMAC)), nil
}

func flowActions(rule agent.Rule, ofports []int) string {
	actions := []string{fmt.Sprintf("set_tunnel:%d", rule.SegmentationID)}
	for _, ofport := range ofports {
		actions = append(actions, fmt.Sprintf("output:%d", ofport))
	}
	return strings.Join(actions, ",")
}
