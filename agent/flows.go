package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moby/fdbkit/api"
)

// Flow priorities. A unicast rule always wins over the flood rule of its
// segment.
const (
	PriorityUnicast = 2
	PriorityFlood   = 1
)

// Rule is one tunnel forwarding rule derived from the forwarding table.
type Rule struct {
	Priority       int
	NetworkType    string
	SegmentationID uint32
	// DestinationMAC is empty for flood rules.
	DestinationMAC string
	// TunnelIPs holds the single endpoint of a unicast rule, or every
	// remote endpoint of the segment for a flood rule, sorted.
	TunnelIPs []string
}

// Match identifies the traffic a rule applies to. The dataplane holds at
// most one rule per match.
func (r Rule) Match() string {
	return fmt.Sprintf("%d/%s/%d/%s", r.Priority, r.NetworkType, r.SegmentationID,
		strings.ToLower(r.DestinationMAC))
}

// Key identifies a rule with its output. Two rules with the same key are
// the same flow.
func (r Rule) Key() string {
	return r.Match() + "/" + strings.Join(r.TunnelIPs, ",")
}

// Flood reports whether r is a flood rule.
func (r Rule) Flood() bool {
	return r.DestinationMAC == ""
}

// DesiredRules returns the rules for the given segments' entries, as seen by
// the agent with ID self. Ports bound through self need no tunnel rule.
func DesiredRules(self string, segments map[string][]*api.ForwardingEntry) []Rule {
	var rules []Rule
	for _, entries := range segments {
		var (
			remotes = map[string]struct{}{}
			flood   *Rule
		)
		for _, e := range entries {
			if e.Binding.AgentID == self || e.Location == nil || e.Location.TunnelIP == "" {
				continue
			}
			loc := e.Location
			rules = append(rules, Rule{
				Priority:       PriorityUnicast,
				NetworkType:    loc.NetworkType,
				SegmentationID: loc.SegmentationID,
				DestinationMAC: strings.ToLower(loc.MACAddress),
				TunnelIPs:      []string{loc.TunnelIP},
			})
			if flood == nil {
				flood = &Rule{
					Priority:       PriorityFlood,
					NetworkType:    loc.NetworkType,
					SegmentationID: loc.SegmentationID,
				}
			}
			remotes[loc.TunnelIP] = struct{}{}
		}
		if flood == nil {
			continue
		}
		for ip := range remotes {
			flood.TunnelIPs = append(flood.TunnelIPs, ip)
		}
		sort.Strings(flood.TunnelIPs)
		rules = append(rules, *flood)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Key() < rules[j].Key()
	})
	return rules
}
