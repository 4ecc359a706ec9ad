package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moby/fdbkit/api"
)

func TestDesiredRules(t *testing.T) {
	gre := entry("b4", "s2", "a3", "FA:16:3E:00:00:04", "192.168.0.3")
	gre.Location.NetworkType = api.NetworkTypeGRE
	gre.Location.SegmentationID = 200

	rules := DesiredRules("a1", map[string][]*api.ForwardingEntry{
		"s1": {
			entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2"),
			entry("b2", "s1", "a3", "fa:16:3e:00:00:02", "192.168.0.3"),
			entry("b3", "s1", "a3", "fa:16:3e:00:00:03", "192.168.0.3"),
			// local port
			entry("b5", "s1", "a1", "fa:16:3e:00:00:05", "192.168.0.1"),
		},
		"s2": {gre},
	})

	var keys []string
	for _, r := range rules {
		keys = append(keys, r.Key())
	}
	assert.Equal(t, []string{
		"1/gre/200//192.168.0.3",
		"1/vxlan/100//192.168.0.2,192.168.0.3",
		"2/gre/200/fa:16:3e:00:00:04/192.168.0.3",
		"2/vxlan/100/fa:16:3e:00:00:01/192.168.0.2",
		"2/vxlan/100/fa:16:3e:00:00:02/192.168.0.3",
		"2/vxlan/100/fa:16:3e:00:00:03/192.168.0.3",
	}, keys)

	assert.True(t, rules[0].Flood())
	assert.False(t, rules[2].Flood())
}

func TestDesiredRulesLocalOnly(t *testing.T) {
	rules := DesiredRules("a1", map[string][]*api.ForwardingEntry{
		"s1": {entry("b5", "s1", "a1", "fa:16:3e:00:00:05", "192.168.0.1")},
		"s2": nil,
	})
	assert.Empty(t, rules)
}

func TestRuleMatchIgnoresOutput(t *testing.T) {
	a := Rule{Priority: PriorityFlood, NetworkType: api.NetworkTypeVXLAN, SegmentationID: 100, TunnelIPs: []string{"192.168.0.2"}}
	b := a
	b.TunnelIPs = []string{"192.168.0.2", "192.168.0.3"}

	require.Equal(t, a.Match(), b.Match())
	assert.NotEqual(t, a.Key(), b.Key())
}
