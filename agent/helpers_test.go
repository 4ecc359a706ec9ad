package agent

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/api"
)

func openTestDB(t *testing.T) *bolt.DB {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "fdb.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func entry(bindingID, segmentID, agentID, mac, tunnelIP string) *api.ForwardingEntry {
	return &api.ForwardingEntry{
		Binding: &api.Binding{
			ID:        bindingID,
			PortID:    "port-" + bindingID,
			SegmentID: segmentID,
			AgentID:   agentID,
		},
		Location: &api.Location{
			MACAddress:     mac,
			TunnelIP:       tunnelIP,
			NetworkType:    api.NetworkTypeVXLAN,
			SegmentationID: 100,
		},
	}
}

func added(e *api.ForwardingEntry, index uint64) *api.ChangeSet {
	return &api.ChangeSet{
		Kind:      api.ChangeAdded,
		Entry:     e,
		BindingID: e.Binding.ID,
		SegmentID: e.Binding.SegmentID,
		Version:   api.Version{Index: index},
	}
}

func removed(e *api.ForwardingEntry, index uint64) *api.ChangeSet {
	return &api.ChangeSet{
		Kind:      api.ChangeRemoved,
		Entry:     e,
		BindingID: e.Binding.ID,
		SegmentID: e.Binding.SegmentID,
		Version:   api.Version{Index: index},
	}
}

// fakeProgrammer keeps the rules it was asked to install, one per match.
type fakeProgrammer struct {
	mu      sync.Mutex
	rules   map[string]Rule
	calls   int
	failing error
}

func newFakeProgrammer() *fakeProgrammer {
	return &fakeProgrammer{rules: make(map[string]Rule)}
}

func (p *fakeProgrammer) Install(ctx context.Context, rules []Rule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failing != nil {
		return p.failing
	}
	for _, r := range rules {
		p.rules[r.Match()] = r
	}
	return nil
}

func (p *fakeProgrammer) Remove(ctx context.Context, rules []Rule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failing != nil {
		return p.failing
	}
	for _, r := range rules {
		delete(p.rules, r.Match())
	}
	return nil
}

func (p *fakeProgrammer) fail(err error) {
	p.mu.Lock()
	p.failing = err
	p.mu.Unlock()
}

func (p *fakeProgrammer) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Keys returns the keys of the programmed rules, sorted.
func (p *fakeProgrammer) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		keys = append(keys, r.Key())
	}
	sort.Strings(keys)
	return keys
}
