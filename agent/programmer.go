package agent

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/moby/fdbkit/log"
)

// Programmer installs and removes forwarding rules in the dataplane.
type Programmer interface {
	Install(ctx context.Context, rules []Rule) error
	Remove(ctx context.Context, rules []Rule) error
}

// reconciler drives a Programmer towards a desired rule set, touching only
// the rules that differ from what it installed last.
type reconciler struct {
	mu   sync.Mutex
	prog Programmer
	// installed is keyed by Rule.Match.
	installed map[string]Rule
}

func newReconciler(prog Programmer) *reconciler {
	return &reconciler{
		prog:      prog,
		installed: make(map[string]Rule),
	}
}

// Sync installs the rules of desired that are missing and removes installed
// rules that are no longer desired. Syncing the same set twice does nothing
// the second time.
func (r *reconciler) Sync(ctx context.Context, desired []Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]Rule, len(desired))
	for _, rule := range desired {
		want[rule.Match()] = rule
	}

	// A desired rule whose output changed is installed over the old one.
	var stale, missing []Rule
	for match, rule := range r.installed {
		if _, ok := want[match]; !ok {
			stale = append(stale, rule)
		}
	}
	for match, rule := range want {
		if installed, ok := r.installed[match]; !ok || installed.Key() != rule.Key() {
			missing = append(missing, rule)
		}
	}
	if len(stale) == 0 && len(missing) == 0 {
		return nil
	}
	sortRules(stale)
	sortRules(missing)

	log.G(ctx).WithFields(logrus.Fields{
		"install": len(missing),
		"remove":  len(stale),
	}).Debug("programming flows")

	if len(missing) > 0 {
		if err := r.prog.Install(ctx, missing); err != nil {
			programFailures.WithLabelValues("install").Inc()
			return err
		}
		for _, rule := range missing {
			r.installed[rule.Match()] = rule
		}
		installedRules.Set(float64(len(r.installed)))
	}
	if len(stale) > 0 {
		if err := r.prog.Remove(ctx, stale); err != nil {
			programFailures.WithLabelValues("remove").Inc()
			return err
		}
		for _, rule := range stale {
			delete(r.installed, rule.Match())
		}
	}
	installedRules.Set(float64(len(r.installed)))
	return nil
}

func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Key() < rules[j].Key()
	})
}
