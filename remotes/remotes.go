// Package remotes chooses which manager an agent talks to. Each manager
// address carries a weight that follows the agent's recent experience with
// it, and selection is random in proportion to those weights.
package remotes

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var errRemotesUnavailable = errors.New("no remote hosts provided")

// DefaultObservationWeight provides a weight to use for positive observations
// that will balance well under repeated observations.
const DefaultObservationWeight = 10

// Remotes keeps track of remote addresses by weight, informed by
// observations.
type Remotes interface {
	// Weights returns the remotes with their current weights.
	Weights() map[string]int

	// Select a remote from the set of available remotes with optionally
	// excluding ID or address.
	Select(...string) (string, error)

	// Observe records an experience with a particular remote. A positive weight
	// indicates a good experience and a negative weight a bad experience.
	//
	// The observation is folded into a moving weight, so a run of recent
	// observations outweighs older ones.
	Observe(addr string, weight int)

	// ObserveIfExists records an experience with a particular remote if when a
	// remote exists.
	ObserveIfExists(addr string, weight int)

	// Remove the remote from the list completely.
	Remove(addrs ...string)
}

// NewRemotes returns a Remotes instance with the provided set of addresses.
// Entries provided are heavily weighted initially.
func NewRemotes(addrs ...string) Remotes {
	mwr := &remotesWeightedRandom{
		remotes: make(map[string]int),
	}

	for _, addr := range addrs {
		mwr.Observe(addr, DefaultObservationWeight)
	}

	return mwr
}

type remotesWeightedRandom struct {
	remotes map[string]int
	mu      sync.Mutex

	// workspace to avoid reallocation. these get lazily allocated when
	// selecting values.
	cdf   []float64
	addrs []string
}

func (mwr *remotesWeightedRandom) Weights() map[string]int {
	mwr.mu.Lock()
	defer mwr.mu.Unlock()

	ms := make(map[string]int, len(mwr.remotes))
	for addr, weight := range mwr.remotes {
		ms[addr] = weight
	}

	return ms
}

func (mwr *remotesWeightedRandom) Select(excludes ...string) (string, error) {
	mwr.mu.Lock()
	defer mwr.mu.Unlock()

	// Weighted random selection: build the cumulative distribution of the
	// weights and binary search a uniform sample in it.

	// bias to zero-weighted remotes have same probability. otherwise, we
	// always select first entry when all are zero.
	const bias = 0.001

	// clear out workspace
	mwr.cdf = mwr.cdf[:0]
	mwr.addrs = mwr.addrs[:0]

	cum := 0.0
	// calculate CDF over weights
Loop:
	for addr, weight := range mwr.remotes {
		for _, exclude := range excludes {
			if addr == exclude {
				continue Loop
			}
		}
		if weight < 0 {
			// treat these as zero, to keep there selection unlikely.
			weight = 0
		}

		cum += float64(weight) + bias
		mwr.cdf = append(mwr.cdf, cum)
		mwr.addrs = append(mwr.addrs, addr)
	}

	if len(mwr.addrs) == 0 {
		return "", errRemotesUnavailable
	}

	r := mwr.cdf[len(mwr.cdf)-1] * rand.Float64()
	i := sort.SearchFloat64s(mwr.cdf, r)

	return mwr.addrs[i], nil
}

func (mwr *remotesWeightedRandom) Observe(addr string, weight int) {
	mwr.mu.Lock()
	defer mwr.mu.Unlock()

	mwr.observe(addr, weight)
}

func (mwr *remotesWeightedRandom) ObserveIfExists(addr string, weight int) {
	mwr.mu.Lock()
	defer mwr.mu.Unlock()

	if _, ok := mwr.remotes[addr]; !ok {
		return
	}

	mwr.observe(addr, weight)
}

func (mwr *remotesWeightedRandom) Remove(addrs ...string) {
	mwr.mu.Lock()
	defer mwr.mu.Unlock()

	for _, addr := range addrs {
		delete(mwr.remotes, addr)
	}
}

const (
	// remoteWeightSmoothingFactor for exponential smoothing. This adjusts how
	// much of the observation and old value we are using to calculate the new
	// value.
	remoteWeightSmoothingFactor = 0.5
	remoteWeightMax             = 1 << 8
)

func clip(x float64) float64 {
	if math.IsNaN(x) {
		// treat garbage as such
		// acts like a no-op for us.
		return 0
	}
	return math.Max(math.Min(remoteWeightMax, x), -remoteWeightMax)
}

func (mwr *remotesWeightedRandom) observe(addr string, weight int) {
	// makes the math easier to read below
	var (
		w0 = float64(mwr.remotes[addr])
		w1 = clip(float64(weight))
	)
	const α = remoteWeightSmoothingFactor

	// Multiply the new value to current value, and appy smoothing against the old
	// value.
	wn := clip(α*w1 + (1-α)*w0)

	mwr.remotes[addr] = int(math.Ceil(wn))
}
