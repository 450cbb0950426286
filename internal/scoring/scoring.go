// Package scoring provides the burnout score function injected into the
// simulator. The real scorer belongs to the prediction component; Default is
// a pure stand-in on the canonical scale.
package scoring

import (
	"math"
	"sync"

	"burnsim/internal/wellness"
)

// Func maps a canonical-scale state to a 0..100 burnout score. It must be
// pure and safe for concurrent use.
type Func func(s wellness.State) float64

const (
	stressWeight   = 40
	workloadWeight = 30
	sleepWeight    = 20
	coffeeWeight   = 10

	// RestedSleep is the sleep level below which a deficit is scored.
	RestedSleep = 8.0
)

// Default is a weighted burnout index:
// 40*stress/10 + 30*workload/10 + 20*max(0, 8-sleep)/8 + 10*coffee/10.
func Default(s wellness.State) float64 {
	s = s.Clamp()
	deficit := math.Max(0, RestedSleep-s.Sleep) / RestedSleep
	score := stressWeight*s.Stress/wellness.StressRange.Max +
		workloadWeight*s.Workload/wellness.WorkloadRange.Max +
		sleepWeight*deficit +
		coffeeWeight*s.Coffee/wellness.CoffeeRange.Max
	return math.Max(0, math.Min(100, score))
}

// Memoize caches fn on exact state values. It suits expensive scorers fed
// with repeated states (noise-free runs, plateaued trajectories); cache hits
// return the same float the first call produced.
func Memoize(fn Func) Func {
	var cache sync.Map
	return func(s wellness.State) float64 {
		if v, ok := cache.Load(s); ok {
			return v.(float64)
		}
		v := fn(s)
		cache.Store(s, v)
		return v
	}
}
