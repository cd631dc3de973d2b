package ephem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-orbits/internal/export"
	"github.com/litescript/ls-orbits/kepler"
)

// PathCacheTTL is how long to cache a path before re-evaluating it.
const PathCacheTTL = 5 * time.Minute

// ErrUnknownOrbit is returned for an orbit the provider was not given.
var ErrUnknownOrbit = errors.New("unknown orbit")

// KeplerProvider evaluates Keplerian element sets.
type KeplerProvider struct {
	workers int
	now     func() time.Time

	mu        sync.RWMutex
	orbits    map[string]orbitEntry
	gen       uint64
	pathCache map[pathKey]*cachedPath
}

// orbitEntry is a registered orbit; gen changes on every Add.
type orbitEntry struct {
	el  kepler.Elements[float64]
	gen uint64
}

type pathKey struct {
	name       string
	start, end float64
	n          int
}

// cachedPath stores an evaluated path.
type cachedPath struct {
	path        Path
	gen         uint64
	evaluatedAt time.Time
}

// NewKeplerProvider creates a provider that evaluates paths with the given
// number of worker goroutines (0 = GOMAXPROCS).
func NewKeplerProvider(workers int) *KeplerProvider {
	return &KeplerProvider{
		workers:   workers,
		now:       time.Now,
		orbits:    make(map[string]orbitEntry),
		pathCache: make(map[pathKey]*cachedPath),
	}
}

// Name implements Provider.
func (p *KeplerProvider) Name() string {
	return "Kepler"
}

// Add registers el under name, replacing any previous orbit of that name
// and dropping its cached paths.
func (p *KeplerProvider) Add(name string, el kepler.Elements[float64]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.orbits[name] = orbitEntry{el: el, gen: p.gen}
	for k := range p.pathCache {
		if k.name == name {
			delete(p.pathCache, k)
		}
	}
}

// Available implements Provider.
func (p *KeplerProvider) Available(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.orbits[name]
	return ok
}

// Path implements Provider.
// Returns a cached path if available, otherwise evaluates the orbit.
func (p *KeplerProvider) Path(ctx context.Context, name string, start, end float64, n int) (Path, error) {
	if n < 1 {
		return Path{}, fmt.Errorf("path needs at least one epoch, got %d", n)
	}
	key := pathKey{name: name, start: start, end: end, n: n}

	p.mu.RLock()
	entry, ok := p.orbits[name]
	cached, hit := p.pathCache[key]
	p.mu.RUnlock()

	if !ok {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownOrbit, name)
	}
	if hit && cached.gen == entry.gen && p.now().Sub(cached.evaluatedAt) < PathCacheTTL {
		return cached.path, nil
	}

	times := export.SampleTimes(start, end, n)
	sols, err := kepler.SolveBatch(ctx, entry.el, times, p.workers)
	if err != nil {
		return Path{}, fmt.Errorf("orbit %q: %w", name, err)
	}
	path := Path{Name: name, Times: times, Solutions: sols}
	evaluatedAt := p.now()

	// Only cache if the orbit was not replaced while evaluating.
	p.mu.Lock()
	if cur, ok := p.orbits[name]; ok && cur.gen == entry.gen {
		p.pathCache[key] = &cachedPath{path: path, gen: entry.gen, evaluatedAt: evaluatedAt}
	}
	p.mu.Unlock()

	return path, nil
}

// InvalidateCache drops every cached path.
func (p *KeplerProvider) InvalidateCache() {
	p.mu.Lock()
	p.pathCache = make(map[pathKey]*cachedPath)
	p.mu.Unlock()
}
