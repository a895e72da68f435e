package swapchain

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new SwapChain with the given options.
// Implementations should validate options and return descriptive errors.
type Factory func(opts Options) (SwapChain, error)

// RegistryEntry represents a registered swap chain backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends
	//   - 10: software backends
	Priority int

	// Factory creates chain instances.
	Factory Factory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages registered swap chain backends.
//
// The registry lets platform backends register themselves without changes to
// the core library:
//
//	func init() {
//	    swapchain.Register("wgpu", 100, wgpuFactory, wgpuAvailable)
//	}
//
// Most code auto-selects the best available backend:
//
//	chain, err := swapchain.New(swapchain.Options{Depth: 3})
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry. Most code should use the global
// registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// New creates a chain from the highest-priority available backend in the
// global registry.
func New(opts Options) (SwapChain, error) {
	return globalRegistry.New(opts)
}

// NewByName creates a chain from a specific backend in the global registry.
func NewByName(name string, opts Options) (SwapChain, error) {
	return globalRegistry.NewByName(name, opts)
}

// Available returns names of all available backends sorted by priority
// (highest first).
func Available() []string {
	return globalRegistry.Available()
}

// Register adds a backend to the registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// New creates a chain from the highest-priority available backend.
func (r *Registry) New(opts Options) (SwapChain, error) {
	for _, e := range r.available() {
		chain, err := e.Factory(opts)
		if err == nil {
			return chain, nil
		}
	}
	return nil, ErrNoBackend
}

// NewByName creates a chain from the named backend.
func (r *Registry) NewByName(name string, opts Options) (SwapChain, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return e.Factory(opts)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	entries := r.available()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// available returns available entries sorted by descending priority, with
// name as a deterministic tie-break.
func (r *Registry) available() []*RegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Available == nil || e.Available() {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
