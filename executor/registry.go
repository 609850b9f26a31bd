package executor

import "fmt"

// Registry provides fast, indexed access to the registered swap executors.
type Registry struct {
	byProtocol map[Protocol]SwapExecutor
	all        []SwapExecutor
}

// NewRegistry indexes the given executors by protocol.
// Registering two executors for the same protocol is a configuration error.
func NewRegistry(executors ...SwapExecutor) (*Registry, error) {
	byProtocol := make(map[Protocol]SwapExecutor, len(executors))

	for _, e := range executors {
		p := e.Protocol()
		if _, exists := byProtocol[p]; exists {
			return nil, fmt.Errorf("registry: duplicate executor for protocol %s", p)
		}
		byProtocol[p] = e
	}

	return &Registry{
		byProtocol: byProtocol,
		all:        executors,
	}, nil
}

// Get retrieves the executor for a protocol.
func (r *Registry) Get(p Protocol) (SwapExecutor, bool) {
	e, ok := r.byProtocol[p]
	return e, ok
}

// All returns a defensive copy of the slice of all registered executors.
func (r *Registry) All() []SwapExecutor {
	allCopy := make([]SwapExecutor, len(r.all))
	copy(allCopy, r.all)
	return allCopy
}
