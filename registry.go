package sqlbuild

import (
	"fmt"
	"sync"
)

// Registry resolves table names to table descriptors. Registration is
// expected to happen once at table definition time; lookups are safe for
// concurrent use after that. Registering a name twice is detected and
// rejected, never silently overwritten.
type Registry struct {
	mutex  sync.RWMutex
	tables map[string]*Table
}

// NewRegistry returns an empty table registry.
func NewRegistry() *Registry {
	return &Registry{tables: map[string]*Table{}}
}

// Register adds the table to the registry and binds the table's dotted
// reference resolution to it.
func (r *Registry) Register(t *Table) error {
	if t == nil {
		return invalidArgumentError("cannot register nil table")
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.tables[t.name]; ok {
		return fmt.Errorf("%w under name %q", ErrAlreadyRegistered, t.name)
	}
	r.tables[t.name] = t
	t.registry = r
	return nil
}

// Lookup resolves a table name to its descriptor.
func (r *Registry) Lookup(name string) (*Table, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w under name %q", ErrNotRegistered, name)
	}
	return t, nil
}

// defaultRegistry is the process-wide registry used by tables that were not
// registered anywhere else.
var defaultRegistry = NewRegistry()

// Register adds the table to the process-wide default registry.
func Register(t *Table) error {
	return defaultRegistry.Register(t)
}

// Lookup resolves a table name in the process-wide default registry.
func Lookup(name string) (*Table, error) {
	return defaultRegistry.Lookup(name)
}

// DefaultRegistry returns the process-wide default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
