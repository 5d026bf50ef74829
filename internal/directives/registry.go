package directives

import (
	"fmt"
	"sync"
)

// KeySpec describes one recognized directive key
type KeySpec struct {
	Key      string    // key as written
	Kind     Kind      // directive kind produced for the key
	Shape    Shape     // accepted syntactic form
	Contexts []Context // attachment points the key is valid at

	// ForwardElsewhere makes the key pass through as a forwarded directive
	// outside Contexts instead of being rejected
	ForwardElsewhere bool

	// Misplaced is the diagnostic used outside Contexts; %s receives the key
	Misplaced string
}

// AllowedIn reports whether the key is valid at ctx
func (s KeySpec) AllowedIn(ctx Context) bool {
	for _, c := range s.Contexts {
		if c == ctx {
			return true
		}
	}
	return false
}

// MisplacedMessage returns the placement diagnostic for the key
func (s KeySpec) MisplacedMessage() string {
	if s.Misplaced == "" {
		return fmt.Sprintf("unexpected `%s` attribute", s.Key)
	}
	return fmt.Sprintf(s.Misplaced, s.Key)
}

// Registry holds the closed set of recognized directive keys
type Registry interface {
	// Register adds a key; registering the same key or kind twice is an error
	Register(spec KeySpec) error

	// Lookup returns the KeySpec registered for key
	Lookup(key string) (KeySpec, bool)

	// Specs returns every registered spec in registration order
	Specs() []KeySpec
}

// registry is the concrete implementation of Registry
type registry struct {
	mu    sync.RWMutex
	specs []KeySpec
	byKey map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return &registry{byKey: make(map[string]int)}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry holding the built-in keys
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinKeys(defaultRegistry); err != nil {
			panic(fmt.Sprintf("failed to register built-in directive keys: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds a key to the registry
func (r *registry) Register(spec KeySpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if spec.Key == "" {
		return fmt.Errorf("directive key cannot be empty")
	}
	if spec.Kind == Forwarded {
		return fmt.Errorf("directive key %s cannot be registered as forwarded", spec.Key)
	}
	if len(spec.Contexts) == 0 {
		return fmt.Errorf("directive key %s must be valid in at least one context", spec.Key)
	}
	if _, exists := r.byKey[spec.Key]; exists {
		return fmt.Errorf("directive key %s is already registered", spec.Key)
	}
	for _, existing := range r.specs {
		if existing.Kind == spec.Kind {
			return fmt.Errorf("directive kind %s is already registered as %s", spec.Kind, existing.Key)
		}
	}

	r.byKey[spec.Key] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// Lookup returns the KeySpec registered for key
func (r *registry) Lookup(key string) (KeySpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byKey[key]
	if !ok {
		return KeySpec{}, false
	}
	return r.specs[idx], true
}

// Specs returns every registered spec in registration order
func (r *registry) Specs() []KeySpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]KeySpec, len(r.specs))
	copy(out, r.specs)
	return out
}
