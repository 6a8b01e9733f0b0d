package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a factory available under name. Names are case-insensitive.
// It panics if name is empty, f is nil or name is already registered.
//
// Index implementations should typically call this from an init() function.
func Register(name string, f Factory) {
	key := strings.ToLower(name)
	if key == "" || f == nil {
		panic("index: Register called with empty name or nil factory")
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("index: Register called twice for %q", name))
	}
	registry[key] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownIndex, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names returns the sorted registered names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
