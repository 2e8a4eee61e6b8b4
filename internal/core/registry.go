package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]DatasetDefinition)
	registryMu sync.RWMutex
)

// Register adds a dataset definition to the registry.
// Panics if a dataset with the same key is already registered.
func Register(def DatasetDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", def.Info.Key))
	}

	if def.Info.TargetTable == "" {
		def.Info.TargetTable = def.Info.Key
	}

	registry[def.Info.Key] = def
}

// Get returns a dataset definition by key.
// Returns false if not found.
func Get(key string) (DatasetDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Lookup returns the definitions for the given keys, in run order.
// An empty key list selects every registered dataset.
func Lookup(keys []string) ([]DatasetDefinition, error) {
	if len(keys) == 0 {
		return All(), nil
	}

	defs := make([]DatasetDefinition, 0, len(keys))
	for _, key := range keys {
		def, ok := Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, key)
		}
		defs = append(defs, def)
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return less(defs[i], defs[j])
	})
	return defs, nil
}

// All returns all registered dataset definitions.
// Sorted by run order then by key for consistent ordering.
func All() []DatasetDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]DatasetDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return less(result[i], result[j])
	})

	return result
}

// Keys returns the keys of all registered datasets in run order.
func Keys() []string {
	defs := All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Info.Key
	}
	return keys
}

// DatasetCount returns the number of registered datasets.
func DatasetCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

func less(a, b DatasetDefinition) bool {
	if a.Info.Order != b.Info.Order {
		return a.Info.Order < b.Info.Order
	}
	return a.Info.Key < b.Info.Key
}
