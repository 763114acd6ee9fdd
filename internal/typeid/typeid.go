package typeid

import (
	"reflect"
	"sync"

	"github.com/spaolacci/murmur3"
)

// Registry assigns a numeric wire id to each Go type. An id is computed on
// first use by hashing the type's identity, or pinned up front with Set.
// Automatic ids are stable within one registry lifetime but not guaranteed
// stable across builds; peers that must agree on the wire should pin their
// ids explicitly.
type Registry struct {
	m   sync.Mutex
	ids map[reflect.Type]uint64
}

func New() *Registry {
	return &Registry{ids: make(map[reflect.Type]uint64)}
}

// For returns the wire id for t, computing and caching one if none has been
// assigned yet. Repeated calls for the same type always agree.
func (r *Registry) For(t reflect.Type) uint64 {
	r.m.Lock()
	defer r.m.Unlock()

	if id, ok := r.ids[t]; ok {
		return id
	}

	id := hash(t)
	r.ids[t] = id
	return id
}

// Set pins the wire id for t. Pinning after an automatic id for t has
// already been handed out desynchronizes sender and receiver; the registry
// doesn't guard against that, it's on the caller to pin before first use.
func (r *Registry) Set(t reflect.Type, id uint64) {
	r.m.Lock()
	defer r.m.Unlock()

	r.ids[t] = id
}

func hash(t reflect.Type) uint64 {
	name := t.PkgPath() + "." + t.Name()
	if t.Name() == "" {
		// Unnamed types (maps, slices, structs declared inline) have no
		// package path, fall back to the full type spelling.
		name = t.String()
	}
	return murmur3.Sum64([]byte(name))
}
