package asset

import (
	"sync"
	"sync/atomic"

	"github.com/quoll3d/quoll/model"
)

// index is a single concurrently usable lookup table. Every index of
// the registry carries its own lock, cross-index consistency during a
// registration is eventual rather than transactional.
type index[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func newIndex[K comparable, V any]() *index[K, V] {
	return &index[K, V]{m: make(map[K]V)}
}

func (i *index[K, V]) get(k K) (V, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.m[k]
	return v, ok
}

func (i *index[K, V]) set(k K, v V) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.m[k] = v
}

// getOrSet returns the value stored under k, creating and storing one
// when the key is new. The create call happens under the write lock so
// two racing registrations of the same key cannot both allocate.
func (i *index[K, V]) getOrSet(k K, create func() V) (V, bool) {
	i.mu.RLock()
	v, ok := i.m[k]
	i.mu.RUnlock()
	if ok {
		return v, true
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if v, ok := i.m[k]; ok {
		return v, true
	}
	v = create()
	i.m[k] = v
	return v, false
}

// ownerKey locates a derived resource within its owning model.
type ownerKey struct {
	owner uint64
	name  string
}

// primaryStore holds the indices of a primary resource kind.
type primaryStore[T any] struct {
	byRef   *index[string, Handle]
	refOf   *index[Handle, string]
	objects *index[Handle, T]
}

func newPrimaryStore[T any]() primaryStore[T] {
	return primaryStore[T]{
		byRef:   newIndex[string, Handle](),
		refOf:   newIndex[Handle, string](),
		objects: newIndex[Handle, T](),
	}
}

// derivedStore holds the indices of a derived resource kind, which is
// additionally reachable through its (owner, name) key.
type derivedStore[T any] struct {
	byRef   *index[string, Handle]
	refOf   *index[Handle, string]
	objects *index[Handle, T]
	byKey   *index[ownerKey, Handle]
	ownerOf *index[Handle, uint64]
}

func newDerivedStore[T any]() derivedStore[T] {
	return derivedStore[T]{
		byRef:   newIndex[string, Handle](),
		refOf:   newIndex[Handle, string](),
		objects: newIndex[Handle, T](),
		byKey:   newIndex[ownerKey, Handle](),
		ownerOf: newIndex[Handle, uint64](),
	}
}

// Registry is the single authority on which resources exist and under
// which handle. It is safe for simultaneous use from multiple
// goroutines without caller-side locking. Cached objects are shared,
// the registry only ever replaces map entries wholesale and never
// mutates an object in place, so holders of earlier lookups are
// unaffected by re-registration. Nothing is ever evicted.
type Registry struct {
	next atomic.Uint64

	models    primaryStore[*model.Model]
	materials derivedStore[*model.Material]
	meshes    derivedStore[*model.Mesh]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		models:    newPrimaryStore[*model.Model](),
		materials: newDerivedStore[*model.Material](),
		meshes:    newDerivedStore[*model.Mesh](),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-lifetime registry, creating it on first
// use. Subsystems should still accept a *Registry instead of reaching
// for the global, so they remain testable in isolation.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) allocate() Handle {
	return Handle(r.next.Add(1))
}

// RegisterModel records a model under its reference and indexes every
// mesh and material embedded in it by (content id, name). A known
// reference keeps its existing handle and only the cached objects are
// replaced, so re-registration refreshes content without invalidating
// handles held elsewhere. Readers running concurrently with a
// registration may observe the handle before all indices are filled,
// the multi-index write is not atomic.
func (r *Registry) RegisterModel(reference string, m *model.Model) Handle {
	h, _ := r.models.byRef.getOrSet(reference, r.allocate)
	r.models.refOf.set(h, reference)
	r.models.objects.set(h, m)

	owner := m.ContentID
	for _, mat := range m.Materials {
		registerDerived(r, &r.materials, CategoryMaterials, owner, mat.Name, mat)
	}
	for _, mesh := range m.Meshes {
		registerDerived(r, &r.meshes, CategoryMeshes, owner, mesh.Name, mesh)
	}
	return h
}

// registerDerived reuses or allocates the handle for one derived
// resource and refreshes its indices. A name that sanitizes to empty
// skips only the reference index, the resource stays reachable by
// handle and by (owner, name).
func registerDerived[T any](r *Registry, s *derivedStore[T], category string, owner uint64, name string, obj T) Handle {
	key := ownerKey{owner: owner, name: name}
	h, _ := s.byKey.getOrSet(key, r.allocate)
	s.ownerOf.set(h, owner)
	if ref, ok := DeriveReference(category, owner, name); ok {
		s.byRef.set(ref, h)
		s.refOf.set(h, ref)
	}
	s.objects.set(h, obj)
	return h
}

// HandleFor looks up the handle of a primary resource by reference.
func (r *Registry) HandleFor(reference string) (Handle, bool) {
	return r.models.byRef.get(reference)
}

// DerivedHandle looks up a derived resource by its ownership key,
// materials before meshes.
func (r *Registry) DerivedHandle(owner uint64, name string) (Handle, bool) {
	if h, ok := r.materials.byKey.get(ownerKey{owner, name}); ok {
		return h, true
	}
	return r.meshes.byKey.get(ownerKey{owner, name})
}

// ResolveHandle finds the handle stored under a reference of any kind,
// trying materials, then meshes, then models. First match wins.
func (r *Registry) ResolveHandle(reference string) (Handle, bool) {
	if h, ok := r.materials.byRef.get(reference); ok {
		return h, true
	}
	if h, ok := r.meshes.byRef.get(reference); ok {
		return h, true
	}
	return r.models.byRef.get(reference)
}

// Model returns the cached model behind a handle.
func (r *Registry) Model(h Handle) (*model.Model, bool) {
	return r.models.objects.get(h)
}

// Material returns the cached material behind a handle.
func (r *Registry) Material(h Handle) (*model.Material, bool) {
	return r.materials.objects.get(h)
}

// Mesh returns the cached mesh behind a handle.
func (r *Registry) Mesh(h Handle) (*model.Mesh, bool) {
	return r.meshes.objects.get(h)
}

// Get returns the cached object behind a handle regardless of kind.
// The object is shared, callers may retain it independently of any
// later registry mutation.
func (r *Registry) Get(h Handle) (interface{}, bool) {
	if m, ok := r.models.objects.get(h); ok {
		return m, true
	}
	if mat, ok := r.materials.objects.get(h); ok {
		return mat, true
	}
	if mesh, ok := r.meshes.objects.get(h); ok {
		return mesh, true
	}
	return nil, false
}

// KindOf reports which store a handle belongs to.
func (r *Registry) KindOf(h Handle) (Kind, bool) {
	if _, ok := r.models.objects.get(h); ok {
		return KindModel, true
	}
	if _, ok := r.materials.objects.get(h); ok {
		return KindMaterial, true
	}
	if _, ok := r.meshes.objects.get(h); ok {
		return KindMesh, true
	}
	return KindUnknown, false
}

// Contains reports whether any store knows the handle.
func (r *Registry) Contains(h Handle) bool {
	_, ok := r.KindOf(h)
	return ok
}

// IsKind reports whether the handle belongs to the given kind.
func (r *Registry) IsKind(h Handle, k Kind) bool {
	kind, ok := r.KindOf(h)
	return ok && kind == k
}

// OwnerOf returns the content id of the model owning a derived
// resource. Primary handles have no owner.
func (r *Registry) OwnerOf(h Handle) (uint64, bool) {
	if owner, ok := r.materials.ownerOf.get(h); ok {
		return owner, true
	}
	return r.meshes.ownerOf.get(h)
}

// ReferenceOf returns the reference stored for a handle of either
// kind, if one was stored at all.
func (r *Registry) ReferenceOf(h Handle) (string, bool) {
	if ref, ok := r.models.refOf.get(h); ok {
		return ref, true
	}
	if ref, ok := r.materials.refOf.get(h); ok {
		return ref, true
	}
	return r.meshes.refOf.get(h)
}
