// Package asset keeps track of every loaded resource in the engine.
// It hands out one stable handle per distinct resource and answers
// lookups by canonical reference or by (owner, name) ownership keys.
package asset

// Handle identifies exactly one cached resource for the lifetime
// of the process. Handles are cheap to copy and compare, they are
// allocated monotonically and never reused. Handles are not stable
// across process restarts, persist references instead.
type Handle uint64

// NilHandle is never allocated, the resource namespace starts at 1.
const NilHandle Handle = 0

// Kind identifies the store a handle was allocated in.
type Kind int

// Resource kinds held by a Registry
const (
	KindUnknown Kind = iota
	KindModel
	KindMaterial
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindMaterial:
		return "material"
	case KindMesh:
		return "mesh"
	}
	return "unknown"
}
