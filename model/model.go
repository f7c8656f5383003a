// Package model defines the in-memory representation of imported assets.
// A Model is the primary resource produced by an import, meshes and
// materials embedded in it are derived resources owned by the model.
package model

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"sync"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is a model vertex
type Vertex struct {
	Pos      glm.Vec3
	Normal   glm.Vec3
	TexCoord glm.Vec2
	Color    glm.Vec4
}

// Mesh holds the geometry of one named part of a model.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Material describes the surface parameters of a mesh.
// Texture names the texture resource, resolving it is up to the renderer.
type Material struct {
	Name      string
	Diffuse   glm.Vec4
	Metallic  float32
	Roughness float32
	Texture   string
}

// Model is a fully imported asset. Meshes and materials listed here
// exist only as part of this model and are keyed by (ContentID, name)
// wherever they need to be looked up independently.
type Model struct {
	Label     string
	ContentID uint64
	Reference string
	Meshes    []*Mesh
	Materials []*Material
}

// New creates an empty model with its content id derived from label.
func New(label string) *Model {
	return &Model{
		Label:     label,
		ContentID: ContentIDFor(label),
	}
}

// ContentIDFor derives the content identity of a model from its label.
// Equal labels always hash to equal ids.
func ContentIDFor(label string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	return h.Sum64()
}

// Object represents an engine supported, positionable model instance.
type Object interface {

	// SetPosition sets the object's current position in space.
	// Has to be thread-safe
	SetPosition(glm.Mat4)

	// Position gets the object's current position in space.
	// Has to be thread-safe
	Position() glm.Mat4

	// SetRotation sets the object's rotation matrix.
	// Has to be thread-safe
	SetRotation(glm.Mat4)

	// Rotation gets the object's rotation matrix.
	// Has to be thread-safe
	Rotation() glm.Mat4

	// Vertices returns the vertices of every mesh for Renderer use
	Vertices() []Vertex
}

// Instance places a Model in space. It implements Object
// and is safe for use from multiple goroutines.
type Instance struct {
	mutex    sync.RWMutex
	position glm.Mat4
	rotation glm.Mat4

	model *Model
}

// NewInstance creates an Instance of the given model at the origin.
func NewInstance(m *Model) *Instance {
	return &Instance{
		position: glm.Ident4(),
		rotation: glm.Ident4(),
		model:    m,
	}
}

// Model returns the model this instance places.
func (i *Instance) Model() *Model {
	return i.model
}

// SetPosition implements interface
func (i *Instance) SetPosition(pos glm.Mat4) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.position = pos
}

// Position implements interface
func (i *Instance) Position() glm.Mat4 {
	i.mutex.RLock()
	defer i.mutex.RUnlock()
	return i.position
}

// SetRotation implements interface
func (i *Instance) SetRotation(rot glm.Mat4) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.rotation = rot
}

// Rotation implements interface
func (i *Instance) Rotation() glm.Mat4 {
	i.mutex.RLock()
	defer i.mutex.RUnlock()
	return i.rotation
}

// Vertices implements interface
func (i *Instance) Vertices() []Vertex {
	var verts []Vertex
	for _, m := range i.model.Meshes {
		verts = append(verts, m.Vertices...)
	}
	return verts
}

// Encode serializes a model into the cooked payload format
// stored in resource archives.
func Encode(m *Model) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

// Decode deserializes a cooked model payload produced by Encode.
func Decode(data []byte) (*Model, error) {
	var m Model
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
