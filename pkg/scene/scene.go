// Package scene defines the in-memory scene graph produced by asset import:
// a flat, index-addressable node list with integer parent/child/joint links,
// and the meshes, materials and textures those nodes reference.
package scene

import (
	"github.com/Faultbox/scenegraph/pkg/math"
)

// MaxNodes is the number of distinct node ids a scene can address.
const MaxNodes = 1 << 16

// NodeID is the stable id of a node. It equals the node's position in the
// source document's node array.
type NodeID uint16

// Scene owns every node, mesh, material and texture of one import.
type Scene struct {
	// Transform is the root transform applied on top of every node.
	Transform math.Mat4
	// Nodes is indexed directly by NodeID.
	Nodes []Node
	// Roots lists the top-level nodes of the scene, in document order.
	Roots []NodeID

	Meshes    []*Mesh
	Materials []*Material
	Textures  []*Texture
}

// Node is an entry in the scene hierarchy.
type Node struct {
	Name string

	Parent    NodeID
	HasParent bool
	Children  []NodeID

	// Local is the node's transform relative to its parent.
	Local  math.Mat4
	Meshes []*Mesh
	Skin   *Skin

	// Detached marks a source node that is not reachable from the scene's
	// roots. It keeps its slot so ids stay index-addressable.
	Detached bool
}

// Skin binds a set of joint nodes to mesh geometry.
type Skin struct {
	Name   string
	Joints []NodeID

	Skeleton    NodeID
	HasSkeleton bool
}

// Mesh is a drawable made of one or more primitives.
type Mesh struct {
	// Index is the mesh's position in the source document.
	Index      int
	Name       string
	Primitives []Primitive
}

// Primitive is one drawable sub-unit of a mesh.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint16
	Material  *Material
}

// Material describes how a primitive is shaded. A material without textures
// renders with its base color only.
type Material struct {
	// Index is the material's position in the source document, or -1 for the
	// default material.
	Index     int
	Name      string
	Diffuse   *Texture
	Normal    *Texture
	BaseColor [4]float32
}

// DefaultMaterial returns the material used by primitives that declare none.
func DefaultMaterial() *Material {
	return &Material{
		Index:     -1,
		Name:      "default",
		BaseColor: [4]float32{1, 1, 1, 1},
	}
}

// New returns an empty scene with an identity root transform.
func New() *Scene {
	return &Scene{Transform: math.Identity()}
}

// Node returns the node with the given id.
func (s *Scene) Node(id NodeID) (*Node, error) {
	if int(id) >= len(s.Nodes) {
		return nil, unknownNode(id)
	}
	return &s.Nodes[id], nil
}

// ParentID returns the node's parent id, if any.
func (n *Node) ParentID() (NodeID, bool) {
	return n.Parent, n.HasParent
}

// SkeletonID returns the skin's skeleton root, if declared.
func (s *Skin) SkeletonID() (NodeID, bool) {
	return s.Skeleton, s.HasSkeleton
}

// VertexCount returns the number of vertices in the primitive.
func (p *Primitive) VertexCount() int {
	return len(p.Positions)
}

// TriangleCount returns the number of triangles drawn by the primitive.
func (p *Primitive) TriangleCount() int {
	return len(p.Indices) / 3
}
