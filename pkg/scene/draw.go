package scene

import (
	"fmt"

	"github.com/Faultbox/scenegraph/pkg/math"
)

// Draw is one draw operation: a single primitive placed by its node.
type Draw struct {
	Node      NodeID
	Mesh      *Mesh
	Primitive *Primitive
	Material  *Material
	// Model is the node's world transform composed with the scene transform.
	Model math.Mat4
}

// HasDiffuse reports whether the draw binds a diffuse texture.
func (d *Draw) HasDiffuse() bool {
	return d.Material != nil && d.Material.Diffuse != nil
}

// HasNormal reports whether the draw binds a normal texture.
func (d *Draw) HasNormal() bool {
	return d.Material != nil && d.Material.Normal != nil
}

// Bounds returns the axis-aligned box of the primitive's positions placed by
// Model. ok is false for a primitive without positions.
func (d *Draw) Bounds() (lo, hi math.Vec3, ok bool) {
	if d.Primitive == nil || len(d.Primitive.Positions) == 0 {
		return lo, hi, false
	}
	for i, p := range d.Primitive.Positions {
		w := math.Vec3FromArray(d.Model.TransformPoint(p))
		if i == 0 {
			lo, hi = w, w
			continue
		}
		lo = math.Vec3{X: min(lo.X, w.X), Y: min(lo.Y, w.Y), Z: min(lo.Z, w.Z)}
		hi = math.Vec3{X: max(hi.X, w.X), Y: max(hi.Y, w.Y), Z: max(hi.Z, w.Z)}
	}
	return lo, hi, true
}

// Draws lists one draw per primitive of every node that has meshes, in node
// order. Nodes without meshes are skipped.
func (s *Scene) Draws() ([]Draw, error) {
	var draws []Draw
	for i := range s.Nodes {
		node := &s.Nodes[i]
		if len(node.Meshes) == 0 {
			continue
		}

		id := NodeID(i)
		world, err := s.WorldTransform(id)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		model := world.Mul(s.Transform)

		for _, mesh := range node.Meshes {
			for p := range mesh.Primitives {
				prim := &mesh.Primitives[p]
				draws = append(draws, Draw{
					Node:      id,
					Mesh:      mesh,
					Primitive: prim,
					Material:  prim.Material,
					Model:     model,
				})
			}
		}
	}
	return draws, nil
}
