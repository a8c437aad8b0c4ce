package scene

import (
	"fmt"

	"github.com/Faultbox/scenegraph/pkg/math"
)

// WorldTransform returns the node's local transform composed with every
// ancestor's local transform, closest ancestor first:
//
//	world = local(id) * local(parent) * ... * local(root)
//
// Nothing is cached, so edits made through SetLocalTransform are picked up by
// the next call. The walk is bounded by the node count; a parent chain longer
// than that is reported as ErrCyclicHierarchy.
func (s *Scene) WorldTransform(id NodeID) (math.Mat4, error) {
	node, err := s.Node(id)
	if err != nil {
		return math.Mat4{}, err
	}

	transform := node.Local
	current := node
	for steps := 0; current.HasParent; steps++ {
		if steps >= len(s.Nodes) {
			return math.Mat4{}, fmt.Errorf("%w: walking ancestors of node %d", ErrCyclicHierarchy, id)
		}
		parent := current.Parent
		if int(parent) >= len(s.Nodes) {
			return math.Mat4{}, fmt.Errorf("parent of node %d: %w", id, unknownNode(parent))
		}
		current = &s.Nodes[parent]
		transform = transform.Mul(current.Local)
	}
	return transform, nil
}

// SkeletonTransform returns the base transform joint placements of skin are
// measured from: the skeleton root's world transform if the skin declares one,
// otherwise the scene's root transform.
func (s *Scene) SkeletonTransform(skin *Skin) (math.Mat4, error) {
	if !skin.HasSkeleton {
		return s.Transform, nil
	}
	base, err := s.WorldTransform(skin.Skeleton)
	if err != nil {
		return math.Mat4{}, fmt.Errorf("skeleton root: %w", err)
	}
	return base, nil
}

// JointPlacement returns the matrix a renderer uses to position geometry at
// a joint: the joint's world transform composed with the skin's skeleton
// transform.
func (s *Scene) JointPlacement(skin *Skin, joint NodeID) (math.Mat4, error) {
	world, err := s.WorldTransform(joint)
	if err != nil {
		return math.Mat4{}, fmt.Errorf("joint %d: %w", joint, err)
	}
	base, err := s.SkeletonTransform(skin)
	if err != nil {
		return math.Mat4{}, err
	}
	return world.Mul(base), nil
}

// JointPlacements returns the placement of every joint of skin, in joint order.
func (s *Scene) JointPlacements(skin *Skin) ([]math.Mat4, error) {
	base, err := s.SkeletonTransform(skin)
	if err != nil {
		return nil, err
	}

	placements := make([]math.Mat4, 0, len(skin.Joints))
	for _, joint := range skin.Joints {
		world, err := s.WorldTransform(joint)
		if err != nil {
			return nil, fmt.Errorf("joint %d: %w", joint, err)
		}
		placements = append(placements, world.Mul(base))
	}
	return placements, nil
}

// SetLocalTransform overwrites a node's local transform to pose it.
// The scene does no locking: callers that pose nodes while other goroutines
// query transforms must serialize those accesses themselves.
func (s *Scene) SetLocalTransform(id NodeID, local math.Mat4) error {
	node, err := s.Node(id)
	if err != nil {
		return err
	}
	node.Local = local
	return nil
}
