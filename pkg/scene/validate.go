package scene

import "fmt"

// Validate checks the structural invariants of the node graph:
//   - every parent, child, root, joint and skeleton id is a valid index;
//   - a node naming a parent appears exactly once in that parent's children,
//     and every child names its parent back;
//   - roots have no parent;
//   - no parent chain loops.
func (s *Scene) Validate() error {
	n := len(s.Nodes)
	valid := func(id NodeID) bool { return int(id) < n }

	for i := range s.Nodes {
		node := &s.Nodes[i]
		id := NodeID(i)

		if node.HasParent {
			if !valid(node.Parent) {
				return fmt.Errorf("parent of node %d: %w", id, unknownNode(node.Parent))
			}
			count := 0
			for _, c := range s.Nodes[node.Parent].Children {
				if c == id {
					count++
				}
			}
			if count != 1 {
				return fmt.Errorf("%w: node %d listed %d times by parent %d", ErrInconsistentLink, id, count, node.Parent)
			}
		}

		for _, c := range node.Children {
			if !valid(c) {
				return fmt.Errorf("child of node %d: %w", id, unknownNode(c))
			}
			child := &s.Nodes[c]
			if !child.HasParent || child.Parent != id {
				return fmt.Errorf("%w: node %d lists child %d which does not name it as parent", ErrInconsistentLink, id, c)
			}
		}

		if node.Skin != nil {
			for _, j := range node.Skin.Joints {
				if !valid(j) {
					return fmt.Errorf("joint of node %d: %w", id, unknownNode(j))
				}
			}
			if node.Skin.HasSkeleton && !valid(node.Skin.Skeleton) {
				return fmt.Errorf("skeleton of node %d: %w", id, unknownNode(node.Skin.Skeleton))
			}
		}
	}

	for _, r := range s.Roots {
		if !valid(r) {
			return fmt.Errorf("root: %w", unknownNode(r))
		}
		if s.Nodes[r].HasParent {
			return fmt.Errorf("%w: %d", ErrRootHasParent, r)
		}
	}

	// Parent links are consistent at this point, so a loop shows up as a
	// chain longer than the node count.
	for i := range s.Nodes {
		current := &s.Nodes[i]
		for steps := 0; current.HasParent; steps++ {
			if steps >= n {
				return fmt.Errorf("%w: node %d", ErrCyclicHierarchy, i)
			}
			current = &s.Nodes[current.Parent]
		}
	}
	return nil
}
