package scene

import (
	"errors"
	"fmt"
)

// Scene query errors.
var (
	ErrUnknownNode      = errors.New("unknown node")
	ErrCyclicHierarchy  = errors.New("cyclic node hierarchy")
	ErrInconsistentLink = errors.New("inconsistent parent/child link")
	ErrRootHasParent    = errors.New("root node has a parent")
)

func unknownNode(id NodeID) error {
	return fmt.Errorf("%w: %d", ErrUnknownNode, id)
}
