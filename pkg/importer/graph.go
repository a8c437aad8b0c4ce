package importer

import (
	"slices"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/scenegraph/pkg/math"
	"github.com/Faultbox/scenegraph/pkg/scene"
)

// pending is a work-list entry: a node waiting to be visited.
type pending struct {
	index     uint32
	parent    scene.NodeID
	hasParent bool
}

// record is a visited node keyed by its source index.
type record struct {
	id   scene.NodeID
	node scene.Node
}

// nodeID maps a document node index onto a node id.
func (im *importer) nodeID(index uint32) (scene.NodeID, error) {
	if index >= scene.MaxNodes {
		return 0, &Error{Kind: KindNodeIndexCapacityExceeded, Index: int(index)}
	}
	if int(index) >= len(im.doc.Nodes) {
		return 0, unknownIndex(KindUnknownNodeIndex, int(index))
	}
	return scene.NodeID(index), nil
}

// sceneRoots returns the root node indices of the document's default scene.
func (im *importer) sceneRoots() ([]uint32, error) {
	if len(im.doc.Scenes) == 0 {
		if im.doc.Scene != nil {
			return nil, unknownIndex(KindUnknownSceneIndex, int(*im.doc.Scene))
		}
		return nil, nil
	}
	var index uint32
	if im.doc.Scene != nil {
		index = *im.doc.Scene
	}
	if int(index) >= len(im.doc.Scenes) {
		return nil, unknownIndex(KindUnknownSceneIndex, int(index))
	}
	return im.doc.Scenes[index].Nodes, nil
}

// buildGraph walks the default scene from its roots with an explicit work
// list and returns the node sequence indexed by source node index.
func (im *importer) buildGraph() ([]scene.Node, []scene.NodeID, error) {
	if len(im.doc.Nodes) > scene.MaxNodes {
		return nil, nil, &Error{Kind: KindNodeIndexCapacityExceeded, Index: scene.MaxNodes}
	}

	rootIndices, err := im.sceneRoots()
	if err != nil {
		return nil, nil, err
	}

	roots := make([]scene.NodeID, 0, len(rootIndices))
	work := make([]pending, 0, len(rootIndices))
	for i := len(rootIndices) - 1; i >= 0; i-- {
		work = append(work, pending{index: rootIndices[i]})
	}
	for _, r := range rootIndices {
		id, err := im.nodeID(r)
		if err != nil {
			return nil, nil, err
		}
		roots = append(roots, id)
	}

	visited := make([]bool, len(im.doc.Nodes))
	records := make([]record, 0, len(im.doc.Nodes))
	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]

		id, err := im.nodeID(next.index)
		if err != nil {
			return nil, nil, err
		}
		if visited[id] {
			return nil, nil, &Error{Kind: KindInvalidHierarchy, Index: int(id)}
		}
		visited[id] = true

		node, err := im.node(next.index)
		if err != nil {
			return nil, nil, err
		}
		node.Parent, node.HasParent = next.parent, next.hasParent
		records = append(records, record{id: id, node: node})

		children := im.doc.Nodes[next.index].Children
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, pending{index: children[i], parent: id, hasParent: true})
		}
	}

	// Visit order depends on the traversal; ids do not.
	slices.SortFunc(records, func(a, b record) int { return int(a.id) - int(b.id) })

	nodes := make([]scene.Node, len(im.doc.Nodes))
	for i := range nodes {
		nodes[i] = scene.Node{
			Name:     im.doc.Nodes[i].Name,
			Local:    math.Identity(),
			Detached: true,
		}
	}
	for _, r := range records {
		nodes[r.id] = r.node
	}

	im.log.Debug("node graph built",
		zap.Int("nodes", len(nodes)),
		zap.Int("visited", len(records)),
		zap.Int("roots", len(roots)))
	return nodes, roots, nil
}

// node builds the record for one document node, without its parent link.
func (im *importer) node(index uint32) (scene.Node, error) {
	src := im.doc.Nodes[index]
	node := scene.Node{
		Name:  src.Name,
		Local: localTransform(src),
	}

	for _, c := range src.Children {
		id, err := im.nodeID(c)
		if err != nil {
			return scene.Node{}, err
		}
		node.Children = append(node.Children, id)
	}

	if src.Mesh != nil {
		mesh, err := im.mesh(*src.Mesh)
		if err != nil {
			return scene.Node{}, err
		}
		node.Meshes = []*scene.Mesh{mesh}
	}

	if src.Skin != nil {
		skin, err := im.skin(*src.Skin)
		if err != nil {
			return scene.Node{}, err
		}
		node.Skin = skin
	}
	return node, nil
}

// skin maps a document skin's joint and skeleton references to node ids.
func (im *importer) skin(index uint32) (*scene.Skin, error) {
	if int(index) >= len(im.doc.Skins) {
		return nil, unknownIndex(KindUnknownSkinIndex, int(index))
	}
	if skin := im.skins[index]; skin != nil {
		return skin, nil
	}

	src := im.doc.Skins[index]
	skin := &scene.Skin{
		Name:   src.Name,
		Joints: make([]scene.NodeID, 0, len(src.Joints)),
	}
	for _, j := range src.Joints {
		id, err := im.nodeID(j)
		if err != nil {
			return nil, err
		}
		skin.Joints = append(skin.Joints, id)
	}
	if src.Skeleton != nil {
		id, err := im.nodeID(*src.Skeleton)
		if err != nil {
			return nil, err
		}
		skin.Skeleton, skin.HasSkeleton = id, true
	}

	im.skins[index] = skin
	return skin, nil
}

// localTransform returns a node's declared matrix, or composes its
// translation, rotation and scale when no matrix is declared. Absent fields
// already hold the decoder's defaults; a declared zero scale is kept.
func localTransform(n *gltf.Node) math.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return math.Mat4(m)
	}
	return math.FromTRS(
		math.Vec3FromArray(n.Translation),
		math.QuatFromArray(n.RotationOrDefault()),
		math.Vec3FromArray(n.Scale),
	)
}
