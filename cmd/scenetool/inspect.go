package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/scenegraph/pkg/math"
	"github.com/Faultbox/scenegraph/pkg/scene"
)

func loadScene(e *env, args []string) (*scene.Scene, string, error) {
	if len(args) < 1 {
		return nil, "", errUsage
	}
	s, err := e.lib.Scene(args[0])
	if err != nil {
		return nil, "", err
	}
	return s, args[0], nil
}

func cmdInfo(e *env, args []string) error {
	s, path, err := loadScene(e, args)
	if err != nil {
		return err
	}

	detached := 0
	skins := make(map[*scene.Skin]bool)
	for i := range s.Nodes {
		if s.Nodes[i].Detached {
			detached++
		}
		if s.Nodes[i].Skin != nil {
			skins[s.Nodes[i].Skin] = true
		}
	}
	var primitives, vertices, triangles int
	for _, m := range s.Meshes {
		for i := range m.Primitives {
			primitives++
			vertices += m.Primitives[i].VertexCount()
			triangles += m.Primitives[i].TriangleCount()
		}
	}

	fmt.Fprintf(e.out, "Asset:      %s\n", path)
	fmt.Fprintf(e.out, "Nodes:      %d (%d roots, %d detached)\n", len(s.Nodes), len(s.Roots), detached)
	fmt.Fprintf(e.out, "Meshes:     %d (%d primitives)\n", len(s.Meshes), primitives)
	fmt.Fprintf(e.out, "Vertices:   %d\n", vertices)
	fmt.Fprintf(e.out, "Triangles:  %d\n", triangles)
	fmt.Fprintf(e.out, "Materials:  %d\n", len(s.Materials))
	fmt.Fprintf(e.out, "Skins:      %d\n", len(skins))
	fmt.Fprintf(e.out, "Textures:   %d\n", len(s.Textures))

	for _, tex := range s.Textures {
		fmt.Fprintf(e.out, "  [%d] %s%dx%d %s %s\n",
			tex.Index, e.label(tex.Name), tex.Width, tex.Height, tex.Format, formatSampler(tex.Sampler))
	}
	return nil
}

func cmdTree(e *env, args []string) error {
	s, _, err := loadScene(e, args)
	if err != nil {
		return err
	}

	type entry struct {
		id    scene.NodeID
		depth int
	}
	stack := make([]entry, 0, len(s.Roots))
	for i := len(s.Roots) - 1; i >= 0; i-- {
		stack = append(stack, entry{id: s.Roots[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &s.Nodes[top.id]
		fmt.Fprintf(e.out, "%s%s\n", strings.Repeat("  ", top.depth), e.describeNode(top.id, node))
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{id: node.Children[i], depth: top.depth + 1})
		}
	}

	for i := range s.Nodes {
		if s.Nodes[i].Detached {
			fmt.Fprintf(e.out, "(detached) %s\n", e.describeNode(scene.NodeID(i), &s.Nodes[i]))
		}
	}
	return nil
}

func (e *env) describeNode(id scene.NodeID, n *scene.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s", id, e.label(n.Name))
	for _, m := range n.Meshes {
		fmt.Fprintf(&b, "mesh=%d ", m.Index)
	}
	if n.Skin != nil {
		fmt.Fprintf(&b, "skin=%d joints ", len(n.Skin.Joints))
	}
	if !n.Local.IsIdentity() {
		fmt.Fprintf(&b, "at %s", e.formatVec(n.Local.Translation()))
	}
	return strings.TrimSpace(b.String())
}

func cmdJoints(e *env, args []string) error {
	s, _, err := loadScene(e, args)
	if err != nil {
		return err
	}

	seen := make(map[*scene.Skin]bool)
	for i := range s.Nodes {
		skin := s.Nodes[i].Skin
		if skin == nil || seen[skin] {
			continue
		}
		seen[skin] = true

		base := "scene root"
		if id, ok := skin.SkeletonID(); ok {
			base = fmt.Sprintf("node %d", id)
		}
		fmt.Fprintf(e.out, "Skin %s(bound to node %d, skeleton %s)\n", e.label(skin.Name), i, base)

		placements, err := s.JointPlacements(skin)
		if err != nil {
			return err
		}
		for j, joint := range skin.Joints {
			fmt.Fprintf(e.out, "  [%d] %s%s\n", joint, e.label(s.Nodes[joint].Name), e.formatVec(placements[j].Translation()))
		}
	}
	if len(seen) == 0 {
		fmt.Fprintln(e.out, "No skins")
	}
	return nil
}

func cmdDraws(e *env, args []string) error {
	s, _, err := loadScene(e, args)
	if err != nil {
		return err
	}

	draws, err := s.Draws()
	if err != nil {
		return err
	}
	for _, d := range draws {
		material := "none"
		if d.Material != nil {
			material = strconv.Itoa(d.Material.Index)
		}
		fmt.Fprintf(e.out, "node %d mesh %d tris %d material %s diffuse=%t normal=%t\n",
			d.Node, d.Mesh.Index, d.Primitive.TriangleCount(), material, d.HasDiffuse(), d.HasNormal())
		writeMatrix(e.out, d.Model, e.cfg.Inspect.Precision)
		if lo, hi, ok := d.Bounds(); ok {
			fmt.Fprintf(e.out, "  bounds %s .. %s\n", e.formatVec(lo), e.formatVec(hi))
		}
	}
	fmt.Fprintf(e.out, "%d draws\n", len(draws))
	return nil
}

// label renders a name followed by a space, or nothing when names are hidden.
func (e *env) label(name string) string {
	if !e.cfg.Inspect.ShowNames || name == "" {
		return ""
	}
	return fmt.Sprintf("%q ", name)
}

func (e *env) formatVec(v math.Vec3) string {
	p := e.cfg.Inspect.Precision
	return fmt.Sprintf("(%.*f, %.*f, %.*f)", p, v.X, p, v.Y, p, v.Z)
}

func formatSampler(s scene.Sampler) string {
	return fmt.Sprintf("wrap=%s/%s filter=%s/%s", s.WrapS, s.WrapT, s.MinFilter, s.MagFilter)
}

func writeMatrix(w io.Writer, m math.Mat4, precision int) {
	for _, row := range m.Rows() {
		fmt.Fprintf(w, "  [% .*f % .*f % .*f % .*f]\n",
			precision, row[0], precision, row[1], precision, row[2], precision, row[3])
	}
}
