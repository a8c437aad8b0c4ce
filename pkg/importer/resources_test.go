package importer

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenegraph/pkg/scene"
)

func TestMeshMissingAttributes(t *testing.T) {
	tests := []struct {
		attribute string
		drop      func(p *gltf.Primitive)
	}{
		{AttrPositions, func(p *gltf.Primitive) { delete(p.Attributes, gltf.POSITION) }},
		{AttrNormals, func(p *gltf.Primitive) { delete(p.Attributes, gltf.NORMAL) }},
		{AttrUVs, func(p *gltf.Primitive) { delete(p.Attributes, gltf.TEXCOORD_0) }},
		{AttrIndices, func(p *gltf.Primitive) { p.Indices = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			doc := gltf.NewDocument()
			appendQuadMesh(doc, nil)
			mesh := appendQuadMesh(doc, nil)
			// Second mesh, second primitive is the broken one.
			broken := &gltf.Primitive{Attributes: quadAttributes(doc), Indices: gltf.Index(modeler.WriteIndices(doc, quadIndices))}
			tt.drop(broken)
			doc.Meshes[mesh].Primitives = append(doc.Meshes[mesh].Primitives, broken)

			_, err := importJSON(t, doc)
			ie := requireKind(t, err, KindRequiredAttributeMissing)
			assert.Equal(t, tt.attribute, ie.Attribute)
			assert.Equal(t, 1, ie.Mesh)
			assert.Equal(t, 1, ie.Primitive)
			assert.ErrorIs(t, err, ErrRequiredAttributeMissing)
			assert.Contains(t, err.Error(), tt.attribute)
		})
	}
}

func TestMeshIndexCapacity(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: quadAttributes(doc),
		Indices:    gltf.Index(modeler.WriteIndices(doc, []uint32{0, 1, 70000})),
	}}}}

	_, err := importJSON(t, doc)
	ie := requireKind(t, err, KindIndexCapacityExceeded)
	assert.Equal(t, 0, ie.Mesh)
	assert.Equal(t, 0, ie.Primitive)
}

func TestMeshWideIndicesWithinRange(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: quadAttributes(doc),
		Indices:    gltf.Index(modeler.WriteIndices(doc, []uint32{0, 1, 2, 65535})),
	}}}}

	s, err := importJSON(t, doc)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2, 65535}, s.Meshes[0].Primitives[0].Indices)
}

func TestMeshAccessorWithoutBufferView(t *testing.T) {
	doc := gltf.NewDocument()
	attrs := quadAttributes(doc)
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         4,
	})
	attrs[gltf.NORMAL] = uint32(len(doc.Accessors) - 1)
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: attrs,
		Indices:    gltf.Index(modeler.WriteIndices(doc, quadIndices)),
	}}}}

	s, err := importJSON(t, doc)
	require.NoError(t, err)
	assert.Equal(t, make([][3]float32, 4), s.Meshes[0].Primitives[0].Normals)
}

func TestMeshAccessorErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document, prim *gltf.Primitive)
		kind   Kind
	}{
		{
			name:   "unknown accessor",
			mutate: func(_ *gltf.Document, prim *gltf.Primitive) { prim.Attributes[gltf.NORMAL] = 42 },
			kind:   KindUnknownAccessorIndex,
		},
		{
			name: "unknown buffer view",
			mutate: func(doc *gltf.Document, prim *gltf.Primitive) {
				doc.Accessors[prim.Attributes[gltf.POSITION]].BufferView = gltf.Index(42)
			},
			kind: KindUnknownBufferViewIndex,
		},
		{
			name: "count beyond view",
			mutate: func(doc *gltf.Document, prim *gltf.Primitive) {
				doc.Accessors[prim.Attributes[gltf.POSITION]].Count = 400
			},
			kind: KindBufferRangeOutOfBounds,
		},
		{
			name: "view beyond buffer",
			mutate: func(doc *gltf.Document, prim *gltf.Primitive) {
				view := doc.Accessors[prim.Attributes[gltf.POSITION]].BufferView
				doc.BufferViews[*view].ByteOffset = 1 << 20
			},
			kind: KindBufferRangeOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			appendQuadMesh(doc, nil)
			tt.mutate(doc, doc.Meshes[0].Primitives[0])
			_, err := importJSON(t, doc)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestMaterials(t *testing.T) {
	doc := gltf.NewDocument()
	diffuse := appendTexture(t, doc, encodePNG(t, opaqueImage(2, 2)), MimePNG)
	normal := appendTexture(t, doc, encodePNG(t, opaqueImage(2, 2)), MimePNG)
	doc.Materials = []*gltf.Material{
		{Name: "solid", PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{0.5, 0.25, 1, 1}}},
		{
			Name:                 "textured",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: diffuse}},
			NormalTexture:        &gltf.NormalTexture{Index: gltf.Index(normal)},
		},
		{Name: "bare"},
	}

	s, err := importJSON(t, doc)
	require.NoError(t, err)
	require.Len(t, s.Materials, 3)

	solid, textured, bare := s.Materials[0], s.Materials[1], s.Materials[2]
	assert.Equal(t, [4]float32{0.5, 0.25, 1, 1}, solid.BaseColor)
	assert.Nil(t, solid.Diffuse)
	assert.Nil(t, solid.Normal)

	assert.Same(t, s.Textures[diffuse], textured.Diffuse)
	assert.Same(t, s.Textures[normal], textured.Normal)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, textured.BaseColor)

	assert.Equal(t, "bare", bare.Name)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, bare.BaseColor)
}

func TestResourceReferenceErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, doc *gltf.Document)
		kind  Kind
		index int
	}{
		{
			name: "material texture",
			build: func(_ *testing.T, doc *gltf.Document) {
				doc.Materials = []*gltf.Material{{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 6}}}}
			},
			kind:  KindUnknownTextureIndex,
			index: 6,
		},
		{
			name: "normal texture",
			build: func(_ *testing.T, doc *gltf.Document) {
				doc.Materials = []*gltf.Material{{NormalTexture: &gltf.NormalTexture{Index: gltf.Index(2)}}}
			},
			kind:  KindUnknownTextureIndex,
			index: 2,
		},
		{
			name: "texture image",
			build: func(_ *testing.T, doc *gltf.Document) {
				doc.Textures = []*gltf.Texture{{Source: gltf.Index(5)}}
			},
			kind:  KindUnknownImageIndex,
			index: 5,
		},
		{
			name: "texture without image",
			build: func(_ *testing.T, doc *gltf.Document) {
				doc.Textures = []*gltf.Texture{{}}
			},
			kind:  KindUnknownImageIndex,
			index: -1,
		},
		{
			name: "texture sampler",
			build: func(t *testing.T, doc *gltf.Document) {
				tex := appendTexture(t, doc, encodePNG(t, opaqueImage(1, 1)), MimePNG)
				doc.Textures[tex].Sampler = gltf.Index(3)
			},
			kind:  KindUnknownSamplerIndex,
			index: 3,
		},
		{
			name: "primitive material",
			build: func(_ *testing.T, doc *gltf.Document) {
				appendQuadMesh(doc, gltf.Index(8))
			},
			kind:  KindUnknownMaterialIndex,
			index: 8,
		},
		{
			name: "node mesh",
			build: func(_ *testing.T, doc *gltf.Document) {
				doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(1)}}
				doc.Scenes[0].Nodes = []uint32{0}
			},
			kind:  KindUnknownMeshIndex,
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			tt.build(t, doc)
			_, err := importJSON(t, doc)
			ie := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.index, ie.Index)
		})
	}
}

func TestSamplers(t *testing.T) {
	doc := gltf.NewDocument()
	plain := appendTexture(t, doc, encodePNG(t, opaqueImage(1, 1)), MimePNG)
	empty := appendTexture(t, doc, encodePNG(t, opaqueImage(1, 1)), MimePNG)
	custom := appendTexture(t, doc, encodePNG(t, opaqueImage(1, 1)), MimePNG)
	doc.Samplers = []*gltf.Sampler{
		{},
		{
			MinFilter: gltf.MinLinearMipMapLinear,
			MagFilter: gltf.MagNearest,
			WrapS:     gltf.WrapClampToEdge,
			WrapT:     gltf.WrapMirroredRepeat,
		},
	}
	doc.Textures[empty].Sampler = gltf.Index(0)
	doc.Textures[custom].Sampler = gltf.Index(1)

	s, err := importJSON(t, doc)
	require.NoError(t, err)

	assert.Equal(t, scene.DefaultSampler(), s.Textures[plain].Sampler)
	assert.Equal(t, scene.DefaultSampler(), s.Textures[empty].Sampler)
	assert.Equal(t, scene.Sampler{
		WrapS:     scene.WrapClampToEdge,
		WrapT:     scene.WrapMirroredRepeat,
		MinFilter: scene.MinLinearMipmapLinear,
		MagFilter: scene.MagNearest,
	}, s.Textures[custom].Sampler)
}

func TestConvertMinFilter(t *testing.T) {
	tests := map[gltf.MinFilter]scene.MinFilter{
		gltf.MinLinear:               scene.MinLinear,
		gltf.MinNearest:              scene.MinNearest,
		gltf.MinNearestMipMapNearest: scene.MinNearestMipmapNearest,
		gltf.MinLinearMipMapNearest:  scene.MinLinearMipmapNearest,
		gltf.MinNearestMipMapLinear:  scene.MinNearestMipmapLinear,
		gltf.MinLinearMipMapLinear:   scene.MinLinearMipmapLinear,
	}
	for in, want := range tests {
		assert.Equal(t, want, convertMinFilter(in), "min filter %v", in)
	}
}

func TestDefaultMaterialSharedWithinImport(t *testing.T) {
	doc := gltf.NewDocument()
	appendQuadMesh(doc, nil)
	appendQuadMesh(doc, nil)

	s, err := importJSON(t, doc)
	require.NoError(t, err)
	a := s.Meshes[0].Primitives[0].Material
	b := s.Meshes[1].Primitives[0].Material
	assert.Same(t, a, b)
	assert.Equal(t, "default", a.Name)
	assert.Len(t, s.Materials, 1)
}

func TestDefaultMaterialOnlyWhenUsed(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Materials = []*gltf.Material{{Name: "m0"}}
	appendQuadMesh(doc, gltf.Index(0))
	appendQuadMesh(doc, gltf.Index(0))

	s, err := importJSON(t, doc)
	require.NoError(t, err)
	require.Len(t, s.Materials, len(doc.Materials))
	assert.Equal(t, "m0", s.Materials[0].Name)
	for _, mesh := range s.Meshes {
		assert.Same(t, s.Materials[0], mesh.Primitives[0].Material)
	}
}
