package importer

import (
	stdmath "math"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/scenegraph/pkg/scene"
)

// Attribute names reported by RequiredAttributeMissing.
const (
	AttrPositions = "positions"
	AttrNormals   = "normals"
	AttrUVs       = "uvs"
	AttrIndices   = "indices"
)

// texture returns the texture built from document texture index. Each
// index is built at most once per import.
func (im *importer) texture(index uint32) (*scene.Texture, error) {
	if int(index) >= len(im.doc.Textures) {
		return nil, unknownIndex(KindUnknownTextureIndex, int(index))
	}
	if tex := im.textures[index]; tex != nil {
		im.log.Debug("texture cache hit", zap.Uint32("texture", index))
		return tex, nil
	}

	src := im.doc.Textures[index]
	if src.Source == nil {
		return nil, unknownIndex(KindUnknownImageIndex, -1)
	}
	px, err := im.image(*src.Source)
	if err != nil {
		return nil, err
	}

	sampler := scene.DefaultSampler()
	if src.Sampler != nil {
		if int(*src.Sampler) >= len(im.doc.Samplers) {
			return nil, unknownIndex(KindUnknownSamplerIndex, int(*src.Sampler))
		}
		sampler = convertSampler(im.doc.Samplers[*src.Sampler])
	}

	tex := &scene.Texture{
		Index:   int(index),
		Name:    src.Name,
		Pixels:  px.data,
		Width:   px.width,
		Height:  px.height,
		Format:  px.format,
		Sampler: sampler,
	}
	im.textures[index] = tex
	im.log.Debug("texture built", zap.Uint32("texture", index), zap.Uint32("image", *src.Source))
	return tex, nil
}

// convertSampler maps sampler fields onto the scene's closed enums.
// Unset wraps repeat and unset filters are linear.
func convertSampler(s *gltf.Sampler) scene.Sampler {
	return scene.Sampler{
		WrapS:     convertWrap(s.WrapS),
		WrapT:     convertWrap(s.WrapT),
		MinFilter: convertMinFilter(s.MinFilter),
		MagFilter: convertMagFilter(s.MagFilter),
	}
}

func convertWrap(w gltf.WrappingMode) scene.Wrap {
	switch w {
	case gltf.WrapClampToEdge:
		return scene.WrapClampToEdge
	case gltf.WrapMirroredRepeat:
		return scene.WrapMirroredRepeat
	default:
		return scene.WrapRepeat
	}
}

func convertMinFilter(f gltf.MinFilter) scene.MinFilter {
	switch f {
	case gltf.MinNearest:
		return scene.MinNearest
	case gltf.MinNearestMipMapNearest:
		return scene.MinNearestMipmapNearest
	case gltf.MinLinearMipMapNearest:
		return scene.MinLinearMipmapNearest
	case gltf.MinNearestMipMapLinear:
		return scene.MinNearestMipmapLinear
	case gltf.MinLinearMipMapLinear:
		return scene.MinLinearMipmapLinear
	default:
		return scene.MinLinear
	}
}

func convertMagFilter(f gltf.MagFilter) scene.MagFilter {
	if f == gltf.MagNearest {
		return scene.MagNearest
	}
	return scene.MagLinear
}

// material returns the material built from document material index.
func (im *importer) material(index uint32) (*scene.Material, error) {
	if int(index) >= len(im.doc.Materials) {
		return nil, unknownIndex(KindUnknownMaterialIndex, int(index))
	}
	if mat := im.materials[index]; mat != nil {
		return mat, nil
	}

	src := im.doc.Materials[index]
	mat := &scene.Material{
		Index:     int(index),
		Name:      src.Name,
		BaseColor: [4]float32{1, 1, 1, 1},
	}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			mat.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.BaseColorTexture != nil {
			tex, err := im.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				return nil, err
			}
			mat.Diffuse = tex
		}
	}
	if nt := src.NormalTexture; nt != nil && nt.Index != nil {
		tex, err := im.texture(*nt.Index)
		if err != nil {
			return nil, err
		}
		mat.Normal = tex
	}

	im.materials[index] = mat
	im.log.Debug("material built",
		zap.Uint32("material", index),
		zap.Bool("diffuse", mat.Diffuse != nil),
		zap.Bool("normal", mat.Normal != nil))
	return mat, nil
}

// fallbackMaterial returns the per-import material for primitives that
// declare none.
func (im *importer) fallbackMaterial() *scene.Material {
	if im.defaultMaterial == nil {
		im.defaultMaterial = scene.DefaultMaterial()
	}
	return im.defaultMaterial
}

// mesh returns the mesh built from document mesh index.
func (im *importer) mesh(index uint32) (*scene.Mesh, error) {
	if int(index) >= len(im.doc.Meshes) {
		return nil, unknownIndex(KindUnknownMeshIndex, int(index))
	}
	if mesh := im.meshes[index]; mesh != nil {
		return mesh, nil
	}

	src := im.doc.Meshes[index]
	mesh := &scene.Mesh{
		Index:      int(index),
		Name:       src.Name,
		Primitives: make([]scene.Primitive, 0, len(src.Primitives)),
	}
	for p, prim := range src.Primitives {
		built, err := im.primitive(int(index), p, prim)
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, built)
	}

	im.meshes[index] = mesh
	im.log.Debug("mesh built", zap.Uint32("mesh", index), zap.Int("primitives", len(mesh.Primitives)))
	return mesh, nil
}

func (im *importer) primitive(mesh, p int, prim *gltf.Primitive) (scene.Primitive, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return scene.Primitive{}, attributeMissing(AttrPositions, mesh, p)
	}
	normIdx, ok := prim.Attributes[gltf.NORMAL]
	if !ok {
		return scene.Primitive{}, attributeMissing(AttrNormals, mesh, p)
	}
	uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]
	if !ok {
		return scene.Primitive{}, attributeMissing(AttrUVs, mesh, p)
	}
	if prim.Indices == nil {
		return scene.Primitive{}, attributeMissing(AttrIndices, mesh, p)
	}

	positions, err := im.readPositions(posIdx)
	if err != nil {
		return scene.Primitive{}, err
	}
	normals, err := im.readNormals(normIdx)
	if err != nil {
		return scene.Primitive{}, err
	}
	uvs, err := im.readUVs(uvIdx)
	if err != nil {
		return scene.Primitive{}, err
	}
	wide, err := im.readIndices(*prim.Indices)
	if err != nil {
		return scene.Primitive{}, err
	}

	indices := make([]uint16, len(wide))
	for i, v := range wide {
		if v > stdmath.MaxUint16 {
			return scene.Primitive{}, &Error{Kind: KindIndexCapacityExceeded, Index: mesh, Mesh: mesh, Primitive: p}
		}
		indices[i] = uint16(v)
	}

	var material *scene.Material
	if prim.Material != nil {
		material, err = im.material(*prim.Material)
		if err != nil {
			return scene.Primitive{}, err
		}
	} else {
		material = im.fallbackMaterial()
	}

	return scene.Primitive{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
		Material:  material,
	}, nil
}
