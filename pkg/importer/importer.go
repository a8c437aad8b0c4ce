// Package importer builds a scene.Scene from a glTF 2.0 asset.
//
// An import runs as one sequential pass: buffers, images, textures,
// materials, meshes and finally the node graph. Every resource is built at
// most once per import; the caches live on the import and are discarded with
// it. Any failure aborts the whole import and is reported as an *Error.
package importer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/scenegraph/pkg/math"
	"github.com/Faultbox/scenegraph/pkg/scene"
)

// Options configures an import.
type Options struct {
	// BaseDir resolves relative buffer and image URIs. Import defaults it to
	// the document's directory; ImportBytes to the working directory.
	BaseDir string
	// RootTransform becomes the scene transform. The zero matrix means identity.
	RootTransform math.Mat4
	// SkipValidation disables the structural check of the built graph.
	SkipValidation bool
	// Logger receives stage progress at debug level. Nil disables logging.
	Logger *zap.Logger
}

// importer holds the per-import state: the document and the dedup caches,
// each indexed by source document index.
type importer struct {
	doc     *gltf.Document
	bin     []byte
	baseDir string
	log     *zap.Logger

	bufferDone      []bool
	images          []*pixels
	textures        []*scene.Texture
	materials       []*scene.Material
	meshes          []*scene.Mesh
	skins           []*scene.Skin
	defaultMaterial *scene.Material
}

// Import reads the .gltf or .glb file at path and builds its default scene.
func Import(path string, opts Options) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("document", -1, path, errors.WithStack(err))
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return ImportBytes(data, opts)
}

// ImportBytes builds the default scene of an in-memory .gltf or .glb document.
func ImportBytes(data []byte, opts Options) (*scene.Scene, error) {
	im, err := newImporter(data, opts)
	if err != nil {
		return nil, err
	}
	return im.run(opts)
}

func newImporter(data []byte, opts Options) (*importer, error) {
	doc, bin, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &importer{
		doc:        doc,
		bin:        bin,
		baseDir:    opts.BaseDir,
		log:        log,
		bufferDone: make([]bool, len(doc.Buffers)),
		images:     make([]*pixels, len(doc.Images)),
		textures:   make([]*scene.Texture, len(doc.Textures)),
		materials:  make([]*scene.Material, len(doc.Materials)),
		meshes:     make([]*scene.Mesh, len(doc.Meshes)),
		skins:      make([]*scene.Skin, len(doc.Skins)),
	}, nil
}

// run executes the stages in dependency order. Later stages hit the caches
// filled by earlier ones.
func (im *importer) run(opts Options) (*scene.Scene, error) {
	for i := range im.doc.Buffers {
		if _, err := im.buffer(uint32(i)); err != nil {
			return nil, err
		}
	}
	for i := range im.doc.Images {
		if _, err := im.image(uint32(i)); err != nil {
			return nil, err
		}
	}
	for i := range im.doc.Textures {
		if _, err := im.texture(uint32(i)); err != nil {
			return nil, err
		}
	}
	for i := range im.doc.Materials {
		if _, err := im.material(uint32(i)); err != nil {
			return nil, err
		}
	}
	for i := range im.doc.Meshes {
		if _, err := im.mesh(uint32(i)); err != nil {
			return nil, err
		}
	}

	nodes, roots, err := im.buildGraph()
	if err != nil {
		return nil, err
	}

	s := scene.New()
	if opts.RootTransform != (math.Mat4{}) {
		s.Transform = opts.RootTransform
	}
	s.Nodes = nodes
	s.Roots = roots
	s.Textures = im.textures
	s.Meshes = im.meshes
	s.Materials = im.materials
	if im.defaultMaterial != nil {
		s.Materials = append(s.Materials, im.defaultMaterial)
	}

	if !opts.SkipValidation {
		if err := s.Validate(); err != nil {
			return nil, &Error{Kind: KindInvalidHierarchy, Index: -1, Err: err}
		}
	}

	im.log.Debug("import complete",
		zap.Int("nodes", len(s.Nodes)),
		zap.Int("roots", len(s.Roots)),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("textures", len(s.Textures)))
	return s, nil
}
