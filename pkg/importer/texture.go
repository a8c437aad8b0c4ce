package importer

import (
	"os"

	"github.com/pkg/errors"

	"github.com/Faultbox/scenegraph/pkg/scene"
)

// DecodeTexture builds a standalone texture, outside of any scene, from PNG
// or JPEG data. The texture has index -1 and the default sampler.
func DecodeTexture(data []byte, mimeType string) (*scene.Texture, error) {
	px, err := decodePixels(data, mimeType)
	if err != nil {
		return nil, imageError(-1, mimeType, err)
	}
	return &scene.Texture{
		Index:   -1,
		Pixels:  px.data,
		Width:   px.width,
		Height:  px.height,
		Format:  px.format,
		Sampler: scene.DefaultSampler(),
	}, nil
}

// LoadTexture reads an image file and builds a standalone texture from it.
// The mime type is inferred from the file extension.
func LoadTexture(path string) (*scene.Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("texture", -1, path, errors.WithStack(err))
	}
	tex, err := DecodeTexture(data, mimeFromExtension(path))
	if err != nil {
		return nil, err
	}
	tex.Name = path
	return tex, nil
}
