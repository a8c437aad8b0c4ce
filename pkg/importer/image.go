package importer

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/scenegraph/pkg/scene"
)

// Supported image mime types.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// pixels is a decoded image normalized to RGB or RGBA bytes.
type pixels struct {
	data   []byte
	width  int
	height int
	format scene.PixelFormat
}

var errUnsupportedFormat = errors.New("unsupported image format")

// image returns the decoded pixels of image index, decoding it on first use.
func (im *importer) image(index uint32) (*pixels, error) {
	if int(index) >= len(im.doc.Images) {
		return nil, unknownIndex(KindUnknownImageIndex, int(index))
	}
	if px := im.images[index]; px != nil {
		return px, nil
	}

	data, mimeType, err := im.imageBytes(index)
	if err != nil {
		return nil, err
	}

	px, err := decodePixels(data, mimeType)
	if err != nil {
		return nil, imageError(int(index), mimeType, err)
	}

	im.images[index] = px
	im.log.Debug("image decoded",
		zap.Uint32("image", index),
		zap.String("mime", mimeType),
		zap.Int("width", px.width),
		zap.Int("height", px.height),
		zap.Stringer("format", px.format))
	return px, nil
}

// imageBytes returns the encoded payload of an image and its mime type.
func (im *importer) imageBytes(index uint32) ([]byte, string, error) {
	src := im.doc.Images[index]

	if src.BufferView != nil {
		view := *src.BufferView
		if int(view) >= len(im.doc.BufferViews) {
			return nil, "", unknownIndex(KindUnknownBufferViewIndex, int(view))
		}
		bv := im.doc.BufferViews[view]
		buf, err := im.buffer(bv.Buffer)
		if err != nil {
			return nil, "", err
		}
		start := int(bv.ByteOffset)
		end := start + int(bv.ByteLength)
		if end > len(buf) {
			return nil, "", rangeError(int(bv.Buffer), start, end)
		}
		return buf[start:end], src.MimeType, nil
	}

	var (
		data     []byte
		inferred string
	)
	if isDataURI(src.URI) {
		decoded, mimeType, err := decodeDataURI(src.URI)
		if err != nil {
			return nil, "", encodingError("image", int(index), err)
		}
		data, inferred = decoded, mimeType
	} else {
		p := im.resolvePath(src.URI)
		read, err := os.ReadFile(p)
		if err != nil {
			return nil, "", ioError("image", int(index), p, errors.WithStack(err))
		}
		data, inferred = read, mimeFromExtension(src.URI)
	}

	if src.MimeType != "" {
		return data, src.MimeType, nil
	}
	return data, inferred, nil
}

// mimeFromExtension infers a mime type from a file name; unknown
// extensions yield an empty string.
func mimeFromExtension(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return MimePNG
	case ".jpg", ".jpeg":
		return MimeJPEG
	default:
		return ""
	}
}

func imageError(index int, mimeType string, err error) *Error {
	if errors.Is(err, errUnsupportedFormat) {
		return &Error{Kind: KindUnsupportedImageFormat, Index: index, MimeType: mimeType}
	}
	return &Error{Kind: KindImageDecodeFailed, Index: index, MimeType: mimeType, Err: err}
}

// decodePixels decodes PNG or JPEG data. 8-bit RGB and RGBA sources keep
// their channel count; every other layout is converted to RGBA.
func decodePixels(data []byte, mimeType string) (*pixels, error) {
	var (
		img    image.Image
		format = scene.FormatRGBA
		err    error
	)
	switch mimeType {
	case MimePNG:
		// Only opaque 8-bit truecolor decodes to *image.RGBA; a tRNS key
		// yields *image.NRGBA and keeps its alpha.
		img, err = png.Decode(bytes.NewReader(data))
		if _, ok := img.(*image.RGBA); err == nil && ok {
			format = scene.FormatRGB
		}
	case MimeJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
		if _, ok := img.(*image.YCbCr); err == nil && ok {
			format = scene.FormatRGB
		}
	default:
		return nil, errUnsupportedFormat
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rgba := toNRGBA(img)
	b := rgba.Bounds()
	px := &pixels{width: b.Dx(), height: b.Dy(), format: format}
	if format == scene.FormatRGBA {
		px.data = rgba.Pix
		return px, nil
	}

	px.data = make([]byte, 0, px.width*px.height*3)
	for i := 0; i < len(rgba.Pix); i += 4 {
		px.data = append(px.data, rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2])
	}
	return px, nil
}

// toNRGBA returns img as tightly packed, non-premultiplied RGBA anchored at
// the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
