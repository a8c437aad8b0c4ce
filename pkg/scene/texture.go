package scene

import "fmt"

// PixelFormat is the byte layout of a texture's pixel buffer.
type PixelFormat uint8

const (
	// FormatRGBA stores 4 bytes per pixel, non-premultiplied alpha.
	FormatRGBA PixelFormat = iota
	// FormatRGB stores 3 bytes per pixel.
	FormatRGB
)

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	if f == FormatRGB {
		return 3
	}
	return 4
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "RGBA"
	case FormatRGB:
		return "RGB"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// Wrap is a texture coordinate wrapping mode. The zero value is WrapRepeat.
type Wrap uint8

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// String returns the wrap mode name.
func (w Wrap) String() string {
	switch w {
	case WrapRepeat:
		return "Repeat"
	case WrapClampToEdge:
		return "ClampToEdge"
	case WrapMirroredRepeat:
		return "MirroredRepeat"
	default:
		return fmt.Sprintf("Unknown(%d)", w)
	}
}

// MinFilter is a minification filter. The zero value is MinLinear.
type MinFilter uint8

const (
	MinLinear MinFilter = iota
	MinNearest
	MinNearestMipmapNearest
	MinLinearMipmapNearest
	MinNearestMipmapLinear
	MinLinearMipmapLinear
)

// String returns the filter name.
func (f MinFilter) String() string {
	switch f {
	case MinLinear:
		return "Linear"
	case MinNearest:
		return "Nearest"
	case MinNearestMipmapNearest:
		return "NearestMipmapNearest"
	case MinLinearMipmapNearest:
		return "LinearMipmapNearest"
	case MinNearestMipmapLinear:
		return "NearestMipmapLinear"
	case MinLinearMipmapLinear:
		return "LinearMipmapLinear"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// UsesMipmaps reports whether the filter samples mipmap levels.
func (f MinFilter) UsesMipmaps() bool {
	return f >= MinNearestMipmapNearest && f <= MinLinearMipmapLinear
}

// MagFilter is a magnification filter. The zero value is MagLinear.
type MagFilter uint8

const (
	MagLinear MagFilter = iota
	MagNearest
)

// String returns the filter name.
func (f MagFilter) String() string {
	switch f {
	case MagLinear:
		return "Linear"
	case MagNearest:
		return "Nearest"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// Sampler is a texture's sampling configuration. The zero value repeats on
// both axes and filters linearly.
type Sampler struct {
	WrapS     Wrap
	WrapT     Wrap
	MinFilter MinFilter
	MagFilter MagFilter
}

// DefaultSampler returns the sampler used when a source declares none.
func DefaultSampler() Sampler {
	return Sampler{}
}

// Texture is a decoded pixel buffer with its sampling configuration.
type Texture struct {
	// Index is the texture's position in the source document, or -1 for
	// textures built outside scene import.
	Index   int
	Name    string
	Pixels  []byte
	Width   int
	Height  int
	Format  PixelFormat
	Sampler Sampler
}

// Stride returns the number of bytes in one row of pixels.
func (t *Texture) Stride() int {
	return t.Width * t.Format.Channels()
}
