package importer

import "fmt"

// Kind classifies an import failure.
type Kind uint8

const (
	KindIO Kind = iota + 1
	KindEncoding
	KindMalformedDocument
	KindUnsupportedImageFormat
	KindImageDecodeFailed
	KindBinSectionMissing
	KindRequiredAttributeMissing
	KindUnknownBufferIndex
	KindUnknownBufferViewIndex
	KindUnknownAccessorIndex
	KindUnknownImageIndex
	KindUnknownSamplerIndex
	KindUnknownTextureIndex
	KindUnknownMaterialIndex
	KindUnknownMeshIndex
	KindUnknownNodeIndex
	KindUnknownSkinIndex
	KindUnknownSceneIndex
	KindBufferRangeOutOfBounds
	KindIndexCapacityExceeded
	KindNodeIndexCapacityExceeded
	KindInvalidHierarchy
)

var kindNames = map[Kind]string{
	KindIO:                        "IOError",
	KindEncoding:                  "EncodingError",
	KindMalformedDocument:         "MalformedDocument",
	KindUnsupportedImageFormat:    "UnsupportedImageFormat",
	KindImageDecodeFailed:         "ImageDecodeFailed",
	KindBinSectionMissing:         "BinSectionMissing",
	KindRequiredAttributeMissing:  "RequiredAttributeMissing",
	KindUnknownBufferIndex:        "UnknownBufferIndex",
	KindUnknownBufferViewIndex:    "UnknownBufferViewIndex",
	KindUnknownAccessorIndex:      "UnknownAccessorIndex",
	KindUnknownImageIndex:         "UnknownImageIndex",
	KindUnknownSamplerIndex:       "UnknownSamplerIndex",
	KindUnknownTextureIndex:       "UnknownTextureIndex",
	KindUnknownMaterialIndex:      "UnknownMaterialIndex",
	KindUnknownMeshIndex:          "UnknownMeshIndex",
	KindUnknownNodeIndex:          "UnknownNodeIndex",
	KindUnknownSkinIndex:          "UnknownSkinIndex",
	KindUnknownSceneIndex:         "UnknownSceneIndex",
	KindBufferRangeOutOfBounds:    "BufferRangeOutOfBounds",
	KindIndexCapacityExceeded:     "IndexCapacityExceeded",
	KindNodeIndexCapacityExceeded: "NodeIndexCapacityExceeded",
	KindInvalidHierarchy:          "InvalidHierarchy",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Error is a structured import failure. Only the fields relevant to Kind are
// set, so a caller can branch on Kind and read the offending indices without
// rescanning the document.
type Error struct {
	Kind Kind
	// Resource names what Index refers to for IO and encoding failures,
	// e.g. "buffer" or "image".
	Resource string
	Index    int

	Mesh      int
	Primitive int
	Attribute string

	Start, End int
	MimeType   string
	Path       string

	Err error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrIO                        = &Error{Kind: KindIO}
	ErrEncoding                  = &Error{Kind: KindEncoding}
	ErrMalformedDocument         = &Error{Kind: KindMalformedDocument}
	ErrUnsupportedImageFormat    = &Error{Kind: KindUnsupportedImageFormat}
	ErrImageDecodeFailed         = &Error{Kind: KindImageDecodeFailed}
	ErrBinSectionMissing         = &Error{Kind: KindBinSectionMissing}
	ErrRequiredAttributeMissing  = &Error{Kind: KindRequiredAttributeMissing}
	ErrUnknownBufferIndex        = &Error{Kind: KindUnknownBufferIndex}
	ErrUnknownBufferViewIndex    = &Error{Kind: KindUnknownBufferViewIndex}
	ErrUnknownAccessorIndex      = &Error{Kind: KindUnknownAccessorIndex}
	ErrUnknownImageIndex         = &Error{Kind: KindUnknownImageIndex}
	ErrUnknownSamplerIndex       = &Error{Kind: KindUnknownSamplerIndex}
	ErrUnknownTextureIndex       = &Error{Kind: KindUnknownTextureIndex}
	ErrUnknownMaterialIndex      = &Error{Kind: KindUnknownMaterialIndex}
	ErrUnknownMeshIndex          = &Error{Kind: KindUnknownMeshIndex}
	ErrUnknownNodeIndex          = &Error{Kind: KindUnknownNodeIndex}
	ErrUnknownSkinIndex          = &Error{Kind: KindUnknownSkinIndex}
	ErrUnknownSceneIndex         = &Error{Kind: KindUnknownSceneIndex}
	ErrBufferRangeOutOfBounds    = &Error{Kind: KindBufferRangeOutOfBounds}
	ErrIndexCapacityExceeded     = &Error{Kind: KindIndexCapacityExceeded}
	ErrNodeIndexCapacityExceeded = &Error{Kind: KindNodeIndexCapacityExceeded}
	ErrInvalidHierarchy          = &Error{Kind: KindInvalidHierarchy}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindIO:
		msg = fmt.Sprintf("io error reading %s %d from %q", e.Resource, e.Index, e.Path)
	case KindEncoding:
		msg = fmt.Sprintf("malformed inline data for %s %d", e.Resource, e.Index)
	case KindMalformedDocument:
		msg = "malformed glTF document"
		if e.Resource != "" {
			msg += fmt.Sprintf(" (%s %d)", e.Resource, e.Index)
		}
	case KindUnsupportedImageFormat:
		msg = fmt.Sprintf("unsupported image format %q for image %d", e.MimeType, e.Index)
	case KindImageDecodeFailed:
		msg = fmt.Sprintf("decoding image %d (%s) failed", e.Index, e.MimeType)
	case KindBinSectionMissing:
		msg = fmt.Sprintf("buffer %d refers to the binary section, but none was attached", e.Index)
	case KindRequiredAttributeMissing:
		msg = fmt.Sprintf("required attribute %q is missing for mesh %d primitive %d", e.Attribute, e.Mesh, e.Primitive)
	case KindBufferRangeOutOfBounds:
		msg = fmt.Sprintf("buffer %d has a view with range (%d..%d) that is out of bounds", e.Index, e.Start, e.End)
	case KindIndexCapacityExceeded:
		msg = fmt.Sprintf("mesh %d primitive %d has vertex indices beyond the 16-bit range", e.Mesh, e.Primitive)
	case KindNodeIndexCapacityExceeded:
		msg = fmt.Sprintf("node index %d exceeds the 16-bit node id range", e.Index)
	case KindInvalidHierarchy:
		msg = fmt.Sprintf("node %d is reachable more than once in the scene hierarchy", e.Index)
	default:
		// The remaining kinds are referential integrity failures.
		msg = fmt.Sprintf("%s %d", e.Kind, e.Index)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func unknownIndex(kind Kind, index int) *Error {
	return &Error{Kind: kind, Index: index}
}

func ioError(resource string, index int, path string, err error) *Error {
	return &Error{Kind: KindIO, Resource: resource, Index: index, Path: path, Err: err}
}

func encodingError(resource string, index int, err error) *Error {
	return &Error{Kind: KindEncoding, Resource: resource, Index: index, Err: err}
}

func rangeError(buffer, start, end int) *Error {
	return &Error{Kind: KindBufferRangeOutOfBounds, Index: buffer, Start: start, End: end}
}

func attributeMissing(attribute string, mesh, primitive int) *Error {
	return &Error{Kind: KindRequiredAttributeMissing, Index: mesh, Mesh: mesh, Primitive: primitive, Attribute: attribute}
}
