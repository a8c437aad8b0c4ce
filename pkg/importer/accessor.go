package importer

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func componentSize(c gltf.ComponentType) int {
	switch c {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	default:
		return 4
	}
}

func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	default:
		return 1
	}
}

// accessor returns accessor index after checking that the bytes it
// addresses lie inside its buffer view and buffer. The backing buffer is
// resolved as a side effect so the modeler readers can reach it.
func (im *importer) accessor(index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(im.doc.Accessors) {
		return nil, unknownIndex(KindUnknownAccessorIndex, int(index))
	}
	acc := im.doc.Accessors[index]
	if acc.BufferView == nil {
		return acc, nil
	}

	if int(*acc.BufferView) >= len(im.doc.BufferViews) {
		return nil, unknownIndex(KindUnknownBufferViewIndex, int(*acc.BufferView))
	}
	view := im.doc.BufferViews[*acc.BufferView]
	data, err := im.buffer(view.Buffer)
	if err != nil {
		return nil, err
	}

	viewStart := int(view.ByteOffset)
	viewEnd := viewStart + int(view.ByteLength)
	if viewEnd > len(data) {
		return nil, rangeError(int(view.Buffer), viewStart, viewEnd)
	}

	if acc.Count > 0 {
		elem := componentSize(acc.ComponentType) * componentCount(acc.Type)
		stride := int(view.ByteStride)
		if stride == 0 {
			stride = elem
		}
		end := int(acc.ByteOffset) + stride*(int(acc.Count)-1) + elem
		if end > int(view.ByteLength) {
			return nil, rangeError(int(view.Buffer), viewStart+int(acc.ByteOffset), viewStart+end)
		}
	}
	return acc, nil
}

func accessorError(index uint32, err error) *Error {
	return &Error{Kind: KindMalformedDocument, Resource: "accessor", Index: int(index), Err: err}
}

// readPositions reads a POSITION accessor. Like the other readers, an
// accessor without a buffer view reads as zeros.
func (im *importer) readPositions(index uint32) ([][3]float32, error) {
	acc, err := im.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.BufferView == nil {
		return make([][3]float32, acc.Count), nil
	}
	out, err := modeler.ReadPosition(im.doc, acc, nil)
	if err != nil {
		return nil, accessorError(index, err)
	}
	return out, nil
}

func (im *importer) readNormals(index uint32) ([][3]float32, error) {
	acc, err := im.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.BufferView == nil {
		return make([][3]float32, acc.Count), nil
	}
	out, err := modeler.ReadNormal(im.doc, acc, nil)
	if err != nil {
		return nil, accessorError(index, err)
	}
	return out, nil
}

func (im *importer) readUVs(index uint32) ([][2]float32, error) {
	acc, err := im.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.BufferView == nil {
		return make([][2]float32, acc.Count), nil
	}
	out, err := modeler.ReadTextureCoord(im.doc, acc, nil)
	if err != nil {
		return nil, accessorError(index, err)
	}
	return out, nil
}

func (im *importer) readIndices(index uint32) ([]uint32, error) {
	acc, err := im.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.BufferView == nil {
		return make([]uint32, acc.Count), nil
	}
	out, err := modeler.ReadIndices(im.doc, acc, nil)
	if err != nil {
		return nil, accessorError(index, err)
	}
	return out, nil
}
