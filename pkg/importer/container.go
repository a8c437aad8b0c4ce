package importer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// GLB container constants.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	Length uint32
	Type   uint32
}

// isGLB reports whether data starts with the binary container magic.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic
}

// parseDocument decodes either a binary container or a plain JSON document.
// It returns the document and the embedded binary chunk, if any.
func parseDocument(data []byte) (*gltf.Document, []byte, error) {
	jsonData, bin := data, []byte(nil)
	if isGLB(data) {
		var err error
		jsonData, bin, err = splitGLB(data)
		if err != nil {
			return nil, nil, &Error{Kind: KindMalformedDocument, Index: -1, Err: err}
		}
	}

	doc := new(gltf.Document)
	if err := json.Unmarshal(jsonData, doc); err != nil {
		return nil, nil, &Error{Kind: KindMalformedDocument, Index: -1, Err: errors.Wrap(err, "decoding JSON")}
	}
	return doc, bin, nil
}

// splitGLB returns the JSON chunk and the optional BIN chunk of a GLB file.
func splitGLB(data []byte) ([]byte, []byte, error) {
	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, errors.Wrap(err, "reading GLB header")
	}
	if header.Version != glbVersion {
		return nil, nil, errors.Errorf("unsupported GLB version %d", header.Version)
	}
	if int(header.Length) > len(data) || header.Length < 12 {
		return nil, nil, errors.Errorf("GLB declares %d bytes, got %d", header.Length, len(data))
	}
	r = bytes.NewReader(data[12:header.Length])

	var jsonData, bin []byte
	for first := true; ; first = false {
		var chunk glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF && !first {
				break
			}
			return nil, nil, errors.Wrap(err, "reading GLB chunk header")
		}
		if int64(chunk.Length) > int64(r.Len()) {
			return nil, nil, errors.Errorf("GLB chunk of %d bytes exceeds remaining %d", chunk.Length, r.Len())
		}
		payload := make([]byte, chunk.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, errors.Wrap(err, "reading GLB chunk")
		}

		switch {
		case first && chunk.Type != glbChunkJSON:
			return nil, nil, errors.New("first GLB chunk is not JSON")
		case first:
			jsonData = payload
		case chunk.Type == glbChunkBIN && bin == nil:
			bin = payload
		}
		// Unknown chunk types are skipped.
	}
	return jsonData, bin, nil
}
