package importer

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const dataURIPrefix = "data:"

// buffer returns the bytes of buffer index, resolving it on first use.
func (im *importer) buffer(index uint32) ([]byte, error) {
	if int(index) >= len(im.doc.Buffers) {
		return nil, unknownIndex(KindUnknownBufferIndex, int(index))
	}
	if im.bufferDone[index] {
		return im.doc.Buffers[index].Data, nil
	}

	src := im.doc.Buffers[index]
	var (
		data   []byte
		source string
	)
	switch {
	case src.URI == "":
		// Only the first buffer may refer to the binary chunk.
		if index != 0 || im.bin == nil {
			return nil, &Error{Kind: KindBinSectionMissing, Index: int(index)}
		}
		data, source = im.bin, "embedded"
	case isDataURI(src.URI):
		decoded, _, err := decodeDataURI(src.URI)
		if err != nil {
			return nil, encodingError("buffer", int(index), err)
		}
		data, source = decoded, "inline"
	default:
		path := im.resolvePath(src.URI)
		read, err := os.ReadFile(path)
		if err != nil {
			return nil, ioError("buffer", int(index), path, errors.WithStack(err))
		}
		data, source = read, "file"
	}

	// The binary chunk may carry padding past the declared length.
	if n := int(src.ByteLength); n > 0 && n < len(data) {
		data = data[:n]
	}

	src.Data = data
	im.bufferDone[index] = true
	im.log.Debug("buffer resolved",
		zap.Uint32("buffer", index),
		zap.String("source", source),
		zap.Int("bytes", len(data)))
	return data, nil
}

// resolvePath maps a relative URI onto the asset's base directory.
func (im *importer) resolvePath(uri string) string {
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return filepath.Join(im.baseDir, filepath.FromSlash(uri))
}

func isDataURI(uri string) bool {
	return strings.HasPrefix(uri, dataURIPrefix)
}

// decodeDataURI decodes a "data:<mime>;base64,<payload>" reference and
// returns the payload bytes and the declared mime type.
func decodeDataURI(uri string) ([]byte, string, error) {
	if !isDataURI(uri) {
		return nil, "", errors.Errorf("missing %q scheme", dataURIPrefix)
	}
	header, payload, ok := strings.Cut(uri[len(dataURIPrefix):], ",")
	if !ok {
		return nil, "", errors.New("missing ',' before payload")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, "", errors.New("only base64 payloads are supported")
	}
	if payload == "" {
		return nil, "", errors.New("empty payload")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, "decoding base64 payload")
	}
	return data, mimeType, nil
}
