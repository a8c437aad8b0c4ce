package importer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glbChunkExtension = 0x5458454e // arbitrary unknown chunk type

func TestSplitGLB(t *testing.T) {
	jsonData := []byte(`{"asset":{"version":"2.0"}}`)
	glb := frameChunks(glbVersion,
		glbChunk{kind: glbChunkJSON, data: pad4(append([]byte(nil), jsonData...), ' ')},
		glbChunk{kind: glbChunkExtension, data: []byte{9, 9, 9, 9}},
		glbChunk{kind: glbChunkBIN, data: []byte{1, 2, 3, 4}},
		glbChunk{kind: glbChunkBIN, data: []byte{5, 6, 7, 8}},
	)
	require.True(t, isGLB(glb))

	gotJSON, bin, err := splitGLB(glb)
	require.NoError(t, err)
	assert.JSONEq(t, string(jsonData), string(gotJSON))
	// Unknown chunks are skipped and only the first BIN chunk counts.
	assert.Equal(t, []byte{1, 2, 3, 4}, bin)
}

func TestSplitGLBWithoutBin(t *testing.T) {
	glb := frameGLB([]byte(`{"asset":{"version":"2.0"}}`), nil)
	_, bin, err := splitGLB(glb)
	require.NoError(t, err)
	assert.Nil(t, bin)
}

func TestParseDocumentErrors(t *testing.T) {
	valid := frameGLB([]byte(`{"asset":{"version":"2.0"}}`), []byte{1, 2, 3, 4})

	truncated := append([]byte(nil), valid[:len(valid)-6]...)
	binary.LittleEndian.PutUint32(truncated[8:], uint32(len(truncated)))

	overlong := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(overlong[8:], uint32(len(valid)+100))

	tests := map[string][]byte{
		"version 1":         frameChunks(1, glbChunk{kind: glbChunkJSON, data: []byte("{}  ")}),
		"bin first":         frameChunks(glbVersion, glbChunk{kind: glbChunkBIN, data: []byte{0, 0, 0, 0}}),
		"no chunks":         frameChunks(glbVersion),
		"header only magic": valid[:4],
		"truncated chunk":   truncated,
		"length past end":   overlong,
		"bad json chunk":    frameGLB([]byte(`{"asset":`), nil),
		"plain garbage":     []byte("not a document"),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseDocument(data)
			ie := requireKind(t, err, KindMalformedDocument)
			assert.Error(t, ie.Unwrap())
		})
	}
}

func TestParseDocumentPlainJSON(t *testing.T) {
	doc, bin, err := parseDocument([]byte(`{"asset":{"version":"2.0"},"nodes":[{"name":"a"}]}`))
	require.NoError(t, err)
	assert.Nil(t, bin)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "a", doc.Nodes[0].Name)
}
