package main

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs positions, normals, uvs and ushort indices for one
// triangle, in that order.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	write := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }
	write([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	write([][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	write([][2]float32{{0, 0}, {1, 0}, {0, 1}})
	write([]uint16{0, 1, 2, 0})
	return buf.Bytes()
}

const riggedTemplate = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "hips", "children": [1, 2], "translation": [0, 1, 0]},
    {"name": "spine", "translation": [0, 0.5, 0]},
    {"name": "body", "mesh": 0, "skin": 0},
    {"name": "orphan"}
  ],
  "skins": [{"name": "rig", "joints": [0, 1]}],
  "meshes": [{"name": "tri", "primitives": [{
    "attributes": {"POSITION": 0, "NORMAL": 1, "TEXCOORD_0": 2},
    "indices": 3
  }]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 0, "byteOffset": 36, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 0, "byteOffset": 72, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteLength": 96},
    {"buffer": 0, "byteOffset": 96, "byteLength": 6}
  ],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}]
}`

func writeRig(t *testing.T) string {
	t.Helper()
	data := triangleBuffer()
	doc := fmt.Sprintf(riggedTemplate, len(data), base64.StdEncoding.EncodeToString(data))
	path := filepath.Join(t.TempDir(), "rig.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func runTool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInfo(t *testing.T) {
	code, out, errOut := runTool(t, "info", writeRig(t))
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "Nodes:      4 (1 roots, 1 detached)")
	assert.Contains(t, out, "Meshes:     1 (1 primitives)")
	assert.Contains(t, out, "Triangles:  1")
	assert.Contains(t, out, "Skins:      1")
}

func TestTree(t *testing.T) {
	code, out, errOut := runTool(t, "tree", writeRig(t))
	require.Equal(t, 0, code, errOut)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], `[0] "hips"`), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `  [1] "spine"`), lines[1])
	assert.Contains(t, lines[2], "mesh=0")
	assert.Contains(t, lines[2], "skin=2 joints")
	assert.True(t, strings.HasPrefix(lines[3], `(detached) [3] "orphan"`), lines[3])
}

func TestJoints(t *testing.T) {
	code, out, errOut := runTool(t, "joints", writeRig(t))
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, `Skin "rig" (bound to node 2, skeleton scene root)`)
	// spine sits 0.5 above hips, which sits 1 above the root.
	assert.Contains(t, out, `[1] "spine" (0.000, 1.500, 0.000)`)
}

func TestDraws(t *testing.T) {
	code, out, errOut := runTool(t, "draws", writeRig(t))
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "node 2 mesh 0 tris 1 material -1 diffuse=false normal=false")
	// body hangs off hips, one unit up.
	assert.Contains(t, out, "bounds (0.000, 1.000, 0.000) .. (1.000, 2.000, 0.000)")
	assert.Contains(t, out, "1 draws")
}

func TestDump(t *testing.T) {
	path := writeRig(t)

	code, out, errOut := runTool(t, "dump", path, "1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Name: (string) (len=5) "spine"`)

	code, _, errOut = runTool(t, "dump", path, "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown node")
}

func TestTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 5))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	code, out, errOut := runTool(t, "tex", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Size:    3x5")
	assert.Contains(t, out, "Format:  RGBA (12 bytes/row)")
}

func TestConfigCommand(t *testing.T) {
	code, out, errOut := runTool(t, "config", "-base-dir", "shared")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "base_dir: shared")

	dest := filepath.Join(t.TempDir(), "out.yaml")
	code, _, errOut = runTool(t, "config", dest)
	require.Equal(t, 0, code, errOut)
	assert.FileExists(t, dest)
}

func TestImportErrorReportsKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.gltf")
	doc := `{"asset":{"version":"2.0"},"buffers":[{"byteLength":4,"uri":"data:application/octet-stream;base64,@@@@"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	code, _, errOut := runTool(t, "info", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Kind:  EncodingError")
}

func TestUsage(t *testing.T) {
	code, _, errOut := runTool(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Commands:")

	code, _, errOut = runTool(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unknown command: frobnicate")

	code, _, errOut = runTool(t, "info")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Usage: scenetool info <file>")

	code, out, _ := runTool(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "scenetool - glTF scene import inspector")
}
