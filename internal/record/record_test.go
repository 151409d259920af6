package record

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

const barJSON = `{
  "nodes": [
    {"id": 1, "x": 0, "y": 0, "loadX": 0, "loadY": 0, "isFixedX": true, "isFixedY": "true"},
    {"id": 2, "x": 10, "y": 0, "loadX": 100, "loadY": 0, "isFixedX": "false", "isFixedY": 1}
  ],
  "elements": [
    {"id": 1, "start": 1, "end": 2, "E": 200000, "A": 1, "yield": 250}
  ]
}`

func TestDecodeJSONLenientFlags(t *testing.T) {
	in, err := DecodeBytes([]byte(barJSON), JSON)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 2)
	require.Len(t, in.Elements, 1)

	assert.True(t, bool(in.Nodes[0].IsFixedX))
	assert.True(t, bool(in.Nodes[0].IsFixedY))
	assert.False(t, bool(in.Nodes[1].IsFixedX))
	assert.True(t, bool(in.Nodes[1].IsFixedY))
	assert.Equal(t, 100.0, in.Nodes[1].LoadX)
	assert.Equal(t, Element{ID: 1, Start: 1, End: 2, E: 200000, A: 1, Yield: 250}, in.Elements[0])
}

func TestDecodeRejectsBadFlag(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"nodes":[{"id":1,"isFixedX":"maybe"}],"elements":[]}`), JSON)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestDecodeYAML(t *testing.T) {
	doc := `
nodes:
  - {id: 1, x: 0, y: 0, isFixedX: true, isFixedY: true}
  - {id: 2, x: 10, y: 0, loadX: 100, isFixedY: "yes"}
elements:
  - {id: 1, start: 1, end: 2, E: 200000, A: 1, yield: 250}
`
	in, err := DecodeBytes([]byte(doc), YAML)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 2)
	assert.True(t, bool(in.Nodes[1].IsFixedY))
	assert.False(t, bool(in.Nodes[1].IsFixedX))
	assert.Equal(t, 200000.0, in.Elements[0].E)
}

func TestDecodeTOML(t *testing.T) {
	doc := `
[[nodes]]
id = 1
x = 0.0
y = 0.0
isFixedX = true
isFixedY = "true"

[[nodes]]
id = 2
x = 10.0
y = 0.0
loadX = 100.0

[[elements]]
id = 1
start = 1
end = 2
E = 200000.0
A = 1.0
yield = 250.0
`
	in, err := DecodeBytes([]byte(doc), TOML)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 2)
	assert.True(t, bool(in.Nodes[0].IsFixedY))
	assert.Equal(t, 10.0, in.Nodes[1].X)
	assert.Equal(t, 2, in.Elements[0].End)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"nodes": [`), JSON)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, err = DecodeBytes([]byte(`{}`), Format("csv"))
	assert.True(t, apperr.Is(err, apperr.CodeInvalidFormat))
}

func workbook(t *testing.T, nodes, elements [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Nodes"))
	_, err := f.NewSheet("Elements")
	require.NoError(t, err)

	write := func(sheet string, rows [][]any) {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	write("Nodes", nodes)
	write("Elements", elements)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	data := workbook(t,
		[][]any{
			{"ID", "X", "Y", "LoadX", "LoadY", "isFixedX", "isFixedY", "Type"},
			{1, 0, 0, 0, 0, "true", "true", "Pinned"},
			{},
			{2, 10, 0, 100, 0, "false", "true", "Roller"},
		},
		[][]any{
			{"yield", "id", "start", "end", "E", "A"},
			{250, 1, 1, 2, 200000, 1},
		},
	)

	in, err := DecodeBytes(data, XLSX)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 2)
	assert.Equal(t, 2, in.Nodes[1].ID)
	assert.Equal(t, 100.0, in.Nodes[1].LoadX)
	assert.True(t, bool(in.Nodes[0].IsFixedX))
	assert.False(t, bool(in.Nodes[1].IsFixedX))
	assert.Equal(t, "Roller", in.Nodes[1].Type)

	require.Len(t, in.Elements, 1)
	assert.Equal(t, Element{ID: 1, Start: 1, End: 2, E: 200000, A: 1, Yield: 250}, in.Elements[0])
}

func TestDecodeXLSXBadCell(t *testing.T) {
	data := workbook(t,
		[][]any{{"id", "x", "y"}, {1, "abc", 0}},
		[][]any{{"id", "start", "end"}},
	)
	_, err := DecodeBytes(data, XLSX)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
	assert.Contains(t, err.Error(), "row 2 column x")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, YAML, FormatFromPath("bridge.yml"))
	assert.Equal(t, YAML, FormatFromPath("bridge.YAML"))
	assert.Equal(t, TOML, FormatFromPath("bridge.toml"))
	assert.Equal(t, XLSX, FormatFromPath("bridge.xlsx"))
	assert.Equal(t, JSON, FormatFromPath("bridge"))

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("csv")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidFormat))
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeFileNotFound))
}

func TestInputRoundTripThroughEngine(t *testing.T) {
	in, err := DecodeBytes([]byte(barJSON), JSON)
	require.NoError(t, err)

	nodes, elements := in.Truss()
	res, err := truss.Analyze(nodes, elements, truss.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewOutput(res).Encode(&buf, JSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["status"])
	assert.Len(t, got["nodes"], 2)
	assert.Len(t, got["elements"], 1)

	el := got["elements"].([]any)[0].(map[string]any)
	assert.InDelta(t, 100.0, el["force"], 1e-9)
	assert.InDelta(t, 2.5, el["safety"], 1e-9)
}

func TestOutputUnstableShape(t *testing.T) {
	out := NewOutput(&truss.Result{Status: truss.StatusUnstable})

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unstable"}`, string(b))

	var buf bytes.Buffer
	require.NoError(t, out.Encode(&buf, YAML))
	assert.Equal(t, "status: unstable", strings.TrimSpace(buf.String()))
}

func TestOutputEmptySuccessKeepsLists(t *testing.T) {
	b, err := json.Marshal(NewOutput(&truss.Result{Status: truss.StatusSuccess}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","nodes":[],"elements":[]}`, string(b))
}

func TestInputEncodeYAMLRoundTrip(t *testing.T) {
	in, err := DecodeBytes([]byte(barJSON), JSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, in.Encode(&buf, YAML))
	back, err := Decode(&buf, YAML)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}
