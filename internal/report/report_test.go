package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gotruss/internal/record"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

func bridge(t *testing.T) *Report {
	t.Helper()
	nodes := []truss.Node{
		{ID: 1, X: 0, Y: 0, FixedX: true, FixedY: true},
		{ID: 2, X: 4, Y: 0, LoadY: -50000},
		{ID: 3, X: 8, Y: 0, FixedY: true},
		{ID: 4, X: 4, Y: 4},
	}
	el := func(id, s, e int) truss.Element {
		return truss.Element{ID: id, Start: s, End: e, E: 200e9, A: 15e-4, Yield: 250e6}
	}
	elements := []truss.Element{el(1, 1, 2), el(2, 2, 3), el(3, 1, 4), el(4, 2, 4), el(5, 4, 3)}

	opts := truss.DefaultOptions()
	m := truss.NewModel(nodes, elements, opts.MinLength)
	r, err := truss.AnalyzeModel(m, opts)
	require.NoError(t, err)
	return New("Bridge", m, r)
}

func unstable(t *testing.T) *Report {
	t.Helper()
	nodes := []truss.Node{{ID: 1}, {ID: 2, X: 1}}
	elements := []truss.Element{{ID: 1, Start: 1, End: 2, E: 1, A: 1, Yield: 1}}
	opts := truss.DefaultOptions()
	m := truss.NewModel(nodes, elements, opts.MinLength)
	r, err := truss.AnalyzeModel(m, opts)
	require.NoError(t, err)
	require.False(t, r.Stable())
	return New("", m, r)
}

func TestWriteText(t *testing.T) {
	rep := bridge(t)
	rep.Combination = "1.4D"
	rep.Warnings = []string{"member 9 connects joint 2 to itself; dropped"}

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "Bridge - DIRECT STIFFNESS METHOD")
	assert.Contains(t, out, "MEMBER FORCES:")
	assert.Contains(t, out, "50.00")
	assert.Contains(t, out, "-35.36")
	assert.Contains(t, out, "compression")
	assert.Contains(t, out, "REACTIONS:")
	assert.Regexp(t, `Load combination:\s+1\.4D`, out)
	assert.Contains(t, out, "⚠ member 9")
	assert.Contains(t, out, "3 tension, 2 compression, 0 zero-force")
}

func TestWriteTextUnstable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, unstable(t).WriteText(&buf))
	assert.Contains(t, buf.String(), "UNSTABLE")
	assert.NotContains(t, buf.String(), "MEMBER FORCES:")
	assert.Contains(t, buf.String(), "Truss Analysis")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bridge(t).WriteXLSX(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetSummary, SheetNodes, SheetElements}, f.GetSheetList())

	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	var verdict string
	for _, r := range rows {
		if len(r) > 1 && r[0] == "Verdict" {
			verdict = r[1]
		}
	}
	assert.Equal(t, "SAFE", verdict)

	rows, err = f.GetRows(SheetElements)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "force", rows[0][7])
	assert.Equal(t, "tension", rows[4][10])
}

func TestWriteXLSXReadsBackAsInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bridge(t).WriteXLSX(&buf))

	in, err := record.DecodeBytes(buf.Bytes(), record.XLSX)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 4)
	require.Len(t, in.Elements, 5)
	assert.True(t, bool(in.Nodes[0].IsFixedX))
	assert.False(t, bool(in.Nodes[2].IsFixedX))
	assert.Equal(t, -50000.0, in.Nodes[1].LoadY)
	assert.Equal(t, 4, in.Elements[4].Start)
}

func TestWritePDF(t *testing.T) {
	for _, rep := range []*Report{bridge(t), unstable(t)} {
		var buf bytes.Buffer
		require.NoError(t, rep.WritePDF(&buf, -1))
		assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	}
}

func TestSupportLabel(t *testing.T) {
	assert.Equal(t, "Pinned", SupportLabel(truss.Node{FixedX: true, FixedY: true}))
	assert.Equal(t, "Roller", SupportLabel(truss.Node{FixedY: true}))
	assert.Equal(t, "Guide", SupportLabel(truss.Node{FixedX: true}))
	assert.Equal(t, "Free", SupportLabel(truss.Node{}))
}
