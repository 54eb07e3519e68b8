package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoFile(t *testing.T) {
	_, ok := Extract(nil, "", "")
	assert.False(t, ok)
}

func TestExtract_PlainText(t *testing.T) {
	p, ok := Extract([]byte("Ведущий аналитик, 5 лет опыта"), "text/plain; charset=utf-8", "cv")
	require.True(t, ok)
	assert.Equal(t, LabelText, p.Label)
	assert.Equal(t, "Ведущий аналитик, 5 лет опыта", p.Text)

	p, ok = Extract([]byte("by extension"), "application/octet-stream", "notes.TXT")
	require.True(t, ok)
	assert.Equal(t, LabelText, p.Label)
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	p, ok := Extract([]byte{0xff, 0xfe, 'a'}, "text/plain", "a.txt")
	require.True(t, ok)
	assert.Equal(t, LabelError, p.Label)
	assert.True(t, strings.HasPrefix(p.Text, "file parse error: "))
}

func TestExtract_JSONPretty(t *testing.T) {
	p, ok := Extract([]byte(`{"b":1,"a":"中文 <tag>"}`), "", "plan.json")
	require.True(t, ok)
	assert.Equal(t, LabelJSON, p.Label)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"中文 <tag>\"\n}", p.Text)
}

func TestExtract_JSONDecodesEscapes(t *testing.T) {
	p, ok := Extract([]byte(`{"a":"\u4e2d","name":"\u4e2d\u6587","s":"\/x","q":"say \"hi\""}`), "application/json", "a.json")
	require.True(t, ok)
	assert.Equal(t, LabelJSON, p.Label)
	assert.Equal(t, "{\n  \"a\": \"中\",\n  \"name\": \"中文\",\n  \"s\": \"/x\",\n  \"q\": \"say \\\"hi\\\"\"\n}", p.Text)
}

func TestExtract_JSONNestedAndScalars(t *testing.T) {
	p, ok := Extract([]byte(` {"list":[1.50,true,null,{}],"empty":[],"big":12345678901234567890} `), "", "d.json")
	require.True(t, ok)
	want := "{\n" +
		"  \"list\": [\n" +
		"    1.50,\n" +
		"    true,\n" +
		"    null,\n" +
		"    {}\n" +
		"  ],\n" +
		"  \"empty\": [],\n" +
		"  \"big\": 12345678901234567890\n" +
		"}"
	assert.Equal(t, want, p.Text)
}

func TestExtract_JSONTrailingData(t *testing.T) {
	p, ok := Extract([]byte(`{"a":1} {"b":2}`), "application/json", "x.json")
	require.True(t, ok)
	assert.Equal(t, LabelError, p.Label)
}

func TestExtract_JSONParseFailure(t *testing.T) {
	p, ok := Extract([]byte(`{"broken":`), "application/json", "x.json")
	require.True(t, ok)
	assert.Equal(t, LabelError, p.Label)
	assert.True(t, strings.HasPrefix(p.Text, "file parse error: "), p.Text)
	assert.Greater(t, len(p.Text), len("file parse error: "))
}

func TestExtract_Tabular(t *testing.T) {
	for _, tc := range []struct{ mime, name string }{
		{"application/vnd.ms-excel", "a.xls"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "a.xlsx"},
		{"text/csv", "report.csv"},
	} {
		p, ok := Extract([]byte("a,b\n1,2"), tc.mime, tc.name)
		require.True(t, ok)
		assert.Equal(t, LabelTabular, p.Label, tc.name)
		assert.Equal(t, TabularPlaceholder, p.Text)
	}
}

func TestExtract_UnknownBestEffort(t *testing.T) {
	p, ok := Extract([]byte("# Title\nbad \xff byte"), "text/markdown", "readme.md")
	require.True(t, ok)
	assert.Equal(t, LabelUnknown, p.Label)
	assert.Equal(t, "# Title\nbad � byte", p.Text)
}

func TestExtract_Binary(t *testing.T) {
	p, ok := Extract([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01}, "image/png", "a.png")
	require.True(t, ok)
	assert.Equal(t, LabelUnsupported, p.Label)
	assert.Equal(t, UnparsableMessage, p.Text)
}
