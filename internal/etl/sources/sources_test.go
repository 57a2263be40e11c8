package sources_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizloader/internal/etl"
	_ "bizloader/internal/etl/sources"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRegistry_SourceForPath(t *testing.T) {
	for path, want := range map[string]string{
		"a.csv":  "csv_file",
		"a.TSV":  "csv_file",
		"a.json": "json_file",
	} {
		s, err := etl.SourceForPath("", path)
		require.NoError(t, err, path)
		assert.Equal(t, want, s.Spec().Type, path)
	}

	_, err := etl.SourceForPath("", "a.xlsx")
	assert.Error(t, err)

	s, err := etl.SourceForPath("json_file", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "json_file", s.Spec().Type)

	var types []string
	for _, spec := range etl.ListSources() {
		types = append(types, spec.Type)
	}
	assert.Equal(t, []string{"csv_file", "json_file"}, types)
}

func TestCSV_ReadStripsBOMAndBlankLines(t *testing.T) {
	p := writeFile(t, "biz.csv", "\ufeffbusinessName, website\nAcme,acme.biz\n,\nBeta,\"beta, inc\"\n")
	src, _ := etl.GetSource("csv_file")

	tbl, err := src.Read(context.Background(), etl.SourceConfig{"filePath": p})
	require.NoError(t, err)
	assert.Equal(t, []string{"businessName", "website"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, etl.Row{"businessName": "Acme", "website": "acme.biz"}, tbl.Rows[0])
	assert.Equal(t, "beta, inc", tbl.Rows[1]["website"])
}

func TestCSV_ShortRecordLeavesColumnsAbsent(t *testing.T) {
	p := writeFile(t, "biz.csv", "a,b,c\n1\n")
	src, _ := etl.GetSource("csv_file")

	tbl, err := src.Read(context.Background(), etl.SourceConfig{"filePath": p})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	_, ok := tbl.Rows[0]["b"]
	assert.False(t, ok)
}

func TestCSV_TSVDelimiter(t *testing.T) {
	p := writeFile(t, "biz.tsv", "a\tb\nx\ty\n")
	src, _ := etl.GetSource("csv_file")

	tbl, err := src.Read(context.Background(), etl.SourceConfig{"filePath": p})
	require.NoError(t, err)
	assert.Equal(t, etl.Row{"a": "x", "b": "y"}, tbl.Rows[0])
}

func TestCSV_EmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	src, _ := etl.GetSource("csv_file")
	_, err := src.Read(context.Background(), etl.SourceConfig{"filePath": p})
	assert.Error(t, err)
}

func TestCSV_BackfillRoundTrip(t *testing.T) {
	p := writeFile(t, "biz.csv", "businessName,website\nAcme,acme.biz\nBeta,beta.biz\n")
	src, _ := etl.GetSource("csv_file")
	store := &etl.FileTable{Source: src, Config: etl.SourceConfig{"filePath": p}}
	ctx := context.Background()

	n, err := etl.BackfillStore(ctx, store, etl.DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tbl, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"businessName", "website", "clerkUserID"}, tbl.Headers)
	first := tbl.Rows[0]["clerkUserID"]
	assert.Regexp(t, `^placeholder-[0-9a-f-]{36}$`, first)

	n, err = etl.BackfillStore(ctx, store, etl.DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	tbl, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, tbl.Rows[0]["clerkUserID"])

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestJSON_ReadKeepsNumbers(t *testing.T) {
	p := writeFile(t, "biz.json", `[{"businessName":"Acme","pointOfContactPhoneNumber":5551234,"tags":["a"]},{"businessName":"Beta","logoUrl":null}]`)
	src, _ := etl.GetSource("json_file")

	tbl, err := src.Read(context.Background(), etl.SourceConfig{"filePath": p})
	require.NoError(t, err)
	assert.Equal(t, []string{"businessName", "pointOfContactPhoneNumber", "tags", "logoUrl"}, tbl.Headers)
	assert.Equal(t, json.Number("5551234"), tbl.Rows[0]["pointOfContactPhoneNumber"])
	assert.Equal(t, `["a"]`, tbl.Rows[0]["tags"])
	assert.Nil(t, tbl.Rows[1]["logoUrl"])
}

func TestJSON_DataPath(t *testing.T) {
	p := writeFile(t, "biz.json", `{"data":{"items":[{"businessName":"Acme"}]}}`)
	src, _ := etl.GetSource("json_file")
	ctx := context.Background()

	cfg := etl.SourceConfig{"filePath": p, "dataPath": "data.items"}
	tbl, err := src.Read(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)

	assert.Error(t, src.Write(ctx, cfg, tbl))

	_, err = src.Read(ctx, etl.SourceConfig{"filePath": p, "dataPath": "data.items.nope"})
	assert.Error(t, err)
}

func TestJSON_WriteBack(t *testing.T) {
	p := writeFile(t, "biz.json", `[{"businessName":"Acme","pointOfContactPhoneNumber":5551234}]`)
	src, _ := etl.GetSource("json_file")
	store := &etl.FileTable{Source: src, Config: etl.SourceConfig{"filePath": p}}
	ctx := context.Background()

	n, err := etl.BackfillStore(ctx, store, etl.DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, float64(5551234), out[0]["pointOfContactPhoneNumber"])
	assert.Contains(t, out[0]["clerkUserID"], "placeholder-")
}
