package etl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTable is an in-memory TableStore.
type memTable struct {
	t       *Table
	saves   int
	loadErr error
}

func (m *memTable) Load(context.Context) (*Table, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.t, nil
}

func (m *memTable) Save(_ context.Context, t *Table) error {
	m.t = t
	m.saves++
	return nil
}

func TestBackfill_FillsOnlyMissing(t *testing.T) {
	tbl := &Table{
		Headers: []string{"businessName", "clerkUserID"},
		Rows: []Row{
			{"businessName": "A", "clerkUserID": "user_1"},
			{"businessName": "B", "clerkUserID": ""},
			{"businessName": "C", "clerkUserID": "nan"},
			{"businessName": "D"},
		},
	}

	n := Backfill(tbl, DefaultIDColumn, nil)
	assert.Equal(t, 3, n)
	assert.Equal(t, "user_1", tbl.Rows[0]["clerkUserID"])

	seen := map[string]bool{}
	for _, r := range tbl.Rows[1:] {
		id := r["clerkUserID"].(string)
		assert.True(t, strings.HasPrefix(id, PlaceholderPrefix), id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestBackfill_AddsColumn(t *testing.T) {
	tbl := &Table{Headers: []string{"businessName"}, Rows: []Row{{"businessName": "A"}}}
	Backfill(tbl, "clerkUserID", PlaceholderIDs{Prefix: "tmp-"})

	assert.Equal(t, []string{"businessName", "clerkUserID"}, tbl.Headers)
	assert.True(t, strings.HasPrefix(tbl.Rows[0]["clerkUserID"].(string), "tmp-"))
}

func TestBackfillStore_Idempotent(t *testing.T) {
	store := &memTable{t: &Table{
		Headers: []string{"businessName", "clerkUserID"},
		Rows:    []Row{{"businessName": "A", "clerkUserID": ""}, {"businessName": "B", "clerkUserID": ""}},
	}}
	ctx := context.Background()

	n, err := BackfillStore(ctx, store, DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.saves)
	first := store.t.Rows[0]["clerkUserID"]

	n, err = BackfillStore(ctx, store, DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, store.saves, "second run should not rewrite the file")
	assert.Equal(t, first, store.t.Rows[0]["clerkUserID"])
}

func TestBackfillStore_SavesWhenColumnAdded(t *testing.T) {
	store := &memTable{t: &Table{Headers: []string{"businessName"}}}
	n, err := BackfillStore(context.Background(), store, DefaultIDColumn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, store.saves)
	assert.True(t, store.t.HasColumn(DefaultIDColumn))
}

func TestBackfillStore_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := BackfillStore(context.Background(), &memTable{loadErr: boom}, DefaultIDColumn, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestIDSourceColumn(t *testing.T) {
	renames := map[string]string{"id": "clerkUserID", "ig": "instagram"}

	tbl := &Table{Headers: []string{"businessName", "id"}}
	assert.Equal(t, "id", IDSourceColumn(tbl, "clerkUserID", renames))

	tbl = &Table{Headers: []string{"businessName", "clerkUserID"}}
	assert.Equal(t, "clerkUserID", IDSourceColumn(tbl, "clerkUserID", renames))
	assert.Equal(t, "clerkUserID", IDSourceColumn(tbl, "clerkUserID", nil))
}

func TestBackfillStore_RenamedIDColumnKeepsRealIDs(t *testing.T) {
	store := &memTable{t: &Table{
		Headers: []string{"businessName", "id"},
		Rows: []Row{
			{"businessName": "A", "id": "user_real"},
			{"businessName": "B", "id": ""},
		},
	}}
	renames := map[string]string{"id": DefaultIDColumn}

	n, err := BackfillStore(context.Background(), store, DefaultIDColumn, renames, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"businessName", "id"}, store.t.Headers)

	rows := ApplyTransformers(store.t.Rows[0].Clone(), BuildTransformers(renames))
	assert.Equal(t, "user_real", rows[DefaultIDColumn])
	rows = ApplyTransformers(store.t.Rows[1].Clone(), BuildTransformers(renames))
	assert.True(t, strings.HasPrefix(rows[DefaultIDColumn].(string), PlaceholderPrefix))
}
