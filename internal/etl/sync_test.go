package etl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizloader/internal/domain"
)

// fakeDest records every InsertMany call.
type fakeDest struct {
	calls   int
	batches [][]domain.Business
	err     error
}

func (f *fakeDest) InsertMany(_ context.Context, records []domain.Business) (int, error) {
	f.calls++
	f.batches = append(f.batches, records)
	if f.err != nil {
		return 0, f.err
	}
	return len(records), nil
}

func TestEngine_Run_MixedRows(t *testing.T) {
	missingEmail := validRow()
	missingEmail["businessName"] = "NoMail"
	missingEmail["pointOfContactEmail"] = ""

	badPhone := validRow()
	badPhone["businessName"] = "BadPhone"
	badPhone["pointOfContactPhoneNumber"] = "not-a-number"

	second := validRow()
	second["businessName"] = "Beta"

	dest := &fakeDest{}
	emitter := &MockEmitter{}
	e := &Engine{Dest: dest, Emitter: emitter, Mapper: &Mapper{IDs: fixedIDs("id")}}

	res, err := e.Run(context.Background(), []Row{validRow(), missingEmail, badPhone, second})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 2, res.RowsAccepted)
	assert.Equal(t, 2, res.RowsWritten)

	require.Equal(t, 1, dest.calls)
	require.Len(t, dest.batches[0], 2)
	assert.Equal(t, "Acme", dest.batches[0][0].BusinessName)
	assert.Equal(t, "Beta", dest.batches[0][1].BusinessName)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 1, res.Skipped[0].Index)
	assert.Equal(t, "NoMail", res.Skipped[0].BusinessName)
	assert.ErrorIs(t, res.Skipped[0], ErrMissingField)
	assert.Equal(t, "BadPhone", res.Skipped[1].BusinessName)
	assert.ErrorIs(t, res.Skipped[1], ErrCoercion)

	assert.Equal(t, 2, emitter.Count(EventRowAccepted))
	assert.Equal(t, 2, emitter.Count(EventRowSkipped))
	assert.Equal(t, 1, emitter.Count(EventBatchWritten))
}

func TestEngine_Run_NoValidRowsSkipsWrite(t *testing.T) {
	row := validRow()
	delete(row, "businessName")

	dest := &fakeDest{}
	emitter := &MockEmitter{}
	res, err := (&Engine{Dest: dest, Emitter: emitter}).Run(context.Background(), []Row{row})
	require.NoError(t, err)

	assert.Equal(t, 0, dest.calls)
	assert.Equal(t, 0, res.RowsWritten)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, UnknownBusiness, res.Skipped[0].DisplayName())
	assert.Equal(t, 0, emitter.Count(EventBatchWritten))
}

func TestEngine_Run_SinkErrorIsFatal(t *testing.T) {
	boom := errors.New("duplicate key")
	dest := &fakeDest{err: boom}

	res, err := (&Engine{Dest: dest}).Run(context.Background(), []Row{validRow()})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 1, res.RowsAccepted)
}

func TestEngine_Run_DoesNotMutateInput(t *testing.T) {
	row := validRow()
	row["business_name"] = row["businessName"]
	delete(row, "businessName")
	row["address"] = "  1 Main St  "

	e := &Engine{Transforms: BuildTransformers(map[string]string{"business_name": "businessName"})}
	res, err := e.Run(context.Background(), []Row{row})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Acme", res.Records[0].BusinessName)
	assert.Equal(t, "  1 Main St  ", res.Records[0].Address)

	assert.Equal(t, "Acme", row["business_name"])
	assert.Equal(t, "  1 Main St  ", row["address"])
}

func TestEngine_Run_DiscardWriter(t *testing.T) {
	res, err := (&Engine{Dest: DiscardWriter{}}).Run(context.Background(), []Row{validRow()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsAccepted)
	assert.Equal(t, 0, res.RowsWritten)
}
