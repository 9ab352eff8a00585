package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
	"github.com/e8yes/gomokubatch/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}

func TestInsertActionsUnknownGame(t *testing.T) {
	var s = New()
	var err = s.InsertActions(context.Background(), []domain.RawRow{storetest.Row(5, 0)})
	assert.Error(t, err)

	require.NoError(t, s.InsertGame(context.Background(), 5, domain.PurposeHuman))
	assert.Error(t, s.InsertGame(context.Background(), 5, domain.PurposeHuman))
}

func TestFetchedRowsAreCopies(t *testing.T) {
	var s = New()
	storetest.Seed(t, s)
	var q = store.Query{Selector: store.Selector{Purpose: domain.PurposeHuman}}

	rows, err := s.FetchRows(context.Background(), q, 1, 0)
	require.NoError(t, err)
	rows[0].SerializedBoard[0] = 9
	rows[0].Policy[0] = 9

	again, err := s.FetchRows(context.Background(), q, 1, 0)
	require.NoError(t, err)
	assert.NotEqual(t, byte(9), again[0].SerializedBoard[0])
	assert.NotEqual(t, float32(9), again[0].Policy[0])
}

func TestCanceled(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err := New().CountRows(ctx, store.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}
