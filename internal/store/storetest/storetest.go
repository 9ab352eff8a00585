// Package storetest checks that a row store follows the shared selection
// rules: purpose filter, partition hash, recent window and stable order.
package storetest

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

type Store interface {
	InsertGame(ctx context.Context, gameID int64, purpose domain.GamePurpose) error
	InsertActions(ctx context.Context, rows []domain.RawRow) error
	CountRows(ctx context.Context, q store.Query) (int, error)
	FetchRows(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error)
}

const (
	Games         = 40
	StepsPerGame  = 6
	HumanGameFrom = 31
)

// Row returns the recorded action used by Seed for (gameID, step).
func Row(gameID int64, step int32) domain.RawRow {
	var board = make([]byte, domain.BoardCells)
	board[int(gameID)%domain.BoardCells] = 1
	board[int(step)%domain.BoardCells] = 2
	var policy = make([]float32, domain.PolicySize)
	policy[int(gameID+int64(step))%domain.BoardCells] = 1
	policy[domain.Swap2ChooseWhite] = 0.25
	return domain.RawRow{
		GameID:          gameID,
		StepNumber:      step,
		StoneType:       domain.StoneType(1 + step%2),
		SerializedBoard: board,
		GamePhase:       domain.GamePhase(int(step) % domain.NumPhases),
		Policy:          policy,
		Value:           float32(gameID%3) - 1,
	}
}

// Seed records games 1..Games; games from HumanGameFrom on are human games,
// the others self-play.
func Seed(t *testing.T, s Store) {
	var ctx = context.Background()
	for gameID := int64(1); gameID <= Games; gameID++ {
		var purpose = domain.PurposeSelfPlay
		if gameID >= HumanGameFrom {
			purpose = domain.PurposeHuman
		}
		require.NoError(t, s.InsertGame(ctx, gameID, purpose))
		var rows []domain.RawRow
		for step := int32(0); step < StepsPerGame; step++ {
			rows = append(rows, Row(gameID, step))
		}
		require.NoError(t, s.InsertActions(ctx, rows))
	}
}

func fetchAll(t *testing.T, s Store, q store.Query) []domain.RawRow {
	n, err := s.CountRows(context.Background(), q)
	require.NoError(t, err)
	rows, err := s.FetchRows(context.Background(), q, n+10, 0)
	require.NoError(t, err)
	require.Len(t, rows, n)
	return rows
}

func key(r domain.RawRow) [2]int64 {
	return [2]int64{r.GameID, int64(r.StepNumber)}
}

// Run seeds s and checks it.
func Run(t *testing.T, s Store) {
	Seed(t, s)
	var ctx = context.Background()

	t.Run("count by purpose", func(t *testing.T) {
		n, err := s.CountRows(ctx, store.Query{Selector: store.Selector{Purpose: domain.PurposeSelfPlay}})
		require.NoError(t, err)
		assert.Equal(t, (HumanGameFrom-1)*StepsPerGame, n)

		n, err = s.CountRows(ctx, store.Query{Selector: store.Selector{Purpose: domain.PurposeHuman}})
		require.NoError(t, err)
		assert.Equal(t, (Games-HumanGameFrom+1)*StepsPerGame, n)
	})

	t.Run("partitions are disjoint", func(t *testing.T) {
		var all = store.Query{Seed: store.DefaultSeed}
		var training, held = all, all
		training.Partition = store.PartitionTraining
		held.Partition = store.PartitionTesting

		var allRows = fetchAll(t, s, all)
		var trainingRows = fetchAll(t, s, training)
		var testingRows = fetchAll(t, s, held)
		assert.Equal(t, len(allRows), len(trainingRows)+len(testingRows))
		assert.NotEmpty(t, trainingRows)
		assert.NotEmpty(t, testingRows)

		var seen = make(map[[2]int64]bool)
		for _, r := range trainingRows {
			assert.True(t, store.PartitionTraining.Contains(r.GameID, store.DefaultSeed))
			seen[key(r)] = true
		}
		for _, r := range testingRows {
			assert.True(t, store.PartitionTesting.Contains(r.GameID, store.DefaultSeed))
			assert.False(t, seen[key(r)])
		}
	})

	t.Run("stable order", func(t *testing.T) {
		var q = store.Query{Seed: store.DefaultSeed}
		var rows = fetchAll(t, s, q)
		assert.True(t, sort.SliceIsSorted(rows, func(i, j int) bool {
			return store.OrderKey(rows[i].GameID, rows[i].StepNumber) <
				store.OrderKey(rows[j].GameID, rows[j].StepNumber)
		}))
		assert.Equal(t, rows, fetchAll(t, s, q))
	})

	t.Run("pages", func(t *testing.T) {
		var q = store.Query{Seed: store.DefaultSeed}
		var rows = fetchAll(t, s, q)
		page, err := s.FetchRows(ctx, q, 7, 10)
		require.NoError(t, err)
		assert.Equal(t, rows[10:17], page)

		page, err = s.FetchRows(ctx, q, 7, len(rows)-3)
		require.NoError(t, err)
		assert.Equal(t, rows[len(rows)-3:], page)
	})

	t.Run("recent window", func(t *testing.T) {
		var q = store.Query{MostRecent: 2 * StepsPerGame}
		var rows = fetchAll(t, s, q)
		// the newest 12 actions belong to the two human games with the largest ids
		require.Len(t, rows, 0)

		q.Purpose = domain.PurposeHuman
		rows = fetchAll(t, s, q)
		require.Len(t, rows, 2*StepsPerGame)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.GameID, int64(Games-1))
		}
	})

	t.Run("round trip", func(t *testing.T) {
		var q = store.Query{Selector: store.Selector{Purpose: domain.PurposeHuman}}
		for _, r := range fetchAll(t, s, q) {
			assert.Equal(t, Row(r.GameID, r.StepNumber), r)
		}
	})
}
