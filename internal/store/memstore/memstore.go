// Package memstore keeps recorded games in memory and answers row queries
// with the same selection rules the SQL stores render.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	purposes map[int64]domain.GamePurpose
	actions  []domain.RawRow
}

func New() *Store {
	return &Store{
		purposes: make(map[int64]domain.GamePurpose),
	}
}

func (s *Store) InsertGame(ctx context.Context, gameID int64, purpose domain.GamePurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.purposes[gameID]; found {
		return fmt.Errorf("game %v already exists", gameID)
	}
	s.purposes[gameID] = purpose
	return nil
}

func (s *Store) InsertActions(ctx context.Context, rows []domain.RawRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range rows {
		if _, found := s.purposes[rows[i].GameID]; !found {
			return fmt.Errorf("game %v does not exist", rows[i].GameID)
		}
	}
	for i := range rows {
		s.actions = append(s.actions, cloneRow(rows[i]))
	}
	return nil
}

func (s *Store) CountRows(ctx context.Context, q store.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selectRows(q)), nil
}

func (s *Store) FetchRows(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("bad page limit=%v offset=%v", limit, offset)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected = s.selectRows(q)
	sort.Slice(selected, func(i, j int) bool {
		var a, b = &selected[i], &selected[j]
		var ka, kb = store.OrderKey(a.GameID, a.StepNumber), store.OrderKey(b.GameID, b.StepNumber)
		if ka != kb {
			return ka < kb
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.StepNumber < b.StepNumber
	})

	if offset >= len(selected) {
		return []domain.RawRow{}, nil
	}
	var end = min(offset+limit, len(selected))
	var result = make([]domain.RawRow, 0, end-offset)
	for i := offset; i < end; i++ {
		result = append(result, cloneRow(selected[i]))
	}
	return result, nil
}

// selectRows applies the recent window, then purpose and partition.
func (s *Store) selectRows(q store.Query) []domain.RawRow {
	var window = s.actions
	if q.MostRecent > 0 && q.MostRecent < len(s.actions) {
		window = make([]domain.RawRow, len(s.actions))
		copy(window, s.actions)
		sort.Slice(window, func(i, j int) bool {
			if window[i].GameID != window[j].GameID {
				return window[i].GameID > window[j].GameID
			}
			return window[i].StepNumber > window[j].StepNumber
		})
		window = window[:q.MostRecent]
	}

	var result []domain.RawRow
	for i := range window {
		var row = &window[i]
		if s.purposes[row.GameID] != q.Purpose {
			continue
		}
		if !q.Partition.Contains(row.GameID, q.Seed) {
			continue
		}
		result = append(result, *row)
	}
	return result
}

func cloneRow(row domain.RawRow) domain.RawRow {
	row.SerializedBoard = append([]byte(nil), row.SerializedBoard...)
	row.Policy = append([]float32(nil), row.Policy...)
	return row
}
