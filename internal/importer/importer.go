// Package importer loads recorded actions from JSON lines into a row store.
package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/e8yes/gomokubatch/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Record is one line of an import file.
type Record struct {
	GameID     int64     `json:"game_id"`
	Purpose    int32     `json:"game_purpose"`
	StepNumber int32     `json:"step_number"`
	StoneType  int32     `json:"stone_type"`
	Board      []int     `json:"serialized_board"`
	GamePhase  int32     `json:"game_phase"`
	Policy     []float32 `json:"policy"`
	Value      float32   `json:"value"`
}

func (r *Record) row() (domain.RawRow, error) {
	var board = make([]byte, len(r.Board))
	for i, v := range r.Board {
		if v < 0 || v > 255 {
			return domain.RawRow{}, fmt.Errorf("board cell %v is %v", i, v)
		}
		board[i] = byte(v)
	}
	return domain.RawRow{
		GameID:          r.GameID,
		StepNumber:      r.StepNumber,
		StoneType:       domain.StoneType(r.StoneType),
		SerializedBoard: board,
		GamePhase:       domain.GamePhase(r.GamePhase),
		Policy:          r.Policy,
		Value:           r.Value,
	}, nil
}

// RecordOf is the inverse of the line decoding.
func RecordOf(row domain.RawRow, purpose domain.GamePurpose) Record {
	var board = make([]int, len(row.SerializedBoard))
	for i, b := range row.SerializedBoard {
		board[i] = int(b)
	}
	return Record{
		GameID:     row.GameID,
		Purpose:    int32(purpose),
		StepNumber: row.StepNumber,
		StoneType:  int32(row.StoneType),
		Board:      board,
		GamePhase:  int32(row.GamePhase),
		Policy:     row.Policy,
		Value:      row.Value,
	}
}

type Sink interface {
	InsertGame(ctx context.Context, gameID int64, purpose domain.GamePurpose) error
	InsertActions(ctx context.Context, rows []domain.RawRow) error
}

type chunk struct {
	games map[int64]domain.GamePurpose
	rows  []domain.RawRow
}

type Stats struct {
	Games   int
	Actions int
}

// Load reads r line by line and writes games and actions to sink in chunks
// of chunkSize actions. A game is inserted before its first action.
func Load(ctx context.Context, r io.Reader, sink Sink, chunkSize int) (Stats, error) {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	var chunks = make(chan chunk, 4)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		return readChunks(ctx, r, chunkSize, chunks)
	})

	var stats Stats
	g.Go(func() error {
		var inserted = make(map[int64]domain.GamePurpose)
		for c := range chunks {
			for gameID, purpose := range c.games {
				if known, found := inserted[gameID]; found {
					if known != purpose {
						return fmt.Errorf("game %v has purposes %v and %v", gameID, known, purpose)
					}
					continue
				}
				if err := sink.InsertGame(ctx, gameID, purpose); err != nil {
					return err
				}
				inserted[gameID] = purpose
				stats.Games++
			}
			if err := sink.InsertActions(ctx, c.rows); err != nil {
				return err
			}
			stats.Actions += len(c.rows)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func readChunks(ctx context.Context, r io.Reader, chunkSize int, chunks chan<- chunk) error {
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var current = chunk{games: make(map[int64]domain.GamePurpose)}
	var send = func() error {
		if len(current.rows) == 0 {
			return nil
		}
		select {
		case chunks <- current:
		case <-ctx.Done():
			return ctx.Err()
		}
		current = chunk{games: make(map[int64]domain.GamePurpose)}
		return nil
	}

	var line int
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return fmt.Errorf("line %v: %w", line, err)
		}
		row, err := record.row()
		if err != nil {
			return fmt.Errorf("line %v: %w", line, err)
		}
		var purpose = domain.GamePurpose(record.Purpose)
		if known, found := current.games[row.GameID]; found && known != purpose {
			return fmt.Errorf("line %v: game %v has purposes %v and %v", line, row.GameID, known, purpose)
		}
		current.games[row.GameID] = purpose
		current.rows = append(current.rows, row)
		if len(current.rows) >= chunkSize {
			if err := send(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return send()
}

// Write emits records as JSON lines.
func Write(w io.Writer, records []Record) error {
	var enc = json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return err
		}
	}
	return nil
}
