// Package sqlite is a file or in-memory row store for local experiments and
// tests. Policies are kept as JSON arrays since SQLite has no array type.
package sqlite

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS gomoku_game (
	id INTEGER PRIMARY KEY,
	game_purpose INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gomoku_game_action (
	game_id INTEGER NOT NULL REFERENCES gomoku_game(id),
	step_number INTEGER NOT NULL,
	stone_type INTEGER NOT NULL,
	serialized_board BLOB NOT NULL,
	game_phase INTEGER NOT NULL,
	policy TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (game_id, step_number)
);
`

type Store struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// Open connects to dsn (a file path or ":memory:"). A single connection is
// used so an in-memory database is shared by every query.
func Open(dsn string, logger zerolog.Logger) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %v: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// policyColumn stores a policy vector as a JSON array.
type policyColumn []float32

func (p policyColumn) Value() (driver.Value, error) {
	data, err := json.Marshal([]float32(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *policyColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("policy column has type %T", src)
	}
	return json.Unmarshal(data, (*[]float32)(p))
}

type actionRecord struct {
	GameID          int64        `db:"game_id"`
	StepNumber      int32        `db:"step_number"`
	StoneType       int32        `db:"stone_type"`
	SerializedBoard []byte       `db:"serialized_board"`
	GamePhase       int32        `db:"game_phase"`
	Policy          policyColumn `db:"policy"`
	Value           float64      `db:"value"`
}

func (r *actionRecord) row() domain.RawRow {
	return domain.RawRow{
		GameID:          r.GameID,
		StepNumber:      r.StepNumber,
		StoneType:       domain.StoneType(r.StoneType),
		SerializedBoard: r.SerializedBoard,
		GamePhase:       domain.GamePhase(r.GamePhase),
		Policy:          []float32(r.Policy),
		Value:           float32(r.Value),
	}
}

func recordOf(row domain.RawRow) actionRecord {
	return actionRecord{
		GameID:          row.GameID,
		StepNumber:      row.StepNumber,
		StoneType:       int32(row.StoneType),
		SerializedBoard: row.SerializedBoard,
		GamePhase:       int32(row.GamePhase),
		Policy:          policyColumn(row.Policy),
		Value:           float64(row.Value),
	}
}

func (s *Store) InsertGame(ctx context.Context, gameID int64, purpose domain.GamePurpose) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO gomoku_game (id, game_purpose) VALUES (?, ?)", gameID, int32(purpose))
	if err != nil {
		return fmt.Errorf("insert game %v: %w", gameID, err)
	}
	return nil
}

func (s *Store) InsertActions(ctx context.Context, rows []domain.RawRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range rows {
		_, err = tx.NamedExecContext(ctx,
			"INSERT INTO gomoku_game_action "+
				"(game_id, step_number, stone_type, serialized_board, game_phase, policy, value) "+
				"VALUES (:game_id, :step_number, :stone_type, :serialized_board, :game_phase, :policy, :value)",
			recordOf(rows[i]))
		if err != nil {
			return fmt.Errorf("insert action game_id=%v step_number=%v: %w",
				rows[i].GameID, rows[i].StepNumber, err)
		}
	}
	return tx.Commit()
}

func (s *Store) CountRows(ctx context.Context, q store.Query) (int, error) {
	var query, args = store.CountSQL(store.SQLite{}, q)
	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count rows %v: %w", q.Selector, err)
	}
	return n, nil
}

func (s *Store) FetchRows(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error) {
	var query, args = store.FetchSQL(store.SQLite{}, q, limit, offset)
	var records []actionRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("fetch rows %v: %w", q.Selector, err)
	}
	s.logger.Debug().
		Str("selector", q.Selector.String()).
		Int("limit", limit).
		Int("offset", offset).
		Int("rows", len(records)).
		Msg("fetch rows")

	var result = make([]domain.RawRow, len(records))
	for i := range records {
		result[i] = records[i].row()
	}
	return result, nil
}
