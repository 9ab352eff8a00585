// Package postgres reads recorded game actions from the PostgreSQL database
// the self-play and game servers write to.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS gomoku_game (
	id BIGINT PRIMARY KEY,
	game_purpose INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gomoku_game_action (
	game_id BIGINT NOT NULL REFERENCES gomoku_game(id),
	step_number INTEGER NOT NULL,
	stone_type INTEGER NOT NULL,
	serialized_board BYTEA NOT NULL,
	game_phase INTEGER NOT NULL,
	policy REAL[] NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (game_id, step_number)
);
`

type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func Open(ctx context.Context, dsn string, logger zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", describe(err))
	}
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate postgres: %w", describe(err))
	}
	return nil
}

// describe adds the SQLSTATE of server side errors.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %v %v: %w", pgErr.Code, pgErr.Message, err)
	}
	return err
}

func (s *Store) InsertGame(ctx context.Context, gameID int64, purpose domain.GamePurpose) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO gomoku_game (id, game_purpose) VALUES ($1, $2)", gameID, int32(purpose))
	if err != nil {
		return fmt.Errorf("insert game %v: %w", gameID, describe(err))
	}
	return nil
}

func (s *Store) InsertActions(ctx context.Context, rows []domain.RawRow) error {
	var n, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{store.ActionTable},
		[]string{"game_id", "step_number", "stone_type", "serialized_board", "game_phase", "policy", "value"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			var r = &rows[i]
			return []any{r.GameID, r.StepNumber, int32(r.StoneType), r.SerializedBoard,
				int32(r.GamePhase), r.Policy, r.Value}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy actions: %w", describe(err))
	}
	s.logger.Debug().Int64("rows", n).Msg("copy actions")
	return nil
}

func (s *Store) CountRows(ctx context.Context, q store.Query) (int, error) {
	var query, args = store.CountSQL(store.Postgres{}, q)
	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows %v: %w", q.Selector, describe(err))
	}
	return int(n), nil
}

func (s *Store) FetchRows(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error) {
	var query, args = store.FetchSQL(store.Postgres{}, q, limit, offset)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch rows %v: %w", q.Selector, describe(err))
	}
	result, err := pgx.CollectRows(rows, scanAction)
	if err != nil {
		return nil, fmt.Errorf("fetch rows %v: %w", q.Selector, describe(err))
	}
	s.logger.Debug().
		Str("selector", q.Selector.String()).
		Int("limit", limit).
		Int("offset", offset).
		Int("rows", len(result)).
		Msg("fetch rows")
	return result, nil
}

func scanAction(row pgx.CollectableRow) (domain.RawRow, error) {
	var r domain.RawRow
	var stoneType, gamePhase int32
	var err = row.Scan(&r.GameID, &r.StepNumber, &stoneType, &r.SerializedBoard,
		&gamePhase, &r.Policy, &r.Value)
	if err != nil {
		return domain.RawRow{}, err
	}
	r.StoneType = domain.StoneType(stoneType)
	r.GamePhase = domain.GamePhase(gamePhase)
	return r, nil
}
