// Package store holds what every row store shares: the selection model
// (purpose, train/test partition, recent window), the stable hashes behind
// it, and their SQL rendering.
package store

import (
	"fmt"
	"strings"

	"github.com/e8yes/gomokubatch/internal/domain"
)

const (
	DefaultSeed = 378126

	HashModulus    = 2147483647
	HashMultiplier = 48271
	OrderStride    = 1031

	PartitionBuckets = 10
	TrainingBuckets  = 8
)

type Partition int

const (
	PartitionAll Partition = iota
	PartitionTraining
	PartitionTesting
)

func (p Partition) String() string {
	switch p {
	case PartitionAll:
		return "all"
	case PartitionTraining:
		return "training"
	case PartitionTesting:
		return "testing"
	}
	return fmt.Sprintf("Partition(%d)", int(p))
}

func ParsePartition(s string) (Partition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PartitionAll, nil
	case "training", "train":
		return PartitionTraining, nil
	case "testing", "test":
		return PartitionTesting, nil
	}
	return 0, fmt.Errorf("unknown partition %q", s)
}

// PartitionBucket hashes a game into one of 10 buckets. The arithmetic is the
// one rendered by PartitionClause, so Go and SQL agree on every game.
func PartitionBucket(gameID, seed int64) int64 {
	return (gameID + seed) % HashModulus * HashMultiplier % HashModulus % PartitionBuckets
}

// Contains reports whether all actions of the game belong to p.
func (p Partition) Contains(gameID, seed int64) bool {
	switch p {
	case PartitionTraining:
		return PartitionBucket(gameID, seed) < TrainingBuckets
	case PartitionTesting:
		return PartitionBucket(gameID, seed) >= TrainingBuckets
	}
	return true
}

// OrderKey is the stable pseudo random position of an action in a partition.
func OrderKey(gameID int64, stepNumber int32) int64 {
	return (gameID*OrderStride + int64(stepNumber)) % HashModulus * HashMultiplier % HashModulus
}

// Selector picks the rows a batch is drawn from.
type Selector struct {
	Purpose   domain.GamePurpose
	Partition Partition
}

func (s Selector) String() string {
	return fmt.Sprintf("purpose=%d/%v", int32(s.Purpose), s.Partition)
}

type Query struct {
	Selector
	Seed int64
	// MostRecent restricts the rows to the newest ones by (game_id,
	// step_number). Zero means every recorded row.
	MostRecent int
}

// Dialect renders bind parameters.
type Dialect interface {
	Placeholder(n int) string
}

type Postgres struct{}

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

type SQLite struct{}

func (SQLite) Placeholder(n int) string { return "?" }

const (
	GameTable   = "gomoku_game"
	ActionTable = "gomoku_game_action"

	actionColumns = "gga.game_id AS game_id, gga.step_number AS step_number, " +
		"gga.stone_type AS stone_type, gga.serialized_board AS serialized_board, " +
		"gga.game_phase AS game_phase, gga.policy AS policy, gga.value AS value"
)

func PartitionClause(q Query) string {
	var bucket = fmt.Sprintf("((gga.game_id + %d) %% %d * %d %% %d %% %d)",
		q.Seed, HashModulus, HashMultiplier, HashModulus, PartitionBuckets)
	switch q.Partition {
	case PartitionTraining:
		return fmt.Sprintf(" AND %s < %d ", bucket, TrainingBuckets)
	case PartitionTesting:
		return fmt.Sprintf(" AND %s >= %d ", bucket, TrainingBuckets)
	}
	return " AND TRUE "
}

func WindowSource(q Query) string {
	if q.MostRecent <= 0 {
		return " " + ActionTable + " "
	}
	return fmt.Sprintf("(SELECT * FROM %s ORDER BY game_id DESC, step_number DESC LIMIT %d)",
		ActionTable, q.MostRecent)
}

func orderExpression() string {
	return fmt.Sprintf("((gga.game_id * %d + gga.step_number) %% %d * %d %% %d)",
		OrderStride, HashModulus, HashMultiplier, HashModulus)
}

// CountSQL renders the partition size query.
func CountSQL(d Dialect, q Query) (string, []any) {
	var sql = fmt.Sprintf("SELECT COUNT(*) FROM %s AS gga "+
		"JOIN %s ga ON gga.game_id = ga.id "+
		"WHERE ga.game_purpose = %s%s",
		WindowSource(q), GameTable, d.Placeholder(1), PartitionClause(q))
	return sql, []any{int32(q.Purpose)}
}

// FetchSQL renders one page of the partition in its stable order.
func FetchSQL(d Dialect, q Query, limit, offset int) (string, []any) {
	var sql = fmt.Sprintf("SELECT %s FROM %s AS gga "+
		"JOIN %s ga ON gga.game_id = ga.id "+
		"WHERE ga.game_purpose = %s%s"+
		"ORDER BY %s ASC, gga.game_id ASC, gga.step_number ASC "+
		"LIMIT %s OFFSET %s",
		actionColumns, WindowSource(q), GameTable, d.Placeholder(1), PartitionClause(q),
		orderExpression(), d.Placeholder(2), d.Placeholder(3))
	return sql, []any{int32(q.Purpose), limit, offset}
}
