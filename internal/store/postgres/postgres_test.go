package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	var pgErr = &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	var err = describe(fmt.Errorf("insert: %w", pgErr))
	assert.Contains(t, err.Error(), "23505")
	assert.Contains(t, err.Error(), "duplicate key value")

	var target *pgconn.PgError
	assert.True(t, errors.As(err, &target))

	var plain = errors.New("dial tcp: refused")
	assert.Equal(t, plain, describe(plain))
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz", zerolog.Nop())
	assert.Error(t, err)
}
