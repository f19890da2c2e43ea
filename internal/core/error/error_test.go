package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, redis.Nil)

	err = WrapRedis(fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, StatusOf(err))

	err = WrapRedis(errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Contains(t, err.Error(), RedisErrorMessage)
}

func TestWrapPostgres(t *testing.T) {
	assert.NoError(t, WrapPostgres(nil))

	err := fmt.Errorf("get item: %w", WrapPostgres(pgx.ErrNoRows))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))

	err = WrapPostgres(errors.New("conn closed"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestWrapModel(t *testing.T) {
	assert.NoError(t, WrapModel(nil))
	err := WrapModel(errors.New("503"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, ModelErrorMessage+": 503", err.Error())
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.Equal(t, "bad", New(nil, http.StatusBadRequest, "bad").Error())
}
