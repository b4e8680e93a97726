package custodian

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/custodian/custodiantest/assert"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetHeight(ctx); ok {
		t.Fatal("empty context must not carry a height")
	}

	ctx = WithHeight(ctx, 42)
	height, ok := GetHeight(ctx)
	if !ok {
		t.Fatal("height not present")
	}
	assert.Equal(t, int64(42), height)
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()

	if _, err := BlockTime(ctx); err == nil {
		t.Fatal("empty context must not carry a block time")
	}

	now := time.Unix(1234567890, 0)
	ctx = WithBlockTime(ctx, now)

	got, err := BlockTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, now, got)
	assert.Equal(t, UnixTime(1234567890), CurrentTime(ctx))
}

func TestCurrentTimePanicsWithoutClock(t *testing.T) {
	assert.Panics(t, func() {
		CurrentTime(context.Background())
	})
}

func TestDeadlineComparisons(t *testing.T) {
	now := UnixTime(1000)
	ctx := WithBlockTime(context.Background(), now.Time())

	// expiry is exclusive of the deadline instant
	assert.Equal(t, false, IsExpired(ctx, now+1))
	assert.Equal(t, false, IsExpired(ctx, now))
	assert.Equal(t, true, IsExpired(ctx, now-1))

	// reaching a point in time is inclusive
	assert.Equal(t, false, IsReached(ctx, now+1))
	assert.Equal(t, true, IsReached(ctx, now))
	assert.Equal(t, true, IsReached(ctx, now-1))
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	// missing logger falls back to the default
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	ctx = WithLogger(ctx, DefaultLogger)
	assert.Equal(t, DefaultLogger, GetLogger(ctx))
}
