/*
Context carries the per-call environment provided by the host: the
current block time, the height of the underlying log and a logger.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package custodian

import (
	"context"
	"time"

	"github.com/iov-one/custodian/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a "dressed up" name for context.Context.
type Context = context.Context

type contextKey int // local to the custodian module

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyLogger
)

// DefaultLogger is used for all context that have not
// set anything themselves.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the position in the host's serialized log for this call.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current log position if present.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the current time for this call. Every deadline
// comparison inside one call uses this one value.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the current time as declared by the host.
// An error is returned when the time was not provided.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return val, nil
}

// WithLogger sets the logger for this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the context, or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// CurrentTime returns the current call time as UnixTime. This function
// panics when the block time is not present in the context, because
// running without a clock is a broken setup and not a user error.
func CurrentTime(ctx Context) UnixTime {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return AsUnixTime(now)
}

// IsExpired returns true if given deadline lies in the past as compared
// to the "now" declared for this call. A deadline equal to the current
// time is not yet expired.
func IsExpired(ctx Context, t UnixTime) bool {
	return t < CurrentTime(ctx)
}

// IsReached returns true if the given point in time is the current call
// time or lies in the past. Used for timelocks and advisory unfreeze
// times, which are inclusive of their deadline instant.
func IsReached(ctx Context, t UnixTime) bool {
	return t <= CurrentTime(ctx)
}
