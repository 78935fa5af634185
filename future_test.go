package asyncfsm_test

import (
	"context"
	"testing"
	"time"

	. "github.com/enetx/asyncfsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_Go(t *testing.T) {
	value, err := Go(func() (int, error) { return 42, nil }).Await()
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	_, err = Go(func() (int, error) { return 0, errBoom }).Await()
	require.ErrorIs(t, err, errBoom)
}

func TestFuture_GoRecoversPanic(t *testing.T) {
	_, err := Go(func() (string, error) { panic(errBoom) }).Await()

	var target *ErrPanic
	require.ErrorAs(t, err, &target)
	require.ErrorIs(t, err, errBoom)
	assert.NotEmpty(t, target.Stack)
}

func TestFuture_PromiseSettlesOnce(t *testing.T) {
	fut, promise := NewFuture[string]()
	assert.True(t, fut.Result().IsNone())

	promise.Success("first")
	promise.Failure(errBoom)
	promise.Complete("third", nil)

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	res := fut.Result()
	require.True(t, res.IsSome())
	assert.True(t, res.Some().IsOk())
}

func TestFuture_Complete(t *testing.T) {
	fut, promise := NewFuture[int]()
	promise.Complete(7, errBoom)

	_, err := fut.Await()
	require.ErrorIs(t, err, errBoom)

	select {
	case <-fut.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestFuture_AwaitContext(t *testing.T) {
	fut, promise := NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.AwaitContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	promise.Success(1)

	value, err := fut.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestFuture_GoContextPassesContext(t *testing.T) {
	type key struct{}

	ctx := context.WithValue(context.Background(), key{}, "v")

	value, err := GoContext(ctx, func(ctx context.Context) (any, error) {
		return ctx.Value(key{}), nil
	}).Await()
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestFuture_Settled(t *testing.T) {
	value, err := Resolved("ok").Await()
	require.NoError(t, err)
	assert.Equal(t, "ok", value)

	_, err = Rejected[string](errBoom).Await()
	require.ErrorIs(t, err, errBoom)

	value2, err := Noop()(context.Background()).Await()
	require.NoError(t, err)
	assert.Nil(t, value2)
}
