package asyncfsm

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/enetx/g"
)

// Future is the read side of an asynchronous computation. It settles exactly
// once, either with a value or with an error.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	result g.Result[T]
}

// Promise is the write side of a Future. Only the first completion takes effect;
// later calls are ignored.
type Promise[T any] struct {
	future *Future[T]
}

// NewFuture returns an unsettled future and the promise that settles it.
func NewFuture[T any]() (*Future[T], *Promise[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return f, &Promise[T]{future: f}
}

// Go runs fn in a new goroutine and returns a future of its result.
// A panic in fn settles the future with an *ErrPanic.
func Go[T any](fn func() (T, error)) *Future[T] {
	return GoContext(context.Background(), func(context.Context) (T, error) { return fn() })
}

// GoContext is like Go but hands ctx to fn.
func GoContext[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f, p := NewFuture[T]()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.Failure(&ErrPanic{Value: r, Stack: debug.Stack()})
			}
		}()

		p.Complete(fn(ctx))
	}()

	return f
}

// Resolved returns a future already settled with value.
func Resolved[T any](value T) *Future[T] {
	f, p := NewFuture[T]()
	p.Success(value)

	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f, p := NewFuture[T]()
	p.Failure(err)

	return f
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the future settles and returns its value and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result.Result()
}

// AwaitContext is like Await but gives up when ctx is done. Giving up does not
// cancel the underlying computation.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the settled result without blocking, or None if the future is pending.
func (f *Future[T]) Result() g.Option[g.Result[T]] {
	select {
	case <-f.done:
		return g.Some(f.result)
	default:
		return g.None[g.Result[T]]()
	}
}

func (p *Promise[T]) fulfill(result g.Result[T]) {
	p.future.once.Do(func() {
		p.future.result = result
		close(p.future.done)
	})
}

// Success settles the future with value.
func (p *Promise[T]) Success(value T) { p.fulfill(g.Ok(value)) }

// Failure settles the future with err.
func (p *Promise[T]) Failure(err error) { p.fulfill(g.Err[T](err)) }

// Complete settles the future following Go's (value, error) convention.
func (p *Promise[T]) Complete(value T, err error) {
	if err != nil {
		p.Failure(err)
		return
	}

	p.Success(value)
}

// Do adapts a blocking function into an Action that runs it in its own goroutine.
func Do(fn func(ctx context.Context, args ...any) (any, error)) Action {
	return func(ctx context.Context, args ...any) *Future[any] {
		return GoContext(ctx, func(ctx context.Context) (any, error) { return fn(ctx, args...) })
	}
}

// Noop returns an Action that succeeds immediately with a nil value.
func Noop() Action {
	return func(context.Context, ...any) *Future[any] { return Resolved[any](nil) }
}
